// Package findings reads and writes findings as JSON.
//
// The format is
//
//	{"findings": [{
//	    "rule": "printf",
//	    "target": {"kind": "method", "name": "example.com/app.Logger::Logf(string, ...any)"},
//	    "location": {"kind": "method", "name": "example.com/app.Logger::Logf(string, ...any)"},
//	    "posn": "/src/app/logger.go:12:3",
//	    "message": "..."
//	}]}
//
// Documents are validated against an embedded JSON Schema before decoding.
package findings

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"go/token"
	"io"
	"strconv"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/mpyw/ignorefile"
	"github.com/mpyw/ignorefile/internal/corpus"
)

//go:embed schema.json
var schema string

// ErrUnknownEntity is returned by [Decode] when a finding names an entity
// that is not in the corpus.
var ErrUnknownEntity = errors.New("unknown entity")

// Document is the top-level JSON object.
type Document struct {
	Findings []Record `json:"findings"`
}

// Record is one finding.
type Record struct {
	Rule     string `json:"rule"`
	Target   *Ref   `json:"target,omitempty"`
	Location *Ref   `json:"location,omitempty"`
	Posn     string `json:"posn,omitempty"`
	Message  string `json:"message"`
}

// Ref names an entity.
type Ref struct {
	Kind string `json:"kind"`
	Name string `json:"name"`
}

func refOf(e corpus.Entity) *Ref {
	if e == nil {
		return nil
	}

	return &Ref{Kind: e.Kind().String(), Name: e.FullName()}
}

// FromFindings converts findings to their JSON form.
func FromFindings(fs []ignorefile.Finding) Document {
	doc := Document{Findings: make([]Record, 0, len(fs))}
	for _, f := range fs {
		r := Record{
			Rule:     f.Rule,
			Target:   refOf(f.Target),
			Location: refOf(f.Location),
			Message:  f.Message,
		}
		if f.Pos.IsValid() {
			r.Posn = f.Pos.String()
		}
		doc.Findings = append(doc.Findings, r)
	}

	return doc
}

// Encode writes fs as an indented JSON document.
func Encode(w io.Writer, fs []ignorefile.Finding) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if err := enc.Encode(FromFindings(fs)); err != nil {
		return fmt.Errorf("encode findings: %w", err)
	}

	return nil
}

// ValidationError represents a schema validation error with field paths.
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field.
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("invalid findings document:\n")
	for i, err := range ve.Errors {
		fmt.Fprintf(&sb, "  %d. %s: %s\n", i+1, err.Field, err.Message)
	}

	return sb.String()
}

// Validate checks data against the findings schema.
func Validate(data []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return fmt.Errorf("validate findings: %w", err)
	}

	if result.Valid() {
		return nil
	}

	verr := &ValidationError{Errors: make([]FieldError, 0, len(result.Errors()))}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		verr.Errors = append(verr.Errors, FieldError{Field: field, Message: desc.Description()})
	}

	return verr
}

// Decode validates data and resolves every entity it names in c.
func Decode(data []byte, c *corpus.Corpus) ([]ignorefile.Finding, error) {
	if err := Validate(data); err != nil {
		return nil, err
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode findings: %w", err)
	}

	out := make([]ignorefile.Finding, 0, len(doc.Findings))
	for i, r := range doc.Findings {
		target, err := resolve(c, r.Target)
		if err != nil {
			return nil, fmt.Errorf("finding %d target: %w", i, err)
		}

		location, err := resolve(c, r.Location)
		if err != nil {
			return nil, fmt.Errorf("finding %d location: %w", i, err)
		}

		out = append(out, ignorefile.Finding{
			Rule:     r.Rule,
			Target:   target,
			Location: location,
			Pos:      parsePosn(r.Posn),
			Message:  r.Message,
		})
	}

	return out, nil
}

func resolve(c *corpus.Corpus, ref *Ref) (corpus.Entity, error) {
	if ref == nil {
		return nil, nil
	}

	kind, ok := corpus.ParseKind(ref.Kind)
	if !ok {
		return nil, fmt.Errorf("%w: kind %q", ErrUnknownEntity, ref.Kind)
	}

	e, ok := c.Lookup(kind, ref.Name)
	if !ok {
		return nil, fmt.Errorf("%w: %s %s", ErrUnknownEntity, ref.Kind, ref.Name)
	}

	return e, nil
}

// parsePosn is the inverse of token.Position.String for file:line[:column].
func parsePosn(s string) token.Position {
	var pos token.Position
	if s == "" || s == "-" {
		return pos
	}

	rest := s
	nums := make([]int, 0, 2)
	for range 2 {
		i := strings.LastIndexByte(rest, ':')
		if i < 0 {
			break
		}

		n, err := strconv.Atoi(rest[i+1:])
		if err != nil {
			break
		}
		nums = append(nums, n)
		rest = rest[:i]
	}

	pos.Filename = rest
	switch len(nums) {
	case 2:
		pos.Line, pos.Column = nums[1], nums[0]
	case 1:
		pos.Line = nums[0]
	}

	return pos
}
