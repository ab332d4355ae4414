// Package rewrite comments out directive lines in place.
package rewrite

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/google/uuid"
)

// Marker is prefixed to every commented-out line.
const Marker = "##Commented by AutoUpdateIgnore## "

// Rewriter comments out lines of directive files.
type Rewriter struct {
	// TempDir holds the working copy of a file while it is rewritten.
	// Empty means os.TempDir().
	TempDir string
}

// output wraps the destination file while it is rewritten.
var output = func(f *os.File) io.Writer { return f }

// CommentOut prefixes the given 1-based lines of path with [Marker]. Lines
// out of range are ignored. Every other line is copied unchanged. If the
// rewrite fails, the original content is written back; if that fails too,
// the working copy is kept and named in the error.
func (r Rewriter) CommentOut(path string, lines []int) (err error) {
	if len(lines) == 0 {
		return nil
	}

	lines = slices.Clone(lines)
	slices.Sort(lines)
	lines = slices.Compact(lines)

	tmp, err := r.copyToTemp(path)
	if err != nil {
		return err
	}

	keep := false
	defer func() {
		if keep {
			return
		}
		if rmErr := os.Remove(tmp); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) && err == nil {
			err = fmt.Errorf("remove working copy: %w", rmErr)
		}
	}()

	src, err := os.Open(tmp)
	if err != nil {
		return fmt.Errorf("open working copy: %w", err)
	}
	defer src.Close()

	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC, 0)
	if err != nil {
		return fmt.Errorf("open %s for writing: %w", path, err)
	}
	defer func() {
		if cErr := dst.Close(); cErr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cErr)
		}
	}()

	w := bufio.NewWriter(output(dst))
	werr := commentOut(bufio.NewReader(src), w, lines)
	if werr == nil {
		werr = w.Flush()
	}
	if werr == nil {
		return nil
	}

	if rerr := restore(dst, src); rerr != nil {
		keep = true

		return fmt.Errorf("rewrite %s: %w (restore failed, original kept at %s: %w)", path, werr, tmp, rerr)
	}

	return fmt.Errorf("rewrite %s: %w", path, werr)
}

// restore writes the working copy back over the partially rewritten file.
func restore(dst, src *os.File) error {
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return err
	}
	if _, err := dst.Seek(0, io.SeekStart); err != nil {
		return err
	}
	if err := dst.Truncate(0); err != nil {
		return err
	}

	_, err := io.Copy(dst, src)

	return err
}

func (r Rewriter) copyToTemp(path string) (string, error) {
	dir := r.TempDir
	if dir == "" {
		dir = os.TempDir()
	}

	tmp := filepath.Join(dir, filepath.Base(path)+"."+uuid.NewString())

	in, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer in.Close()

	out, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return "", fmt.Errorf("create working copy: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(tmp)

		return "", fmt.Errorf("copy %s: %w", path, err)
	}

	if err := out.Close(); err != nil {
		os.Remove(tmp)

		return "", fmt.Errorf("copy %s: %w", path, err)
	}

	return tmp, nil
}

// commentOut streams r to w. lines must be sorted ascending.
func commentOut(r *bufio.Reader, w *bufio.Writer, lines []int) error {
	next := 0

	for n := 1; ; n++ {
		text, err := r.ReadString('\n')
		if text == "" && err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}

			return err
		}

		for next < len(lines) && lines[next] < n {
			next++
		}

		if next < len(lines) && lines[next] == n {
			if _, werr := w.WriteString(Marker); werr != nil {
				return werr
			}
		}

		if _, werr := w.WriteString(text); werr != nil {
			return werr
		}

		if err != nil {
			if !errors.Is(err, io.EOF) {
				return err
			}

			// last line without terminator
			return w.WriteByte('\n')
		}
	}
}
