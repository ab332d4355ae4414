// Package sample is a small module for loader tests.
package sample

import (
	"fmt"
	"io"
)

// Option configures a Greeter.
type Option func(*Greeter)

// Greeter writes greetings.
//
//ignorefile:ignore printf - legacy format strings
type Greeter struct {
	w io.Writer
}

// New returns a Greeter writing to w.
func New(w io.Writer, opts ...Option) *Greeter {
	g := &Greeter{w: w}
	for _, opt := range opts {
		opt(g)
	}

	return g
}

func (g *Greeter) Hello(name string) {
	fmt.Fprintf(g.w, "hello %s\n", name)
}

func (g Greeter) bye() {} //ignorefile:ignore

type (
	ID    int
	Names []string
)
