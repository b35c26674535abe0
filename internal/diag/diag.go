// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

// Package diag prints compiler output for people: one line per diagnostic
// or token.
package diag

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"gopkg.funfront.dev/compiler.go/internal/exc"
	"gopkg.funfront.dev/compiler.go/internal/lang"
)

type Printer struct {
	out      io.Writer
	location *color.Color
	code     *color.Color
	ok       *color.Color
}

// NewPrinter returns a Printer writing to out. Color escapes are only
// written when useColor is set.
func NewPrinter(out io.Writer, useColor bool) *Printer {
	p := &Printer{
		out:      out,
		location: color.New(color.Bold),
		code:     color.New(color.FgRed, color.Bold),
		ok:       color.New(color.FgGreen),
	}
	for _, c := range []*color.Color{p.location, p.code, p.ok} {
		if useColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// Errors prints every error held by err and returns how many were printed.
func (p *Printer) Errors(err error) int {
	count := 0
	for _, e := range exc.Flatten(err) {
		var ex exc.Exception
		if errors.As(e, &ex) {
			fmt.Fprintf(p.out, "%s -- %s: %s\n", p.location.Sprint(ex.Location()), p.code.Sprint(ex.Code()), ex.Message())
		} else {
			fmt.Fprintf(p.out, "%s: %s\n", p.code.Sprint("error"), e)
		}
		count = count + 1
	}
	return count
}

func (p *Printer) OK(uri string, functions int) {
	fmt.Fprintf(p.out, "%s: %s (%d functions)\n", p.location.Sprint(uri), p.ok.Sprint("no errors"), functions)
}

// Tokens prints one line per token: kind, lexeme, and line:column.
func (p *Printer) Tokens(uri string, tokens []lang.Token) {
	fmt.Fprintf(p.out, "%s:\n", p.location.Sprint(uri))
	for _, t := range tokens {
		fmt.Fprintf(p.out, "  %s\n", t)
	}
}
