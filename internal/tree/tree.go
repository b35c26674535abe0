// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

// Package tree renders parsed programs for inspection.
package tree

import (
	"fmt"
	"io"
	"strconv"

	"github.com/kr/pretty"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"gopkg.funfront.dev/compiler.go/internal/compiler/fun"
	"gopkg.funfront.dev/compiler.go/internal/lang"
)

type Format string

const (
	FormatText  Format = "text"
	FormatGo    Format = "go"
	FormatJSON  Format = "json"
	FormatProto Format = "proto"
)

var Formats = []Format{FormatText, FormatGo, FormatJSON, FormatProto}

func ParseFormat(s string) (Format, error) {
	for _, f := range Formats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown tree format %q", s)
}

// Render writes program to w. Text is the parenthesised source form, go is
// the Go syntax of the tree, json and proto are the protobuf encodings of a
// google.protobuf.Value describing the tree.
func Render(w io.Writer, program *fun.Program, format Format) error {
	switch format {
	case FormatText:
		_, err := fmt.Fprintln(w, program.String())
		return err
	case FormatGo:
		_, err := pretty.Fprintf(w, "%# v\n", program)
		return err
	case FormatJSON:
		b, err := protojson.MarshalOptions{Multiline: true}.Marshal(ToValue(program))
		if err != nil {
			return err
		}
		_, err = w.Write(append(b, '\n'))
		return err
	case FormatProto:
		b, err := proto.MarshalOptions{Deterministic: true}.Marshal(ToValue(program))
		if err != nil {
			return err
		}
		_, err = w.Write(b)
		return err
	default:
		return fmt.Errorf("unknown tree format %q", format)
	}
}

// ToValue converts program to a generic protobuf value. Every node is a
// struct with a "kind" field. Number literals are strings so that 64 bit
// values survive the float encoding of google.protobuf.Value.
func ToValue(program *fun.Program) *structpb.Value {
	functions := make([]*structpb.Value, 0, len(program.Functions))
	for _, f := range program.Functions {
		functions = append(functions, functionValue(f))
	}
	return node("Program", map[string]*structpb.Value{
		"uri":       structpb.NewStringValue(program.URI),
		"functions": list(functions),
	})
}

func functionValue(f *fun.Function) *structpb.Value {
	parameters := make([]*structpb.Value, 0, len(f.Parameters))
	for _, p := range f.Parameters {
		parameters = append(parameters, positioned("Parameter", p.Pos, map[string]*structpb.Value{
			"type": structpb.NewStringValue(p.Type.String()),
			"name": structpb.NewStringValue(p.Name),
		}))
	}
	return positioned("Function", f.Pos, map[string]*structpb.Value{
		"result":     structpb.NewStringValue(f.Result.String()),
		"name":       structpb.NewStringValue(f.Name),
		"parameters": list(parameters),
		"body":       expressionValue(f.Body),
	})
}

func expressionValue(expression fun.Expression) *structpb.Value {
	switch e := expression.(type) {
	case *fun.NumberLiteral:
		return positioned("Number", e.Pos, map[string]*structpb.Value{
			"value": structpb.NewStringValue(strconv.FormatUint(e.Value, 10)),
		})
	case *fun.BoolLiteral:
		return positioned("Bool", e.Pos, map[string]*structpb.Value{
			"value": structpb.NewBoolValue(e.Value),
		})
	case *fun.Variable:
		return positioned("Variable", e.Pos, map[string]*structpb.Value{
			"name": structpb.NewStringValue(e.Name),
		})
	case *fun.Add:
		return positioned("Add", e.Pos, map[string]*structpb.Value{
			"left":  expressionValue(e.Left),
			"right": expressionValue(e.Right),
		})
	case *fun.Equals:
		return positioned("Equals", e.Pos, map[string]*structpb.Value{
			"left":  expressionValue(e.Left),
			"right": expressionValue(e.Right),
		})
	case *fun.Conditional:
		return positioned("Conditional", e.Pos, map[string]*structpb.Value{
			"condition": expressionValue(e.Condition),
			"then":      expressionValue(e.Then),
			"else":      expressionValue(e.Else),
		})
	case *fun.Call:
		arguments := make([]*structpb.Value, 0, len(e.Arguments))
		for _, a := range e.Arguments {
			arguments = append(arguments, expressionValue(a))
		}
		return positioned("Call", e.Pos, map[string]*structpb.Value{
			"callee":    structpb.NewStringValue(e.Callee),
			"arguments": list(arguments),
		})
	case *fun.Let:
		return positioned("Let", e.Pos, map[string]*structpb.Value{
			"name":  structpb.NewStringValue(e.Name),
			"value": expressionValue(e.Value),
			"body":  expressionValue(e.Body),
		})
	default:
		return structpb.NewNullValue()
	}
}

func node(kind string, fields map[string]*structpb.Value) *structpb.Value {
	fields["kind"] = structpb.NewStringValue(kind)
	return structpb.NewStructValue(&structpb.Struct{Fields: fields})
}

func positioned(kind string, loc lang.Location, fields map[string]*structpb.Value) *structpb.Value {
	fields["line"] = structpb.NewNumberValue(float64(loc.Line))
	fields["column"] = structpb.NewNumberValue(float64(loc.Column))
	return node(kind, fields)
}

func list(values []*structpb.Value) *structpb.Value {
	return structpb.NewListValue(&structpb.ListValue{Values: values})
}
