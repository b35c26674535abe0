package compiler

import (
	"fmt"

	"gopkg.funfront.dev/compiler.go/internal/compiler/fun"
	"gopkg.funfront.dev/compiler.go/internal/exc"
)

// check applies the strict naming rules to a parsed program.
// reports: duplicate parameter names, duplicate function names, calls to
// functions the file does not define
func check(program *fun.Program, symbols *symbolTable, reporter exc.Reporter) error {
	checker := programChecker{
		program:  program,
		symbols:  symbols,
		reporter: reporter,
	}
	checker.check()
	if err := symbols.collect(program, reporter); err != nil {
		checker.failed = true
	}
	checker.checkCalls()
	if checker.failed {
		return exc.New(exc.Location{URI: program.URI}, exc.CodeUnknownFatal, "strict checks failed")
	}
	return nil
}

type programChecker struct {
	program  *fun.Program
	symbols  *symbolTable
	reporter exc.Reporter
	failed   bool
}

func (c *programChecker) check() {
	fun.WalkProgram(c.program, func(node interface{}) {
		if function, ok := node.(*fun.Function); ok {
			c.checkParameters(function)
		}
	})
}

func (c *programChecker) checkParameters(function *fun.Function) {
	seen := make(map[string]bool, len(function.Parameters))
	for _, parameter := range function.Parameters {
		if seen[parameter.Name] {
			c.failed = true
			_ = c.reporter.Report(exc.New(exc.Location{
				URI:      c.program.URI,
				Location: parameter.Pos,
			}, exc.CodeDuplicateParam, fmt.Sprintf("duplicate parameter %s in function %s", parameter.Name, function.Name)))
			continue
		}
		seen[parameter.Name] = true
	}
}

// checkCalls must run after the program was collected into the symbol table.
func (c *programChecker) checkCalls() {
	fun.WalkProgram(c.program, func(node interface{}) {
		call, ok := node.(*fun.Call)
		if !ok {
			return
		}
		if _, ok := c.symbols.lookup(c.program.URI, call.Callee); ok {
			return
		}
		c.failed = true
		_ = c.reporter.Report(exc.New(exc.Location{
			URI:      c.program.URI,
			Location: call.Pos,
		}, exc.CodeUndefinedFunction, fmt.Sprintf("call to undefined function %s", call.Callee)))
	})
}
