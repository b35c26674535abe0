package compiler

import (
	"errors"
	"fmt"
	"sync"

	"gopkg.funfront.dev/compiler.go/internal/compiler/fun"
	"gopkg.funfront.dev/compiler.go/internal/exc"
	"gopkg.funfront.dev/compiler.go/internal/lang"
)

// symbolTable records the functions defined by every file of one compile
// call. Files are collected concurrently.
type symbolTable struct {
	lock      sync.RWMutex
	functions map[string]map[string]lang.Location
}

// symbolTable.collect() populates the table with the functions of a program.
// The first definition of a name wins.
// reports: functions defined more than once in the same file
func (s *symbolTable) collect(program *fun.Program, r exc.Reporter) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.functions == nil {
		s.functions = make(map[string]map[string]lang.Location)
	}
	local := make(map[string]lang.Location, len(program.Functions))
	s.functions[program.URI] = local

	failed := false
	for _, function := range program.Functions {
		if first, ok := local[function.Name]; ok {
			failed = true
			_ = r.Report(exc.New(exc.Location{
				URI:      program.URI,
				Location: function.Pos,
			}, exc.CodeDuplicateFunction, fmt.Sprintf("function %s already defined at %s", function.Name, first)))
			continue
		}
		local[function.Name] = function.Pos
	}
	if failed {
		return errors.New("collect error")
	}
	return nil
}

// lookup returns where name is defined in the file at uri.
func (s *symbolTable) lookup(uri string, name string) (lang.Location, bool) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	loc, ok := s.functions[uri][name]
	return loc, ok
}
