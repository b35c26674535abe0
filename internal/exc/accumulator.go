// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package exc

import (
	"strings"
	"sync"

	"github.com/hashicorp/go-multierror"
)

// Reporter is used to accumulate and report errors during compilation. The
// general idea is that compilation processes can decide to report an error
// but continue processing rather than fail outright in some cases. The lexer
// does this for every illegal character. The final error set can then be
// shown to the user.
type Reporter interface {
	// Report adds the given record to the set. If this method returns an error
	// then the given error is considered fatal.
	Report(Exception) Exception
	// Reported returns the set of accumulated exceptions.
	Reported() []Exception
}

// NewReporter returns a concurrent-safe implementation of Reporter.
func NewReporter(nonFatal []string) Reporter {
	nf := make(map[string]bool, len(defaultNonFatal))
	for k := range defaultNonFatal {
		nf[k] = true
	}
	for _, k := range nonFatal {
		nf[k] = true
	}
	return &reporterLock{
		Reporter: &reporter{
			nonFatal: nf,
		},
		lock: &sync.Mutex{},
	}
}

type reporter struct {
	reported []Exception
	nonFatal map[string]bool
}

func (r *reporter) Report(e Exception) Exception {
	r.reported = append(r.reported, e)
	if r.nonFatal[e.Code()] {
		return nil
	}
	return e
}

func (r *reporter) Reported() []Exception {
	out := make([]Exception, len(r.reported))
	copy(out, r.reported)
	return out
}

type reporterLock struct {
	Reporter
	lock sync.Locker
}

func (r *reporterLock) Report(e Exception) Exception {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.Reporter.Report(e)
}

func (r *reporterLock) Reported() []Exception {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.Reporter.Reported()
}

// Combine folds a set of exceptions into a single error. It returns nil for
// an empty set and the exception itself for a set of one. Larger sets become a
// *multierror.Error that prints one exception per line.
func Combine(es []Exception) error {
	switch len(es) {
	case 0:
		return nil
	case 1:
		return es[0]
	}
	var result *multierror.Error
	for _, e := range es {
		result = multierror.Append(result, e)
	}
	result.ErrorFormat = formatLines
	return result
}

// Flatten returns the individual errors held by err. Nested multierrors are
// expanded in order.
func Flatten(err error) []error {
	if err == nil {
		return nil
	}
	merr, ok := err.(*multierror.Error)
	if !ok {
		return []error{err}
	}
	var out []error
	for _, e := range merr.Errors {
		out = append(out, Flatten(e)...)
	}
	return out
}

func formatLines(es []error) string {
	lines := make([]string, 0, len(es))
	for _, e := range es {
		lines = append(lines, e.Error())
	}
	return strings.Join(lines, "\n")
}
