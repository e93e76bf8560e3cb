// Package rules maps tax years to their federal engine and state modules.
//
// A Registry is built once at startup and injected wherever a year is
// resolved. It is read-only after construction and safe for concurrent use.
package rules

import (
	"errors"
	"fmt"
	"sort"

	"taxengine/internal/core"
	"taxengine/internal/federal"
	"taxengine/internal/state"
	"taxengine/internal/taxtable"
)

var (
	ErrUnsupportedYear = errors.New("unsupported tax year")

	// ErrStateModuleMissing means a state the return requires has no module
	// for the year.
	ErrStateModuleMissing = errors.New("state module missing")
)

// LookupError carries the year or state that failed to resolve.
type LookupError struct {
	Kind error
	Msg  string
}

func (e *LookupError) Error() string {
	if e == nil {
		return ""
	}
	if e.Msg == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Msg)
}

func (e *LookupError) Unwrap() error { return e.Kind }

// YearModule is everything that varies by tax year.
type YearModule interface {
	TaxYear() int
	ComputeForm1040(tr *core.TaxReturn) federal.Form1040Result
	ComputeScheduleB(tr *core.TaxReturn) federal.ScheduleB
	StandardDeduction(fs core.FilingStatus) core.Cents
	StateModule(code state.Code) (state.Module, bool)
	// StateCodes lists the states with a module, in code order.
	StateCodes() []state.Code
}

type yearModule struct {
	*federal.Engine
	states map[state.Code]state.Module
}

// NewYearModule pairs a federal engine with the year's state modules. A
// later module for the same code replaces an earlier one.
func NewYearModule(fed *federal.Engine, states ...state.Module) YearModule {
	m := &yearModule{Engine: fed, states: make(map[state.Code]state.Module, len(states))}
	for _, s := range states {
		m.states[s.Code()] = s
	}
	return m
}

func (m *yearModule) StateModule(code state.Code) (state.Module, bool) {
	s, ok := m.states[code]
	return s, ok
}

func (m *yearModule) StateCodes() []state.Code {
	codes := make([]state.Code, 0, len(m.states))
	for c := range m.states {
		codes = append(codes, c)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	return codes
}

// Registry resolves tax years.
type Registry struct {
	years map[int]YearModule
}

// NewRegistry registers mods by TaxYear. Tests use it to inject fakes.
func NewRegistry(mods ...YearModule) *Registry {
	r := &Registry{years: make(map[int]YearModule, len(mods))}
	for _, m := range mods {
		r.years[m.TaxYear()] = m
	}
	return r
}

// Default registers every year with compiled constants.
func Default() *Registry {
	var mods []YearModule
	for _, y := range []taxtable.Year{taxtable.Y2024(), taxtable.Y2025()} {
		states, _ := state.ForYear(y.Year)
		mods = append(mods, NewYearModule(federal.New(y), states...))
	}
	return NewRegistry(mods...)
}

// YearModule returns the module for year or an ErrUnsupportedYear error.
func (r *Registry) YearModule(year int) (YearModule, error) {
	m, ok := r.years[year]
	if !ok {
		return nil, &LookupError{Kind: ErrUnsupportedYear, Msg: fmt.Sprintf("%d (supported: %v)", year, r.Years())}
	}
	return m, nil
}

// Years lists the supported years in ascending order.
func (r *Registry) Years() []int {
	years := make([]int, 0, len(r.years))
	for y := range r.years {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// StateModule resolves code within year. A missing module is an
// ErrStateModuleMissing error; callers decide whether that is fatal.
func (r *Registry) StateModule(year int, code state.Code) (state.Module, error) {
	m, err := r.YearModule(year)
	if err != nil {
		return nil, err
	}
	s, ok := m.StateModule(code)
	if !ok {
		return nil, &LookupError{Kind: ErrStateModuleMissing, Msg: fmt.Sprintf("%s for %d", code, year)}
	}
	return s, nil
}
