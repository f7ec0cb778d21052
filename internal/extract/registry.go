// Package extract turns raw bank export bytes into normalized transactions.
// A fixed set of named extractors is assembled once at startup; running one
// produces a canonicalized (date-sorted, index-assigned) transaction list.
package extract

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/uttrekk-dev/uttrekk/internal/model"
)

// Func parses raw file bytes into unordered transactions. The filename is
// informational only and never affects parsing.
type Func func(data []byte, filename string) (*RawResult, error)

// Definition describes one named extractor.
type Definition struct {
	Name        string
	Description string
	Formats     []string
	Extract     Func
}

// Info is the client-facing listing entry for an extractor.
type Info struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Formats     []string `json:"supported_formats"`
}

// SkippedRow records why a single source row was left out of the result.
type SkippedRow struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// RawResult is extractor output before canonicalization: transactions in
// source row order, plus any rows the extractor skipped.
type RawResult struct {
	Transactions []model.ExtractedTransaction
	Skipped      []SkippedRow
}

// Result is the final engine output: transactions sorted by date ascending
// with dense zero-based sort indexes.
type Result struct {
	Transactions []model.ExtractedTransaction `json:"transactions"`
	Skipped      []SkippedRow                 `json:"skipped,omitempty"`
}

// ValidationError marks an input problem the caller can correct: an unknown
// extractor name, a missing column, an unresolvable column role, or a file no
// supported encoding can decode.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

// IsValidation reports whether err belongs to the validation class that maps
// to a client-error response.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func validationf(format string, args ...any) error {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

// asValidation reclassifies a decode failure as client-correctable.
func asValidation(err error) error {
	return &ValidationError{msg: err.Error()}
}

// Registry is an immutable name -> extractor lookup built once at startup.
type Registry struct {
	defs   []Definition
	byName map[string]int
}

// NewRegistry builds a registry from an explicit definition list. Two
// definitions sharing a name is a configuration defect; the later one wins.
func NewRegistry(defs ...Definition) *Registry {
	r := &Registry{
		defs:   defs,
		byName: make(map[string]int, len(defs)),
	}
	for i, d := range defs {
		r.byName[d.Name] = i
	}
	return r
}

// Default assembles every shipped extractor. This is the single place the
// complete extractor set is enumerated.
func Default() *Registry {
	return NewRegistry(
		dnbMastercard(),
		amexNorway(),
		sb1Credit(),
		sb1Common(),
		sb1Debit(),
		genericCSV(),
	)
}

// List returns the client-facing info for every registered extractor, in
// registration order.
func (r *Registry) List() []Info {
	infos := make([]Info, 0, len(r.defs))
	for _, d := range r.defs {
		infos = append(infos, Info{Name: d.Name, Description: d.Description, Formats: d.Formats})
	}
	return infos
}

// Names returns all registered extractor names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Run looks up the named extractor, invokes it on the file bytes, and
// canonicalizes its output.
func (r *Registry) Run(name string, data []byte, filename string) (*Result, error) {
	i, ok := r.byName[name]
	if !ok {
		return nil, validationf("unknown extractor: %s (available: %s)", name, strings.Join(r.Names(), ", "))
	}
	raw, err := r.defs[i].Extract(data, filename)
	if err != nil {
		return nil, err
	}
	return canonicalize(raw), nil
}

// canonicalize sorts transactions by date ascending (stable, so ties keep
// source row order) and assigns each its zero-based position.
func canonicalize(raw *RawResult) *Result {
	txns := make([]model.ExtractedTransaction, len(raw.Transactions))
	copy(txns, raw.Transactions)

	sort.SliceStable(txns, func(i, j int) bool {
		return txns[i].Date < txns[j].Date
	})
	for i := range txns {
		txns[i].SortIndex = i
	}

	return &Result{Transactions: txns, Skipped: raw.Skipped}
}
