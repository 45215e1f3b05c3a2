package database

import "math"

// Kind names one of the record collections the façade can operate on.
type Kind int

const (
	KindGame Kind = iota + 1
	KindCategory
	KindPlatform
	KindSystemRequirement
	KindGamePlatformDetail
	KindGameCategory
	KindGamePlatform
	KindAccount
	KindReview
)

func (k Kind) String() string {
	switch k {
	case KindGame:
		return "game"
	case KindCategory:
		return "category"
	case KindPlatform:
		return "platform"
	case KindSystemRequirement:
		return "system requirement"
	case KindGamePlatformDetail:
		return "platform detail"
	case KindGameCategory:
		return "game category"
	case KindGamePlatform:
		return "game platform"
	case KindAccount:
		return "account"
	case KindReview:
		return "review"
	}
	return "record"
}

// Operation is what Execute does with the selector.
type Operation int

const (
	OpSelect Operation = iota + 1
	OpInsert
	OpUpdate
	OpDelete
	OpNavigate
)

func (o Operation) String() string {
	switch o {
	case OpSelect:
		return "select"
	case OpInsert:
		return "insert"
	case OpUpdate:
		return "update"
	case OpDelete:
		return "delete"
	case OpNavigate:
		return "navigate"
	}
	return "query"
}

// MaxID is the largest id the façade accepts. Anything above overflows a signed 64-bit column.
const MaxID = uint64(math.MaxInt64)

// Fields maps a record's Go field name to a value. For filters a value may also be a
// slice, which matches any of its elements.
type Fields map[string]any

// Selector chooses the records an operation applies to and, for writes, carries the payload.
// A zero ID means no id filter.
type Selector struct {
	ID      uint64
	Filters Fields
	Search  Fields
	Data    Fields
}

func ByID(id uint64) Selector           { return Selector{ID: id} }
func ByFilters(filters Fields) Selector { return Selector{Filters: filters} }
func BySearch(search Fields) Selector   { return Selector{Search: search} }
func WithData(data Fields) Selector     { return Selector{Data: data} }
func All() Selector                     { return Selector{} }

// Where returns a copy of s restricted by filters.
func (s Selector) Where(filters Fields) Selector {
	s.Filters = filters
	return s
}

// Set returns a copy of s carrying data as the write payload.
func (s Selector) Set(data Fields) Selector {
	s.Data = data
	return s
}

// Result is what Execute returns. Records keeps storage order (primary key order).
// Prev and Next are only filled by OpNavigate; zero means there is no such neighbour.
// Affected counts the rows removed by OpDelete, children excluded.
type Result struct {
	Records  []any
	Prev     uint
	Next     uint
	Affected int64
}

// Len is the number of records in the result.
func (r Result) Len() int {
	return len(r.Records)
}

// Records returns the records of r that are of type T, usually a model pointer.
func Records[T any](r Result) []T {
	out := make([]T, 0, len(r.Records))
	for _, rec := range r.Records {
		if v, ok := rec.(T); ok {
			out = append(out, v)
		}
	}
	return out
}

// First returns the first record of r as T.
func First[T any](r Result) (T, bool) {
	var zero T
	if len(r.Records) == 0 {
		return zero, false
	}
	v, ok := r.Records[0].(T)
	return v, ok
}
