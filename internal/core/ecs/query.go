package ecs

import "iter"

// Access declares how a query term touches its component kind. The
// declaration documents intent and drives matching; it is not enforced, and
// Field hands out the stored component for every access mode.
type Access uint8

const (
	AccessRead Access = iota + 1
	AccessWrite
	AccessOptional
)

func (a Access) String() string {
	switch a {
	case AccessRead:
		return "read"
	case AccessWrite:
		return "write"
	case AccessOptional:
		return "optional"
	}
	return "unknown"
}

// Term is one component access requirement of a query.
type Term struct {
	Kind   Kind
	Access Access
}

func Read[T any]() Term     { return Term{Kind: KindOf[T](), Access: AccessRead} }
func Write[T any]() Term    { return Term{Kind: KindOf[T](), Access: AccessWrite} }
func Optional[T any]() Term { return Term{Kind: KindOf[T](), Access: AccessOptional} }

// Filter restricts matches by presence or absence of a component or tag
// without granting access to it.
type Filter struct {
	Kind    Kind
	Present bool
}

func With[T any]() Filter    { return Filter{Kind: KindOf[T](), Present: true} }
func Without[T any]() Filter { return Filter{Kind: KindOf[T](), Present: false} }

// Query is a fixed set of access requirements evaluated against a World.
// Build it once and reuse it across runs; each Iter call yields a fresh,
// single-use sequence.
type Query struct {
	terms   []Term
	filters []Filter
	access  map[Kind]Access
}

// NewQuery declares a query. Naming the same kind twice panics: a kind is
// either read, written, or optionally read, never more than one of these.
func NewQuery(terms ...Term) *Query {
	q := &Query{
		terms:  terms,
		access: make(map[Kind]Access, len(terms)),
	}
	for _, t := range terms {
		if prev, dup := q.access[t.Kind]; dup {
			panic("ecs: query declares " + t.Kind.String() + " twice (" + prev.String() + ", " + t.Access.String() + ")")
		}
		q.access[t.Kind] = t.Access
	}
	return q
}

// Filter appends presence filters and returns q.
func (q *Query) Filter(filters ...Filter) *Query {
	for _, f := range filters {
		if _, declared := q.access[f.Kind]; declared {
			panic("ecs: query filters on accessed kind " + f.Kind.String())
		}
	}
	q.filters = append(q.filters, filters...)
	return q
}

// Iter returns the sequence of rows matching q at the moment ranging starts.
// Rows are yielded in ascending entity order. The sequence can be ranged
// once; structural changes to w are refused until ranging stops.
func (q *Query) Iter(w *World) iter.Seq[*Row] {
	used := false
	return func(yield func(*Row) bool) {
		if used {
			panic("ecs: query sequence ranged twice")
		}
		used = true
		ids := q.match(w)
		w.iterating++
		defer func() { w.iterating-- }()
		row := &Row{w: w, q: q}
		for _, id := range ids {
			row.id = id
			if !yield(row) {
				return
			}
		}
	}
}

// Entities returns the matching entities without granting field access.
func (q *Query) Entities(w *World) []EntityID {
	return q.match(w)
}

// Count returns the number of entities currently matching q.
func (q *Query) Count(w *World) int {
	return len(q.match(w))
}

// First returns the lowest matching entity.
func (q *Query) First(w *World) (EntityID, bool) {
	ids := q.match(w)
	if len(ids) == 0 {
		return 0, false
	}
	return ids[0], true
}

func (q *Query) match(w *World) []EntityID {
	var driver Removable
	required := make([]Kind, 0, len(q.terms)+len(q.filters))
	for _, t := range q.terms {
		if t.Access != AccessOptional {
			required = append(required, t.Kind)
		}
	}
	for _, f := range q.filters {
		if f.Present {
			required = append(required, f.Kind)
		}
	}
	if len(required) == 0 {
		panic("ecs: query has no required component or tag")
	}
	for _, k := range required {
		s, ok := w.registry.Lookup(k)
		if !ok {
			return nil
		}
		if driver == nil || s.Len() < driver.Len() {
			driver = s
		}
	}

	candidates := driver.IDs()
	out := candidates[:0]
	for _, id := range candidates {
		if q.matches(w, id, required) {
			out = append(out, id)
		}
	}
	return out
}

func (q *Query) matches(w *World, id EntityID, required []Kind) bool {
	for _, k := range required {
		if !w.HasKind(id, k) {
			return false
		}
	}
	for _, f := range q.filters {
		if !f.Present && w.HasKind(id, f.Kind) {
			return false
		}
	}
	return true
}

// Row is the current element of a query iteration. It is only valid inside
// the loop body that received it.
type Row struct {
	w  *World
	q  *Query
	id EntityID
}

func (r *Row) Entity() EntityID { return r.id }

// World returns the world being iterated, for non-structural lookups of
// other entities.
func (r *Row) World() *World { return r.w }

// Field returns a pointer to the row's stored component of type T. Read terms
// get the same pointer as Write terms, so writing through it is not caught.
// Optional terms yield nil when absent. Requesting a kind the query did not
// declare panics.
func Field[T any](r *Row) *T {
	k := KindOf[T]()
	access, ok := r.q.access[k]
	if !ok {
		panic("ecs: query did not declare " + k.String())
	}
	c, ok := Get[T](r.w, r.id)
	if !ok {
		if access == AccessOptional {
			return nil
		}
		panic("ecs: required " + k.String() + " missing on " + r.id.String())
	}
	return c
}
