// Package fragment implements the fragment-masking runtime used by
// generated code.
//
// A Ref is an opaque reference to data selected by a fragment: the
// underlying shape is only reachable through the Unmask function family,
// keyed by the fragment's document handle. The payload field stays
// unexported so code outside this package can neither forge a reference nor
// reach into one.
package fragment

import "github.com/syssam/gqlc"

// Ref is a masked reference to data selected by fragment F. The zero value
// is an empty reference.
type Ref[F any] struct {
	data F
}

// fragmentData exposes the payload to the readiness predicate in this
// package without widening the public surface.
func (r Ref[F]) fragmentData() any { return r.data }

// Unmask returns the fragment data held by ref. This is the non-nullable,
// single-value form of the unmask family.
func Unmask[F any](_ gqlc.FragmentDocument[F], ref Ref[F]) F {
	return ref.data
}

// UnmaskPtr is the nullable form of Unmask. A nil reference unmasks to nil.
func UnmaskPtr[F any](_ gqlc.FragmentDocument[F], ref *Ref[F]) *F {
	if ref == nil {
		return nil
	}
	return &ref.data
}

// UnmaskSlice is the list form of Unmask. A nil slice unmasks to nil.
func UnmaskSlice[F any](_ gqlc.FragmentDocument[F], refs []Ref[F]) []F {
	if refs == nil {
		return nil
	}
	out := make([]F, len(refs))
	for i := range refs {
		out[i] = refs[i].data
	}
	return out
}

// UnmaskPtrSlice is the nullable-list form of Unmask. A nil pointer unmasks
// to nil.
func UnmaskPtrSlice[F any](doc gqlc.FragmentDocument[F], refs *[]Ref[F]) *[]F {
	if refs == nil {
		return nil
	}
	out := UnmaskSlice(doc, *refs)
	return &out
}

// MakeFragmentData reinterprets already-typed data as a masked reference for
// the given fragment document. It exists for test fixtures and mock data
// constructors that need to hand-produce a masked value without going
// through a real query.
func MakeFragmentData[F any](data F, _ gqlc.FragmentDocument[F]) Ref[F] {
	return Ref[F]{data: data}
}
