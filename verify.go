package apilevel

import (
	"fmt"
	"slices"

	"github.com/hupe1980/apilevel/graph"
	"github.com/hupe1980/apilevel/model"
)

// Mismatch is a query whose answer differs between the model and a Lookup.
type Mismatch struct {
	Query string `json:"query"`
	Want  any    `json:"want"`
	Got   any    `json:"got"`
}

func (m Mismatch) String() string {
	return fmt.Sprintf("%s: want %v, got %v", m.Query, m.Want, m.Got)
}

// Verify asks got every query the API can answer (all classes, every
// reachable member and every class pair for casts) and compares the answers
// with those of the model. It stops after limit mismatches; limit <= 0
// means no limit.
func Verify(api *graph.API, got Lookup, limit int) []Mismatch {
	want := NewModelLookup(api)
	var out []Mismatch

	check := func(query string, w, g any) bool {
		if equalAnswers(w, g) {
			return true
		}
		out = append(out, Mismatch{Query: query, Want: w, Got: g})
		return limit <= 0 || len(out) < limit
	}

	for _, c := range api.Classes() {
		owner := c.Name()
		if !check("ClassVersion "+owner, want.ClassVersion(owner), got.ClassVersion(owner)) ||
			!check("ClassDeprecatedIn "+owner, want.ClassDeprecatedIn(owner), got.ClassDeprecatedIn(owner)) ||
			!check("ClassRemovedIn "+owner, want.ClassRemovedIn(owner), got.ClassRemovedIn(owner)) ||
			!check("RemovedFields "+owner, want.RemovedFields(owner), got.RemovedFields(owner)) ||
			!check("RemovedCalls "+owner, want.RemovedCalls(owner), got.RemovedCalls(owner)) {
			return out
		}

		for _, sig := range c.AllFields(api) {
			q := owner + "." + sig
			if !check("FieldVersion "+q, want.FieldVersion(owner, sig), got.FieldVersion(owner, sig)) ||
				!check("FieldDeprecatedIn "+q, want.FieldDeprecatedIn(owner, sig), got.FieldDeprecatedIn(owner, sig)) ||
				!check("FieldRemovedIn "+q, want.FieldRemovedIn(owner, sig), got.FieldRemovedIn(owner, sig)) {
				return out
			}
		}
		for _, sig := range c.AllMethods(api, true) {
			m := model.Member{Signature: sig}
			name, desc := m.Name(), sig[len(m.Name()):]
			q := owner + "." + sig
			if !check("MethodVersion "+q, want.MethodVersion(owner, name, desc), got.MethodVersion(owner, name, desc)) ||
				!check("MethodDeprecatedIn "+q, want.MethodDeprecatedIn(owner, name, desc), got.MethodDeprecatedIn(owner, name, desc)) ||
				!check("MethodRemovedIn "+q, want.MethodRemovedIn(owner, name, desc), got.MethodRemovedIn(owner, name, desc)) {
				return out
			}
		}
		for _, d := range api.Classes() {
			q := owner + " -> " + d.Name()
			if !check("ValidCastVersion "+q, want.ValidCastVersion(owner, d.Name()), got.ValidCastVersion(owner, d.Name())) {
				return out
			}
		}
	}
	return out
}

func equalAnswers(a, b any) bool {
	am, ok := a.([]model.Member)
	if !ok {
		return a == b
	}
	bm, _ := b.([]model.Member)
	return slices.Equal(am, bm)
}
