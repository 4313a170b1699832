// Package merger collapses overloaded and declaration-merged members into a
// single member per name.
package merger

import (
	"martianoff/tsreflect/internal/transpiler/typeast"
)

// groupKey identifies a merge group. All call signatures share one group.
type groupKey struct {
	static bool
	call   bool
	name   string
}

type group struct {
	members []*typeast.Member
}

// Merge returns members with every group of same-named properties, methods,
// accessors and call signatures replaced by one member placed where the
// group's first member was. Index signatures, construct signatures and
// constructors pass through unchanged. The input is not modified.
//
// A merged member takes its kind, name, flags and type parameters from the
// first member of the group. Its type is the union of the distinct return
// types, and each parameter position gets the union of the distinct types
// declared there by the variants that define it.
func Merge(members []*typeast.Member) []*typeast.Member {
	groups := make(map[groupKey]*group)
	// slots keeps output order: a passthrough member or a group.
	type slot struct {
		member *typeast.Member
		group  *group
	}
	var slots []slot

	for _, m := range members {
		key, ok := keyOf(m)
		if !ok {
			slots = append(slots, slot{member: m})
			continue
		}
		g, seen := groups[key]
		if !seen {
			g = &group{}
			groups[key] = g
			slots = append(slots, slot{group: g})
		}
		g.members = append(g.members, m)
	}

	result := make([]*typeast.Member, 0, len(slots))
	for _, s := range slots {
		switch {
		case s.member != nil:
			result = append(result, s.member)
		case len(s.group.members) == 1:
			result = append(result, s.group.members[0])
		default:
			result = append(result, mergeGroup(s.group.members))
		}
	}
	return result
}

func keyOf(m *typeast.Member) (groupKey, bool) {
	switch m.MemberKind {
	case typeast.CallSignature:
		return groupKey{static: m.Static, call: true}, true
	case typeast.PropertyMember, typeast.MethodMember, typeast.GetAccessor, typeast.SetAccessor:
		return groupKey{static: m.Static, name: m.Name.Key()}, true
	}
	return groupKey{}, false
}

type paramSlot struct {
	first *typeast.Parameter
	types typeSet
}

func mergeGroup(members []*typeast.Member) *typeast.Member {
	first := members[0]

	var returns typeSet
	var params []*paramSlot
	for _, m := range members {
		// an absent return type (setters, unannotated implementations)
		// does not widen the merged type
		if m.Type != nil {
			returns.add(m.Type)
		}
		for i, p := range m.Params {
			if i == len(params) {
				params = append(params, &paramSlot{first: p})
			}
			params[i].types.add(p.Type)
		}
	}

	merged := &typeast.Member{
		Base:       first.Base,
		MemberKind: first.MemberKind,
		Name:       first.Name,
		Optional:   first.Optional,
		Static:     first.Static,
		TypeParams: first.TypeParams,
		Type:       returns.build(first.Pos()),
	}
	for _, s := range params {
		merged.Params = append(merged.Params, &typeast.Parameter{
			Name:           s.first.Name,
			Optional:       s.first.Optional,
			Rest:           s.first.Rest,
			SkipReflection: s.first.SkipReflection && len(s.types.nodes) == 1,
			Type:           s.types.build(first.Pos()),
		})
	}
	return merged
}

// typeSet is an insertion-ordered set of types keyed by rendered text.
type typeSet struct {
	nodes []typeast.Node
	seen  map[string]bool
}

func (s *typeSet) add(n typeast.Node) {
	if n == nil {
		n = &typeast.Keyword{Keyword: typeast.Any}
	}
	text := n.String()
	if s.seen == nil {
		s.seen = make(map[string]bool)
	}
	if s.seen[text] {
		return
	}
	s.seen[text] = true
	s.nodes = append(s.nodes, n)
}

func (s *typeSet) build(at typeast.Pos) typeast.Node {
	switch len(s.nodes) {
	case 0:
		return nil
	case 1:
		return s.nodes[0]
	}
	return &typeast.UnionType{Base: typeast.Base{At: at}, Types: s.nodes}
}
