// prtgcli/pkg/prtg/filter.go

package prtg

import (
	"sort"

	"rgehrsitz/prtgcli/pkg/object"
	"rgehrsitz/prtgcli/pkg/rules"
)

// DefaultFilterAttribute is searched when a Filter names no attribute.
const DefaultFilterAttribute = "name"

// Filter keeps objects whose attribute matches a regular expression.
type Filter struct {
	Attribute string
	Pattern   string
}

func (f Filter) IsEmpty() bool {
	return f.Pattern == ""
}

// Apply returns the objects passing f, in input order. An empty filter passes
// everything; an invalid pattern is a CONFIG error.
func (f Filter) Apply(objects []object.MonitoredObject) ([]object.MonitoredObject, error) {
	if f.IsEmpty() {
		return objects, nil
	}
	attr := f.Attribute
	if attr == "" {
		attr = DefaultFilterAttribute
	}
	m, err := rules.CompileCondition(rules.Condition{Attribute: attr, Value: f.Pattern, Mode: rules.MatchRegex})
	if err != nil {
		return nil, err
	}
	out := make([]object.MonitoredObject, 0, len(objects))
	for _, obj := range objects {
		if m.Matches(obj) {
			out = append(out, obj)
		}
	}
	return out, nil
}

// ParentIDs returns the distinct parent ids of objects in ascending order.
func ParentIDs(objects []object.MonitoredObject) []int {
	seen := make(map[int]struct{}, len(objects))
	ids := make([]int, 0, len(objects))
	for _, obj := range objects {
		if _, ok := seen[obj.ParentID]; ok {
			continue
		}
		seen[obj.ParentID] = struct{}{}
		ids = append(ids, obj.ParentID)
	}
	sort.Ints(ids)
	return ids
}
