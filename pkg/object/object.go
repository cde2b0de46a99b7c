// prtgcli/pkg/object/object.go

package object

import "sort"

// Attributes maps attribute names to values. Lookups on a nil Attributes are
// safe; Set is not.
type Attributes map[string]Value

// Get returns the named value and whether it was present.
func (a Attributes) Get(name string) (Value, bool) {
	v, ok := a[name]
	return v, ok
}

func (a Attributes) Set(name string, value Value) {
	a[name] = value
}

// Names returns the attribute names in lexicographic order.
func (a Attributes) Names() []string {
	names := make([]string, 0, len(a))
	for name := range a {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (a Attributes) Clone() Attributes {
	if a == nil {
		return nil
	}
	out := make(Attributes, len(a))
	for name, v := range a {
		if v.kind == KindStringList {
			v = StringList(v.list...)
		}
		out[name] = v
	}
	return out
}

// MonitoredObject is a device or sensor as returned by the monitoring service.
type MonitoredObject struct {
	ID         int        `json:"id"`
	ParentID   int        `json:"parent_id"`
	Attributes Attributes `json:"attributes"`
}

func New(id, parentID int, attrs Attributes) MonitoredObject {
	if attrs == nil {
		attrs = Attributes{}
	}
	return MonitoredObject{ID: id, ParentID: parentID, Attributes: attrs}
}

func (o MonitoredObject) Get(name string) (Value, bool) {
	return o.Attributes.Get(name)
}

func (o *MonitoredObject) Set(name string, value Value) {
	if o.Attributes == nil {
		o.Attributes = Attributes{}
	}
	o.Attributes.Set(name, value)
}

// Clone returns a deep copy that shares no list storage with o.
func (o MonitoredObject) Clone() MonitoredObject {
	return MonitoredObject{ID: o.ID, ParentID: o.ParentID, Attributes: o.Attributes.Clone()}
}
