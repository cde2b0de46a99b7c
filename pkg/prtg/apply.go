// prtgcli/pkg/prtg/apply.go

package prtg

import (
	"strings"

	"rgehrsitz/prtgcli/pkg/engine"
	"rgehrsitz/prtgcli/pkg/object"
)

// ValueFor converts a submitted property value into the kind Fetch reports
// for attribute.
func ValueFor(attribute, value string) object.Value {
	if listAttributes[attribute] {
		return object.StringList(strings.Fields(value)...)
	}
	return object.String(value)
}

// ApplyUpdates returns objects as they look once commands are applied, in
// order, and how many objects changed. Changed objects are copied; the input
// is never modified. Commands for unknown ids are ignored.
func ApplyUpdates(objects []object.MonitoredObject, commands []engine.UpdateCommand) ([]object.MonitoredObject, int) {
	if len(commands) == 0 {
		return objects, 0
	}
	index := make(map[int]int, len(objects))
	for i, obj := range objects {
		index[obj.ID] = i
	}

	out := make([]object.MonitoredObject, len(objects))
	copy(out, objects)
	copied := make(map[int]bool)
	for _, cmd := range commands {
		i, ok := index[cmd.ObjectID]
		if !ok {
			continue
		}
		v := ValueFor(cmd.Attribute, cmd.Value)
		if cur, ok := out[i].Get(cmd.Attribute); ok && cur.Equal(v) {
			continue
		}
		if !copied[i] {
			out[i] = out[i].Clone()
			copied[i] = true
		}
		out[i].Set(cmd.Attribute, v)
	}
	return out, len(copied)
}
