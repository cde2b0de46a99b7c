// prtgcli/pkg/object/object_test.go

package object

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAttributesGet(t *testing.T) {
	attrs := Attributes{"name": String("core-sw-01")}

	v, ok := attrs.Get("name")
	assert.True(t, ok)
	assert.Equal(t, "core-sw-01", v.String())

	_, ok = attrs.Get("missing")
	assert.False(t, ok)

	var nilAttrs Attributes
	_, ok = nilAttrs.Get("name")
	assert.False(t, ok)
}

func TestAttributesNamesSorted(t *testing.T) {
	attrs := Attributes{"tags": String(""), "host": String(""), "name": String("")}
	assert.Equal(t, []string{"host", "name", "tags"}, attrs.Names())
}

func TestMonitoredObjectSetOnZeroValue(t *testing.T) {
	var obj MonitoredObject
	obj.Set("tags", StringList("a"))

	v, ok := obj.Get("tags")
	assert.True(t, ok)
	assert.Equal(t, "a", v.String())
}

func TestCloneIsIndependent(t *testing.T) {
	obj := New(1, 0, Attributes{"tags": StringList("a", "b")})
	clone := obj.Clone()

	clone.Set("tags", StringList("x"))
	clone.Set("name", String("new"))

	v, _ := obj.Get("tags")
	assert.Equal(t, "a b", v.String())
	_, ok := obj.Get("name")
	assert.False(t, ok)
}
