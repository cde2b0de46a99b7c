package engine

import (
	"fmt"
	"testing"

	"rgehrsitz/prtgcli/pkg/object"
	"rgehrsitz/prtgcli/pkg/rules"
)

func benchmarkObjects(n int) []object.MonitoredObject {
	objects := make([]object.MonitoredObject, n)
	for i := range objects {
		objects[i] = object.New(1000+i, i%50, object.Attributes{
			"name": object.String(fmt.Sprintf("device-%04d", i)),
			"host": object.String(fmt.Sprintf("10.%d.%d.%d", i/65536%256, i/256%256, i%256)),
			"tags": object.StringList("bench", fmt.Sprintf("group-%d", i%10)),
		})
	}
	return objects
}

func BenchmarkEvaluate(b *testing.B) {
	objects := benchmarkObjects(5000)
	e, err := NewEngine([]rules.Rule{
		{Target: "tags", Match: rules.Condition{Attribute: "name", Value: `device-00\d\d`, Mode: rules.MatchRegex}, Value: []string{"low"}, Update: true},
		{Target: "tags", Match: rules.Condition{Attribute: "tags", Value: "group-3", Mode: rules.MatchContains}, Value: []string{"three"}, Update: true},
		{Target: "comments", Match: rules.Condition{Attribute: "host", Value: "10.0.0.1"}, Value: []string{"gateway"}},
	})
	if err != nil {
		b.Fatalf("Failed to build engine: %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e.Evaluate(objects)
	}
}
