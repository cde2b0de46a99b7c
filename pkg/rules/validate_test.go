// prtgcli/pkg/rules/validate_test.go

package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"rgehrsitz/prtgcli/pkg/logging"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		rules       []Rule
		expectedErr string
	}{
		{
			name: "Valid overwrite rule",
			rules: []Rule{
				{Target: "tags", Match: Condition{Attribute: "name", Value: "sw-01"}, Value: []string{"core"}},
			},
		},
		{
			name: "Valid rule without match attribute",
			rules: []Rule{
				{Target: "tags", Value: []string{"core"}},
			},
		},
		{
			name: "Empty value list clears the target",
			rules: []Rule{
				{Target: "tags", Match: Condition{Attribute: "name", Value: "x"}, Value: []string{}},
			},
		},
		{
			name: "Missing target",
			rules: []Rule{
				{Name: "no-target", Match: Condition{Attribute: "name", Value: "x"}, Value: []string{"a"}},
			},
			expectedErr: "invalid rule 'no-target'",
		},
		{
			name: "Missing value",
			rules: []Rule{
				{Target: "tags", Match: Condition{Attribute: "name", Value: "x"}},
			},
			expectedErr: "missing value field",
		},
		{
			name: "Unknown mode",
			rules: []Rule{
				{Target: "tags", Match: Condition{Attribute: "name", Value: "x", Mode: "glob"}, Value: []string{"a"}},
			},
			expectedErr: "invalid match mode 'glob'",
		},
		{
			name: "Second rule malformed fails the set",
			rules: []Rule{
				{Target: "tags", Value: []string{"a"}},
				{Value: []string{"b"}},
			},
			expectedErr: "invalid rule '#1'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.rules)
			if tt.expectedErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectedErr)
			assert.True(t, logging.IsConfigurationError(err))
		})
	}
}

func TestRuleLabel(t *testing.T) {
	assert.Equal(t, "tag-core", Rule{Name: "tag-core"}.Label(4))
	assert.Equal(t, "#4", Rule{}.Label(4))
}
