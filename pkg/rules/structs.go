// prtgcli/pkg/rules/structs.go

package rules

import "strconv"

// MatchMode selects how a Condition compares an attribute with its value.
type MatchMode string

const (
	// MatchExact compares the display form of the attribute for equality.
	MatchExact MatchMode = "exact"
	// MatchRegex searches the display form of the attribute with an RE2 pattern.
	MatchRegex MatchMode = "regex"
	// MatchContains tests whether the attribute's sequence view holds the value
	// as a whole element.
	MatchContains MatchMode = "contains"
)

// DefaultMatchMode applies when a rule leaves mode empty.
const DefaultMatchMode = MatchExact

type Ruleset struct {
	Rules []Rule `json:"rules" mapstructure:"rules"`
}

type Condition struct {
	Attribute string    `json:"attribute" mapstructure:"attribute"`
	Value     string    `json:"value" mapstructure:"value"`
	Mode      MatchMode `json:"mode,omitempty" mapstructure:"mode"`
}

// Rule sets Target to Value on every object matching Match. With Update the
// value is appended to the current target value instead of replacing it.
type Rule struct {
	Name   string    `json:"name,omitempty" mapstructure:"name"`
	Target string    `json:"target" mapstructure:"target"`
	Match  Condition `json:"match" mapstructure:"match"`
	Value  []string  `json:"value" mapstructure:"value"`
	Update bool      `json:"update" mapstructure:"update"`
}

// Label identifies a rule in logs and errors.
func (r Rule) Label(index int) string {
	if r.Name != "" {
		return r.Name
	}
	return "#" + strconv.Itoa(index)
}
