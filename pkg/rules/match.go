// prtgcli/pkg/rules/match.go

package rules

import (
	"fmt"
	"regexp"
	"slices"

	"rgehrsitz/prtgcli/pkg/logging"
	"rgehrsitz/prtgcli/pkg/object"
)

// valueMatcher is implemented once per MatchMode.
type valueMatcher interface {
	matchValue(v object.Value) bool
}

type exactMatcher struct{ want string }

func (m exactMatcher) matchValue(v object.Value) bool { return v.String() == m.want }

type regexMatcher struct{ re *regexp.Regexp }

func (m regexMatcher) matchValue(v object.Value) bool { return m.re.MatchString(v.String()) }

type containsMatcher struct{ want string }

func (m containsMatcher) matchValue(v object.Value) bool {
	return slices.Contains(v.Strings(), m.want)
}

// Matcher is a compiled Condition.
type Matcher struct {
	attribute string
	matcher   valueMatcher
}

// CompileCondition builds a Matcher. A condition without an attribute
// compiles to a Matcher that matches nothing.
func CompileCondition(cond Condition) (*Matcher, error) {
	if err := validateCondition(cond); err != nil {
		return nil, logging.NewError(logging.ErrorTypeConfig, "invalid match condition", err, nil)
	}
	if cond.Attribute == "" {
		return &Matcher{}, nil
	}

	mode := cond.Mode
	if mode == "" {
		mode = DefaultMatchMode
	}

	m := &Matcher{attribute: cond.Attribute}
	switch mode {
	case MatchExact:
		m.matcher = exactMatcher{want: cond.Value}
	case MatchRegex:
		re, err := regexp.Compile(cond.Value)
		if err != nil {
			return nil, logging.NewError(logging.ErrorTypeConfig,
				fmt.Sprintf("invalid regular expression for attribute '%s'", cond.Attribute), err,
				map[string]interface{}{"pattern": cond.Value})
		}
		m.matcher = regexMatcher{re: re}
	case MatchContains:
		m.matcher = containsMatcher{want: cond.Value}
	}
	return m, nil
}

// Matches reports whether obj satisfies the condition. An object lacking the
// attribute never matches.
func (m *Matcher) Matches(obj object.MonitoredObject) bool {
	if m.matcher == nil {
		return false
	}
	v, ok := obj.Get(m.attribute)
	if !ok {
		logging.Logger.Debug().Int("objid", obj.ID).Str("attribute", m.attribute).Msg("Match attribute not found")
		return false
	}
	return m.matcher.matchValue(v)
}

// Compiled pairs a validated Rule with its Matcher.
type Compiled struct {
	Rule
	matcher *Matcher
}

func (c *Compiled) Matches(obj object.MonitoredObject) bool {
	return c.matcher.Matches(obj)
}

// Compile validates the whole rule list and compiles each rule. Any malformed
// rule fails the call with a CONFIG error and no partial result.
func Compile(rules []Rule) ([]*Compiled, error) {
	if err := Validate(rules); err != nil {
		return nil, err
	}
	compiled := make([]*Compiled, 0, len(rules))
	for i, rule := range rules {
		m, err := CompileCondition(rule.Match)
		if err != nil {
			return nil, logging.NewError(logging.ErrorTypeConfig,
				fmt.Sprintf("invalid rule '%s'", rule.Label(i)), err,
				map[string]interface{}{"rule": rule.Label(i)})
		}
		compiled = append(compiled, &Compiled{Rule: rule, matcher: m})
	}
	return compiled, nil
}
