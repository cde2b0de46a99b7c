// prtgcli/pkg/rules/validate.go

package rules

import (
	"fmt"

	"rgehrsitz/prtgcli/pkg/logging"
)

// Validate checks every rule and returns a CONFIG error for the first one
// that is malformed.
func Validate(rules []Rule) error {
	for i, rule := range rules {
		if err := validateRule(rule); err != nil {
			logging.Logger.Error().Err(err).Str("rule", rule.Label(i)).Msg("Invalid rule")
			return logging.NewError(logging.ErrorTypeConfig,
				fmt.Sprintf("invalid rule '%s'", rule.Label(i)), err,
				map[string]interface{}{"rule": rule.Label(i)})
		}
	}
	return nil
}

func validateRule(rule Rule) error {
	logging.Logger.Debug().Str("rule", rule.Name).Msg("Validating rule")
	if rule.Target == "" {
		return fmt.Errorf("empty or missing target field")
	}
	if rule.Value == nil {
		return fmt.Errorf("missing value field")
	}
	return validateCondition(rule.Match)
}

func validateCondition(cond Condition) error {
	if !isModeValid(cond.Mode) {
		return fmt.Errorf("invalid match mode '%s'", cond.Mode)
	}
	if cond.Attribute == "" && cond.Value != "" {
		logging.Logger.Warn().Str("value", cond.Value).Msg("Match value without attribute never matches")
	}
	return nil
}

func isModeValid(mode MatchMode) bool {
	switch mode {
	case "", MatchExact, MatchRegex, MatchContains:
		return true
	default:
		return false
	}
}
