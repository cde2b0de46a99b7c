// prtgcli/pkg/engine/engine.go

package engine

import (
	"strings"

	"rgehrsitz/prtgcli/pkg/logging"
	"rgehrsitz/prtgcli/pkg/object"
	"rgehrsitz/prtgcli/pkg/rules"
)

// UpdateCommand is one property change to submit to the monitoring service.
type UpdateCommand struct {
	ObjectID  int    `json:"objid"`
	Attribute string `json:"attribute"`
	Value     string `json:"value"`
}

type Engine struct {
	rules  []*rules.Compiled
	dedupe bool
}

type Option func(*Engine)

// WithDedupe keeps only the last command per (object id, attribute).
func WithDedupe() Option {
	return func(e *Engine) { e.dedupe = true }
}

// NewEngine compiles the rule list. A malformed rule fails with a CONFIG error.
func NewEngine(ruleList []rules.Rule, opts ...Option) (*Engine, error) {
	compiled, err := rules.Compile(ruleList)
	if err != nil {
		return nil, err
	}
	e := &Engine{rules: compiled}
	for _, opt := range opts {
		opt(e)
	}
	logging.Logger.Debug().Int("rules", len(compiled)).Bool("dedupe", e.dedupe).Msg("Engine ready")
	return e, nil
}

// Evaluate compiles ruleList and runs it over objects.
func Evaluate(objects []object.MonitoredObject, ruleList []rules.Rule, opts ...Option) ([]UpdateCommand, error) {
	e, err := NewEngine(ruleList, opts...)
	if err != nil {
		return nil, err
	}
	return e.Evaluate(objects), nil
}

// Evaluate visits objects in order and, per object, rules in order. Each
// matching rule emits one command for its target attribute. Objects are not
// modified.
func (e *Engine) Evaluate(objects []object.MonitoredObject) []UpdateCommand {
	var commands []UpdateCommand
	for _, obj := range objects {
		for _, rule := range e.rules {
			if !rule.Matches(obj) {
				continue
			}
			cmd := UpdateCommand{
				ObjectID:  obj.ID,
				Attribute: rule.Target,
				Value:     computeValue(obj, rule.Rule),
			}
			logging.Logger.Debug().
				Int("objid", cmd.ObjectID).
				Str("rule", rule.Name).
				Str("attribute", cmd.Attribute).
				Str("value", cmd.Value).
				Msg("Rule matched")
			commands = append(commands, cmd)
		}
	}
	if e.dedupe {
		commands = Dedupe(commands)
	}
	return commands
}

// computeValue joins the rule value with single spaces. Under Update the
// current target value comes first; a missing target counts as empty.
func computeValue(obj object.MonitoredObject, rule rules.Rule) string {
	if !rule.Update {
		return strings.Join(rule.Value, " ")
	}
	var parts []string
	if existing, ok := obj.Get(rule.Target); ok {
		parts = existing.Strings()
	} else {
		logging.Logger.Debug().Err(logging.LookupError(obj.ID, rule.Target)).Msg("Append target not found, overwriting")
	}
	parts = append(parts, rule.Value...)
	return strings.Join(parts, " ")
}

// Assign sets attribute to value on every object, in object order.
func Assign(objects []object.MonitoredObject, attribute, value string) []UpdateCommand {
	commands := make([]UpdateCommand, 0, len(objects))
	for _, obj := range objects {
		commands = append(commands, UpdateCommand{ObjectID: obj.ID, Attribute: attribute, Value: value})
	}
	return commands
}

// Dedupe drops every command that a later command for the same object id and
// attribute overrides. Survivors keep their relative order.
func Dedupe(commands []UpdateCommand) []UpdateCommand {
	type key struct {
		id   int
		attr string
	}
	last := make(map[key]int, len(commands))
	for i, cmd := range commands {
		last[key{cmd.ObjectID, cmd.Attribute}] = i
	}
	out := make([]UpdateCommand, 0, len(last))
	for i, cmd := range commands {
		if last[key{cmd.ObjectID, cmd.Attribute}] == i {
			out = append(out, cmd)
		}
	}
	return out
}
