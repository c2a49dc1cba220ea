package parameter

import "fmt"

// MaxIterations bounds the resolver's fixed-point loop.
const MaxIterations = 100

// MissingRequiredError is returned when a required active parameter has
// no default and interactive resolution is disallowed.
type MissingRequiredError struct{ Parameter string }

func (e *MissingRequiredError) Error() string {
	return fmt.Sprintf("missing required parameter: %s", e.Parameter)
}

// ConditionalParameterMissingError is returned when a parameter became
// required because its condition evaluated true, but has no value and
// no default.
type ConditionalParameterMissingError struct {
	Parameter string
	Condition string
}

func (e *ConditionalParameterMissingError) Error() string {
	return fmt.Sprintf("parameter %s is required because %s, but no value was provided", e.Parameter, e.Condition)
}

// InteractivePrompt asks the user for a value when interactive
// resolution is allowed.
type InteractivePrompt func(p Parameter) (any, error)

// Resolve iterates the parameter list to a fixed point (at most
// MaxIterations), adding defaults or prompting for any parameter whose
// condition evaluates true and which is not yet set. Parameters whose
// condition is false are skipped, never defaulted. CLI-provided values
// are coerced to JSON-native types before resolution begins, so the
// result does not depend on CLI-argument ordering.
func Resolve(params []Parameter, cli map[string]string, interactive bool, evaluator ConditionEvaluator, prompt InteractivePrompt) (map[string]any, error) {
	resolved := make(map[string]any, len(params))
	for k, v := range cli {
		resolved[k] = CoerceCLIString(v)
	}

	set := make(map[string]bool, len(resolved))
	for k := range resolved {
		set[k] = true
	}

	for iter := 0; iter < MaxIterations; iter++ {
		progressed := false
		allDecided := true

		for _, p := range params {
			if set[p.Name] {
				continue
			}

			active, unknown, err := p.IsActive(evaluator, resolved)
			if err != nil {
				return nil, &ValidationError{Parameter: p.Name, Kind: "condition_error", Message: err.Error()}
			}
			if unknown {
				allDecided = false
				continue
			}
			if !active {
				set[p.Name] = true // decided: inactive, never defaulted
				continue
			}

			if def := p.ResolveDefault(); def != nil {
				resolved[p.Name] = def
				set[p.Name] = true
				progressed = true
				continue
			}

			if !p.Required {
				set[p.Name] = true
				progressed = true
				continue
			}

			if interactive && prompt != nil {
				v, err := prompt(p)
				if err != nil {
					return nil, err
				}
				resolved[p.Name] = v
				set[p.Name] = true
				progressed = true
				continue
			}

			if p.Condition != "" {
				return nil, &ConditionalParameterMissingError{Parameter: p.Name, Condition: ExplainCondition(p.Condition)}
			}
			return nil, &MissingRequiredError{Parameter: p.Name}
		}

		if allDecided {
			for _, p := range params {
				if err := checkResolved(p, resolved, set); err != nil {
					return nil, err
				}
			}
			return resolved, nil
		}
		if !progressed {
			return nil, &ValidationError{Parameter: "", Kind: "circular_dependency", Message: "circular dependency among parameter conditions"}
		}
	}

	return nil, &ValidationError{Parameter: "", Kind: "circular_dependency", Message: "circular dependency among parameter conditions"}
}

func checkResolved(p Parameter, resolved map[string]any, set map[string]bool) error {
	v, ok := resolved[p.Name]
	if !ok || v == nil {
		return nil
	}
	return ValidateValue(p, v)
}
