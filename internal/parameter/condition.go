package parameter

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultEvaluator is a minimal boolean condition evaluator supporting
// equality, `in [list]`, and `&&`/`||` combinations, referencing other
// parameter names. The condition language itself is an external
// collaborator per spec §4.10/§9 — this implementation is the concrete
// default used by this module's own tests and CLI entrypoint; any
// expression language satisfying spec §8's scenarios is acceptable.
type DefaultEvaluator struct{}

var (
	eqPattern = regexp.MustCompile(`^\s*([A-Za-z_][A-Za-z0-9_]*)\s*==\s*'([^']*)'\s*$`)
	inPattern = regexp.MustCompile(`^\s*([A-Za-z_][A-Za-z0-9_]*)\s*in\s*\[([^\]]*)\]\s*$`)
)

// Evaluate implements ConditionEvaluator.
func (DefaultEvaluator) Evaluate(expr string, context map[string]any) (bool, error) {
	expr = strings.TrimSpace(expr)

	if strings.Contains(expr, "&&") {
		for _, part := range strings.Split(expr, "&&") {
			ok, err := (DefaultEvaluator{}).Evaluate(part, context)
			if err != nil {
				return false, err
			}
			if !ok {
				return false, nil
			}
		}
		return true, nil
	}
	if strings.Contains(expr, "||") {
		for _, part := range strings.Split(expr, "||") {
			ok, err := (DefaultEvaluator{}).Evaluate(part, context)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		return false, nil
	}

	if m := eqPattern.FindStringSubmatch(expr); m != nil {
		name, literal := m[1], m[2]
		v, ok := context[name]
		if !ok {
			return false, ErrUnknownIdentifier
		}
		return fmt.Sprintf("%v", v) == literal, nil
	}

	if m := inPattern.FindStringSubmatch(expr); m != nil {
		name := m[1]
		v, ok := context[name]
		if !ok {
			return false, ErrUnknownIdentifier
		}
		for _, item := range strings.Split(m[2], ",") {
			item = strings.TrimSpace(item)
			item = strings.Trim(item, "'\"")
			if fmt.Sprintf("%v", v) == item {
				return true, nil
			}
		}
		return false, nil
	}

	return false, fmt.Errorf("syntax error in condition: %q", expr)
}
