package permission

import "context"

// Outcome is the result of evaluating a permission policy for a tool
// call, independent of whether a user was actually prompted.
type Outcome string

const (
	Allowed            Outcome = "allowed"
	Denied             Outcome = "denied"
	RequireUserConsent Outcome = "require_user_consent"
)

// Evaluate maps a configured PermissionAction to an Outcome. This is
// the pure half of policy evaluation; Resolve (below) adds the
// stateful client-channel behavior.
func Evaluate(action PermissionAction) Outcome {
	switch action {
	case ActionAllow:
		return Allowed
	case ActionDeny:
		return Denied
	default:
		return RequireUserConsent
	}
}

// Resolve evaluates req under action and, for RequireUserConsent,
// either prompts the client (when hasClientChannel is true, via
// Checker.Ask) or falls through to Denied. It never returns a Go error
// for a policy denial — the caller is expected to convert a Denied
// outcome into an in-band tool-result, never an exception, so the LLM
// can observe and react to it.
func (c *Checker) Resolve(ctx context.Context, req Request, action PermissionAction, hasClientChannel bool) Outcome {
	switch Evaluate(action) {
	case Allowed:
		return Allowed
	case Denied:
		return Denied
	case RequireUserConsent:
		if !hasClientChannel {
			return Denied
		}
		if err := c.Ask(ctx, req); err != nil {
			return Denied
		}
		return Allowed
	default:
		return Denied
	}
}

// DenialToolResult builds the in-band tool-result payload for a denied
// tool call: the model must see the denial, never an exception.
func DenialToolResult(reason string) map[string]any {
	return map[string]any{
		"error":   reason,
		"allowed": false,
	}
}
