// Package resolver looks up catalog names on a remote astrometric service.
//
// Resolution is best-effort: every failure becomes an Unresolved result
// with a reason, and transport errors are logged rather than returned.
package resolver

import (
	"context"

	"github.com/varghesereji/VOPlanner/internal/coord"
)

// Reason explains why a lookup did not produce a position.
type Reason string

const (
	ReasonNotFound    Reason = "not_found"
	ReasonMasked      Reason = "masked"
	ReasonInvalid     Reason = "invalid_value"
	ReasonQueryFailed Reason = "query_failed"
	ReasonDisabled    Reason = "disabled"
)

// Result is either a resolved position or an unresolved reason.
type Result struct {
	Target   string
	position coord.Position
	reason   Reason
}

// Resolved builds a successful Result.
func Resolved(target string, pos coord.Position) Result {
	return Result{Target: target, position: pos}
}

// Unresolved builds a failed Result.
func Unresolved(target string, reason Reason) Result {
	return Result{Target: target, reason: reason}
}

// Position returns the resolved position and true, or a zero position and
// false when the lookup failed.
func (r Result) Position() (coord.Position, bool) {
	if r.reason != "" {
		return coord.Position{}, false
	}
	return r.position, true
}

// Reason returns why the lookup failed, or "" on success.
func (r Result) Reason() Reason { return r.reason }

// OK reports whether the lookup produced a position.
func (r Result) OK() bool { return r.reason == "" }

// Resolver resolves a catalog name to a position.
type Resolver interface {
	Resolve(ctx context.Context, name string) Result
}

// Disabled never resolves anything. Used when remote lookups are turned off.
type Disabled struct{}

func (Disabled) Resolve(_ context.Context, name string) Result {
	return Unresolved(name, ReasonDisabled)
}
