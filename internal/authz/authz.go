// Package authz is the single access-control chokepoint: a pure decision
// function over caller identity, resource ownership and visibility. It
// holds no state and performs no I/O, so handlers can consult it before
// every mutation and every non-public read.
package authz

import "github.com/coursehub/backend/internal/domain/user"

type Operation int

const (
	OpRead Operation = iota
	OpWrite
)

type Reason string

const (
	ReasonUnauthenticated Reason = "unauthenticated"
	ReasonForbidden       Reason = "forbidden"
)

// Caller is the verified identity attached to a request. A nil *Caller
// means the request carried no (valid) identity assertion.
type Caller struct {
	ID   string
	Role string
}

type Decision struct {
	Allowed bool
	Reason  Reason
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(reason Reason) Decision {
	return Decision{Allowed: false, Reason: reason}
}

// Decide evaluates an operation against a resource with the given owner
// and visibility flag.
//
//   - public reads are always allowed, authenticated or not
//   - everything else requires an identity whose id matches the owner
func Decide(caller *Caller, ownerID string, visible bool, op Operation) Decision {
	if op == OpRead && visible {
		return allow()
	}

	if caller == nil {
		return deny(ReasonUnauthenticated)
	}

	if caller.ID != ownerID {
		return deny(ReasonForbidden)
	}

	return allow()
}

// RequireAdmin gates administrative-only operations.
func RequireAdmin(caller *Caller) Decision {
	if caller == nil {
		return deny(ReasonUnauthenticated)
	}

	if caller.Role != user.RoleAdmin {
		return deny(ReasonForbidden)
	}

	return allow()
}
