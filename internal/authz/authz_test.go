package authz_test

import (
	"testing"

	"github.com/coursehub/backend/internal/authz"
)

func TestDecide(t *testing.T) {
	owner := &authz.Caller{ID: "u1", Role: "USER"}
	stranger := &authz.Caller{ID: "u2", Role: "USER"}
	admin := &authz.Caller{ID: "u3", Role: "ADMIN"}

	tests := []struct {
		name       string
		caller     *authz.Caller
		ownerID    string
		visible    bool
		op         authz.Operation
		allowed    bool
		wantReason authz.Reason
	}{
		{name: "anonymous read of public resource", caller: nil, ownerID: "u1", visible: true, op: authz.OpRead, allowed: true},
		{name: "stranger read of public resource", caller: stranger, ownerID: "u1", visible: true, op: authz.OpRead, allowed: true},
		{name: "anonymous read of private resource", caller: nil, ownerID: "u1", visible: false, op: authz.OpRead, allowed: false, wantReason: authz.ReasonUnauthenticated},
		{name: "anonymous write", caller: nil, ownerID: "u1", visible: true, op: authz.OpWrite, allowed: false, wantReason: authz.ReasonUnauthenticated},
		{name: "owner read of private resource", caller: owner, ownerID: "u1", visible: false, op: authz.OpRead, allowed: true},
		{name: "owner write", caller: owner, ownerID: "u1", visible: true, op: authz.OpWrite, allowed: true},
		{name: "stranger read of private resource", caller: stranger, ownerID: "u1", visible: false, op: authz.OpRead, allowed: false, wantReason: authz.ReasonForbidden},
		{name: "stranger write of public resource", caller: stranger, ownerID: "u1", visible: true, op: authz.OpWrite, allowed: false, wantReason: authz.ReasonForbidden},
		{name: "admin role grants no ownership bypass", caller: admin, ownerID: "u1", visible: false, op: authz.OpWrite, allowed: false, wantReason: authz.ReasonForbidden},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := authz.Decide(tc.caller, tc.ownerID, tc.visible, tc.op)

			if d.Allowed != tc.allowed {
				t.Fatalf("Allowed = %v, want %v", d.Allowed, tc.allowed)
			}

			if !tc.allowed && d.Reason != tc.wantReason {
				t.Errorf("Reason = %q, want %q", d.Reason, tc.wantReason)
			}
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	tests := []struct {
		name       string
		caller     *authz.Caller
		allowed    bool
		wantReason authz.Reason
	}{
		{name: "anonymous", caller: nil, allowed: false, wantReason: authz.ReasonUnauthenticated},
		{name: "regular user", caller: &authz.Caller{ID: "u1", Role: "USER"}, allowed: false, wantReason: authz.ReasonForbidden},
		{name: "admin", caller: &authz.Caller{ID: "u2", Role: "ADMIN"}, allowed: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := authz.RequireAdmin(tc.caller)

			if d.Allowed != tc.allowed {
				t.Fatalf("Allowed = %v, want %v", d.Allowed, tc.allowed)
			}

			if !tc.allowed && d.Reason != tc.wantReason {
				t.Errorf("Reason = %q, want %q", d.Reason, tc.wantReason)
			}
		})
	}
}
