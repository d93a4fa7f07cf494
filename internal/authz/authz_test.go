package authz

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCanMutate(t *testing.T) {
	admin := Actor{ID: "a1", Role: RoleAdmin}
	agent := Actor{ID: "g1", Role: RoleAgent}
	owner := Actor{ID: "o1", Role: RolePropertyOwner}

	tests := []struct {
		name      string
		actor     Actor
		adminOnly bool
		owners    []string
		want      bool
	}{
		{"admin always allowed", admin, true, nil, true},
		{"admin allowed on owned resource", admin, false, []string{"o1"}, true},
		{"owner allowed on own resource", owner, false, []string{"o1"}, true},
		{"agent allowed when assignee", agent, false, []string{"x", "g1"}, true},
		{"non-owner denied", agent, false, []string{"o1"}, false},
		{"owner denied admin-only action", owner, true, []string{"o1"}, false},
		{"agent denied admin-only action", agent, true, []string{"g1"}, false},
		{"empty owner id never matches", Actor{ID: "", Role: RoleClient}, false, []string{""}, false},
		{"no owners denies non-admin", agent, false, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, CanMutate(tt.actor, tt.adminOnly, tt.owners...))
		})
	}
}
