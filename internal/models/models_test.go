package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		in   string
		want Role
	}{
		{"admin", RoleAdmin},
		{"Editor", RoleEditor},
		{" admin ", RoleAdmin},
		{"none", RoleNone},
		{"", RoleNone},
		{"superuser", RoleNone},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseRole(tt.in))
		})
	}
}

func TestUser_UnmarshalRole(t *testing.T) {
	var u User
	require.NoError(t, json.Unmarshal([]byte(`{"email":"a@b.com","role":"ADMIN"}`), &u))
	assert.Equal(t, User{Email: "a@b.com", Role: RoleAdmin}, u)

	require.NoError(t, json.Unmarshal([]byte(`{"email":"a@b.com","role":42}`), &u))
	assert.Equal(t, RoleNone, u.Role)
}

func TestRole_CanEdit(t *testing.T) {
	assert.True(t, RoleAdmin.CanEdit())
	assert.True(t, RoleEditor.CanEdit())
	assert.False(t, RoleNone.CanEdit())
}
