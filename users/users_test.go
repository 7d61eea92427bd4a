package users_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hospitalmgmt/auth-service/users"
)

func TestRoleTypeValid(t *testing.T) {
	for _, role := range []users.RoleType{
		users.RoleDoctor, users.RoleNurse, users.RoleReceptionist, users.RoleAdmin,
	} {
		require.True(t, role.Valid(), "role %s", role)
	}
	require.False(t, users.RoleType("SURGEON").Valid())
	require.False(t, users.RoleType("doctor").Valid())
	require.False(t, users.RoleType("").Valid())
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := users.HashPassword("Sup3r-Secret-Pw!")
	require.NoError(t, err)
	require.NotEqual(t, "Sup3r-Secret-Pw!", hash)

	require.True(t, users.CheckPasswordHash("Sup3r-Secret-Pw!", hash))
	require.False(t, users.CheckPasswordHash("sup3r-secret-pw!", hash))
	require.False(t, users.CheckPasswordHash("", hash))
	require.False(t, users.CheckPasswordHash("Sup3r-Secret-Pw!", "not-a-hash"))
}

func TestValidatePasswordStrength(t *testing.T) {
	require.NoError(t, users.ValidatePasswordStrength("Abcdef12"))
	require.Error(t, users.ValidatePasswordStrength("Ab1"))      // too short
	require.Error(t, users.ValidatePasswordStrength("abcdefg1")) // no uppercase
	require.Error(t, users.ValidatePasswordStrength("ABCDEFG1")) // no lowercase
	require.Error(t, users.ValidatePasswordStrength("Abcdefgh")) // no number
	require.Error(t, users.ValidatePasswordStrength(""))         // empty
	require.NoError(t, users.ValidatePasswordStrength("pA55word9"))
}
