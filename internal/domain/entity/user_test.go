package entity

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUser_BeforeSave_HashesPlainPassword(t *testing.T) {
	user := &User{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "plain-secret",
	}

	err := user.BeforeSave(nil)

	require.NoError(t, err)
	assert.NotEqual(t, "plain-secret", user.Password)
	assert.True(t, strings.HasPrefix(user.Password, "$2"), "stored password should be a bcrypt hash")
	assert.True(t, user.CheckPassword("plain-secret"))
	assert.False(t, user.CheckPassword("wrong"))
}

func TestUser_BeforeSave_DoesNotDoubleHash(t *testing.T) {
	user := &User{Password: "plain-secret"}
	require.NoError(t, user.BeforeSave(nil))
	hashed := user.Password

	// Saving a loaded row again must leave the hash untouched.
	require.NoError(t, user.BeforeSave(nil))

	assert.Equal(t, hashed, user.Password)
	assert.True(t, user.CheckPassword("plain-secret"))
}

func TestUser_VerifyCodeExpired(t *testing.T) {
	now := time.Now()
	user := &User{VerifyCodeExpiresAt: now.Add(time.Minute)}

	assert.False(t, user.VerifyCodeExpired(now))
	assert.True(t, user.VerifyCodeExpired(now.Add(2*time.Minute)))
}
