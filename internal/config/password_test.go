package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPasswordConfig_Defaults(t *testing.T) {
	unsetenv(t, "BCRYPT_COST")
	unsetenv(t, "PASSWORD_PEPPER")

	cfg, err := NewPasswordConfig()
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.Empty(t, cfg.Pepper)
}

func TestNewPasswordConfig_CostRange(t *testing.T) {
	for _, tt := range []struct {
		env     string
		want    int
		wantErr bool
	}{
		{env: "10", want: 10},
		{env: "14", want: 14},
		{env: "9", wantErr: true},
		{env: "15", wantErr: true},
		{env: "abc", wantErr: true},
	} {
		t.Setenv("BCRYPT_COST", tt.env)
		cfg, err := NewPasswordConfig()
		if tt.wantErr {
			require.Error(t, err, "cost %q should be rejected", tt.env)
			assert.Nil(t, cfg)
		} else {
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.BcryptCost)
		}
	}
}

func TestNewPasswordConfig_Pepper(t *testing.T) {
	unsetenv(t, "BCRYPT_COST")
	t.Setenv("PASSWORD_PEPPER", "extra-secret")

	cfg, err := NewPasswordConfig()
	require.NoError(t, err)
	assert.Equal(t, "extra-secret", cfg.Pepper)
}

func TestHashAndVerifyPassword(t *testing.T) {
	// Minimum cost keeps the test fast.
	cfg := &PasswordConfig{BcryptCost: 10}

	hash, err := cfg.HashPassword("password123")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$2a$"), "expected a bcrypt hash, got %q", hash)
	assert.NotContains(t, hash, "password123")

	assert.True(t, cfg.VerifyPassword("password123", hash))
	assert.False(t, cfg.VerifyPassword("wrong-password", hash))
	assert.False(t, cfg.VerifyPassword("", hash))
}

func TestHashPassword_UniqueSalts(t *testing.T) {
	cfg := &PasswordConfig{BcryptCost: 10}

	first, err := cfg.HashPassword("password123")
	require.NoError(t, err)
	second, err := cfg.HashPassword("password123")
	require.NoError(t, err)

	assert.NotEqual(t, first, second, "bcrypt salts should make hashes differ")
}

func TestVerifyPassword_PepperMismatch(t *testing.T) {
	peppered := &PasswordConfig{BcryptCost: 10, Pepper: "extra-secret"}
	plain := &PasswordConfig{BcryptCost: 10}

	hash, err := peppered.HashPassword("password123")
	require.NoError(t, err)

	assert.True(t, peppered.VerifyPassword("password123", hash))
	assert.False(t, plain.VerifyPassword("password123", hash),
		"hash made with a pepper should not verify without it")
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	cfg := &PasswordConfig{BcryptCost: 10}
	assert.False(t, cfg.VerifyPassword("password123", "not-a-bcrypt-hash"))
	assert.False(t, cfg.VerifyPassword("password123", ""))
}
