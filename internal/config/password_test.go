package config

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPasswordConfig(t *testing.T) {
	tests := []struct {
		name     string
		cost     string
		pepper   string
		wantCost int
		wantErr  string
	}{
		{name: "default cost", cost: "", wantCost: 12},
		{name: "minimum cost", cost: "10", wantCost: 10},
		{name: "maximum cost", cost: "14", wantCost: 14},
		{name: "with pepper", cost: "10", pepper: "pep", wantCost: 10},
		{name: "too low", cost: "9", wantErr: "out of range"},
		{name: "too high", cost: "15", wantErr: "out of range"},
		{name: "not a number", cost: "high", wantErr: "invalid BCRYPT_COST"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("BCRYPT_COST", tt.cost)
			t.Setenv("PASSWORD_PEPPER", tt.pepper)

			cfg, err := NewPasswordConfig()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCost, cfg.BcryptCost)
			assert.Equal(t, tt.pepper, cfg.Pepper)
		})
	}
}

func TestPasswordConfig_HashAndVerify(t *testing.T) {
	cfg, err := NewPasswordConfigWithCost(10, "")
	require.NoError(t, err)

	hash, err := cfg.HashPassword("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hash)
	assert.True(t, strings.HasPrefix(hash, "$2a$10$"))

	assert.True(t, cfg.VerifyPassword("correct horse", hash))
	assert.False(t, cfg.VerifyPassword("wrong horse", hash))
	assert.False(t, cfg.VerifyPassword("correct horse", "not-a-hash"))
}

func TestPasswordConfig_Pepper(t *testing.T) {
	peppered, err := NewPasswordConfigWithCost(10, "pepper-1")
	require.NoError(t, err)
	plain, err := NewPasswordConfigWithCost(10, "")
	require.NoError(t, err)
	rotated, err := NewPasswordConfigWithCost(10, "pepper-2")
	require.NoError(t, err)

	hash, err := peppered.HashPassword("password123")
	require.NoError(t, err)

	assert.True(t, peppered.VerifyPassword("password123", hash))
	assert.False(t, plain.VerifyPassword("password123", hash), "hash must depend on the pepper")
	assert.False(t, rotated.VerifyPassword("password123", hash))
}

func TestPasswordConfig_SaltUniqueness(t *testing.T) {
	cfg, err := NewPasswordConfigWithCost(10, "")
	require.NoError(t, err)

	h1, err := cfg.HashPassword("same")
	require.NoError(t, err)
	h2, err := cfg.HashPassword("same")
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}

func TestPasswordConfig_TooLong(t *testing.T) {
	cfg, err := NewPasswordConfigWithCost(10, "")
	require.NoError(t, err)

	_, err = cfg.HashPassword(strings.Repeat("a", 73))
	assert.ErrorIs(t, err, ErrPasswordTooLong)
}

func TestPasswordConfig_ConcurrentAccess(t *testing.T) {
	cfg, err := NewPasswordConfigWithCost(10, "p")
	require.NoError(t, err)
	hash, err := cfg.HashPassword("shared")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.True(t, cfg.VerifyPassword("shared", hash))
		}()
	}
	wg.Wait()
}

func TestNewPasswordConfigWithCost_Invalid(t *testing.T) {
	_, err := NewPasswordConfigWithCost(4, "")
	assert.Error(t, err)
}

func TestPasswordConfig_NeedsRehash(t *testing.T) {
	old, err := NewPasswordConfigWithCost(10, "")
	require.NoError(t, err)
	current, err := NewPasswordConfigWithCost(11, "")
	require.NoError(t, err)

	hash, err := old.HashPassword("password123")
	require.NoError(t, err)

	assert.False(t, old.NeedsRehash(hash))
	assert.True(t, current.NeedsRehash(hash))
	assert.True(t, current.VerifyPassword("password123", hash), "cost change keeps old hashes valid")
	assert.False(t, current.NeedsRehash("not-a-hash"))
}
