package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordChecker_Plaintext(t *testing.T) {
	checker, err := NewPasswordChecker("conference-2026", "")
	require.NoError(t, err)

	assert.True(t, checker.Check("conference-2026"))
	assert.False(t, checker.Check("Conference-2026"))
	assert.False(t, checker.Check(""))
}

func TestPasswordChecker_Hash(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)

	checker, err := NewPasswordChecker("ignored-when-hash-set", hash)
	require.NoError(t, err)

	assert.True(t, checker.Check("s3cret"))
	assert.False(t, checker.Check("ignored-when-hash-set"))
}

func TestPasswordChecker_Errors(t *testing.T) {
	_, err := NewPasswordChecker("", "")
	assert.ErrorIs(t, err, ErrPasswordNotConfigured)

	_, err = NewPasswordChecker("", "not-a-bcrypt-hash")
	assert.Error(t, err)
}
