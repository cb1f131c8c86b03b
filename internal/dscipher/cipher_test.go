package dscipher

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSalt() []byte {
	salt := make([]byte, SaltSize)
	for i := range salt {
		salt[i] = byte(i)
	}
	return salt
}

func TestDeriveKeyDeterministic(t *testing.T) {
	salt := testSalt()
	k1, err := DeriveKey("hunter2", salt)
	require.NoError(t, err)
	k2, err := DeriveKey("hunter2", salt)
	require.NoError(t, err)
	assert.Equal(t, k1, k2)
}

func TestDeriveKeyTrimsTrailingWhitespace(t *testing.T) {
	salt := testSalt()
	k1, err := DeriveKey("hunter2", salt)
	require.NoError(t, err)
	k2, err := DeriveKey("hunter2\n", salt)
	require.NoError(t, err)
	assert.Equal(t, k1, k2)
}

func TestDeriveKeyDifferentPasswordsDiffer(t *testing.T) {
	salt := testSalt()
	k1, err := DeriveKey("hunter2", salt)
	require.NoError(t, err)
	k2, err := DeriveKey("hunter3", salt)
	require.NoError(t, err)
	assert.NotEqual(t, k1, k2)
}

func TestDeriveKeyRejectsWrongSaltSize(t *testing.T) {
	_, err := DeriveKey("hunter2", bytes.Repeat([]byte{1}, SaltSize-1))
	assert.ErrorIs(t, err, ErrInvalidSalt)

	_, err = DeriveKey("hunter2", nil)
	assert.ErrorIs(t, err, ErrInvalidSalt)
}
