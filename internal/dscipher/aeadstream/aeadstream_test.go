package aeadstream

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey(t *testing.T) *Key {
	t.Helper()
	var k Key
	for i := range k {
		k[i] = byte(i)
	}
	return &k
}

func TestPushPullRoundTrip(t *testing.T) {
	key := testKey(t)
	push, header, err := InitPush(key)
	require.NoError(t, err)

	pull := InitPull(header, key)

	frames := []string{"hello", "", "a slightly longer frame of plaintext"}
	for _, f := range frames {
		sealed := push.Seal(nil, []byte(f))
		assert.Len(t, sealed, len(f)+TagSize)
		opened, err := pull.Open(nil, sealed)
		require.NoError(t, err)
		assert.Equal(t, f, string(opened))
	}
}

func TestPullOpenWrongKeyFails(t *testing.T) {
	key := testKey(t)
	var otherKey Key
	for i := range otherKey {
		otherKey[i] = byte(255 - i)
	}

	push, header, err := InitPush(key)
	require.NoError(t, err)
	sealed := push.Seal(nil, []byte("top secret"))

	pull := InitPull(header, &otherKey)
	_, err = pull.Open(nil, sealed)
	assert.ErrorIs(t, err, ErrAuthFailure)
}

func TestPullOpenTamperedFrameFails(t *testing.T) {
	key := testKey(t)
	push, header, err := InitPush(key)
	require.NoError(t, err)
	sealed := push.Seal(nil, []byte("authenticate me"))
	sealed[0] ^= 0xFF

	pull := InitPull(header, key)
	_, err = pull.Open(nil, sealed)
	assert.ErrorIs(t, err, ErrAuthFailure)
}

func TestNonceAdvancesPerFrame(t *testing.T) {
	key := testKey(t)
	push, header, err := InitPush(key)
	require.NoError(t, err)
	pull := InitPull(header, key)

	// Sealing two identical plaintexts must not produce identical
	// ciphertext, since the nonce increments between frames.
	a := push.Seal(nil, []byte("same"))
	b := push.Seal(nil, []byte("same"))
	assert.NotEqual(t, a, b)

	openedA, err := pull.Open(nil, a)
	require.NoError(t, err)
	assert.Equal(t, "same", string(openedA))

	openedB, err := pull.Open(nil, b)
	require.NoError(t, err)
	assert.Equal(t, "same", string(openedB))
}

func TestOpenOutOfOrderThenInOrder(t *testing.T) {
	key := testKey(t)
	push, header, err := InitPush(key)
	require.NoError(t, err)
	first := push.Seal(nil, []byte("frame one"))
	second := push.Seal(nil, []byte("frame two"))

	pull := InitPull(header, key)

	// Opening out of sequence fails and does not advance pull's nonce,
	// so the stream can still be opened correctly in order afterwards.
	_, err = pull.Open(nil, second)
	assert.ErrorIs(t, err, ErrAuthFailure)

	opened, err := pull.Open(nil, first)
	require.NoError(t, err)
	assert.Equal(t, "frame one", string(opened))
}
