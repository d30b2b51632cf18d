package vault

import (
	"errors"
	"testing"

	"github.com/absfs/gringotts"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fastParams = gringotts.Argon2idParams{Memory: 8 * 1024, Iterations: 1, Parallelism: 1}

func newKey(t *testing.T, password string) *gringotts.Key {
	t.Helper()
	key, err := gringotts.NewKey([]byte(password), fastParams)
	require.NoError(t, err)
	t.Cleanup(key.Destroy)
	return key
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.ErrorLevel)
	return l
}

func openMem(t *testing.T) *Vault {
	t.Helper()
	v, err := Open(Options{Key: newKey(t, "vault"), Logger: quietLogger()})
	require.NoError(t, err)
	t.Cleanup(func() { v.Close() })
	return v
}

func TestPutGet(t *testing.T) {
	v := openMem(t)

	require.NoError(t, v.Put("alpha", []byte("first record")))
	require.NoError(t, v.Put("empty", []byte{}))

	got, err := v.Get("alpha")
	require.NoError(t, err)
	assert.Equal(t, "first record", string(got))

	got, err = v.Get("empty")
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, v.Put("alpha", []byte("replaced")))
	got, err = v.Get("alpha")
	require.NoError(t, err)
	assert.Equal(t, "replaced", string(got))
}

func TestGetMissing(t *testing.T) {
	v := openMem(t)

	_, err := v.Get("nothing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, v.Delete("nothing"), ErrNotFound)
}

func TestEmptyName(t *testing.T) {
	v := openMem(t)

	assert.True(t, gringotts.IsValidationError(v.Put("", []byte("x"))))
	_, err := v.Get("")
	assert.True(t, gringotts.IsValidationError(err))
}

func TestListAndDelete(t *testing.T) {
	v := openMem(t)

	for _, name := range []string{"c", "a", "b"} {
		require.NoError(t, v.Put(name, []byte(name)))
	}
	names, err := v.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, names)

	require.NoError(t, v.Delete("b"))
	names, err = v.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, names)
}

func TestCustomContext(t *testing.T) {
	ctx, err := gringotts.NewContext([]byte("CUSTOM"), gringotts.CipherXChaCha20,
		gringotts.HashSHA256, gringotts.CompZstd, gringotts.LevelFast, gringotts.SecurityParanoid)
	require.NoError(t, err)

	v, err := Open(Options{Context: ctx, Key: newKey(t, "custom"), Logger: quietLogger()})
	require.NoError(t, err)
	defer v.Close()

	require.NoError(t, v.Put("doc", []byte("stored with xchacha20")))

	// later changes to the caller's context do not affect the vault
	require.NoError(t, ctx.SetCipher(gringotts.CipherAES))
	got, err := v.Get("doc")
	require.NoError(t, err)
	assert.Equal(t, "stored with xchacha20", string(got))
}

func TestReopenOnDisk(t *testing.T) {
	dir := t.TempDir()
	key := newKey(t, "persistent")

	v, err := Open(Options{Path: dir, Key: key, Logger: quietLogger()})
	require.NoError(t, err)
	require.NoError(t, v.Put("kept", []byte("survives reopen")))
	require.NoError(t, v.Close())

	_, err = Open(Options{Path: dir, Key: newKey(t, "intruder"), Logger: quietLogger()})
	assert.True(t, errors.Is(err, ErrWrongKey), "error = %v", err)

	v, err = Open(Options{Path: dir, Key: key, Logger: quietLogger()})
	require.NoError(t, err)
	defer v.Close()
	got, err := v.Get("kept")
	require.NoError(t, err)
	assert.Equal(t, "survives reopen", string(got))
}

func TestClosed(t *testing.T) {
	v, err := Open(Options{Key: newKey(t, "closing"), Logger: quietLogger()})
	require.NoError(t, err)
	require.NoError(t, v.Close())

	assert.ErrorIs(t, v.Put("a", nil), ErrClosed)
	_, err = v.Get("a")
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, v.Delete("a"), ErrClosed)
	_, err = v.List()
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, v.Close(), ErrClosed)
}

func TestOpenRequiresKey(t *testing.T) {
	_, err := Open(Options{})
	assert.True(t, gringotts.IsValidationError(err))
}

func TestOpenDoesNotConsumeKey(t *testing.T) {
	key := newKey(t, "shared")
	v, err := Open(Options{Key: key, Logger: quietLogger()})
	require.NoError(t, err)
	require.NoError(t, v.Close())
	assert.False(t, key.Destroyed(), "closing the vault must not destroy the caller's key")
}
