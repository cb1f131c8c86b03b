package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/betagouv/ds-proxy/internal/dsconfig"
)

// chdir changes to dir for the duration of the test.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { require.NoError(t, os.Chdir(old)) })
}

func writeHashKey(t *testing.T, dir, password string) {
	t.Helper()
	hash, err := dsconfig.HashPassword(password)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, dsconfig.HashKeyFile), hash, 0o600))
}

func TestEncryptDecryptRoundTripViaCLI(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	writeHashKey(t, dir, "cli-password")

	plainPath := filepath.Join(dir, "plain.txt")
	cipherPath := filepath.Join(dir, "cipher.bin")
	roundTripPath := filepath.Join(dir, "roundtrip.txt")
	require.NoError(t, os.WriteFile(plainPath, []byte("hello from the command line"), 0o600))

	commonArgs := []string{
		"--password-file", writePasswordFile(t, dir, "cli-password"),
		"--salt", "abcdefghabcdefghabcdefghabcdefgh",
		"--chunk-size", "128",
	}

	rootCmd.SetArgs(append(append([]string{"encrypt"}, commonArgs...), plainPath, cipherPath))
	require.NoError(t, rootCmd.Execute())

	rootCmd.SetArgs(append(append([]string{"decrypt"}, commonArgs...), cipherPath, roundTripPath))
	require.NoError(t, rootCmd.Execute())

	got, err := os.ReadFile(roundTripPath)
	require.NoError(t, err)
	assert.Equal(t, "hello from the command line", string(got))
}

func TestEncryptFailsWithoutHashKey(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	// deliberately not writing hash.key

	plainPath := filepath.Join(dir, "plain.txt")
	require.NoError(t, os.WriteFile(plainPath, []byte("data"), 0o600))

	rootCmd.SetArgs([]string{
		"encrypt",
		"--password-file", writePasswordFile(t, dir, "whatever"),
		"--salt", "abcdefghabcdefghabcdefghabcdefgh",
		plainPath, filepath.Join(dir, "out.bin"),
	})
	assert.Error(t, rootCmd.Execute())
}

func writePasswordFile(t *testing.T, dir, password string) string {
	t.Helper()
	path := filepath.Join(dir, "password.txt")
	require.NoError(t, os.WriteFile(path, []byte(password), 0o600))
	return path
}
