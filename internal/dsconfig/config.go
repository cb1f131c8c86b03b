// Package dsconfig resolves ds-proxy's runtime configuration — password,
// salt, chunk size, upstream target — from CLI flags with environment
// variable fallbacks, and verifies the resolved password against a
// sibling hash.key file before anything else runs.
package dsconfig

import (
	"fmt"
	"os"
	"strconv"

	"github.com/betagouv/ds-proxy/internal/dscipher"
)

// DefaultChunkSize is used when neither --chunk-size nor DS_CHUNK_SIZE is
// set, matching the upstream Rust ds_proxy's DEFAULT_CHUNK_SIZE.
const DefaultChunkSize = 16 * 1024

// HashKeyFile is the sibling file VerifyPassword checks the resolved
// password against at startup.
const HashKeyFile = "hash.key"

// Config is ds-proxy's fully resolved runtime configuration.
type Config struct {
	Password        string
	Salt            []byte
	ChunkSize       uint32
	UpstreamBaseURL string
}

// Options are the raw, possibly-empty inputs Load resolves into a
// Config, one field per CLI flag.
type Options struct {
	PasswordFile    string
	Salt            string
	ChunkSize       uint
	UpstreamBaseURL string
	// RequireUpstream is true for the proxy subcommand, which needs an
	// upstream target; encrypt/decrypt don't.
	RequireUpstream bool
}

// Load resolves opts (and their environment-variable fallbacks) into a
// Config, then verifies the resolved password against HashKeyFile in the
// current directory.
func Load(opts Options) (*Config, error) {
	password, err := resolvePassword(opts.PasswordFile)
	if err != nil {
		return nil, err
	}

	salt := opts.Salt
	if salt == "" {
		salt = os.Getenv("DS_SALT")
	}
	if salt == "" {
		return nil, fmt.Errorf("dsconfig: salt is required (--salt or DS_SALT)")
	}

	chunkSize := uint32(opts.ChunkSize)
	if chunkSize == 0 {
		chunkSize, err = resolveChunkSizeFromEnv()
		if err != nil {
			return nil, err
		}
	}

	upstream := opts.UpstreamBaseURL
	if upstream == "" {
		upstream = os.Getenv("DS_UPSTREAM_URL")
	}
	if opts.RequireUpstream && upstream == "" {
		return nil, fmt.Errorf("dsconfig: upstream URL is required (--upstream-url or DS_UPSTREAM_URL)")
	}

	if err := VerifyPassword(password, HashKeyFile); err != nil {
		return nil, err
	}

	return &Config{
		Password:        password,
		Salt:            []byte(salt),
		ChunkSize:       chunkSize,
		UpstreamBaseURL: upstream,
	}, nil
}

func resolvePassword(passwordFile string) (string, error) {
	if passwordFile != "" {
		return readPasswordFile(passwordFile)
	}
	if password := os.Getenv("DS_PASSWORD"); password != "" {
		return trimPassword(password), nil
	}
	return "", fmt.Errorf("dsconfig: password is required (--password-file or DS_PASSWORD)")
}

func resolveChunkSizeFromEnv() (uint32, error) {
	raw := os.Getenv("DS_CHUNK_SIZE")
	if raw == "" {
		return DefaultChunkSize, nil
	}
	n, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("dsconfig: invalid DS_CHUNK_SIZE %q: %w", raw, err)
	}
	return uint32(n), nil
}

// DeriveKey derives the stream key from the resolved password and salt.
func (c *Config) DeriveKey() (*dscipher.Key, error) {
	return dscipher.DeriveKey(c.Password, c.Salt)
}
