package dsconfig

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// ErrIncorrectPassword is returned by VerifyPassword when the supplied
// password does not match the stored hash.
var ErrIncorrectPassword = errors.New("dsconfig: password does not match stored hash")

func trimPassword(password string) string {
	return strings.TrimRight(password, " \t\r\n")
}

// readPasswordFile reads the first line of path as the password,
// trimming trailing whitespace.
func readPasswordFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", err
		}
		return "", nil
	}
	return trimPassword(scanner.Text()), nil
}

// VerifyPassword checks password against the bcrypt hash stored in
// hashKeyPath. A missing hash file or a mismatched password is a fatal
// startup condition for ds-proxy, never a lazily-discovered one — this
// mirrors ensure_valid_password in the upstream Rust ds_proxy.
func VerifyPassword(password string, hashKeyPath string) error {
	stored, err := os.ReadFile(hashKeyPath)
	if err != nil {
		return fmt.Errorf("dsconfig: reading %s: %w", hashKeyPath, err)
	}
	if err := bcrypt.CompareHashAndPassword(stored, []byte(trimPassword(password))); err != nil {
		return ErrIncorrectPassword
	}
	return nil
}

// HashPassword produces a bcrypt hash suitable for writing to a hash.key
// file, used by tests and by operators provisioning a new deployment.
func HashPassword(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(trimPassword(password)), bcrypt.DefaultCost)
}
