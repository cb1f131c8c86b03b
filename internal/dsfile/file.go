// Package dsfile drives the codec in internal/dscipher directly against
// the filesystem, backing ds-proxy's "encrypt"/"decrypt" subcommands.
package dsfile

import (
	"fmt"
	"io"
	"os"

	"github.com/betagouv/ds-proxy/internal/dscipher"
)

// EncryptFile seals inPath into outPath as a ds-proxy container sealed
// with chunkSize-byte frames.
func EncryptFile(key *dscipher.Key, chunkSize uint32, inPath, outPath string) error {
	in, err := os.Open(inPath)
	if err != nil {
		return fmt.Errorf("dsfile: opening %s: %w", inPath, err)
	}
	defer in.Close()

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("dsfile: creating %s: %w", outPath, err)
	}
	defer out.Close()

	enc, err := dscipher.NewEncoder(key, chunkSize, in)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, enc); err != nil {
		return fmt.Errorf("dsfile: encrypting %s: %w", inPath, err)
	}
	return nil
}

// DecryptFile opens inPath, decodes it (whether or not it is actually a
// ds-proxy container — plaintext input passes through unchanged), and
// writes the result to outPath.
func DecryptFile(key *dscipher.Key, inPath, outPath string) error {
	in, err := os.Open(inPath)
	if err != nil {
		return fmt.Errorf("dsfile: opening %s: %w", inPath, err)
	}
	defer in.Close()

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("dsfile: creating %s: %w", outPath, err)
	}
	defer out.Close()

	dec := dscipher.NewDecoder(key, in)
	if _, err := io.Copy(out, dec); err != nil {
		return fmt.Errorf("dsfile: decrypting %s: %w", inPath, err)
	}
	return nil
}
