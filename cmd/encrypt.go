package cmd

import (
	"github.com/spf13/cobra"

	"github.com/betagouv/ds-proxy/internal/dsfile"
)

var encryptCmd = &cobra.Command{
	Use:   "encrypt <input-file> <output-file>",
	Short: "Encrypt a file into the ds-proxy container format",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(false)
		if err != nil {
			return err
		}
		key, err := cfg.DeriveKey()
		if err != nil {
			return err
		}
		return dsfile.EncryptFile(key, cfg.ChunkSize, args[0], args[1])
	},
}
