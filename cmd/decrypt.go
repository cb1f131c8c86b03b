package cmd

import (
	"github.com/spf13/cobra"

	"github.com/betagouv/ds-proxy/internal/dsfile"
)

var decryptCmd = &cobra.Command{
	Use:   "decrypt <input-file> <output-file>",
	Short: "Decrypt a ds-proxy container back into plaintext",
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
		return dsfile.DecryptFile(key, args[0], args[1])
	},
}
