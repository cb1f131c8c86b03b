// Package cmd wires ds-proxy's command-line surface with cobra: encrypt,
// decrypt and proxy subcommands sharing a common set of persistent flags
// for password, salt and chunk size.
package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/betagouv/ds-proxy/internal/dsconfig"
)

var (
	passwordFile  string
	saltFlag      string
	chunkSizeFlag uint
	upstreamURL   string
	noop          bool
)

var rootCmd = &cobra.Command{
	Use:           "ds-proxy",
	Short:         "Transparent streaming encryption for object storage uploads and downloads",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&passwordFile, "password-file", "", "file whose first line is the encryption password (falls back to DS_PASSWORD)")
	rootCmd.PersistentFlags().StringVar(&saltFlag, "salt", "", "key derivation salt, exactly 32 bytes (falls back to DS_SALT)")
	rootCmd.PersistentFlags().UintVar(&chunkSizeFlag, "chunk-size", 0, "plaintext chunk size in bytes (falls back to DS_CHUNK_SIZE, default 16KiB)")

	rootCmd.AddCommand(encryptCmd, decryptCmd, proxyCmd)

	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}

// Execute runs the CLI, exiting the process via logrus.Fatal on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logrus.Fatal(err)
	}
}

func loadConfig(requireUpstream bool) (*dsconfig.Config, error) {
	return dsconfig.Load(dsconfig.Options{
		PasswordFile:    passwordFile,
		Salt:            saltFlag,
		ChunkSize:       chunkSizeFlag,
		UpstreamBaseURL: upstreamURL,
		RequireUpstream: requireUpstream,
	})
}
