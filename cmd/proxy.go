package cmd

import (
	"net"
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/betagouv/ds-proxy/internal/dscipher"
	"github.com/betagouv/ds-proxy/internal/dsproxy"
)

var proxyCmd = &cobra.Command{
	Use:   "proxy <listen-address> <listen-port>",
	Short: "Run as a reverse proxy, encrypting PUT bodies and decrypting GET bodies",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(true)
		if err != nil {
			return err
		}

		var key *dscipher.Key
		if !noop {
			key, err = cfg.DeriveKey()
			if err != nil {
				return err
			}
		}

		srv := &dsproxy.Server{
			Key:             key,
			ChunkSize:       cfg.ChunkSize,
			UpstreamBaseURL: cfg.UpstreamBaseURL,
			Noop:            noop,
			Client:          http.DefaultClient,
			Log:             logrus.StandardLogger(),
		}
		addr := net.JoinHostPort(args[0], args[1])
		return srv.Run(addr)
	},
}

func init() {
	proxyCmd.Flags().BoolVar(&noop, "noop", false, "disable the codec and forward bytes unchanged (for benchmarking)")
	proxyCmd.Flags().StringVar(&upstreamURL, "upstream-url", "", "base URL of the upstream object store (falls back to DS_UPSTREAM_URL)")
}
