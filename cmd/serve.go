package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/mcqgen/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the generate and audit HTTP API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Server.Addr = addr
		}

		e, err := newEngine(cmd.Context())
		if err != nil {
			return err
		}
		return server.New(e, cfg.Server, logger).Run(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides server.addr)")
}
