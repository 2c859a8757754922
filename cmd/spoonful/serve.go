package main

import (
	"net/http"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"spoonful/task"
	"spoonful/web"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the web dashboard",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := newLogger()
		if err != nil {
			return err
		}
		defer logger.Sync()

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		addr := cfg.Server.Addr
		if serveAddr != "" {
			addr = serveAddr
		}

		store, err := task.Open(cfg.Store.Path)
		if err != nil {
			return err
		}
		defer store.Close()

		handler := web.NewHandler(web.Options{Store: store, Logger: logger})

		logger.Info("serving dashboard",
			zap.String("addr", addr),
			zap.String("db", cfg.Store.Path))
		return http.ListenAndServe(addr, handler)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config)")
	rootCmd.AddCommand(serveCmd)
}
