package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"foodgraph/kg/internal/config"
	"foodgraph/kg/internal/server"
)

var (
	servePort    string
	serveOrigins []string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the interactive graph page and JSON API",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := OpenDatabase()
		if err != nil {
			return err
		}
		defer d.Close()

		if cfg.App.Env == config.Production {
			gin.SetMode(gin.ReleaseMode)
		}

		port := cfg.App.ServerPort
		if servePort != "" {
			port = servePort
		}

		srv := server.New(d, server.Config{
			Graph:          cfg.Graph,
			Render:         renderOptions(),
			DefaultWeights: cfg.Store.DefaultWeights,
			AllowOrigins:   serveOrigins,
		}, log)

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return srv.ListenAndServe(ctx, ":"+port)
	},
}

func init() {
	serveCmd.Flags().StringVar(&servePort, "port", "", "Listen port (default from APP_SERVER_PORT)")
	serveCmd.Flags().StringSliceVar(&serveOrigins, "allow-origin", nil, "CORS origins to allow")
	rootCmd.AddCommand(serveCmd)
}
