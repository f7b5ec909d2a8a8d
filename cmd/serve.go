package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/opacbridge/server"
)

var (
	serveAddr    string
	serveWatch   bool
	serveOrigins []string
	serveNoLog   bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve catalogue searches over HTTP",
	Long: `Serve catalogue searches over HTTP.

Endpoints:
  GET /catalogues
  GET /catalogues/{name}/search?field=&term=&workflow=&format=mets|json
  GET /healthz

With --watch, changes to the plugin config file drop the cached mappings so
the next search uses the new file.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "Listen address")
	serveCmd.Flags().BoolVar(&serveWatch, "watch", false, "Reload the plugin config when it changes")
	serveCmd.Flags().StringSliceVar(&serveOrigins, "allow-origin", nil, "Allowed CORS origins (default: any)")
	serveCmd.Flags().BoolVar(&serveNoLog, "no-access-log", false, "Disable the access log")
}

func runServe(cmd *cobra.Command, args []string) (err error) {
	svc, err := loadService()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer func() {
		if cerr := svc.Close(context.Background()); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if serveWatch {
		if err := server.Watch(ctx, svc.App.PluginConfig, svc.Configs); err != nil {
			return fmt.Errorf("watching plugin config: %w", err)
		}
		slog.Info("watching plugin config", "path", svc.App.PluginConfig)
	}

	s := &server.Server{
		Service:        svc,
		AllowedOrigins: serveOrigins,
	}
	if !serveNoLog {
		s.AccessLog = os.Stdout
	}

	return s.Run(ctx, serveAddr)
}
