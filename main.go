package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/spf13/cobra"

	"github.com/oaiiae/huma-contacts/cli/api"
	"github.com/oaiiae/huma-contacts/cli/logger"
	"github.com/oaiiae/huma-contacts/mcp"
)

// Set with -ldflags "-X main.version=...".
var (
	version  = "dev"
	revision = "unknown"
	created  = "unknown"
)

// Options for the CLI. Pass `--port` or set the `SERVICE_PORT` env var.
type Options struct {
	logger.Options
	api.ServerOptions
	api.RouterOptions
	api.StoreOptions
}

func buildInfo() api.BuildInfo {
	return api.BuildInfo{Title: "Contacts", Version: version, Revision: revision, Created: created}
}

func main() {
	newCLI().Run()
}

func newCLI() humacli.CLI {
	cli := humacli.New(func(hooks humacli.Hooks, options *Options) {
		// Runs before every subcommand too, the logger is only built once the
		// server starts so that subcommands keep stdout to themselves.
		ctx := context.Background()

		var (
			log        *slog.Logger
			srv        *http.Server
			closeStore func() error
		)
		hooks.OnStart(func() {
			log = logger.New(&options.Options)
			store, closer, err := api.NewStore(ctx, &options.StoreOptions, log)
			if err != nil {
				log.Error("could not open the store", "err", err)
				os.Exit(1)
			}
			closeStore = closer

			srv = api.NewServer(&options.ServerOptions,
				api.NewRouter(&options.RouterOptions, buildInfo(), store, log),
				log,
			)
			log.Info("server listening", "addr", srv.Addr, "version", version)
			err = srv.ListenAndServe()
			if err != http.ErrServerClosed {
				log.Error("failed to listen and serve", "err", err)
			} else {
				log.Info("server closed")
			}
		})
		hooks.OnStop(func() {
			if log == nil {
				return
			}
			ctx, cancel := context.WithTimeout(ctx, time.Minute)
			defer cancel()
			if srv != nil {
				err := srv.Shutdown(ctx)
				if err != nil {
					log.Warn("could not shutdown the server", "err", err)
				}
			}
			if closeStore != nil {
				err := closeStore()
				if err != nil {
					log.Warn("could not close the store", "err", err)
				}
			}
		})
	})

	cli.Root().Use = "contacts"
	cli.Root().Version = version

	cli.Root().AddCommand(&cobra.Command{
		Use:   "openapi",
		Short: "Print the OpenAPI spec",
		Run: humacli.WithOptions(func(_ *cobra.Command, _ []string, options *Options) {
			var oapi *huma.OpenAPI
			api.NewRouter(&options.RouterOptions, buildInfo(), nil, slog.New(slog.DiscardHandler),
				func(api huma.API) { oapi = api.OpenAPI() },
			)
			b, err := oapi.YAML()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			fmt.Print(string(b))
		}),
	})

	cli.Root().AddCommand(&cobra.Command{
		Use:   "mcp",
		Short: "Serve the contacts tools over stdio",
		Run: humacli.WithOptions(func(cmd *cobra.Command, _ []string, options *Options) {
			// stdout carries the protocol.
			if options.File == "" || options.File == "-" {
				options.File = "stderr"
			}
			logger := logger.New(&options.Options)

			store, closer, err := api.NewStore(cmd.Context(), &options.StoreOptions, logger)
			if err != nil {
				logger.Error("could not open the store", "err", err)
				os.Exit(1)
			}
			defer closer() //nolint: errcheck

			err = mcp.Run(store, logger, version)
			if err != nil {
				logger.Error("mcp server stopped", "err", err)
			}
		}),
	})

	return cli
}
