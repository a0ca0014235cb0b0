package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-builder/internal/logger"
	"github.com/jonathan/resume-builder/internal/pipeline"
	"github.com/jonathan/resume-builder/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: "Start an HTTP server exposing LaTeX generation, PDF compilation, form patching and\n" +
		"AI assistance endpoints. AI endpoints are disabled when no API key is configured.",
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides config and PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	port := settings.Port
	if servePort > 0 {
		port = servePort
	}

	compiler, err := newCompiler(settings)
	if err != nil {
		return err
	}

	var gen pipeline.Generator
	g, closeGen, err := generatorFactory(ctx, settings)
	if err != nil {
		logger.Warn().Err(err).Msg("text generation disabled")
	} else {
		gen = g
		defer closeGen()
	}

	srv, err := server.New(server.Config{
		Port:           port,
		AllowedOrigins: allowedOrigins(settings.AllowedOrigins),
		Layout:         layoutOptions(settings),
		Concurrency:    settings.Concurrency,
		Generator:      gen,
		Compiler:       compiler,
	})
	if err != nil {
		return errors.Wrap(err, "creating server")
	}

	return srv.Start(ctx)
}

// allowedOrigins maps a "*" entry to the server's allow-any setting
func allowedOrigins(origins []string) []string {
	for _, origin := range origins {
		if origin == "*" {
			return nil
		}
	}
	return origins
}

