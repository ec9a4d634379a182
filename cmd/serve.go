package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/harishgm1236-debug/interview-text/config"
	"github.com/harishgm1236-debug/interview-text/observe"
	"github.com/harishgm1236-debug/interview-text/questionbank"
	"github.com/harishgm1236-debug/interview-text/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the evaluation HTTP API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 0, "listen port (default from server.port)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	if port, _ := cmd.Flags().GetInt("port"); port > 0 {
		cfg.Server.Port = port
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	prov, err := observe.NewProvider(observe.ProviderConfig{
		ServiceName:    cfg.Pipeline.Name,
		ServiceVersion: version,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := prov.Shutdown(context.Background()); err != nil {
			log.WithError(err).Warn("metrics shutdown failed")
		}
	}()

	bank, err := questionbank.Load(cfg.Paths.QuestionBank)
	if err != nil {
		return err
	}

	rt, err := wire(ctx, cfg, log, wireOpts{observer: prov.Metrics})
	if err != nil {
		return err
	}
	defer rt.Close()

	opts := server.Options{
		Port:         cfg.Server.Port,
		Engine:       rt.engine,
		Bank:         bank,
		Metrics:      prov.Metrics,
		Exporter:     prov.Handler(),
		MaxUpload:    int64(cfg.Server.MaxUploadMB) << 20,
		WriteTimeout: config.DurSeconds(cfg.Server.WriteTimeout),
		Logger:       log,
	}
	if rt.store != nil {
		opts.History = rt.store
	}

	log.WithField("version", version).Info("starting the evaluation server")
	return server.NewServer(opts).Start(ctx)
}
