package main

import (
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"webtranslator/internal/artifacts"
	"webtranslator/internal/logging"
	"webtranslator/internal/preflight"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var bindFlag string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if bind := strings.TrimSpace(bindFlag); bind != "" {
				cfg.Server.Bind = bind
			}
			logger, err := ctx.logger()
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			results := preflight.RunAll(cmd.Context(), cfg, preflight.Options{})
			for _, r := range results {
				if r.Passed || !r.Optional {
					continue
				}
				logging.WarnWithContext(logger, "optional dependency unavailable", "dependency_missing",
					logging.String("dependency", r.Name),
					logging.String("detail", r.Detail),
					logging.String(logging.FieldImpact, "uploads are transcribed without conversion"),
					logging.String(logging.FieldErrorHint, "install ffmpeg or set media.ffmpeg_binary"),
				)
			}
			if failed := preflight.Failed(results); len(failed) > 0 {
				return fmt.Errorf("preflight failed: %s: %s", failed[0].Name, failed[0].Detail)
			}

			store, err := ctx.openStore(logger)
			if err != nil {
				return err
			}
			svc, err := newPipeline(cfg, store, logger)
			if err != nil {
				return err
			}
			server, err := newAPIServer(cfg, svc, store, logger)
			if err != nil {
				return err
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			sweeper := artifacts.NewSweeper(store, cfg.RetentionMaxAge(), cfg.RetentionSweepInterval(), logger)
			sweepDone := make(chan struct{})
			go func() {
				defer close(sweepDone)
				sweeper.Run(runCtx)
			}()

			logger.Info("webtranslator starting",
				logging.String("config", ctx.configPath),
				logging.String("transcription_provider", cfg.Transcription.Provider),
				logging.String("artifact_dir", store.Dir()),
				logging.Duration("retention", cfg.RetentionMaxAge()),
				logging.Duration("translation_timeout", cfg.TranslationTimeout()),
				logging.Duration("speech_timeout", cfg.SpeechTimeout()),
			)
			err = server.Run(runCtx)
			stop()
			<-sweepDone
			if err != nil && runCtx.Err() == nil {
				return err
			}
			if err != nil {
				logger.Warn("shutdown finished with error", logging.Error(err))
			}
			logger.Info("webtranslator stopped")
			return nil
		},
	}

	cmd.Flags().StringVar(&bindFlag, "bind", "", "Listen address (overrides server.bind)")
	return cmd
}
