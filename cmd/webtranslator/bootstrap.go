package main

import (
	"fmt"
	"log/slog"

	"webtranslator/internal/api"
	"webtranslator/internal/artifacts"
	"webtranslator/internal/config"
	"webtranslator/internal/language"
	"webtranslator/internal/media/audio"
	"webtranslator/internal/pipeline"
	"webtranslator/internal/services/assemblyai"
	"webtranslator/internal/services/gtts"
	"webtranslator/internal/services/mymemory"
	"webtranslator/internal/services/whisper"
)

// newTranscriber selects the transcription provider named in cfg.
func newTranscriber(cfg *config.Config, logger *slog.Logger) (pipeline.Transcriber, error) {
	switch cfg.Transcription.Provider {
	case config.ProviderAssemblyAI:
		return assemblyai.New(assemblyai.Config{
			APIKey:  cfg.Transcription.APIKey,
			BaseURL: cfg.Transcription.BaseURL,
		}, logger), nil
	case config.ProviderOpenAI:
		return whisper.New(whisper.Config{
			APIKey:  cfg.Transcription.APIKey,
			BaseURL: cfg.Transcription.BaseURL,
			Model:   cfg.Transcription.Model,
		}, logger), nil
	default:
		return nil, fmt.Errorf("unsupported transcription provider %q", cfg.Transcription.Provider)
	}
}

func newPipeline(cfg *config.Config, store *artifacts.Store, logger *slog.Logger) (*pipeline.Service, error) {
	transcriber, err := newTranscriber(cfg, logger)
	if err != nil {
		return nil, err
	}
	normalizer := audio.NewNormalizer(store, audio.Options{
		FFmpegBinary:  cfg.Media.FFmpegBinary,
		FFprobeBinary: cfg.Media.FFprobeBinary,
		SampleRate:    cfg.Media.SampleRate,
		Channels:      cfg.Media.Channels,
	}, logger)
	translator := mymemory.NewClient(mymemory.Config{
		BaseURL:        cfg.Translation.BaseURL,
		Email:          cfg.Translation.Email,
		TimeoutSeconds: cfg.Translation.TimeoutSeconds,
	}, logger)
	synthesizer := gtts.NewClient(gtts.Config{
		BaseURL:        cfg.Speech.BaseURL,
		TLD:            cfg.Speech.TLD,
		TimeoutSeconds: cfg.Speech.TimeoutSeconds,
	}, logger)

	return pipeline.NewService(pipeline.Dependencies{
		Store:       store,
		Normalizer:  normalizer,
		Transcriber: transcriber,
		Translator:  translator,
		Synthesizer: synthesizer,
		Detector: language.NewDetector(
			language.WithMinConfidence(cfg.Detection.MinConfidence),
			language.WithCandidates(cfg.Detection.Candidates...),
		),
	}, logger)
}

func newAPIServer(cfg *config.Config, svc *pipeline.Service, store *artifacts.Store, logger *slog.Logger) (*api.Server, error) {
	return api.NewServer(api.Config{
		Bind:               cfg.Server.Bind,
		MaxUploadBytes:     cfg.MaxUploadBytes(),
		RateLimitPerMinute: cfg.HTTP.RateLimitPerMinute,
		AllowedOrigins:     cfg.HTTP.CORSAllowedOrigins,
	}, svc, store, logger)
}
