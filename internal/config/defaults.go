package config

import "webtranslator/internal/language"

const (
	ProviderAssemblyAI = "assemblyai"
	ProviderOpenAI     = "openai"
)

const (
	defaultBind                  = "127.0.0.1:5000"
	defaultMaxUploadMB           = 50
	defaultArtifactDir           = "~/.local/share/webtranslator/generated"
	defaultRetentionMaxAge       = "24h"
	defaultRetentionSweep        = "1h"
	defaultTranscriptionProvider = ProviderAssemblyAI
	defaultAssemblyAIBaseURL     = "https://api.assemblyai.com"
	defaultOpenAIBaseURL         = "https://api.openai.com/v1"
	defaultOpenAIModel           = "whisper-1"
	defaultTranslationBaseURL    = "https://api.mymemory.translated.net"
	defaultTranslationTimeout    = 30
	defaultSpeechBaseURL         = "https://translate.google"
	defaultSpeechTLD             = "com"
	defaultSpeechTimeout         = 30
	defaultFFmpegBinary          = "ffmpeg"
	defaultFFprobeBinary         = "ffprobe"
	defaultSampleRate            = 44100
	defaultChannels              = 1
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Server: Server{
			Bind: defaultBind,
		},
		HTTP: HTTP{
			MaxUploadMB:        defaultMaxUploadMB,
			CORSAllowedOrigins: []string{"*"},
		},
		Paths: Paths{
			ArtifactDir: defaultArtifactDir,
		},
		Retention: Retention{
			MaxAge:        defaultRetentionMaxAge,
			SweepInterval: defaultRetentionSweep,
		},
		Transcription: Transcription{
			Provider: defaultTranscriptionProvider,
		},
		Translation: Translation{
			BaseURL:        defaultTranslationBaseURL,
			TimeoutSeconds: defaultTranslationTimeout,
		},
		Speech: Speech{
			BaseURL:        defaultSpeechBaseURL,
			TLD:            defaultSpeechTLD,
			TimeoutSeconds: defaultSpeechTimeout,
		},
		Detection: Detection{
			MinConfidence: language.DefaultMinConfidence,
		},
		Media: Media{
			FFmpegBinary:  defaultFFmpegBinary,
			FFprobeBinary: defaultFFprobeBinary,
			SampleRate:    defaultSampleRate,
			Channels:      defaultChannels,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
