package audio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"

	"webtranslator/internal/artifacts"
	"webtranslator/internal/logging"
	"webtranslator/internal/media/ffprobe"
	"webtranslator/internal/services"
)

// ErrNoAudioStream reports that the probe found no audio in the upload.
var ErrNoAudioStream = errors.New("no audio stream found")

const (
	defaultSampleRate = 44100
	defaultChannels   = 1
	stageNormalize    = "normalize"
)

// Options configures the ffmpeg conversion.
type Options struct {
	FFmpegBinary  string
	FFprobeBinary string
	SampleRate    int
	Channels      int
}

// Store is the subset of the artifact store used by the normalizer.
type Store interface {
	Reserve(ext string) (artifacts.Artifact, error)
	Refresh(a artifacts.Artifact) (artifacts.Artifact, error)
	PutFile(ctx context.Context, src string, ext string) (artifacts.Artifact, error)
	Remove(a artifacts.Artifact) error
}

// CommandRunner executes an external command.
type CommandRunner func(ctx context.Context, name string, args ...string) error

// Prober inspects a media file.
type Prober func(ctx context.Context, binary, path string) (ffprobe.Result, error)

// Normalized is the outcome of a normalization attempt.
type Normalized struct {
	Artifact artifacts.Artifact
	// Fallback is set when Artifact holds the unconverted source bytes.
	Fallback bool
	// Cause records why conversion was skipped or failed.
	Cause error
}

// Normalizer converts uploads with ffmpeg.
type Normalizer struct {
	store  Store
	opts   Options
	logger *slog.Logger
	runner CommandRunner
	probe  Prober
}

// NewNormalizer constructs a Normalizer, filling unset options with the
// canonical format.
func NewNormalizer(store Store, opts Options, logger *slog.Logger) *Normalizer {
	if strings.TrimSpace(opts.FFmpegBinary) == "" {
		opts.FFmpegBinary = "ffmpeg"
	}
	if strings.TrimSpace(opts.FFprobeBinary) == "" {
		opts.FFprobeBinary = "ffprobe"
	}
	if opts.SampleRate <= 0 {
		opts.SampleRate = defaultSampleRate
	}
	if opts.Channels <= 0 {
		opts.Channels = defaultChannels
	}
	return &Normalizer{
		store:  store,
		opts:   opts,
		logger: logging.NewComponentLogger(logger, "normalizer"),
		runner: runCommand,
		probe:  ffprobe.Inspect,
	}
}

// SetCommandRunner overrides how ffmpeg is executed (primarily for tests).
func (n *Normalizer) SetCommandRunner(runner CommandRunner) {
	if runner == nil {
		runner = runCommand
	}
	n.runner = runner
}

// SetProber overrides how uploads are inspected (primarily for tests).
// A nil prober disables probing.
func (n *Normalizer) SetProber(probe Prober) {
	n.probe = probe
}

// Normalize converts src into a new .wav artifact. It never fails: on any
// error the source bytes are copied into a fresh .wav artifact, and if even
// that copy fails the source artifact itself is returned.
func (n *Normalizer) Normalize(ctx context.Context, src artifacts.Artifact) Normalized {
	ctx = services.WithStage(ctx, stageNormalize)
	logger := logging.WithContext(ctx, n.logger)

	if cause := n.checkAudio(ctx, logger, src); cause != nil {
		return n.fallback(ctx, logger, src, cause)
	}

	dst, err := n.store.Reserve(".wav")
	if err != nil {
		return n.fallback(ctx, logger, src, err)
	}
	if err := n.runner(ctx, n.opts.FFmpegBinary, BuildArgs(src.Path, dst.Path, n.opts.SampleRate, n.opts.Channels)...); err != nil {
		_ = n.store.Remove(dst)
		return n.fallback(ctx, logger, src, services.Wrap(services.ErrExternalTool, stageNormalize, "ffmpeg", "conversion failed", err))
	}
	converted, err := n.store.Refresh(dst)
	if err != nil {
		return n.fallback(ctx, logger, src, err)
	}
	if converted.Size == 0 {
		_ = n.store.Remove(converted)
		return n.fallback(ctx, logger, src, services.Wrap(services.ErrExternalTool, stageNormalize, "ffmpeg", "conversion produced empty output", nil))
	}

	logger.Info("audio normalized",
		logging.ArtifactID(converted.ID),
		logging.String("source_id", src.ID),
		logging.Int64("output_bytes", converted.Size),
		logging.Int("sample_rate", n.opts.SampleRate),
		logging.Int("channels", n.opts.Channels),
	)
	return Normalized{Artifact: converted}
}

func (n *Normalizer) checkAudio(ctx context.Context, logger *slog.Logger, src artifacts.Artifact) error {
	if n.probe == nil {
		return nil
	}
	result, err := n.probe(ctx, n.opts.FFprobeBinary, src.Path)
	if err != nil {
		logger.Debug("ffprobe inspection failed; attempting conversion anyway", logging.Error(err))
		return nil
	}
	if result.AudioStreamCount() == 0 {
		return ErrNoAudioStream
	}
	if primary, ok := result.PrimaryAudio(); ok {
		logger.Debug("upload probed",
			logging.String("codec", primary.CodecName),
			logging.Int("source_sample_rate", primary.SampleRateHz()),
			logging.Int("source_channels", primary.Channels),
			logging.Float64("duration_seconds", result.DurationSeconds()),
		)
	}
	return nil
}

func (n *Normalizer) fallback(ctx context.Context, logger *slog.Logger, src artifacts.Artifact, cause error) Normalized {
	logging.WarnWithContext(logger, "audio normalization failed; forwarding original bytes", "normalize_fallback",
		logging.ArtifactID(src.ID),
		logging.Error(cause),
		logging.String(logging.FieldErrorHint, "ensure ffmpeg is installed and the upload is a supported audio format"),
		logging.String(logging.FieldImpact, "transcription receives unconverted audio"),
	)
	copied, err := n.store.PutFile(ctx, src.Path, ".wav")
	if err != nil {
		return Normalized{Artifact: src, Fallback: true, Cause: errors.Join(cause, err)}
	}
	return Normalized{Artifact: copied, Fallback: true, Cause: cause}
}

// BuildArgs returns the ffmpeg arguments that convert src to a PCM WAV at
// dst with the given sample rate and channel count.
func BuildArgs(src, dst string, sampleRate, channels int) []string {
	return []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", src,
		"-vn",
		"-sn",
		"-dn",
		"-ac", strconv.Itoa(channels),
		"-ar", strconv.Itoa(sampleRate),
		"-c:a", "pcm_s16le",
		dst,
	}
}

func runCommand(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}
