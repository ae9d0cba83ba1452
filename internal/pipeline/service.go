package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"

	"webtranslator/internal/artifacts"
	"webtranslator/internal/language"
	"webtranslator/internal/logging"
	"webtranslator/internal/media/audio"
	"webtranslator/internal/services"
	"webtranslator/internal/textutil"
)

const speechExt = ".mp3"

// ArtifactStore persists uploads and generated audio.
type ArtifactStore interface {
	Put(ctx context.Context, r io.Reader, ext string) (artifacts.Artifact, error)
	Reserve(ext string) (artifacts.Artifact, error)
	Refresh(a artifacts.Artifact) (artifacts.Artifact, error)
	Remove(a artifacts.Artifact) error
	URLFor(a artifacts.Artifact) string
}

// Normalizer converts a stored upload into canonical audio. It never fails;
// failures are reported through Normalized.Fallback and Normalized.Cause.
type Normalizer interface {
	Normalize(ctx context.Context, src artifacts.Artifact) audio.Normalized
}

// Transcriber turns an audio file into text.
type Transcriber interface {
	Transcribe(ctx context.Context, path string) (Transcript, error)
}

// Translator converts text between languages. source may be "auto".
type Translator interface {
	Translate(ctx context.Context, text, source, target string) (string, error)
}

// Synthesizer writes spoken audio for text to dst.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, lang string, dst io.Writer) error
}

// Detector guesses the language of free text with per-use fallbacks.
type Detector interface {
	DetectSourceHint(text string) string
	DetectVoice(text string) string
}

// Dependencies bundles the collaborators of a Service.
type Dependencies struct {
	Store       ArtifactStore
	Normalizer  Normalizer
	Transcriber Transcriber
	Translator  Translator
	Synthesizer Synthesizer
	Detector    Detector
}

// Service runs the translator flows. It holds no per-request state and is
// safe for concurrent use.
type Service struct {
	store       ArtifactStore
	normalizer  Normalizer
	transcriber Transcriber
	translator  Translator
	synthesizer Synthesizer
	detector    Detector
	logger      *slog.Logger
}

// NewService constructs a Service. A nil Detector uses the whatlanggo backed
// language.Detector.
func NewService(deps Dependencies, logger *slog.Logger) (*Service, error) {
	switch {
	case deps.Store == nil:
		return nil, errors.New("pipeline: artifact store is required")
	case deps.Normalizer == nil:
		return nil, errors.New("pipeline: normalizer is required")
	case deps.Transcriber == nil:
		return nil, errors.New("pipeline: transcriber is required")
	case deps.Translator == nil:
		return nil, errors.New("pipeline: translator is required")
	case deps.Synthesizer == nil:
		return nil, errors.New("pipeline: synthesizer is required")
	}
	detector := deps.Detector
	if detector == nil {
		detector = language.NewDetector()
	}
	return &Service{
		store:       deps.Store,
		normalizer:  deps.Normalizer,
		transcriber: deps.Transcriber,
		translator:  deps.Translator,
		synthesizer: deps.Synthesizer,
		detector:    detector,
		logger:      logging.NewComponentLogger(logger, "pipeline"),
	}, nil
}

// begin attaches a correlation id unless the caller already supplied one.
func (s *Service) begin(ctx context.Context, flow string) (context.Context, *slog.Logger) {
	if _, ok := services.RequestIDFromContext(ctx); !ok {
		ctx = services.WithRequestID(ctx, uuid.NewString())
	}
	return ctx, logging.WithContext(ctx, s.logger).With(logging.String("flow", flow))
}

// TranslateText translates free text into the selected language. A "Select"
// or unrecognized label echoes the text without calling the translator.
func (s *Service) TranslateText(ctx context.Context, req TextRequest) (TextResult, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return TextResult{}, services.Validation("No text provided")
	}
	label := strings.TrimSpace(req.Language)
	if label == "" {
		return TextResult{}, services.Validation("No target language selected")
	}
	ctx, logger := s.begin(ctx, "translate_text")

	selection, recognized := language.ParseSelection(label)
	if !recognized {
		logger.Warn("unrecognized target language; echoing text",
			logging.String("label", label),
			logging.String("accepted", strings.Join(language.Labels(), ", ")),
		)
		return TextResult{TranslatedText: text}, nil
	}
	if selection.IsNone() {
		logger.Debug("no target selected; echoing text")
		return TextResult{TranslatedText: text}, nil
	}

	source := s.detector.DetectSourceHint(text)
	translated, err := s.translator.Translate(services.WithStage(ctx, string(StageTranslate)), text, source, selection.Code())
	if err != nil {
		logging.ErrorWithContext(logger, "text translation failed", "translate_failed",
			logging.String("target", selection.Code()),
			logging.Error(err),
		)
		return TextResult{}, err
	}
	logger.Info("text translated",
		logging.String("source", source),
		logging.String("target", selection.Code()),
		logging.String("target_name", language.DisplayName(selection.Code())),
	)
	return TextResult{TranslatedText: translated}, nil
}

// Speak synthesizes text in its own detected language, falling back to
// English when detection fails.
func (s *Service) Speak(ctx context.Context, req SpeakRequest) (SpeechResult, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return SpeechResult{}, services.Validation("No text provided")
	}
	ctx, logger := s.begin(ctx, "speak")

	voice := s.detector.DetectVoice(text)
	speech, err := s.synthesize(ctx, text, voice)
	if err != nil {
		logging.ErrorWithContext(logger, "speech synthesis failed", "synthesize_failed",
			logging.String("language", voice),
			logging.Error(err),
		)
		return SpeechResult{}, err
	}
	url := s.store.URLFor(speech.Artifact)
	logger.Info("speech synthesized",
		logging.String("language", voice),
		logging.ArtifactID(speech.Artifact.ID),
		logging.Int64("audio_bytes", speech.Artifact.Size),
	)
	return SpeechResult{Speech: speech, AudioURL: url}, nil
}

// TranslateAudio runs the combined audio flow.
func (s *Service) TranslateAudio(ctx context.Context, req AudioRequest) (AudioResult, error) {
	if req.Blob == nil || req.Blob.Content == nil {
		return AudioResult{}, services.Validation("No audio provided")
	}
	ctx, logger := s.begin(ctx, "translate_audio")
	selection, _ := language.ParseSelection(req.Language)
	logger.Info("audio request received",
		logging.String("upload", textutil.SanitizeToken(req.Blob.Filename)),
		logging.String("selection", selection.Label()),
		logging.String("target", selection.Code()),
	)

	raw := s.persist(ctx, req.Blob)
	if err := s.check(ctx, logger, raw.Stage, raw.Err); err != nil {
		return AudioResult{}, err
	}

	normalized := s.normalize(ctx, raw.Value)
	if err := s.check(ctx, logger, normalized.Stage, normalized.Err); err != nil {
		return AudioResult{}, err
	}

	transcript := s.transcribe(ctx, normalized.Value)
	if err := s.check(ctx, logger, transcript.Stage, transcript.Err); err != nil {
		return AudioResult{}, err
	}

	result := AudioResult{
		TranscribedText: transcript.Value.Text,
		TranslatedText:  transcript.Value.Text,
	}
	if lang := transcript.Value.Language; lang != "" {
		result.DetectedLanguage = &lang
	}
	if selection.IsNone() {
		return result, nil
	}

	translated := s.translate(ctx, transcript.Value, selection.Code())
	if err := s.check(ctx, logger, translated.Stage, translated.Err); err != nil {
		return AudioResult{}, err
	}
	result.TranslatedText = translated.Value

	speech := s.synthesizeStage(ctx, translated.Value, selection.Code())
	if err := s.check(ctx, logger, speech.Stage, speech.Err); err != nil {
		return AudioResult{}, err
	}
	if speech.Err == nil {
		url := s.store.URLFor(speech.Value.Artifact)
		result.AudioURL = &url
	}
	logger.Info("audio request complete",
		logging.String("detected", language.DisplayName(transcript.Value.Language)),
		logging.String("target", selection.Code()),
		logging.Bool("audio", result.AudioURL != nil),
	)
	return result, nil
}

// check applies the stage policy to a stage error. Best effort failures are
// logged and swallowed; required failures are returned with the stage's
// client-facing prefix.
func (s *Service) check(ctx context.Context, logger *slog.Logger, stage Stage, err error) error {
	if err == nil {
		return nil
	}
	if PolicyFor(stage) == BestEffort {
		logging.WarnWithContext(logger, "stage failed; continuing without it", string(stage)+"_skipped",
			logging.String(logging.FieldStage, string(stage)),
			logging.String("policy", BestEffort.String()),
			logging.Error(err),
			logging.String(logging.FieldImpact, "response returned without the "+string(stage)+" result"),
		)
		return nil
	}
	logging.ErrorWithContext(logger, "stage failed; aborting request", string(stage)+"_failed",
		logging.String(logging.FieldStage, string(stage)),
		logging.Error(err),
	)
	policy, known := stagePolicies[stage]
	if !known {
		policy = stagePolicy{Marker: services.ErrExternalTool, Message: "Processing failed"}
	}
	return services.Wrap(policy.Marker, string(stage), "pipeline", policy.Message, err)
}

func (s *Service) persist(ctx context.Context, blob *AudioBlob) stageResult[artifacts.Artifact] {
	ctx = services.WithStage(ctx, string(StagePersist))
	artifact, err := s.store.Put(ctx, blob.Content, blob.Ext())
	if err != nil {
		return failed(StagePersist, artifacts.Artifact{}, err)
	}
	return succeeded(StagePersist, artifact)
}

func (s *Service) normalize(ctx context.Context, src artifacts.Artifact) stageResult[artifacts.Artifact] {
	ctx = services.WithStage(ctx, string(StageNormalize))
	out := s.normalizer.Normalize(ctx, src)
	if out.Artifact.Path == "" {
		out.Artifact = src
	}
	if out.Fallback {
		cause := out.Cause
		if cause == nil {
			cause = errors.New("normalizer fell back to source audio")
		}
		return failed(StageNormalize, out.Artifact, cause)
	}
	return succeeded(StageNormalize, out.Artifact)
}

func (s *Service) transcribe(ctx context.Context, src artifacts.Artifact) stageResult[Transcript] {
	ctx = services.WithStage(ctx, string(StageTranscribe))
	transcript, err := s.transcriber.Transcribe(ctx, src.Path)
	if err != nil {
		return failed(StageTranscribe, Transcript{}, err)
	}
	return succeeded(StageTranscribe, transcript)
}

// translate prefers the transcriber's reported language as the source hint
// and falls back to text detection.
func (s *Service) translate(ctx context.Context, transcript Transcript, target string) stageResult[string] {
	ctx = services.WithStage(ctx, string(StageTranslate))
	source := transcript.Language
	if source == "" {
		source = s.detector.DetectSourceHint(transcript.Text)
	}
	translated, err := s.translator.Translate(ctx, transcript.Text, source, target)
	if err != nil {
		return failed(StageTranslate, "", err)
	}
	return succeeded(StageTranslate, translated)
}

func (s *Service) synthesizeStage(ctx context.Context, text, lang string) stageResult[Speech] {
	speech, err := s.synthesize(ctx, text, lang)
	if err != nil {
		return failed(StageSynthesize, Speech{}, err)
	}
	return succeeded(StageSynthesize, speech)
}

// synthesize writes speech into a reserved artifact and removes the partial
// file on failure.
func (s *Service) synthesize(ctx context.Context, text, lang string) (Speech, error) {
	ctx = services.WithStage(ctx, string(StageSynthesize))
	artifact, err := s.store.Reserve(speechExt)
	if err != nil {
		return Speech{}, err
	}
	f, err := os.OpenFile(artifact.Path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return Speech{}, services.Wrap(services.ErrPersistence, string(StageSynthesize), "create", "Failed to create audio file", err)
	}
	synthErr := s.synthesizer.Synthesize(ctx, text, lang, f)
	closeErr := f.Close()
	if synthErr == nil && closeErr != nil {
		synthErr = services.Wrap(services.ErrPersistence, string(StageSynthesize), "close", "Failed to write audio file", closeErr)
	}
	if synthErr != nil {
		if err := s.store.Remove(artifact); err != nil {
			logging.WithContext(ctx, s.logger).Debug("partial speech cleanup failed", logging.Error(err))
		}
		return Speech{}, synthErr
	}
	artifact, err = s.store.Refresh(artifact)
	if err != nil {
		return Speech{}, err
	}
	return Speech{Artifact: artifact, Text: text, Language: lang}, nil
}
