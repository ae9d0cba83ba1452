package pipeline

import (
	"webtranslator/internal/services"
)

// Stage names an audio pipeline step.
type Stage string

const (
	StagePersist    Stage = "persist"
	StageNormalize  Stage = "normalize"
	StageTranscribe Stage = "transcribe"
	StageTranslate  Stage = "translate"
	StageSynthesize Stage = "synthesize"
)

// Policy decides what a stage failure does to the request.
type Policy int

const (
	// Required failures abort the request with a server error.
	Required Policy = iota
	// BestEffort failures are logged and the stage fallback is used.
	BestEffort
)

func (p Policy) String() string {
	if p == BestEffort {
		return "best_effort"
	}
	return "required"
}

type stagePolicy struct {
	Policy  Policy
	Marker  error
	Message string
}

var stagePolicies = map[Stage]stagePolicy{
	StagePersist:    {Policy: Required, Marker: services.ErrPersistence, Message: "Failed to save audio"},
	StageNormalize:  {Policy: BestEffort, Marker: services.ErrExternalTool, Message: "Audio normalization failed"},
	StageTranscribe: {Policy: Required, Marker: services.ErrTranscription, Message: "Transcription failed"},
	StageTranslate:  {Policy: Required, Marker: services.ErrTranslation, Message: "Translation failed"},
	StageSynthesize: {Policy: BestEffort, Marker: services.ErrSynthesis, Message: "Speech synthesis failed"},
}

// PolicyFor reports the failure policy of a stage. Unknown stages are
// treated as required.
func PolicyFor(stage Stage) Policy {
	if p, ok := stagePolicies[stage]; ok {
		return p.Policy
	}
	return Required
}

// stageResult is the tagged outcome of one stage. On failure Value holds the
// fallback the orchestrator continues with when the stage is best effort.
type stageResult[T any] struct {
	Stage Stage
	Value T
	Err   error
}

func succeeded[T any](stage Stage, value T) stageResult[T] {
	return stageResult[T]{Stage: stage, Value: value}
}

func failed[T any](stage Stage, fallback T, err error) stageResult[T] {
	return stageResult[T]{Stage: stage, Value: fallback, Err: err}
}
