package ffprobe

import (
	"math"
	"testing"
)

func TestParseUploadProbe(t *testing.T) {
	payload := []byte(`{
		"streams": [
			{"index": 0, "codec_name": "opus", "codec_type": "audio", "sample_rate": "48000", "channels": 1}
		],
		"format": {"filename": "clip.webm", "nb_streams": 1, "duration": "3.120000", "format_name": "matroska,webm"}
	}`)
	result, err := Parse(payload)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if result.AudioStreamCount() != 1 {
		t.Fatalf("expected 1 audio stream, got %d", result.AudioStreamCount())
	}
	primary, ok := result.PrimaryAudio()
	if !ok {
		t.Fatal("expected primary audio stream")
	}
	if primary.CodecName != "opus" || primary.SampleRateHz() != 48000 {
		t.Fatalf("unexpected primary stream: %+v", primary)
	}
	if result.DurationSeconds() != 3.12 {
		t.Fatalf("unexpected duration: %v", result.DurationSeconds())
	}
}

func TestResultWithoutAudio(t *testing.T) {
	result := Result{Streams: []Stream{{CodecType: "video"}}}
	if result.AudioStreamCount() != 0 {
		t.Fatalf("expected no audio streams, got %d", result.AudioStreamCount())
	}
	if _, ok := result.PrimaryAudio(); ok {
		t.Fatal("expected no primary audio stream")
	}
}

func TestHelpersHandleInvalidNumbers(t *testing.T) {
	result := Result{Format: Format{Duration: "bad"}}
	if !math.IsNaN(result.DurationSeconds()) {
		t.Fatalf("expected duration NaN, got %v", result.DurationSeconds())
	}
	if (Stream{SampleRate: "-1"}).SampleRateHz() != 0 {
		t.Fatal("expected negative sample rate to clamp to 0")
	}
	if _, err := Parse([]byte("not json")); err == nil {
		t.Fatal("expected parse error")
	}
}
