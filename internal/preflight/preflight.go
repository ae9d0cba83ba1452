package preflight

import (
	"context"

	"webtranslator/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	// Optional results do not fail the overall run.
	Optional bool
	Detail   string
}

// Options selects which checks RunAll performs.
type Options struct {
	// Network enables reachability checks against the translation and
	// speech endpoints.
	Network bool
}

// RunAll executes the preflight checks for cfg.
func RunAll(ctx context.Context, cfg *config.Config, opts Options) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Artifact directory", cfg.Paths.ArtifactDir),
		CheckTranscriptionCredentials(cfg),
	}
	for _, status := range CheckSystemDeps(cfg) {
		detail := status.Detail
		if status.Available {
			detail = status.Path
		}
		results = append(results, Result{
			Name:     status.Name,
			Passed:   status.Available,
			Optional: status.Optional,
			Detail:   detail,
		})
	}
	if opts.Network {
		results = append(results,
			CheckEndpoint(ctx, "Translation service", cfg.Translation.BaseURL+"/get?q=ping&langpair=en|hi"),
			CheckEndpoint(ctx, "Speech service", speechEndpoint(cfg)),
		)
	}
	return results
}

// Failed returns the non-optional results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed && !r.Optional {
			failed = append(failed, r)
		}
	}
	return failed
}

func speechEndpoint(cfg *config.Config) string {
	base := cfg.Speech.BaseURL
	if cfg.Speech.TLD != "" {
		base += "." + cfg.Speech.TLD
	}
	return base + "/translate_tts?ie=UTF-8&client=tw-ob&tl=en&q=ok&total=1&idx=0&textlen=2"
}
