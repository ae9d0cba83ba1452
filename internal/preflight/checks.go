package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"webtranslator/internal/config"
	"webtranslator/internal/deps"
)

const endpointTimeout = 5 * time.Second

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckTranscriptionCredentials reports whether the selected provider has an
// API key. The key itself is never echoed.
func CheckTranscriptionCredentials(cfg *config.Config) Result {
	const name = "Transcription credentials"
	provider := cfg.Transcription.Provider
	if strings.TrimSpace(cfg.Transcription.APIKey) == "" {
		return Result{Name: name, Detail: fmt.Sprintf("%s api key missing", provider)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s api key set", provider)}
}

// CheckEndpoint performs a single GET against url. Any response below 500
// counts as reachable; the public endpoints reject anonymous probes with 4xx
// codes at times, which still proves connectivity.
func CheckEndpoint(ctx context.Context, name, url string) Result {
	if strings.TrimSpace(url) == "" {
		return Result{Name: name, Detail: "missing url"}
	}
	checkCtx, cancel := context.WithTimeout(ctx, endpointTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(checkCtx, http.MethodGet, url, nil)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("request failed (%v)", err)}
	}
	client := &http.Client{Timeout: endpointTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return Result{Name: name, Detail: summarizeNetError(err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return Result{Name: name, Detail: fmt.Sprintf("unhealthy (%d)", resp.StatusCode)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("Reachable (%d)", resp.StatusCode)}
}

// CheckSystemDeps evaluates the external binaries configured in cfg.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	return deps.CheckBinaries(deps.MediaRequirements(cfg.Media.FFmpegBinary, cfg.Media.FFprobeBinary))
}

func summarizeNetError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "timed out (service unresponsive)"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "timed out (service unreachable)"
	}
	return err.Error()
}
