package artifacts

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"webtranslator/internal/logging"
	"webtranslator/internal/services"
)

const (
	stagePersist = "persist"
	routePrefix  = "/generated/"
)

// Config describes where artifacts live and how their URLs are built.
type Config struct {
	Dir string
	// PublicBaseURL prefixes artifact URLs. Empty yields relative URLs.
	PublicBaseURL string
}

// Artifact describes a stored file.
type Artifact struct {
	ID      string
	Ext     string
	Path    string
	Size    int64
	ModTime time.Time
}

// Name returns the servable file name.
func (a Artifact) Name() string {
	return a.ID + a.Ext
}

// Store persists artifacts in a single flat directory.
type Store struct {
	dir     string
	baseURL string
	logger  *slog.Logger
}

// New creates the store directory when missing.
func New(cfg Config, logger *slog.Logger) (*Store, error) {
	dir := strings.TrimSpace(cfg.Dir)
	if dir == "" {
		return nil, services.Wrap(services.ErrConfiguration, "", "artifact store", "artifact directory not set", nil)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, services.Wrap(services.ErrPersistence, "", "artifact store", "create artifact directory", err)
	}
	return &Store{
		dir:     dir,
		baseURL: strings.TrimRight(strings.TrimSpace(cfg.PublicBaseURL), "/"),
		logger:  logging.NewComponentLogger(logger, "artifacts"),
	}, nil
}

// Dir returns the store directory.
func (s *Store) Dir() string {
	return s.dir
}

// Put writes r to a new artifact with the given extension.
func (s *Store) Put(ctx context.Context, r io.Reader, ext string) (Artifact, error) {
	artifact, err := s.Reserve(ext)
	if err != nil {
		return Artifact{}, err
	}
	if err := ctx.Err(); err != nil {
		return Artifact{}, services.Wrap(services.ErrPersistence, stagePersist, "write", "request cancelled", err)
	}

	tmp, err := os.CreateTemp(s.dir, "."+artifact.ID+"-*.part")
	if err != nil {
		return Artifact{}, services.Wrap(services.ErrPersistence, stagePersist, "write", "create temp file", err)
	}
	tmpPath := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpPath) }

	if _, err := io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		cleanup()
		return Artifact{}, services.Wrap(services.ErrPersistence, stagePersist, "write", "copy content", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return Artifact{}, services.Wrap(services.ErrPersistence, stagePersist, "write", "close temp file", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		cleanup()
		return Artifact{}, services.Wrap(services.ErrPersistence, stagePersist, "write", "set permissions", err)
	}
	if err := os.Rename(tmpPath, artifact.Path); err != nil {
		cleanup()
		return Artifact{}, services.Wrap(services.ErrPersistence, stagePersist, "write", "rename into place", err)
	}

	stored, err := s.Refresh(artifact)
	if err != nil {
		return Artifact{}, err
	}
	logging.WithContext(ctx, s.logger).Debug("artifact stored",
		logging.ArtifactID(stored.ID),
		logging.String("ext", stored.Ext),
		logging.Int64("artifact_bytes", stored.Size),
	)
	return stored, nil
}

// PutFile copies an existing file into a new artifact.
func (s *Store) PutFile(ctx context.Context, src string, ext string) (Artifact, error) {
	in, err := os.Open(src)
	if err != nil {
		return Artifact{}, services.Wrap(services.ErrPersistence, stagePersist, "copy", "open source", err)
	}
	defer in.Close()
	return s.Put(ctx, in, ext)
}

// Reserve allocates an identifier and destination path for a producer that
// writes the file itself. Nothing is created on disk.
func (s *Store) Reserve(ext string) (Artifact, error) {
	normalized, err := normalizeExt(ext)
	if err != nil {
		return Artifact{}, err
	}
	id := NewID()
	return Artifact{
		ID:   id,
		Ext:  normalized,
		Path: filepath.Join(s.dir, id+normalized),
	}, nil
}

// Refresh reloads size and modification time for an artifact written by an
// external producer.
func (s *Store) Refresh(a Artifact) (Artifact, error) {
	info, err := os.Stat(a.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Artifact{}, services.Wrap(services.ErrNotFound, "", "stat", "artifact "+a.Name()+" does not exist", err)
		}
		return Artifact{}, services.Wrap(services.ErrPersistence, "", "stat", "stat artifact", err)
	}
	a.Size = info.Size()
	a.ModTime = info.ModTime()
	return a, nil
}

// Remove deletes an artifact. Missing files are not an error.
func (s *Store) Remove(a Artifact) error {
	if a.Path == "" {
		return nil
	}
	if err := os.Remove(a.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return services.Wrap(services.ErrPersistence, "", "remove", "remove artifact", err)
	}
	return nil
}

// Open opens a servable artifact for reading.
func (s *Store) Open(name string) (*os.File, Artifact, error) {
	a, err := s.lookup(name)
	if err != nil {
		return nil, Artifact{}, err
	}
	f, err := os.Open(a.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, Artifact{}, notFound(name, err)
		}
		return nil, Artifact{}, services.Wrap(services.ErrPersistence, "", "open", "open artifact", err)
	}
	return f, a, nil
}

// URLFor returns the client URL for an artifact.
func (s *Store) URLFor(a Artifact) string {
	return s.baseURL + routePrefix + a.Name()
}

// List returns all stored artifacts ordered oldest first.
func (s *Store) List() ([]Artifact, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, services.Wrap(services.ErrPersistence, "", "list", "read artifact directory", err)
	}
	artifacts := make([]Artifact, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !ValidName(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		artifacts = append(artifacts, fromInfo(s.dir, entry.Name(), info))
	}
	sort.Slice(artifacts, func(i, j int) bool {
		return artifacts[i].ModTime.Before(artifacts[j].ModTime)
	})
	return artifacts, nil
}

func (s *Store) lookup(name string) (Artifact, error) {
	if !ValidName(name) {
		return Artifact{}, notFound(name, nil)
	}
	path := filepath.Join(s.dir, name)
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Artifact{}, notFound(name, err)
		}
		return Artifact{}, services.Wrap(services.ErrPersistence, "", "stat", "stat artifact", err)
	}
	if info.IsDir() {
		return Artifact{}, notFound(name, nil)
	}
	return fromInfo(s.dir, name, info), nil
}

func fromInfo(dir, name string, info fs.FileInfo) Artifact {
	ext := filepath.Ext(name)
	return Artifact{
		ID:      strings.TrimSuffix(name, ext),
		Ext:     ext,
		Path:    filepath.Join(dir, name),
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}
}

func notFound(name string, err error) error {
	return services.Wrap(services.ErrNotFound, "", "lookup", "File not found", fmt.Errorf("artifact %q: %w", name, errOrMissing(err)))
}

func errOrMissing(err error) error {
	if err != nil {
		return err
	}
	return fs.ErrNotExist
}

func normalizeExt(ext string) (string, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" {
		return "", services.Wrap(services.ErrPersistence, stagePersist, "reserve", "artifact extension required", nil)
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	if len(ext) > 11 {
		return "", services.Wrap(services.ErrPersistence, stagePersist, "reserve", fmt.Sprintf("artifact extension %q too long", ext), nil)
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return "", services.Wrap(services.ErrPersistence, stagePersist, "reserve", fmt.Sprintf("artifact extension %q invalid", ext), nil)
		}
	}
	return ext, nil
}
