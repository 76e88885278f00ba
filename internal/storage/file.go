// Package storage provides persistence for portfolios and cached NAV data.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bobmcallan/planlens/internal/common"
	"github.com/bobmcallan/planlens/internal/models"
)

// errKeyNotFound is returned by readJSON when no file exists for a key.
var errKeyNotFound = errors.New("key not found")

// FileStore provides file-based JSON storage with optional versioning.
type FileStore struct {
	basePath string
	versions int
	logger   *common.Logger
}

// subdirectories defines the directory layout under basePath.
var subdirectories = []string{"portfolios", "nav"}

// NewFileStore creates a new FileStore and ensures all subdirectories exist.
func NewFileStore(logger *common.Logger, path string, versions int) (*FileStore, error) {
	if versions < 0 {
		versions = 0
	}

	fs := &FileStore{
		basePath: path,
		versions: versions,
		logger:   logger,
	}

	for _, sub := range subdirectories {
		dir := filepath.Join(fs.basePath, sub)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	logger.Debug().Str("path", path).Int("versions", versions).Msg("FileStore opened")
	return fs, nil
}

// sanitizeKey makes a key safe for use as a filename.
// Replaces /, \, : with _ and collapses ".." to "_" to prevent path traversal.
func (fs *FileStore) sanitizeKey(key string) string {
	r := strings.NewReplacer("/", "_", "\\", "_", ":", "_", "..", "_")
	return r.Replace(key)
}

// filePath returns the full path for a key in a directory.
func (fs *FileStore) filePath(dir, key string) string {
	return filepath.Join(dir, fs.sanitizeKey(key)+".json")
}

// readJSON reads and unmarshals a JSON file. A missing file yields errKeyNotFound.
func (fs *FileStore) readJSON(dir, key string, dest interface{}) error {
	path := fs.filePath(dir, key)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("'%s': %w", key, errKeyNotFound)
		}
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(data) == 0 {
		return fmt.Errorf("'%s' is empty", key)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// writeJSON marshals data to indented JSON and writes it atomically.
// Versioned writes rotate up to fs.versions previous copies first; cached
// provider data is written unversioned.
func (fs *FileStore) writeJSON(dir, key string, data interface{}, versioned bool) error {
	target := fs.filePath(dir, key)

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	jsonData = append(jsonData, '\n')

	if versioned && fs.versions > 0 {
		fs.rotateVersions(target)
	}

	// Atomic write: temp file in the same directory, then rename
	tmpFile, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	if _, err := tmpFile.Write(jsonData); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, target); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}

// rotateVersions shifts existing versions up and moves current to v1.
// v{N} -> deleted, v{N-1} -> v{N}, ..., current -> v1
func (fs *FileStore) rotateVersions(target string) {
	os.Remove(fmt.Sprintf("%s.v%d", target, fs.versions))

	for i := fs.versions; i > 1; i-- {
		src := fmt.Sprintf("%s.v%d", target, i-1)
		dst := fmt.Sprintf("%s.v%d", target, i)
		os.Rename(src, dst) // may not exist yet
	}

	if _, err := os.Stat(target); err == nil {
		os.Rename(target, fmt.Sprintf("%s.v1", target))
	}
}

// deleteJSON removes a file and all its version backups.
func (fs *FileStore) deleteJSON(dir, key string) error {
	target := fs.filePath(dir, key)

	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete %s: %w", target, err)
	}
	for i := 1; i <= fs.versions; i++ {
		os.Remove(fmt.Sprintf("%s.v%d", target, i))
	}
	return nil
}

// listKeys returns all keys in a directory (excluding version and temp files).
func (fs *FileStore) listKeys(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var keys []string
	for _, e := range entries {
		name := e.Name()
		if strings.HasSuffix(name, ".json") && !strings.HasPrefix(name, ".tmp-") {
			keys = append(keys, strings.TrimSuffix(name, ".json"))
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// --- Portfolio Storage ---

type portfolioStorage struct {
	fs     *FileStore
	dir    string
	logger *common.Logger
}

func newPortfolioStorage(fs *FileStore, logger *common.Logger) *portfolioStorage {
	return &portfolioStorage{fs: fs, dir: filepath.Join(fs.basePath, "portfolios"), logger: logger}
}

func (s *portfolioStorage) GetPortfolio(ctx context.Context, name string) (*models.Portfolio, error) {
	var portfolio models.Portfolio
	if err := s.fs.readJSON(s.dir, name, &portfolio); err != nil {
		if errors.Is(err, errKeyNotFound) {
			return nil, fmt.Errorf("portfolio '%s': %w", name, models.ErrPortfolioNotFound)
		}
		return nil, err
	}
	return &portfolio, nil
}

func (s *portfolioStorage) SavePortfolio(ctx context.Context, portfolio *models.Portfolio) error {
	now := time.Now()
	portfolio.UpdatedAt = now
	if portfolio.CreatedAt.IsZero() {
		portfolio.CreatedAt = now
	}
	if portfolio.ID == "" {
		portfolio.ID = portfolio.Name
	}

	if err := s.fs.writeJSON(s.dir, portfolio.Name, portfolio, true); err != nil {
		return fmt.Errorf("failed to save portfolio: %w", err)
	}
	s.logger.Debug().Str("name", portfolio.Name).Msg("Portfolio saved")
	return nil
}

// ListPortfolios returns the stored keys, which are sanitised portfolio names.
func (s *portfolioStorage) ListPortfolios(ctx context.Context) ([]string, error) {
	keys, err := s.fs.listKeys(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list portfolios: %w", err)
	}
	if keys == nil {
		keys = []string{}
	}
	return keys, nil
}

func (s *portfolioStorage) DeletePortfolio(ctx context.Context, name string) error {
	if err := s.fs.deleteJSON(s.dir, name); err != nil {
		return err
	}
	s.logger.Debug().Str("name", name).Msg("Portfolio deleted")
	return nil
}

// --- NAV Storage ---

type navStorage struct {
	fs     *FileStore
	dir    string
	logger *common.Logger
}

func newNAVStorage(fs *FileStore, logger *common.Logger) *navStorage {
	return &navStorage{fs: fs, dir: filepath.Join(fs.basePath, "nav"), logger: logger}
}

func (s *navStorage) GetNAV(ctx context.Context, schemeCode string) (*models.FundNAV, error) {
	var nav models.FundNAV
	if err := s.fs.readJSON(s.dir, schemeCode, &nav); err != nil {
		if errors.Is(err, errKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &nav, nil
}

func (s *navStorage) SaveNAV(ctx context.Context, nav *models.FundNAV) error {
	if nav.Meta.SchemeCode == "" {
		return fmt.Errorf("NAV data has no scheme code")
	}
	if err := s.fs.writeJSON(s.dir, nav.Meta.SchemeCode, nav, false); err != nil {
		return fmt.Errorf("failed to save NAV data: %w", err)
	}
	s.logger.Debug().Str("scheme", nav.Meta.SchemeCode).Int("samples", len(nav.Samples)).Msg("NAV data cached")
	return nil
}
