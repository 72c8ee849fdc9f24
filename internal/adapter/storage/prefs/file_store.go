package prefs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	domainRepo "route-warmer/internal/domain/repository"
	"route-warmer/internal/pkg/apperrors"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Compile-time check
var _ domainRepo.PreferenceStore = (*FileStore)(nil)

type document struct {
	DisclaimerAccepted bool `yaml:"disclaimer_accepted"`
}

// FileStore keeps preferences in a small YAML file. A missing file means defaults.
type FileStore struct {
	mu     sync.Mutex
	path   string
	logger *zap.Logger
}

// NewFileStore creates a store backed by path.
func NewFileStore(path string, logger *zap.Logger) *FileStore {
	return &FileStore{path: path, logger: logger.Named("PreferenceStore")}
}

func (s *FileStore) read() (document, error) {
	var doc document
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return doc, nil
	}
	if err != nil {
		return doc, fmt.Errorf("%w: reading preferences %s: %v", apperrors.ErrInternal, s.path, err)
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return doc, fmt.Errorf("%w: parsing preferences %s: %v", apperrors.ErrInternal, s.path, err)
	}
	return doc, nil
}

// DisclaimerAccepted reports whether the user accepted the risk disclaimer.
func (s *FileStore) DisclaimerAccepted(_ context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return false, err
	}
	return doc.DisclaimerAccepted, nil
}

// SetDisclaimerAccepted persists the disclaimer flag, replacing the file atomically.
func (s *FileStore) SetDisclaimerAccepted(_ context.Context, accepted bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return err
	}
	doc.DisclaimerAccepted = accepted

	raw, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: encoding preferences: %v", apperrors.ErrInternal, err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("%w: creating preferences directory: %v", apperrors.ErrInternal, err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("%w: writing preferences: %v", apperrors.ErrInternal, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("%w: replacing preferences: %v", apperrors.ErrInternal, err)
	}
	s.logger.Info("Disclaimer preference saved", zap.Bool("accepted", accepted), zap.String("path", s.path))
	return nil
}
