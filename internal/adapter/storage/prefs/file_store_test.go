package prefs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"route-warmer/internal/pkg/apperrors"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFileStore(t *testing.T) {
	t.Run("should default to not accepted when the file is missing", func(t *testing.T) {
		c := require.New(t)
		store := NewFileStore(filepath.Join(t.TempDir(), "prefs.yaml"), zap.NewNop())

		accepted, err := store.DisclaimerAccepted(context.Background())
		c.NoError(err)
		c.False(accepted)
	})

	t.Run("should persist the flag across instances", func(t *testing.T) {
		c := require.New(t)
		path := filepath.Join(t.TempDir(), "nested", "prefs.yaml")
		ctx := context.Background()

		c.NoError(NewFileStore(path, zap.NewNop()).SetDisclaimerAccepted(ctx, true))

		accepted, err := NewFileStore(path, zap.NewNop()).DisclaimerAccepted(ctx)
		c.NoError(err)
		c.True(accepted)

		raw, err := os.ReadFile(path)
		c.NoError(err)
		c.Contains(string(raw), "disclaimer_accepted: true")
	})

	t.Run("should report a corrupt file", func(t *testing.T) {
		c := require.New(t)
		path := filepath.Join(t.TempDir(), "prefs.yaml")
		c.NoError(os.WriteFile(path, []byte("disclaimer_accepted: [not a bool"), 0o600))

		_, err := NewFileStore(path, zap.NewNop()).DisclaimerAccepted(context.Background())
		c.ErrorIs(err, apperrors.ErrInternal)
	})
}
