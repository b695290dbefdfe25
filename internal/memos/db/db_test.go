package db_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memoboard/internal/memos/config"
	"memoboard/internal/memos/db"
	"memoboard/pkg/db/postgres"
)

func TestMigrationsPath(t *testing.T) {
	t.Run("relative dir becomes absolute file url", func(t *testing.T) {
		got, err := db.MigrationsPath("migrations/memos")

		require.NoError(t, err)
		abs, err := filepath.Abs("migrations/memos")
		require.NoError(t, err)
		assert.Equal(t, "file://"+filepath.ToSlash(abs), got)
	})

	t.Run("absolute dir", func(t *testing.T) {
		got, err := db.MigrationsPath("/srv/migrations")

		require.NoError(t, err)
		assert.Equal(t, "file:///srv/migrations", got)
	})

	t.Run("file url kept", func(t *testing.T) {
		got, err := db.MigrationsPath("file:///x")

		require.NoError(t, err)
		assert.Equal(t, "file:///x", got)
	})
}

func TestNew_RejectsNonURLDSNForMigrations(t *testing.T) {
	cfg := &config.RemoteConfig{
		DatabaseURL:   "host=localhost dbname=memos",
		MigrationsDir: t.TempDir(),
		AutoMigrate:   true,
	}

	database, err := db.New(context.Background(), cfg)

	require.Error(t, err)
	assert.Nil(t, database)
	assert.Contains(t, err.Error(), db.ErrDBMigrations)
	assert.Contains(t, err.Error(), postgres.ErrMigrationURL)
}

func TestNew_InvalidDSN(t *testing.T) {
	cfg := &config.RemoteConfig{DatabaseURL: "postgres://%zz", AutoMigrate: false}

	database, err := db.New(context.Background(), cfg)

	require.Error(t, err)
	assert.Nil(t, database)
	assert.Contains(t, err.Error(), db.ErrDBConnection)
}
