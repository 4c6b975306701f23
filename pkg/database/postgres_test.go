package database

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"strings"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tanishq4141/PROJECT-ALPHA/migrations"
	"github.com/tanishq4141/PROJECT-ALPHA/pkg/config"
)

func TestDSN(t *testing.T) {
	dsn := DSN(config.DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", Name: "alpha", SSLMode: "disable"})
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=alpha sslmode=disable", dsn)
}

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	entries, err := fs.Glob(migrations.FS, "*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	ups := map[string]bool{}
	downs := map[string]bool{}
	for _, name := range entries {
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			ups[strings.TrimSuffix(name, ".up.sql")] = true
		case strings.HasSuffix(name, ".down.sql"):
			downs[strings.TrimSuffix(name, ".down.sql")] = true
		}
	}
	assert.Equal(t, ups, downs)
}

func TestRecordUniquenessIsEnforcedBySchema(t *testing.T) {
	raw, err := fs.ReadFile(migrations.FS, "000001_init_schema.up.sql")
	require.NoError(t, err)
	assert.Contains(t, string(raw), "PRIMARY KEY (student_id, assignment_id)")
	assert.Contains(t, string(raw), "PRIMARY KEY (batch_id, assignment_id)")
}

func TestMigrationSourceReadsEveryVersion(t *testing.T) {
	src, err := iofs.New(migrations.FS, ".")
	require.NoError(t, err)
	defer src.Close()

	var versions []uint
	version, err := src.First()
	for err == nil {
		versions = append(versions, version)

		up, _, upErr := src.ReadUp(version)
		require.NoError(t, upErr)
		body, readErr := io.ReadAll(up)
		require.NoError(t, readErr)
		up.Close()
		assert.NotEmpty(t, strings.TrimSpace(string(body)))

		down, _, downErr := src.ReadDown(version)
		require.NoError(t, downErr)
		down.Close()

		version, err = src.Next(version)
	}
	assert.True(t, errors.Is(err, os.ErrNotExist), "unexpected iteration error: %v", err)
	assert.Equal(t, []uint{1, 2}, versions)
}

func TestMigrateReportsDriverFailure(t *testing.T) {
	mockDB, _, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	err = Migrate(sqlx.NewDb(mockDB, "postgres"), "alpha")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create postgres migration driver")
}
