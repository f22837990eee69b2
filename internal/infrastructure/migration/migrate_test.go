package migration

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	source, err := iofs.New(migrationsFS, "migrations")
	require.NoError(t, err)
	defer source.Close()

	version, err := source.First()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)

	var versions []uint
	for {
		versions = append(versions, version)

		up, _, err := source.ReadUp(version)
		require.NoError(t, err)
		require.NoError(t, up.Close())

		down, _, err := source.ReadDown(version)
		require.NoError(t, err)
		require.NoError(t, down.Close())

		version, err = source.Next(version)
		if errors.Is(err, fs.ErrNotExist) {
			break
		}
		require.NoError(t, err)
	}
	assert.Equal(t, []uint{1, 2}, versions)
}

func TestLegalNameIsUnbounded(t *testing.T) {
	body, err := migrationsFS.ReadFile("migrations/0002_legal_name_text.up.sql")
	require.NoError(t, err)
	assert.Contains(t, string(body), "ALTER COLUMN legal_name TYPE TEXT")
}

func TestInitMigrationCreatesTables(t *testing.T) {
	body, err := migrationsFS.ReadFile("migrations/0001_init.up.sql")
	require.NoError(t, err)

	for _, table := range []string{"users", "api_keys", "bonds"} {
		assert.Contains(t, string(body), "CREATE TABLE IF NOT EXISTS "+table+" (")
	}
}
