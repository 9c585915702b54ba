package migration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateMigration(t *testing.T) {
	t.Run("writes an up and down pair", func(t *testing.T) {
		dir := t.TempDir()

		mf, err := CreateMigration(dir, "add lot indexes", "covering index for FIFO walks")
		require.NoError(t, err)

		assert.Len(t, mf.Version, 14)
		assert.Contains(t, filepath.Base(mf.UpPath), "add_lot_indexes.up.sql")
		assert.Contains(t, filepath.Base(mf.DownPath), "add_lot_indexes.down.sql")

		up, err := os.ReadFile(mf.UpPath)
		require.NoError(t, err)
		assert.Contains(t, string(up), "add lot indexes")
		assert.Contains(t, string(up), "covering index for FIFO walks")

		_, err = os.Stat(mf.DownPath)
		assert.NoError(t, err)
	})

	t.Run("creates the directory when missing", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested", "migrations")

		_, err := CreateMigration(dir, "init", "")
		require.NoError(t, err)

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Len(t, entries, 2)
	})
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"add lot indexes":     "add_lot_indexes",
		"Add-Lot--Indexes":    "add_lot_indexes",
		"  weird  chars!! ":   "weird_chars",
		"UPPER_case_99":       "upper_case_99",
		"trailing separator-": "trailing_separator",
	}

	for in, want := range cases {
		assert.Equal(t, want, slugify(in), "input %q", in)
	}
}

func TestListMigrations(t *testing.T) {
	t.Run("lists up/down pairs once each", func(t *testing.T) {
		dir := t.TempDir()
		for _, name := range []string{
			"0001_init.up.sql", "0001_init.down.sql",
			"0002_indexes.up.sql", "0002_indexes.down.sql",
			"notes.txt",
		} {
			require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("-- x\n"), 0644))
		}

		migrations, err := ListMigrations(dir)
		require.NoError(t, err)
		assert.Equal(t, []string{"0001_init", "0002_indexes"}, migrations)
	})

	t.Run("missing directory yields empty list", func(t *testing.T) {
		migrations, err := ListMigrations(filepath.Join(t.TempDir(), "absent"))
		require.NoError(t, err)
		assert.Empty(t, migrations)
	})
}
