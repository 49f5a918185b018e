package profile

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeProfile(t *testing.T, base, name string) {
	t.Helper()
	dir := filepath.Join(base, name)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "user_data"), 0o755))

	info := Info{Name: name, CreatedAt: "2024-05-17T09:30:45Z", UserDataDir: UserDataDir(base, name)}
	data, err := json.Marshal(info)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, markerFile), data, 0o644))
}

func TestUserDataDir(t *testing.T) {
	assert.Equal(t,
		filepath.Join("browser_profiles", "work", "user_data"),
		UserDataDir("browser_profiles", "work"))
}

func TestList(t *testing.T) {
	base := t.TempDir()
	m := NewManager(base, zap.NewNop())

	t.Run("empty base", func(t *testing.T) {
		names, err := m.List()
		require.NoError(t, err)
		assert.Empty(t, names)
	})

	t.Run("missing base is not an error", func(t *testing.T) {
		names, err := NewManager(filepath.Join(base, "absent"), zap.NewNop()).List()
		require.NoError(t, err)
		assert.Empty(t, names)
	})

	t.Run("only marked directories count", func(t *testing.T) {
		writeProfile(t, base, "work")
		writeProfile(t, base, "personal")
		// A stray directory without a marker is ignored.
		require.NoError(t, os.MkdirAll(filepath.Join(base, "stray"), 0o755))

		names, err := m.List()
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"work", "personal"}, names)
	})
}

func TestLoad(t *testing.T) {
	base := t.TempDir()
	writeProfile(t, base, "work")
	m := NewManager(base, zap.NewNop())

	info, err := m.Load("work")
	require.NoError(t, err)
	assert.Equal(t, "work", info.Name)
	assert.Equal(t, UserDataDir(base, "work"), info.UserDataDir)

	_, err = m.Load("absent")
	assert.Error(t, err)
}

func TestDelete(t *testing.T) {
	base := t.TempDir()
	writeProfile(t, base, "work")
	m := NewManager(base, zap.NewNop())

	require.NoError(t, m.Delete("work"))
	_, err := os.Stat(filepath.Join(base, "work"))
	assert.True(t, os.IsNotExist(err))

	assert.Error(t, m.Delete("work"), "deleting twice surfaces the typo case")
}
