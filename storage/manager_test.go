package storage

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"thumbfix/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) (*Manager, *models.Settings) {
	t.Helper()
	settings := models.DefaultSettings()
	settings.Root = t.TempDir()
	return NewManager(settings, nil), settings
}

func writeCatalog(t *testing.T, settings *models.Settings, content string) {
	t.Helper()
	path := settings.Resolve(settings.Catalog)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestLoadAndSaveCatalog(t *testing.T) {
	m, settings := newTestManager(t)
	writeCatalog(t, settings, `[{"title":"Pitstop II","thumbnail":"x.png","genres":[]},{"title":"Élite <3"}]`)

	catalog, err := m.LoadCatalog()
	require.NoError(t, err)
	require.Len(t, catalog, 2)

	written, err := m.SaveCatalog(settings.FixedOutput, catalog)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(settings.Root, "games", "games_fixed.json"), written)

	data, err := os.ReadFile(written)
	require.NoError(t, err)

	want := `[
    {
        "title": "Pitstop II",
        "thumbnail": "x.png",
        "genres": []
    },
    {
        "title": "Élite <3"
    }
]`
	assert.Equal(t, want, string(data))

	// Input is left alone
	original, err := os.ReadFile(settings.Resolve(settings.Catalog))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(original), `[{"title"`))
}

func TestLoadCatalogErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"malformed", `[{"title":`},
		{"object", `{"title":"x"}`},
		{"null", `null`},
		{"null entry", `[{"title":"x"}, null]`},
		{"scalar entry", `[1]`},
		{"trailing data", `[{"title":"x"}] garbage`},
		{"extra bracket", `[]]`},
		{"second value", `[] {"x":`},
		{"second array", `[{"title":"x"}][{"title":"y"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, settings := newTestManager(t)
			writeCatalog(t, settings, tt.content)

			_, err := m.LoadCatalog()
			assert.Error(t, err)
		})
	}
}

func TestLoadCatalogAllowsTrailingWhitespace(t *testing.T) {
	m, settings := newTestManager(t)
	writeCatalog(t, settings, "[{\"title\":\"x\"}]\n\n  \t")

	catalog, err := m.LoadCatalog()
	require.NoError(t, err)
	assert.Len(t, catalog, 1)
}

func TestLoadCatalogMissingFile(t *testing.T) {
	m, _ := newTestManager(t)

	_, err := m.LoadCatalog()
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestEncodeEmptyCatalog(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeCatalog(&buf, nil))
	assert.Equal(t, "[]", buf.String())
}

func TestLoadSettingsDefaults(t *testing.T) {
	settings, err := LoadSettings("")
	require.NoError(t, err)
	assert.Equal(t, models.DefaultSettings(), settings)
}

func TestLoadSettingsFromFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "thumbfix.yaml")
	config := `root: /srv/site
folders:
  - arcade
  - quiz
verify_images: true
patches:
  - match: "bad%20name.png"
    replace: "resources/images/thumbnails/quiz/bad name.png"
`
	require.NoError(t, os.WriteFile(configPath, []byte(config), 0644))

	t.Setenv("THUMBFIX_FOLDERS", "racing,sports")
	t.Setenv("THUMBFIX_VERIFY_IMAGES", "false")

	settings, err := LoadSettings(configPath)
	require.NoError(t, err)

	assert.Equal(t, "/srv/site", settings.Root)
	assert.Equal(t, []string{"racing", "sports"}, settings.Folders)
	assert.False(t, settings.VerifyImages)
	assert.Equal(t, []models.Patch{{Match: "bad%20name.png", Replace: "resources/images/thumbnails/quiz/bad name.png"}}, settings.Patches)
	assert.Equal(t, "games/games.json", settings.Catalog)
}

func TestLoadSettingsRejectsUnknownKeys(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "thumbfix.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("folderz: [arcade]\n"), 0644))

	_, err := LoadSettings(configPath)
	assert.Error(t, err)
}

func TestLoadSettingsEmptyFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "thumbfix.yaml")
	require.NoError(t, os.WriteFile(configPath, nil, 0644))

	settings, err := LoadSettings(configPath)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultSettings(), settings)
}
