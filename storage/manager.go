package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"thumbfix/models"

	"github.com/caarlos0/env/v11"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Indent used when writing catalogs
const catalogIndent = "    "

// Manager handles catalog persistence
type Manager struct {
	settings *models.Settings
	logger   *zap.Logger
}

// NewManager creates a new storage manager
func NewManager(settings *models.Settings, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		settings: settings,
		logger:   logger,
	}
}

// LoadCatalog reads the configured input catalog
func (m *Manager) LoadCatalog() (models.Catalog, error) {
	filePath := m.settings.Resolve(m.settings.Catalog)
	m.logger.Debug("Loading catalog", zap.String("path", filePath))

	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer f.Close()

	catalog, err := DecodeCatalog(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", filePath, err)
	}

	m.logger.Debug("Loaded catalog", zap.Int("games", len(catalog)))
	return catalog, nil
}

// SaveCatalog writes the catalog to rel (relative to the website root) and
// returns the path written
func (m *Manager) SaveCatalog(rel string, catalog models.Catalog) (string, error) {
	var buf bytes.Buffer
	if err := EncodeCatalog(&buf, catalog); err != nil {
		return "", err
	}

	filePath := m.settings.Resolve(rel)
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	m.logger.Debug("Saving catalog", zap.String("path", filePath), zap.Int("games", len(catalog)))
	if err := os.WriteFile(filePath, buf.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("failed to write catalog: %w", err)
	}
	return filePath, nil
}

// DecodeCatalog parses a JSON array of game records
func DecodeCatalog(r io.Reader) (models.Catalog, error) {
	dec := json.NewDecoder(r)
	var catalog models.Catalog
	if err := dec.Decode(&catalog); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after catalog array")
	}

	// A null element decodes to a nil pointer instead of failing
	for i, game := range catalog {
		if game == nil {
			return nil, fmt.Errorf("catalog entry %d is not an object", i+1)
		}
	}

	if catalog == nil {
		return nil, errors.New("catalog is not a JSON array")
	}
	return catalog, nil
}

// EncodeCatalog writes the catalog as a 4-space indented JSON array. Non-ASCII
// and HTML characters are written as-is and the output has no trailing
// newline.
func EncodeCatalog(w io.Writer, catalog models.Catalog) error {
	if catalog == nil {
		catalog = models.Catalog{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", catalogIndent)
	if err := enc.Encode(catalog); err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}
	if _, err := w.Write(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))); err != nil {
		return fmt.Errorf("failed to write catalog: %w", err)
	}
	return nil
}

// envSettings holds the overrides read from THUMBFIX_* variables
type envSettings struct {
	Root          string   `env:"ROOT"`
	Catalog       string   `env:"CATALOG"`
	FixedOutput   string   `env:"FIXED_OUTPUT"`
	PatchedOutput string   `env:"PATCHED_OUTPUT"`
	ThumbnailDir  string   `env:"THUMBNAIL_DIR"`
	Folders       []string `env:"FOLDERS" envSeparator:","`
	Extensions    []string `env:"EXTENSIONS" envSeparator:","`
	Pages         []string `env:"PAGES" envSeparator:","`
	VerifyImages  *bool    `env:"VERIFY_IMAGES"`
}

// LoadSettings builds the run settings: defaults, then the optional YAML file,
// then THUMBFIX_* environment variables
func LoadSettings(configPath string) (*models.Settings, error) {
	settings := models.DefaultSettings()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}

		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(settings); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to parse config %s: %w", configPath, err)
		}
	}

	var overrides envSettings
	if err := env.ParseWithOptions(&overrides, env.Options{Prefix: "THUMBFIX_"}); err != nil {
		return nil, fmt.Errorf("failed to parse environment variables: %w", err)
	}
	applyEnv(settings, &overrides)

	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	return settings, nil
}

// applyEnv copies every override that was set
func applyEnv(settings *models.Settings, o *envSettings) {
	if o.Root != "" {
		settings.Root = o.Root
	}
	if o.Catalog != "" {
		settings.Catalog = o.Catalog
	}
	if o.FixedOutput != "" {
		settings.FixedOutput = o.FixedOutput
	}
	if o.PatchedOutput != "" {
		settings.PatchedOutput = o.PatchedOutput
	}
	if o.ThumbnailDir != "" {
		settings.ThumbnailDir = o.ThumbnailDir
	}
	if len(o.Folders) > 0 {
		settings.Folders = o.Folders
	}
	if len(o.Extensions) > 0 {
		settings.Extensions = o.Extensions
	}
	if len(o.Pages) > 0 {
		settings.Pages = o.Pages
	}
	if o.VerifyImages != nil {
		settings.VerifyImages = *o.VerifyImages
	}
}
