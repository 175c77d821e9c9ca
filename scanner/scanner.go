package scanner

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"thumbfix/models"

	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"
)

// Conflict is a filename found in more than one folder
type Conflict struct {
	Filename string
	Kept     string // Folder the map points to
	Ignored  string // Later folder holding the same name
}

// ThumbnailMap maps a lowercased filename to the folder that holds it
type ThumbnailMap struct {
	entries   map[string]string
	conflicts []Conflict
}

// NewThumbnailMap creates an empty map
func NewThumbnailMap() *ThumbnailMap {
	return &ThumbnailMap{entries: make(map[string]string)}
}

// Key normalises a filename for lookups. Names are compared in NFC so files
// copied from macOS (NFD) still match the catalog.
func Key(filename string) string {
	return strings.ToLower(norm.NFC.String(filename))
}

// Add records filename → folder. The first folder wins: a later duplicate is
// recorded as a conflict and false is returned.
func (m *ThumbnailMap) Add(filename, folder string) bool {
	key := Key(filename)
	if existing, ok := m.entries[key]; ok {
		if existing != folder {
			m.conflicts = append(m.conflicts, Conflict{Filename: key, Kept: existing, Ignored: folder})
		}
		return false
	}
	m.entries[key] = folder
	return true
}

// Lookup returns the folder holding filename (case-insensitive)
func (m *ThumbnailMap) Lookup(filename string) (string, bool) {
	folder, ok := m.entries[Key(filename)]
	return folder, ok
}

// Len returns the number of distinct filenames
func (m *ThumbnailMap) Len() int {
	return len(m.entries)
}

// Conflicts returns the duplicates seen while building the map
func (m *ThumbnailMap) Conflicts() []Conflict {
	return m.conflicts
}

// Scanner builds a ThumbnailMap from the category folders
type Scanner struct {
	root       string
	folders    []string
	extensions map[string]bool
	verify     bool
	logger     *zap.Logger
}

// NewScanner creates a scanner for the thumbnail tree described by settings
func NewScanner(settings *models.Settings, logger *zap.Logger) *Scanner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scanner{
		root:       settings.ThumbnailRoot(),
		folders:    settings.Folders,
		extensions: settings.ExtensionSet(),
		verify:     settings.VerifyImages,
		logger:     logger,
	}
}

// Scan lists every folder in order. Missing folders are reported and skipped.
func (s *Scanner) Scan() (*ThumbnailMap, error) {
	thumbs := NewThumbnailMap()

	for _, folder := range s.folders {
		folderPath := filepath.Join(s.root, folder)

		info, err := os.Stat(folderPath)
		if err != nil || !info.IsDir() {
			if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("failed to stat %s: %w", folderPath, err)
			}
			s.logger.Warn("Folder not found", zap.String("path", folderPath))
			continue
		}

		entries, err := os.ReadDir(folderPath)
		if err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", folderPath, err)
		}

		added := 0
		for _, entry := range entries {
			if entry.IsDir() || !s.IsImage(entry.Name()) {
				continue
			}

			if s.verify {
				if _, err := VerifyImage(filepath.Join(folderPath, entry.Name())); err != nil {
					s.logger.Warn("Skipping unreadable image",
						zap.String("folder", folder),
						zap.String("file", entry.Name()),
						zap.Error(err))
					continue
				}
			}

			if thumbs.Add(entry.Name(), folder) {
				added++
				continue
			}
			if existing, _ := thumbs.Lookup(entry.Name()); existing != folder {
				s.logger.Warn("Thumbnail exists in several folders, keeping the first",
					zap.String("file", Key(entry.Name())),
					zap.String("kept", existing),
					zap.String("ignored", folder))
			}
		}

		s.logger.Debug("Scanned folder", zap.String("folder", folder), zap.Int("files", added))
	}

	return thumbs, nil
}

// IsImage checks the file extension against the configured image types
func (s *Scanner) IsImage(name string) bool {
	return s.extensions[strings.ToLower(filepath.Ext(name))]
}
