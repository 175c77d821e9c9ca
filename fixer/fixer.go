package fixer

import (
	"strings"
	"thumbfix/models"
	"thumbfix/scanner"

	"go.uber.org/zap"
)

// Result summarises a fix run
type Result struct {
	Updated   int
	Missing   int
	Skipped   int      // Records without a usable thumbnail
	Unmatched []string // Lowercased filenames with no file on disk
	Changes   []models.Change
}

// Fixer points catalog thumbnails at the folder their file lives in
type Fixer struct {
	thumbs *scanner.ThumbnailMap
	prefix string
	logger *zap.Logger
}

// NewFixer creates a fixer. prefix is the catalog form of the thumbnail
// directory, e.g. "resources/images/thumbnails".
func NewFixer(thumbs *scanner.ThumbnailMap, prefix string, logger *zap.Logger) *Fixer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fixer{
		thumbs: thumbs,
		prefix: strings.TrimSuffix(prefix, "/"),
		logger: logger,
	}
}

// Apply rewrites the thumbnails of catalog in place
func (f *Fixer) Apply(catalog models.Catalog) Result {
	var result Result

	for i, game := range catalog {
		current, ok := game.Thumbnail()
		thumb := strings.TrimSpace(current)
		if !ok || thumb == "" {
			result.Skipped++
			continue
		}

		filename := strings.ToLower(BaseName(thumb))
		folder, found := f.thumbs.Lookup(filename)
		if !found {
			f.logger.Warn("Thumbnail not found in thumbnail folders",
				zap.String("file", filename),
				zap.String("game", game.Label()))
			result.Missing++
			result.Unmatched = append(result.Unmatched, filename)
			continue
		}

		newPath := f.prefix + "/" + folder + "/" + filename
		if current == newPath {
			continue
		}

		game.SetThumbnail(newPath)
		f.logger.Debug("Updated thumbnail", zap.String("from", current), zap.String("to", newPath))

		result.Updated++
		result.Changes = append(result.Changes, models.Change{
			Index: i,
			Game:  game.Label(),
			From:  current,
			To:    newPath,
		})
	}

	return result
}

// BaseName returns the filename part of a thumbnail path. Both slash styles
// are treated as separators since catalogs have been edited on Windows.
func BaseName(thumb string) string {
	if idx := strings.LastIndexAny(thumb, `/\`); idx >= 0 {
		return thumb[idx+1:]
	}
	return thumb
}
