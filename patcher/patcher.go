package patcher

import (
	"strings"
	"thumbfix/models"

	"go.uber.org/zap"
)

// Result summarises a patch run
type Result struct {
	Patched   int
	Conflicts int // Records matched by more than one patch
	Changes   []models.Change
}

// Patcher applies the literal patch table to catalog thumbnails
type Patcher struct {
	patches []models.Patch
	logger  *zap.Logger
}

// NewPatcher creates a patcher for the given table
func NewPatcher(patches []models.Patch, logger *zap.Logger) *Patcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Patcher{
		patches: patches,
		logger:  logger,
	}
}

// Match returns the first patch whose fragment occurs in thumb, together with
// any later patches that would also have matched
func (p *Patcher) Match(thumb string) (models.Patch, []models.Patch, bool) {
	var (
		first  models.Patch
		others []models.Patch
		found  bool
	)

	if thumb == "" {
		return first, nil, false
	}

	for _, patch := range p.patches {
		if !strings.Contains(thumb, patch.Match) {
			continue
		}
		if !found {
			first = patch
			found = true
			continue
		}
		others = append(others, patch)
	}
	return first, others, found
}

// Apply patches the thumbnails of catalog in place
func (p *Patcher) Apply(catalog models.Catalog) Result {
	var result Result

	for i, game := range catalog {
		thumb, ok := game.Thumbnail()
		if !ok {
			continue
		}

		patch, others, found := p.Match(thumb)
		if !found {
			continue
		}

		if len(others) > 0 {
			result.Conflicts++
			for _, other := range others {
				p.logger.Warn("Thumbnail matches several patches, using the first",
					zap.String("thumbnail", thumb),
					zap.String("used", patch.Match),
					zap.String("ignored", other.Match))
			}
		}

		game.SetThumbnail(patch.Replace)
		p.logger.Debug("Patched thumbnail", zap.String("from", thumb), zap.String("to", patch.Replace))

		result.Patched++
		result.Changes = append(result.Changes, models.Change{
			Index: i,
			Game:  game.Label(),
			From:  thumb,
			To:    patch.Replace,
		})
	}

	return result
}
