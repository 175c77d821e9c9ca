package patcher

import (
	"encoding/json"
	"testing"
	"thumbfix/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func parseCatalog(t *testing.T, input string) models.Catalog {
	t.Helper()
	var catalog models.Catalog
	require.NoError(t, json.Unmarshal([]byte(input), &catalog))
	return catalog
}

func TestApplyDefaultTable(t *testing.T) {
	catalog := parseCatalog(t, `[
		{"title": "Barbarian 2", "thumbnail": "https://old.example.org/img/barbarian%202%20new.png"},
		{"title": "IK+", "thumbnail": "thumbs/ik%2b.png"},
		{"title": "WrestleMania", "thumbnail": "images/Miscellaneous/jammie booker"},
		{"title": "Frogger", "thumbnail": "resources/images/thumbnails/arcade/frogger.png"}
	]`)

	result := NewPatcher(models.DefaultPatches(), nil).Apply(catalog)

	want := []string{
		"resources/images/thumbnails/fighting/BARBARIAN 2 NEW.png",
		"resources/images/thumbnails/fighting/IK+.png",
		"resources/images/thumbnails/fighting/WWF WrestleMania (Europe).jpg",
		"resources/images/thumbnails/arcade/frogger.png",
	}
	for i, game := range catalog {
		got, _ := game.Thumbnail()
		if got != want[i] {
			t.Errorf("Game %d: expected '%s', got '%s'", i+1, want[i], got)
		}
	}

	assert.Equal(t, 3, result.Patched)
	assert.Equal(t, 0, result.Conflicts)
	require.Len(t, result.Changes, 3)
	assert.Equal(t, "IK+", result.Changes[1].Game)
}

func TestApplyLeavesUnmatchedAlone(t *testing.T) {
	catalog := parseCatalog(t, `[
		{"thumbnail": ""},
		{"title": "No thumbnail"},
		{"thumbnail": 12},
		{"thumbnail": "resources/images/thumbnails/quiz/blockbusters new.png"}
	]`)

	result := NewPatcher(models.DefaultPatches(), nil).Apply(catalog)

	assert.Equal(t, 0, result.Patched)
	assert.Empty(t, result.Changes)

	thumb, _ := catalog[3].Thumbnail()
	assert.Equal(t, "resources/images/thumbnails/quiz/blockbusters new.png", thumb)
	raw, _ := catalog[2].Get("thumbnail")
	assert.Equal(t, "12", string(raw))
}

func TestApplyFirstMatchWins(t *testing.T) {
	patches := []models.Patch{
		{Match: "fight", Replace: "first.png"},
		{Match: "street%20fight", Replace: "second.png"},
	}
	catalog := parseCatalog(t, `[{"thumbnail": "x/street%20fighter.png"}]`)

	core, logs := observer.New(zap.WarnLevel)
	result := NewPatcher(patches, zap.New(core)).Apply(catalog)

	thumb, _ := catalog[0].Thumbnail()
	assert.Equal(t, "first.png", thumb)
	assert.Equal(t, 1, result.Patched)
	assert.Equal(t, 1, result.Conflicts)

	warnings := logs.FilterMessage("Thumbnail matches several patches, using the first").All()
	require.Len(t, warnings, 1)
	assert.Equal(t, "street%20fight", warnings[0].ContextMap()["ignored"])
}

func TestMatch(t *testing.T) {
	p := NewPatcher(models.DefaultPatches(), nil)

	patch, others, ok := p.Match("games/final%20fight.png")
	require.True(t, ok)
	assert.Equal(t, "resources/images/thumbnails/fighting/Final Fight.png", patch.Replace)
	assert.Empty(t, others)

	_, _, ok = p.Match("")
	assert.False(t, ok)

	// Matching is case-sensitive, like the table
	_, _, ok = p.Match("games/FINAL%20FIGHT.png")
	assert.False(t, ok)
}
