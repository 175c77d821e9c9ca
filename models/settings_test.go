package models

import (
	"path/filepath"
	"testing"
)

// TestDefaultSettings tests the values the site is maintained with
func TestDefaultSettings(t *testing.T) {
	settings := DefaultSettings()

	if err := settings.Validate(); err != nil {
		t.Fatalf("Default settings should be valid: %v", err)
	}
	if len(settings.Folders) != 18 {
		t.Errorf("Expected 18 folders, got %d", len(settings.Folders))
	}
	if settings.Folders[0] != "arcade" || settings.Folders[17] != "top-picks" {
		t.Errorf("Unexpected folder order: %v", settings.Folders)
	}
	if len(settings.Patches) != 32 {
		t.Errorf("Expected 32 patches, got %d", len(settings.Patches))
	}
	if got := settings.ThumbnailPrefix(); got != "resources/images/thumbnails" {
		t.Errorf("Expected prefix 'resources/images/thumbnails', got '%s'", got)
	}
}

func TestValidate(t *testing.T) {
	settings := DefaultSettings()
	settings.Folders = nil
	if err := settings.Validate(); err == nil {
		t.Error("Expected an error for an empty folder list")
	}

	settings = DefaultSettings()
	settings.Extensions = []string{}
	if err := settings.Validate(); err == nil {
		t.Error("Expected an error for an empty extension list")
	}

	settings = DefaultSettings()
	settings.Patches = append(settings.Patches, Patch{Match: "", Replace: "x"})
	if err := settings.Validate(); err == nil {
		t.Error("Expected an error for an empty patch match")
	}
}

func TestResolve(t *testing.T) {
	settings := DefaultSettings()
	settings.Root = "site"

	want := filepath.Join("site", "resources", "images", "thumbnails")
	if got := settings.ThumbnailRoot(); got != want {
		t.Errorf("Expected '%s', got '%s'", want, got)
	}

	settings.ThumbnailDir = "resources/images/thumbnails/"
	if got := settings.ThumbnailPrefix(); got != "resources/images/thumbnails" {
		t.Errorf("Expected trailing slash to be dropped, got '%s'", got)
	}
}

func TestExtensionSet(t *testing.T) {
	settings := DefaultSettings()
	settings.Extensions = []string{".PNG", "webp", " .Jpg ", ""}

	set := settings.ExtensionSet()
	for _, ext := range []string{".png", ".webp", ".jpg"} {
		if !set[ext] {
			t.Errorf("Expected %s in extension set", ext)
		}
	}
	if len(set) != 3 {
		t.Errorf("Expected 3 extensions, got %d", len(set))
	}
}
