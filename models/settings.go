package models

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"
)

// Patch is a literal correction: any thumbnail containing Match is replaced by Replace
type Patch struct {
	Match   string `yaml:"match"`
	Replace string `yaml:"replace"`
}

// Settings represents the configuration of a run
type Settings struct {
	Root          string   `yaml:"root"`           // Website root, everything else is relative to it
	Catalog       string   `yaml:"catalog"`        // Input catalog
	FixedOutput   string   `yaml:"fixed_output"`   // Output of the fix command
	PatchedOutput string   `yaml:"patched_output"` // Output of the patch command
	ThumbnailDir  string   `yaml:"thumbnail_dir"`  // Thumbnail tree, forward slashes
	Folders       []string `yaml:"folders"`        // Category folders under ThumbnailDir, in scan order
	Extensions    []string `yaml:"extensions"`     // Image extensions, compared case-insensitively
	VerifyImages  bool     `yaml:"verify_images"`  // Decode every image while scanning
	Pages         []string `yaml:"pages"`          // HTML globs checked by the audit command
	Patches       []Patch  `yaml:"patches"`
}

// DefaultSettings returns the settings the site has always been maintained with
func DefaultSettings() *Settings {
	return &Settings{
		Root:          ".",
		Catalog:       "games/games.json",
		FixedOutput:   "games/games_fixed.json",
		PatchedOutput: "games/games_patched.json",
		ThumbnailDir:  "resources/images/thumbnails",
		Folders: []string{
			"arcade",
			"action-adventure",
			"adventure",
			"bpjs",
			"cartridge",
			"casino",
			"fighting",
			"horror",
			"licensed",
			"platform",
			"puzzle",
			"quiz",
			"racing",
			"rpg",
			"shoot-em-up",
			"sports",
			"strategy",
			"top-picks",
		},
		Extensions: []string{".jpg", ".jpeg", ".png", ".webp"},
		Pages:      []string{"*.html", "games/*.html", "games/genres/*.html"},
		Patches:    DefaultPatches(),
	}
}

// DefaultPatches returns the known-bad thumbnail fragments and their correct paths
func DefaultPatches() []Patch {
	return []Patch{
		{"barbarian%202%20new.png", "resources/images/thumbnails/fighting/BARBARIAN 2 NEW.png"},
		{"blockbusters%20new.png", "resources/images/thumbnails/quiz/blockbusters new.png"},
		{"cave%20of%20the%20word%20wizard%20new.png", "resources/images/thumbnails/quiz/cave of the word wizard new.png"},
		{"deactivators%20(europe).jpg", "resources/images/thumbnails/strategy/Deactivators (Europe).jpg"},
		{"donald%20duck's%20playground%20(usa).jpg", "resources/images/thumbnails/quiz/Donald Duck's Playground (USA).jpg"},
		{"double%20dragon%20ii%20-%20the%20revenge%20(europe).jpg", "resources/images/thumbnails/fighting/Double Dragon II - The Revenge (Europe).jpg"},
		{"bad%20dudes%20vs.%20dragon%20ninja%20(usa).jpg", "resources/images/thumbnails/fighting/Bad Dudes vs. Dragon Ninja (USA).jpg"},
		{"feud%20-%20battle%20of%20the%20wizards%20(europe).jpg", "resources/images/thumbnails/action-adventure/Feud - Battle of the Wizards (Europe).jpg"},
		{"fighting%20warrior%20new.png", "resources/images/thumbnails/fighting/fighting warrior new.png"},
		{"granys%20garden%20new.png", "resources/images/thumbnails/quiz/granys garden new.png"},
		{"ik%2b%20c64%20new.png", "resources/images/thumbnails/fighting/IK+ C64 NEW.png"},
		{"karateka%20(usa).jpg", "resources/images/thumbnails/fighting/Karateka (USA).jpg"},
		{"micro%20mouse%20new.png", "resources/images/thumbnails/quiz/micro mouse new.png"},
		{"mike%20read's%20computer%20pop%20quiz%20(europe).jpg", "resources/images/thumbnails/quiz/Mike Read's Computer Pop Quiz (Europe).jpg"},
		{"pit-fighter%20-%20the%20ultimate%20competition%20(europe).jpg", "resources/images/thumbnails/fighting/Pit-Fighter - The Ultimate Competition (Europe).jpg"},
		{"question%20of%20sport%2c%20a%20(europe).jpg", "resources/images/thumbnails/quiz/Question of Sport, A (Europe).jpg"},
		{"rock%20n%20wrestle.png", "resources/images/thumbnails/fighting/rock n wrestle.png"},
		{"spartacus%20-%20the%20swordslayer%20(europe).jpg", "resources/images/thumbnails/fighting/Spartacus - The Swordslayer (Europe).jpg"},
		{"spitting%20image%20-%20the%20computer%20game%20(europe).jpg", "resources/images/thumbnails/fighting/Spitting Image - The Computer Game (Europe).jpg"},
		{"street%20fighter%20new.png", "resources/images/thumbnails/fighting/STREET FIGHTER NEW.png"},
		{"street%20hassle%20new.png", "resources/images/thumbnails/fighting/STREET HASSLE NEW.png"},
		{"tour%20de%20france%20(usa).jpg", "resources/images/thumbnails/racing/Tour de France (USA).jpg"},
		{"uchi-mata%20(europe).jpg", "resources/images/thumbnails/fighting/Uchi-Mata (Europe).jpg"},
		{"vigilante%20(europe).jpg", "resources/images/thumbnails/fighting/Vigilante (Europe).jpg"},
		{"visible%20solar%20system%20new.png", "resources/images/thumbnails/quiz/visible solar system new.png"},
		{"kung-fu%20-%20the%20way%20of%20the%20exploding%20fist%20(europe).jpg", "resources/images/thumbnails/fighting/Kung-Fu - The Way of the Exploding Fist (Europe).jpg"},
		{"yie%20ar%20kung-fu%20(europe).jpg", "resources/images/thumbnails/fighting/Yie Ar Kung-Fu (Europe).jpg"},
		{"final%20fight.png", "resources/images/thumbnails/fighting/Final Fight.png"},
		{"the%20settlers%20new.png", "resources/images/thumbnails/strategy/the settlers new.png"},
		{"ik%2b.png", "resources/images/thumbnails/fighting/IK+.png"},
		{"kawasaki%20rhythm%20rocker%20new.png", "resources/images/thumbnails/quiz/kawasaki rhythm rocker new.png"},
		// Broken placeholder left behind by an old import
		{"Miscellaneous/jammie booker", "resources/images/thumbnails/fighting/WWF WrestleMania (Europe).jpg"},
	}
}

// Validate checks that the settings can drive a run
func (s *Settings) Validate() error {
	if s.Catalog == "" {
		return fmt.Errorf("catalog path is empty")
	}
	if s.ThumbnailDir == "" {
		return fmt.Errorf("thumbnail directory is empty")
	}
	if len(s.Folders) == 0 {
		return fmt.Errorf("no thumbnail folders configured")
	}
	if len(s.Extensions) == 0 {
		return fmt.Errorf("no image extensions configured")
	}
	for i, p := range s.Patches {
		if p.Match == "" {
			return fmt.Errorf("patch %d has an empty match", i+1)
		}
	}
	return nil
}

// Resolve turns a path relative to the website root into a filesystem path
func (s *Settings) Resolve(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(s.Root, filepath.FromSlash(rel))
}

// ThumbnailRoot returns the filesystem directory holding the category folders
func (s *Settings) ThumbnailRoot() string {
	return s.Resolve(s.ThumbnailDir)
}

// ThumbnailPrefix returns the catalog form of the thumbnail directory
func (s *Settings) ThumbnailPrefix() string {
	return strings.TrimSuffix(path.Clean(filepath.ToSlash(s.ThumbnailDir)), "/")
}

// ExtensionSet returns the configured extensions lowercased, with a leading dot
func (s *Settings) ExtensionSet() map[string]bool {
	set := make(map[string]bool, len(s.Extensions))
	for _, ext := range s.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		set[ext] = true
	}
	return set
}
