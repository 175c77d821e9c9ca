package audit

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"thumbfix/models"
	"thumbfix/scanner"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// Reasons reported in findings
const (
	ReasonMissing    = "missing"
	ReasonUnreadable = "unreadable"
)

// Finding is a thumbnail reference that does not resolve to a usable file
type Finding struct {
	Source string // "catalog" or the HTML page the reference was found in
	Ref    string // The reference as written
	Reason string
	Detail string
}

// Report is the outcome of an audit
type Report struct {
	Checked  int
	Pages    int
	Findings []Finding
}

// Auditor checks thumbnail references against the files on disk
type Auditor struct {
	settings *models.Settings
	logger   *zap.Logger
}

// NewAuditor creates a new auditor
func NewAuditor(settings *models.Settings, logger *zap.Logger) *Auditor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Auditor{
		settings: settings,
		logger:   logger,
	}
}

// Run audits the catalog and every configured HTML page
func (a *Auditor) Run(catalog models.Catalog) (*Report, error) {
	report := &Report{}

	for _, game := range catalog {
		thumb, ok := game.Thumbnail()
		thumb = strings.TrimSpace(thumb)
		if !ok || thumb == "" || isRemote(thumb) {
			continue
		}

		report.Checked++
		filePath := a.settings.Resolve(strings.TrimPrefix(decodeRef(thumb), "/"))
		if finding := a.check(filePath); finding != nil {
			finding.Source = "catalog"
			finding.Ref = thumb
			a.logger.Warn("Catalog thumbnail is broken",
				zap.String("game", game.Label()),
				zap.String("thumbnail", thumb),
				zap.String("reason", finding.Reason))
			report.Findings = append(report.Findings, *finding)
		}
	}

	pages, err := a.pages()
	if err != nil {
		return nil, err
	}
	for _, page := range pages {
		findings, checked, err := a.auditPage(page)
		if err != nil {
			return nil, err
		}
		report.Pages++
		report.Checked += checked
		report.Findings = append(report.Findings, findings...)
	}

	return report, nil
}

// pages expands the configured globs, relative to the website root
func (a *Auditor) pages() ([]string, error) {
	seen := make(map[string]bool)
	var pages []string

	for _, pattern := range a.settings.Pages {
		matches, err := filepath.Glob(a.settings.Resolve(pattern))
		if err != nil {
			return nil, fmt.Errorf("invalid page pattern %q: %w", pattern, err)
		}
		for _, match := range matches {
			if !seen[match] {
				seen[match] = true
				pages = append(pages, match)
			}
		}
	}
	return pages, nil
}

// auditPage checks every <img> of page that points into the thumbnail tree
func (a *Auditor) auditPage(page string) ([]Finding, int, error) {
	f, err := os.Open(page)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open page: %w", err)
	}
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to parse page %s: %w", page, err)
	}

	prefix := a.settings.ThumbnailPrefix()
	var findings []Finding
	checked := 0

	doc.Find("img[src]").Each(func(i int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		src = strings.TrimSpace(src)
		if src == "" || isRemote(src) {
			return
		}

		ref := decodeRef(src)
		if !strings.Contains(ref, prefix) {
			return
		}

		checked++
		filePath := a.resolveFromPage(page, ref)
		if finding := a.check(filePath); finding != nil {
			finding.Source = page
			finding.Ref = src
			a.logger.Warn("Page thumbnail is broken",
				zap.String("page", page),
				zap.String("src", src),
				zap.String("reason", finding.Reason))
			findings = append(findings, *finding)
		}
	})

	return findings, checked, nil
}

// resolveFromPage resolves an <img> reference the way a browser would: rooted
// references start at the website root, others at the page's directory
func (a *Auditor) resolveFromPage(page, ref string) string {
	if strings.HasPrefix(ref, "/") {
		return a.settings.Resolve(strings.TrimPrefix(ref, "/"))
	}
	return filepath.Join(filepath.Dir(page), filepath.FromSlash(path.Clean(ref)))
}

// check returns a finding when filePath is absent or, with verification on,
// not a decodable image
func (a *Auditor) check(filePath string) *Finding {
	info, err := os.Stat(filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Finding{Reason: ReasonMissing}
		}
		return &Finding{Reason: ReasonMissing, Detail: err.Error()}
	}
	if info.IsDir() {
		return &Finding{Reason: ReasonMissing, Detail: "is a directory"}
	}

	if a.settings.VerifyImages {
		if _, err := scanner.VerifyImage(filePath); err != nil {
			return &Finding{Reason: ReasonUnreadable, Detail: err.Error()}
		}
	}
	return nil
}

// decodeRef strips query and fragment and undoes percent-encoding
func decodeRef(ref string) string {
	if idx := strings.IndexAny(ref, "?#"); idx >= 0 {
		ref = ref[:idx]
	}
	if decoded, err := url.PathUnescape(ref); err == nil {
		return decoded
	}
	return ref
}

// isRemote reports whether ref points outside the site
func isRemote(ref string) bool {
	lower := strings.ToLower(ref)
	return strings.HasPrefix(lower, "http://") ||
		strings.HasPrefix(lower, "https://") ||
		strings.HasPrefix(lower, "//") ||
		strings.HasPrefix(lower, "data:")
}
