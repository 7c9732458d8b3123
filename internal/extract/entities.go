// Package extract pulls lookup keys (administrative regions, feeder-line
// identifiers) out of free-text questions.
package extract

import (
	"regexp"
	"strings"

	"github.com/spherical-ai/hoidap/internal/textnorm"
)

var (
	// regionPattern captures the name after either "xã" (commune) or
	// "phường" (ward). Go's \w is ASCII-only, so letters are spelled out.
	regionPattern = regexp.MustCompile(`(?:xã|phường)\s+([\p{L}\p{N}_\s]+)`)

	// legacyRegionPattern is the alternation where the capture group belongs
	// to the "phường" branch only; a bare "xã" match captures nothing.
	legacyRegionPattern = regexp.MustCompile(`xã|phường ([\p{L}\p{N}_\s]+)`)

	feederPattern = regexp.MustCompile(`\d{3}E6\.\d{2}`)
)

// RegionExtractor finds a region name in a question.
type RegionExtractor struct {
	pattern *regexp.Regexp
}

// NewRegionExtractor returns an extractor. With legacy set, the capture
// group applies only to "phường"; see DESIGN.md.
func NewRegionExtractor(legacy bool) *RegionExtractor {
	if legacy {
		return &RegionExtractor{pattern: legacyRegionPattern}
	}
	return &RegionExtractor{pattern: regionPattern}
}

// Region returns the upper-cased region named in question.
//
// An explicit "xã <name>" / "phường <name>" phrase wins. Otherwise the first
// of knownRegions, in order, that appears in the question is returned.
func (e *RegionExtractor) Region(question string, knownRegions []string) (string, bool) {
	q := textnorm.Fold(question)

	if name, ok := e.Phrase(q); ok {
		return name, true
	}

	for _, region := range knownRegions {
		r := textnorm.Fold(region)
		if r != "" && strings.Contains(q, r) {
			return textnorm.Upper(region), true
		}
	}

	return "", false
}

// Phrase returns the upper-cased name captured from an explicit
// "xã/phường <name>" phrase, if the question has one.
func (e *RegionExtractor) Phrase(question string) (string, bool) {
	m := e.pattern.FindStringSubmatch(textnorm.Fold(question))
	if m == nil || len(m) < 2 {
		return "", false
	}
	name := strings.TrimSpace(m[1])
	if name == "" {
		return "", false
	}
	return textnorm.Upper(name), true
}

// FeederID returns the first feeder-line identifier (three digits, "E6.",
// two digits) in question, compared upper-cased.
func FeederID(question string) (string, bool) {
	id := feederPattern.FindString(strings.ToUpper(question))
	if id == "" {
		return "", false
	}
	return id, true
}
