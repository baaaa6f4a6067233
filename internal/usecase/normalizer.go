package usecase

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Safety limits for suffix stripping. When the stripped title is shorter
// than minCleanedLength runes, or keeps less than minRetainedRatio of the
// original, stripping is discarded and the original title is returned.
const (
	minCleanedLength = 3
	minRetainedRatio = 0.30
)

// platformRules strip trailing platform tags in bracket and dash/space
// variants, e.g. "(PC/Mac)", " - PC", "for Windows 10".
var platformRules = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\s*[(\[](?:pc|mac|win(?:dows)?|linux|steam)(?:\s*/\s*(?:pc|mac|win(?:dows)?|linux))*[)\]]$`),
	regexp.MustCompile(`(?i)(?:\s+|\s*[-–—:]\s*)(?:for\s+)?(?:pc|mac|linux|windows(?:\s*(?:7|8|10|11))?)(?:\s*/\s*(?:pc|mac|linux|windows))*$`),
}

// editionRules strip trailing DLC/expansion markers.
var editionRules = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\s*[(\[](?:dlc|expansion|add[- ]?on|season\s+pass)[)\]]$`),
	regexp.MustCompile(`(?i)(?:\s+|\s*[-–—:]\s*)(?:dlc|expansion(?:\s+pack)?|add[- ]?on|season\s+pass)$`),
}

// storefrontRules strip digital/region/key/steam-brand markers that key
// resellers append to titles.
var storefrontRules = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\s*[(\[](?:digital(?:\s+(?:download|code|key))?|download)[)\]]$`),
	regexp.MustCompile(`(?i)(?:\s+|\s*[-–—]\s*)digital(?:\s+(?:download|code|key))?$`),
	regexp.MustCompile(`(?i)\s*[(\[](?:global|worldwide|row|region\s+free)(?:\s+(?:key|code|version))?[)\]]$`),
	regexp.MustCompile(`(?i)(?:\s+|\s*[-–—]\s*)(?:global|worldwide|region\s+free)(?:\s+(?:key|code|version))?$`),
	regexp.MustCompile(`(?i)\s*[(\[]steam(?:\s+(?:key|code|gift|version))?[)\]]$`),
	regexp.MustCompile(`(?i)(?:\s+|\s*[-–—]\s*)steam(?:\s+(?:key|code|gift|version|account))?$`),
	regexp.MustCompile(`(?i)(?:\s+|\s*[-–—]\s*)(?:cd[- ]?key|activation\s+(?:key|code)|game\s+(?:key|code)|key|code)$`),
	regexp.MustCompile(`(?i)\s*[(\[](?:standard|deluxe|ultimate|definitive|complete|gold|premium|goty|game\s+of\s+the\s+year)(?:\s+edition)?[)\]]$`),
}

// NameNormalizer strips storefront noise from raw product titles. The rules
// are tuned by trial against real reseller listings, not modeled; expect the
// occasional miss on exotic titles.
type NameNormalizer struct{}

// NewNameNormalizer creates a normalizer.
func NewNameNormalizer() *NameNormalizer {
	return &NameNormalizer{}
}

// Clean applies every strip rule in order, each seeing the output of the
// previous, then applies the over-stripping safety check. Deterministic and
// pure: same input, same output.
func (n *NameNormalizer) Clean(rawTitle string) string {
	title := strings.TrimSpace(rawTitle)
	if title == "" {
		return title
	}

	cleaned := title
	for _, rules := range [][]*regexp.Regexp{platformRules, editionRules, storefrontRules} {
		cleaned = applyRules(cleaned, rules)
	}

	if utf8.RuneCountInString(cleaned) < minCleanedLength {
		return title
	}
	if float64(utf8.RuneCountInString(cleaned))/float64(utf8.RuneCountInString(title)) < minRetainedRatio {
		return title
	}
	return cleaned
}

// StripPlatform removes only trailing platform tags, without the safety
// fallback. Used to build search-term variants.
func (n *NameNormalizer) StripPlatform(name string) string {
	return applyRules(strings.TrimSpace(name), platformRules)
}

// StripEdition removes only trailing DLC/expansion markers, without the
// safety fallback. Used to build search-term variants.
func (n *NameNormalizer) StripEdition(name string) string {
	return applyRules(strings.TrimSpace(name), editionRules)
}

func applyRules(s string, rules []*regexp.Regexp) string {
	for _, re := range rules {
		s = strings.TrimSpace(re.ReplaceAllString(s, ""))
	}
	return s
}
