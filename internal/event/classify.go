package event

import "strings"

// Category is the display category assigned to a fixture name.
type Category string

const (
	CategoryTrophy           Category = "trophy"
	CategoryRugby            Category = "rugby"
	CategoryAmericanFootball Category = "american_football"
	CategorySoccer           Category = "soccer"
	CategoryConcert          Category = "concert"
	CategoryGeneric          Category = "generic"
)

// Classification pairs a category with its display glyph and Material
// Design icon name.
type Classification struct {
	Category Category
	Emoji    string
	Icon     string
}

var rugbyCountries = []string{
	"england", "wales", "scotland", "ireland", "france", "italy",
	"australia", "wallabies", "new zealand", "all blacks",
	"south africa", "springboks", "argentina", "fiji", "japan",
}

var (
	finalsPhrases = []string{
		"world cup final", "champions cup final", "championship final",
		"grand final", "cup final", "playoff final",
	}
	rugbyKeywords     = []string{"rugby", "six nations"}
	rugbyClubKeywords = []string{"harlequins", "quins", "premiership", "union"}
	semiQuarterWords  = []string{"semi final", "quarter final", "semi-final", "quarter-final"}
	footballKeywords  = []string{"fa cup", "premier league", "soccer", "football"}
	versusTokens      = []string{" v ", " vs ", " versus "}
	musicKeywords     = []string{"concert", "music", "band"}
	tourPhrases       = []string{"live tour", "music tour", "world tour"}
	liveWords         = []string{"performance", "show"}
)

// classifierRules is the ordered cascade: the first matching predicate
// wins, which is load-bearing (finals must not be shadowed by sport
// keywords, "nfl" must beat the bare word "football", and so on).
var classifierRules = []struct {
	match func(string) bool
	class Classification
}{
	{isTrophyEvent, Classification{CategoryTrophy, "🏆", "mdi:trophy"}},
	{isRugbyEvent, Classification{CategoryRugby, "🏉", "mdi:rugby"}},
	{isAmericanFootballEvent, Classification{CategoryAmericanFootball, "🏈", "mdi:football-american"}},
	{isSoccerEvent, Classification{CategorySoccer, "⚽", "mdi:soccer"}},
	{isConcertEvent, Classification{CategoryConcert, "🎵", "mdi:music"}},
}

var genericClassification = Classification{CategoryGeneric, "📅", "mdi:calendar"}

// Classify maps a free-text fixture name to a category plus display
// glyphs. The function is total: anything the cascade does not match
// falls through to the generic calendar classification.
func Classify(fixture string) Classification {
	lowered := strings.ToLower(fixture)
	for _, rule := range classifierRules {
		if rule.match(lowered) {
			return rule.class
		}
	}
	return genericClassification
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// isTrophyEvent matches genuine finals only, never semi- or
// quarter-finals.
func isTrophyEvent(s string) bool {
	if containsAny(s, finalsPhrases) {
		return true
	}
	return strings.HasSuffix(s, " final") && !containsAny(s, []string{"semi ", "quarter "})
}

func isRugbyEvent(s string) bool {
	if containsAny(s, rugbyKeywords) || containsAny(s, rugbyClubKeywords) {
		return true
	}
	// Harlequins Big Game is rugby even without a rugby keyword.
	if strings.Contains(s, "big game") {
		return true
	}
	// Country v country reads as an international rugby match.
	countryMentions := 0
	for _, country := range rugbyCountries {
		if strings.Contains(s, country) {
			countryMentions++
		}
	}
	if countryMentions >= 2 && containsAny(s, versusTokens) {
		return true
	}
	// Tournament stages default to rugby unless football claims them.
	return containsAny(s, semiQuarterWords) && !containsAny(s, footballKeywords)
}

func isAmericanFootballEvent(s string) bool {
	return strings.Contains(s, "nfl") || strings.Contains(s, "american football")
}

func isSoccerEvent(s string) bool {
	if containsAny(s, []string{"soccer", "premier league", "fa cup"}) {
		return true
	}
	return strings.Contains(s, "football") && !strings.Contains(s, "american")
}

// isConcertEvent is deliberately narrow so substrings like "tour"
// inside "Tournament" do not false-positive.
func isConcertEvent(s string) bool {
	if containsAny(s, musicKeywords) || containsAny(s, tourPhrases) {
		return true
	}
	return strings.Contains(s, "live") && containsAny(s, liveWords)
}
