package app

import (
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// RequireMethod validates that the request uses the specified HTTP method
func RequireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}

// parseYear reads the year query parameter, defaulting to fallback
func parseYear(r *http.Request, fallback int) (int, bool) {
	yearStr := r.URL.Query().Get("year")
	if yearStr == "" {
		return fallback, true
	}
	year, err := strconv.Atoi(yearStr)
	if err != nil || year < 1 || year > 9999 {
		return 0, false
	}
	return year, true
}

// parseMonth reads a 1-12 month, defaulting to fallback when s is empty
func parseMonth(s string, fallback time.Month) (time.Month, bool) {
	if s == "" {
		return fallback, true
	}
	m, err := strconv.Atoi(s)
	if err != nil || m < 1 || m > 12 {
		return 0, false
	}
	return time.Month(m), true
}

// parseBounded reads an integer query parameter within [lo, hi]
func parseBounded(s string, fallback, lo, hi int) (int, bool) {
	if s == "" {
		return fallback, true
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < lo || n > hi {
		return 0, false
	}
	return n, true
}

var (
	parenthetical = regexp.MustCompile(`(\([^)]*\))`)
	nonToken      = regexp.MustCompile(`[^a-z0-9]+`)
)

// titleWord upper-cases the first letter of a word and lower-cases the rest,
// so "LAKE-VIEW" becomes "Lake-view". Casers are stateful, so each call gets its own.
func titleWord(word string) string {
	_, n := utf8.DecodeRuneInString(word)
	return cases.Upper(language.AmericanEnglish).String(word[:n]) +
		cases.Lower(language.AmericanEnglish).String(word[n:])
}

// FormatStreetName title-cases a street name word by word. Inside parentheses "to" stays lower case,
// so "MAIN ST (CEDAR TO WASHINGTON)" becomes "Main St (Cedar to Washington)".
func FormatStreetName(name string) string {
	var words []string
	last := 0
	for _, loc := range parenthetical.FindAllStringIndex(name, -1) {
		for _, word := range strings.Fields(name[last:loc[0]]) {
			words = append(words, titleWord(word))
		}

		inner := strings.Fields(name[loc[0]+1 : loc[1]-1])
		for i, word := range inner {
			if strings.EqualFold(word, "to") {
				inner[i] = "to"
			} else {
				inner[i] = titleWord(word)
			}
		}
		words = append(words, "("+strings.Join(inner, " ")+")")
		last = loc[1]
	}
	for _, word := range strings.Fields(name[last:]) {
		words = append(words, titleWord(word))
	}

	return strings.Join(words, " ")
}

// slug turns a street name into an ASCII file name fragment made of RFC 2616 token characters
func slug(name string) string {
	s := nonToken.ReplaceAllString(strings.ToLower(unidecode.Unidecode(name)), "-")
	return strings.Trim(s, "-")
}
