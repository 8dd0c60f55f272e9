package persona

import (
	"sort"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"persona_fetcher/internal/domain"
)

const (
	TopInterestsLimit = 5
	minWordLength     = 5
)

// Summarize derives a persona from posts followed by comments. Counts do
// not depend on order; ties in the ranking go to the word seen first.
func Summarize(posts, comments []domain.ActivityRecord) domain.PersonaSummary {
	counts := make(map[string]int)
	var order []string
	var mostActive time.Time

	scan := func(records []domain.ActivityRecord) {
		for _, r := range records {
			for _, word := range Tokenize(r.Content) {
				if _, seen := counts[word]; !seen {
					order = append(order, word)
				}
				counts[word]++
			}
			if r.CreatedAt.After(mostActive) {
				mostActive = r.CreatedAt
			}
		}
	}
	scan(posts)
	scan(comments)

	summary := domain.PersonaSummary{
		TopInterests: topInterests(order, counts),
		PostCount:    len(posts),
		CommentCount: len(comments),
	}
	if len(posts)+len(comments) > 0 {
		summary.MostActiveAt = &mostActive
	}
	return summary
}

// Tokenize lower-cases text, splits it on whitespace and keeps words made
// only of letters that are longer than four characters. Punctuation
// hugging a word ("world," or "(hello") is trimmed first.
func Tokenize(text string) []string {
	var words []string
	for _, field := range strings.Fields(strings.ToLower(text)) {
		word := strings.TrimFunc(field, unicode.IsPunct)
		if utf8.RuneCountInString(word) < minWordLength || !isAlpha(word) {
			continue
		}
		words = append(words, word)
	}
	return words
}

func isAlpha(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return s != ""
}

func topInterests(order []string, counts map[string]int) []domain.InterestCount {
	ranked := make([]domain.InterestCount, len(order))
	for i, word := range order {
		ranked[i] = domain.InterestCount{Word: word, Count: counts[word]}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})

	if len(ranked) > TopInterestsLimit {
		ranked = ranked[:TopInterestsLimit]
	}
	return ranked
}
