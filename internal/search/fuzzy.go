package search

import (
	"unicode/utf8"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/mo"
)

// EditDistance is the Levenshtein distance between a and b with unit costs.
func EditDistance(a, b string) int {
	return fuzzy.LevenshteinDistance(a, b)
}

// AcceptThreshold is the largest distance SuggestClosest accepts for term.
func AcceptThreshold(term string) int {
	return max(2, utf8.RuneCountInString(term)/2)
}

// SuggestClosest returns the dictionary entry nearest to term. Ties go to the
// earliest entry. None when term or dictionary is empty or nothing is close enough.
func SuggestClosest(term string, dictionary []string) mo.Option[string] {
	if term == "" || len(dictionary) == 0 {
		return mo.None[string]()
	}
	best, bestScore := "", -1
	for _, candidate := range dictionary {
		score := EditDistance(term, candidate)
		if bestScore < 0 || score < bestScore {
			best, bestScore = candidate, score
		}
	}
	if bestScore > AcceptThreshold(term) {
		return mo.None[string]()
	}
	return mo.Some(best)
}
