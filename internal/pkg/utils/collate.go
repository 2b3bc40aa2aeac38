package utils

import (
	"math"
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// NewCollator returns an English, case-insensitive collator that compares digit runs
// by value, so "Grade 2" sorts before "Grade 10". Collators are not safe for
// concurrent use; create one per sort.
func NewCollator() *collate.Collator {
	return collate.New(language.English, collate.IgnoreCase, collate.Numeric)
}

// SortByName stably sorts items by the string key returns.
func SortByName[T any](items []T, key func(T) string) {
	c := NewCollator()
	sort.SliceStable(items, func(i, j int) bool {
		return c.CompareString(key(items[i]), key(items[j])) < 0
	})
}

// RoundPercent returns round(part/total*100), or 0 when total is 0.
func RoundPercent(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}
