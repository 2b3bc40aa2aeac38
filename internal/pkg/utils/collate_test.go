package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortByName(t *testing.T) {
	names := []string{"Grade 10", "grade 2", "Play Group", "Grade 1", "KG"}

	SortByName(names, func(s string) string { return s })

	assert.Equal(t, []string{"Grade 1", "grade 2", "Grade 10", "KG", "Play Group"}, names)
}

func TestSortByName_Stable(t *testing.T) {
	type row struct{ name, id string }
	rows := []row{{"ali", "1"}, {"Ali", "2"}, {"Bilal", "3"}}

	SortByName(rows, func(r row) string { return r.name })

	assert.Equal(t, "1", rows[0].id)
	assert.Equal(t, "2", rows[1].id)
}

func TestRoundPercent(t *testing.T) {
	tests := []struct {
		part, total, want int
	}{
		{0, 0, 0},
		{1, 3, 33},
		{2, 3, 67},
		{3, 4, 75},
		{5, 5, 100},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RoundPercent(tt.part, tt.total))
	}
}
