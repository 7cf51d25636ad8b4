package tips

import (
	"strings"
	"testing"
	"time"

	"greensteps/internal/waste"

	"github.com/stretchr/testify/assert"
)

func rec(category string, qty float64) waste.Record {
	return waste.Record{
		EntryDate:    time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC),
		CategoryName: category,
		Quantity:     qty,
		Unit:         "kg",
	}
}

func TestTopCategory(t *testing.T) {
	tests := []struct {
		name    string
		records []waste.Record
		want    string
	}{
		{"largest tally wins", []waste.Record{rec("Paper", 1), rec("Plastic", 2), rec("Paper", 2)}, "Paper"},
		{"tie goes to first seen", []waste.Record{rec("Glass", 2), rec("Plastic", 2)}, "Glass"},
		{"single", []waste.Record{rec("Food Waste", 0.5)}, "Food Waste"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := TopCategory(tt.records)
			assert.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	_, ok := TopCategory(nil)
	assert.False(t, ok)
}

func TestHeuristic(t *testing.T) {
	tests := []struct {
		name    string
		records []waste.Record
		want    []string
	}{
		{"no entries", nil, onboardingTips},
		{"food", []waste.Record{rec("Food Waste", 3)}, compostTips},
		{"plastic", []waste.Record{rec("Plastic", 3)}, containerTips},
		{"bottle keyword", []waste.Record{rec("Glass Bottles", 3)}, containerTips},
		{"cardboard keyword", []waste.Record{rec("Cardboard", 3)}, paperTips},
		{"unknown", []waste.Record{rec("Glass", 3)}, genericTips},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Heuristic(tt.records))
		})
	}
}

func TestHeuristic_KeywordMatchesDoNotNameTheCategory(t *testing.T) {
	for _, records := range [][]waste.Record{
		{rec("Glass Bottles", 3)},
		{rec("Food Containers", 3)},
		{rec("Cardboard", 3)},
	} {
		for _, tip := range Heuristic(records) {
			assert.NotContains(t, tip, "Plastic is")
			assert.NotContains(t, tip, "Paper is")
			assert.NotContains(t, tip, "largest category")
		}
	}
}

func TestHeuristic_Deterministic(t *testing.T) {
	records := []waste.Record{rec("Plastic", 2), rec("Paper", 2), rec("Food Waste", 1)}
	first := Heuristic(records)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, Heuristic(records))
	}
	assert.Equal(t, containerTips, first)
}

func TestSummarize(t *testing.T) {
	r := rec("Plastic", 2.5)
	r.Notes = " bottles "

	assert.Equal(t, "2024-05-10, Plastic, 2.5 kg, notes: bottles", Summarize([]waste.Record{r}))

	var many []waste.Record
	for i := 0; i < 15; i++ {
		many = append(many, rec("Paper", 1))
	}
	assert.Len(t, strings.Split(Summarize(many), "\n"), summaryCap)
}

func TestNormalize(t *testing.T) {
	text := "\n- Use a compost bin\n\n2. Buy in bulk\n  * Carry a bottle  \n• Refuse straws\n1) Extra tip\n"
	assert.Equal(t, []string{"Use a compost bin", "Buy in bulk", "Carry a bottle", "Refuse straws"}, Normalize(text))

	assert.Equal(t, []string{"1.5 kg of plastic is a lot"}, Normalize("1.5 kg of plastic is a lot"))
	assert.Empty(t, Normalize("  \n \n"))

	assert.Equal(t, []string{"Compost peels", "Plan meals"},
		Normalize("Here are some tips:\n- Compost peels\n- Plan meals"))
	assert.Equal(t, []string{"Compost peels", "Bring bags: cloth ones"},
		Normalize("\n  Sure:  \n1. Compost peels\n2. Bring bags: cloth ones"))
	assert.Empty(t, Normalize("Tips:"))
}
