package reward

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBadgeFor(t *testing.T) {
	tests := []struct {
		points int
		want   Badge
	}{
		{0, BadgeStarter},
		{24, BadgeStarter},
		{25, BadgeSustainabilityChampion},
		{49, BadgeSustainabilityChampion},
		{50, BadgeGreenHero},
		{99, BadgeGreenHero},
		{100, BadgeEcoWarrior},
		{5000, BadgeEcoWarrior},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, BadgeFor(tt.points), "points=%d", tt.points)
	}
}

func TestPointsFor(t *testing.T) {
	tests := []struct {
		name     string
		quantity float64
		want     int
	}{
		{"whole", 5, 10},
		{"fraction", 2.5, 5},
		{"half rounds up", 0.25, 1},
		{"one and a half rounds up", 0.75, 2},
		{"below half", 0.2, 0},
		{"zero", 0, 0},
		{"negative", -3, 0},
		{"nan", math.NaN(), 0},
		{"largest storable quantity", 99999999.99, 199999999},
		{"at cap", 1e8, MaxEntryPoints},
		{"beyond int64", 1e19, MaxEntryPoints},
		{"huge", 1e300, MaxEntryPoints},
		{"infinite", math.Inf(1), MaxEntryPoints},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PointsFor(tt.quantity))
		})
	}
}

func TestOutcome(t *testing.T) {
	ok := Outcome{Award: &Award{PointsAwarded: 6}}
	assert.True(t, ok.OK())
	assert.Equal(t, 6, ok.PointsAwarded())

	failed := Outcome{Err: ErrLedgerSchema}
	assert.False(t, failed.OK())
	assert.Equal(t, 0, failed.PointsAwarded())
}
