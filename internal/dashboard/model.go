package dashboard

import (
	"time"

	"greensteps/internal/reward"
	"greensteps/internal/waste"
)

// WeeklyDays is how far back the weekly series reaches. The window is
// inclusive at both ends, so it spans WeeklyDays+1 calendar days.
const WeeklyDays = 7

type CategoryTotal struct {
	Name  string  `db:"display_name" json:"display_name"`
	Total float64 `db:"total" json:"total"`
}

type DailyTotal struct {
	Date  string  `db:"date" json:"date"`
	Total float64 `db:"daily_total" json:"daily_total"`
}

type RewardSummary struct {
	Points int          `json:"points"`
	Badge  reward.Badge `json:"badge"`
}

type Dashboard struct {
	TotalWaste     float64         `json:"totalWaste"`
	WasteByType    []CategoryTotal `json:"wasteByType"`
	WeeklyProgress []DailyTotal    `json:"weeklyProgress"`
	Reward         RewardSummary   `json:"reward"`
}

type AdminStats struct {
	WasteRecords []waste.Record    `json:"wasteRecords"`
	Rewards      []reward.Standing `json:"rewards"`
}

// WeeklyWindow returns the first and last calendar day of the weekly series
// for the given instant.
func WeeklyWindow(now time.Time) (from, to time.Time) {
	y, m, d := now.Date()
	to = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return to.AddDate(0, 0, -WeeklyDays), to
}
