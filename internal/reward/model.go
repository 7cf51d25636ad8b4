package reward

import (
	"math"
	"time"
)

type Badge string

const (
	BadgeStarter                Badge = "STARTER"
	BadgeSustainabilityChampion Badge = "SUSTAINABILITY_CHAMPION"
	BadgeGreenHero              Badge = "GREEN_HERO"
	BadgeEcoWarrior             Badge = "ECO_WARRIOR"
)

// StreakTarget is the number of consecutive logging days that completes a streak.
const StreakTarget = 7

var badgeThresholds = []struct {
	min   int
	badge Badge
}{
	{100, BadgeEcoWarrior},
	{50, BadgeGreenHero},
	{25, BadgeSustainabilityChampion},
}

// BadgeFor returns the badge earned by a point total.
func BadgeFor(points int) Badge {
	for _, t := range badgeThresholds {
		if points >= t.min {
			return t.badge
		}
	}
	return BadgeStarter
}

// MaxEntryPoints caps the points a single entry can earn. It matches the
// largest quantity a waste record can store and fits the INT ledger column.
const MaxEntryPoints = 200_000_000

// PointsFor converts a logged quantity into reward points: two points per
// unit, rounded half away from zero, capped at MaxEntryPoints. Negative and
// NaN quantities earn nothing.
func PointsFor(quantity float64) int {
	if math.IsNaN(quantity) || quantity <= 0 {
		return 0
	}
	points := math.Round(quantity * 2)
	if points >= MaxEntryPoints {
		return MaxEntryPoints
	}
	return int(points)
}

type Reward struct {
	ID        int        `db:"reward_id" json:"-"`
	UserID    int        `db:"user_id" json:"-"`
	Points    int        `db:"points" json:"points"`
	Badge     Badge      `db:"badge" json:"badge"`
	AwardedOn *time.Time `db:"awarded_on" json:"awardedOn"`
}

func defaultReward(userID int) *Reward {
	return &Reward{UserID: userID, Points: 0, Badge: BadgeStarter}
}

type LedgerEntry struct {
	ID        int       `db:"history_id" json:"history_id"`
	UserID    int       `db:"user_id" json:"user_id"`
	Delta     int       `db:"delta" json:"points_change"`
	Reason    string    `db:"reason" json:"reason"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Award is the aggregate state after an accrual.
type Award struct {
	PointsAwarded int   `json:"pointsAwarded"`
	Points        int   `json:"points"`
	Badge         Badge `json:"badge"`
	PreviousBadge Badge `json:"-"`
	BadgeChanged  bool  `json:"badgeChanged"`
}

// Outcome reports a best-effort accrual: exactly one of Award and Err is set.
type Outcome struct {
	Award *Award
	Err   error
}

func (o Outcome) OK() bool {
	return o.Err == nil && o.Award != nil
}

// PointsAwarded is zero when the accrual failed.
func (o Outcome) PointsAwarded() int {
	if !o.OK() {
		return 0
	}
	return o.Award.PointsAwarded
}

type Standing struct {
	RewardID  int        `db:"reward_id" json:"reward_id"`
	Name      string     `db:"name" json:"name"`
	Points    int        `db:"points" json:"points"`
	Badge     Badge      `db:"badge" json:"badge"`
	AwardedOn *time.Time `db:"awarded_on" json:"awarded_on"`
}

type Summary struct {
	Reward        *Reward       `json:"reward"`
	PointsHistory []LedgerEntry `json:"pointsHistory"`
}

type Streak struct {
	Days         int    `json:"days"`
	Target       int    `json:"target"`
	StreakActive bool   `json:"streakActive"`
	Message      string `json:"message"`
}
