package model

// PointsBalance is a user's accumulated donor points. Balances only ever
// grow; no debit operation exists.
type PointsBalance struct {
	UserID int64 `json:"user_id"`
	Points int64 `json:"points"`
}

// CompletionPoints is credited to an item's owner when a request for the
// item is completed.
const CompletionPoints = 10

// Badge is a tier label derived purely from accumulated points.
type Badge string

const (
	BadgeBronze   Badge = "Bronze"
	BadgeSilver   Badge = "Silver"
	BadgeGold     Badge = "Gold"
	BadgeMaxLevel Badge = "Max Level"
)

// Badge thresholds.
const (
	silverThreshold = 50
	goldThreshold   = 150
)

// BadgeOf returns the badge tier for a points total.
func BadgeOf(points int64) Badge {
	switch {
	case points >= goldThreshold:
		return BadgeGold
	case points >= silverThreshold:
		return BadgeSilver
	default:
		return BadgeBronze
	}
}

// BadgeProgress describes the next tier a user can reach and how many
// points remain until it.
type BadgeProgress struct {
	Target    Badge `json:"target"`
	Remaining int64 `json:"remaining"`
}

// NextBadge returns the next tier above the given points total. At Gold
// there is nothing left to earn and the target is Max Level.
func NextBadge(points int64) BadgeProgress {
	switch {
	case points < silverThreshold:
		return BadgeProgress{Target: BadgeSilver, Remaining: silverThreshold - points}
	case points < goldThreshold:
		return BadgeProgress{Target: BadgeGold, Remaining: goldThreshold - points}
	default:
		return BadgeProgress{Target: BadgeMaxLevel, Remaining: 0}
	}
}

// LeaderboardEntry is one public leaderboard row.
type LeaderboardEntry struct {
	UserID         int64  `json:"user_id"`
	Name           string `json:"name"`
	Points         int64  `json:"points"`
	Badge          Badge  `json:"badge"`
	TotalDonations int64  `json:"total_donations"`
}
