package game

import (
	"time"

	"github.com/kapu/emoji-movie-bot-go/internal/domain"
)

func (c Config) difficultyMultiplier(d domain.Difficulty) float64 {
	switch d {
	case domain.DifficultyMedium:
		return c.MediumMultiplier
	case domain.DifficultyHard:
		return c.HardMultiplier
	default:
		return c.EasyMultiplier
	}
}

// scorePoints computes the payout for a win. Multipliers stack on the float
// value and the result is truncated to int exactly once, so fractional
// precision is kept until the end.
func (c Config) scorePoints(d domain.Difficulty, elapsed time.Duration) (int, bool) {
	points := float64(c.BasePoints) * c.difficultyMultiplier(d)
	speedBonus := elapsed < c.SpeedBonusWindow
	if speedBonus {
		points *= c.SpeedBonusMultiplier
	}
	return int(points), speedBonus
}
