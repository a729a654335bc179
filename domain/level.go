package domain

import (
	"fmt"
	"sort"
)

// LevelTier is one rung of the level ladder.
type LevelTier struct {
	Level     int    `json:"level" yaml:"-"`
	Threshold int    `json:"threshold" yaml:"threshold"`
	Title     string `json:"title" yaml:"title"`
	Emoji     string `json:"emoji,omitempty" yaml:"emoji"`
}

// LevelTable maps experience to levels. It is immutable once built.
type LevelTable struct {
	tiers []LevelTier
}

// NewLevelTable validates the tiers: non-empty, first threshold 0, strictly increasing.
// Tier levels are assigned from their position.
func NewLevelTable(tiers []LevelTier) (LevelTable, error) {
	if len(tiers) == 0 {
		return LevelTable{}, fmt.Errorf("level table must not be empty")
	}
	if tiers[0].Threshold != 0 {
		return LevelTable{}, fmt.Errorf("first level threshold must be 0, got %d", tiers[0].Threshold)
	}
	out := make([]LevelTier, len(tiers))
	for i, tier := range tiers {
		if i > 0 && tier.Threshold <= tiers[i-1].Threshold {
			return LevelTable{}, fmt.Errorf("level thresholds must be strictly increasing (tier %d: %d <= %d)",
				i, tier.Threshold, tiers[i-1].Threshold)
		}
		tier.Level = i
		out[i] = tier
	}
	return LevelTable{tiers: out}, nil
}

// DefaultLevelTable returns the stock ladder.
func DefaultLevelTable() LevelTable {
	table, err := NewLevelTable(DefaultLevelTiers())
	if err != nil {
		panic(err)
	}
	return table
}

// DefaultLevelTiers returns a fresh copy of the stock tiers.
func DefaultLevelTiers() []LevelTier {
	return []LevelTier{
		{Threshold: 0, Title: "Newbie", Emoji: "🆕"},
		{Threshold: 50, Title: "Challenger", Emoji: "⚡"},
		{Threshold: 100, Title: "Professional", Emoji: "💼"},
		{Threshold: 200, Title: "Hacker", Emoji: "🔥"},
		{Threshold: 500, Title: "Developer", Emoji: "👨‍💻"},
		{Threshold: 1000, Title: "Monarch", Emoji: "👑"},
		{Threshold: 2000, Title: "LEGEND", Emoji: "🏆"},
	}
}

// LevelFor returns the highest level whose threshold is <= experience.
func (t LevelTable) LevelFor(experience int) int {
	if len(t.tiers) == 0 {
		return 0
	}
	// first tier above experience, minus one
	idx := sort.Search(len(t.tiers), func(i int) bool {
		return t.tiers[i].Threshold > experience
	})
	if idx == 0 {
		return 0
	}
	return idx - 1
}

// TierFor returns the tier matching experience.
func (t LevelTable) TierFor(experience int) LevelTier {
	return t.Tier(t.LevelFor(experience))
}

// Tier returns the tier for a level, clamped to the table bounds.
func (t LevelTable) Tier(level int) LevelTier {
	if len(t.tiers) == 0 {
		return LevelTier{}
	}
	if level < 0 {
		level = 0
	}
	if level >= len(t.tiers) {
		level = len(t.tiers) - 1
	}
	return t.tiers[level]
}

// Next returns the tier after level, if any.
func (t LevelTable) Next(level int) (LevelTier, bool) {
	if level+1 < 0 || level+1 >= len(t.tiers) {
		return LevelTier{}, false
	}
	return t.tiers[level+1], true
}

// Progress is the percentage travelled from the current tier towards the next one.
func (t LevelTable) Progress(experience int) float64 {
	current := t.TierFor(experience)
	next, ok := t.Next(current.Level)
	if !ok {
		return 100
	}
	pct := float64(experience-current.Threshold) / float64(next.Threshold-current.Threshold) * 100
	if pct > 100 {
		return 100
	}
	if pct < 0 {
		return 0
	}
	return pct
}

// Tiers returns a copy of the ladder.
func (t LevelTable) Tiers() []LevelTier {
	return append([]LevelTier(nil), t.tiers...)
}

func (t LevelTable) Len() int { return len(t.tiers) }
