package eval

import (
	"fmt"
	"sort"
)

// ScoreCeiling is the maximum exercise/quiz score.
const ScoreCeiling = 5.0

// Band is a half-open [Min, Max) score-average range labeled with a
// proficiency tier.
type Band struct {
	Label string  `yaml:"label" json:"label"`
	Min   float64 `yaml:"min" json:"min"`
	Max   float64 `yaml:"max" json:"max"`
}

// DefaultBands returns the reference proficiency bands.
func DefaultBands() []Band {
	return []Band{
		{Label: "Beginner", Min: 0, Max: 2},
		{Label: "Intermediate", Min: 2, Max: 4},
		{Label: "Advanced", Min: 4, Max: ScoreCeiling},
	}
}

// LevelCalculator maps a running average score to a proficiency tier.
type LevelCalculator struct {
	bands []Band
}

// NewLevelCalculator validates the band table and returns a calculator.
// Bands must be non-empty, non-overlapping, gap-free, start at 0 and cover
// the full score range; anything else is a configuration error the caller
// should treat as fatal at startup.
func NewLevelCalculator(bands []Band) (*LevelCalculator, error) {
	if len(bands) == 0 {
		return nil, fmt.Errorf("level bands: empty table")
	}

	sorted := append([]Band{}, bands...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Min < sorted[j].Min })

	for i, b := range sorted {
		if b.Label == "" {
			return nil, fmt.Errorf("level bands: band %d has no label", i)
		}
		if b.Max <= b.Min {
			return nil, fmt.Errorf("level bands: band %q has max %.2f <= min %.2f", b.Label, b.Max, b.Min)
		}
	}
	if sorted[0].Min != 0 {
		return nil, fmt.Errorf("level bands: first band starts at %.2f, want 0", sorted[0].Min)
	}
	for i := 1; i < len(sorted); i++ {
		prev, cur := sorted[i-1], sorted[i]
		if cur.Min < prev.Max {
			return nil, fmt.Errorf("level bands: %q overlaps %q", cur.Label, prev.Label)
		}
		if cur.Min > prev.Max {
			return nil, fmt.Errorf("level bands: gap between %q and %q", prev.Label, cur.Label)
		}
	}
	if last := sorted[len(sorted)-1]; last.Max < ScoreCeiling {
		return nil, fmt.Errorf("level bands: table ends at %.2f, must cover %.1f", last.Max, ScoreCeiling)
	}

	return &LevelCalculator{bands: sorted}, nil
}

// Level returns the tier label for an average score. The ceiling value
// belongs to the last band, and any score outside the table resolves to the
// highest band as a safe fallback rather than failing a request.
func (c *LevelCalculator) Level(avg float64) string {
	for _, b := range c.bands {
		if avg >= b.Min && avg < b.Max {
			return b.Label
		}
	}
	return c.bands[len(c.bands)-1].Label
}

// Bands returns a copy of the validated band table.
func (c *LevelCalculator) Bands() []Band {
	return append([]Band{}, c.bands...)
}
