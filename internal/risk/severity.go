package risk

import "fmt"

// Severity is a coarse urgency bucket derived from a 0-10 risk score.
type Severity string

const (
	Low       Severity = "low"
	Medium    Severity = "medium"
	High      Severity = "high"
	Emergency Severity = "emergency"
)

const (
	MinScore     = 0
	MaxScore     = 10
	DefaultScore = 3
)

// Rank orders tiers by clinical urgency: low < medium < high < emergency.
// Unknown tiers rank below low.
func (s Severity) Rank() int {
	switch s {
	case Low:
		return 0
	case Medium:
		return 1
	case High:
		return 2
	case Emergency:
		return 3
	default:
		return -1
	}
}

func (s Severity) Valid() bool { return s.Rank() >= 0 }

// SeverityOf maps a score to its tier.
func SeverityOf(score int) Severity {
	switch {
	case score >= 9:
		return Emergency
	case score >= 7:
		return High
	case score >= 4:
		return Medium
	default:
		return Low
	}
}

// Assessment is the risk summary attached to assistant messages and sessions.
type Assessment struct {
	Score    int      `json:"score"`
	Severity Severity `json:"severity"`
}

func (a Assessment) String() string {
	return fmt.Sprintf("%d/10 (%s)", a.Score, a.Severity)
}

func clamp(score int) int {
	if score < MinScore {
		return MinScore
	}
	if score > MaxScore {
		return MaxScore
	}
	return score
}
