package chat

import (
	"time"

	"github.com/suPer8Hu/health-triage/internal/common"
	"github.com/suPer8Hu/health-triage/internal/risk"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Feedback string

const (
	FeedbackNone    Feedback = ""
	FeedbackLike    Feedback = "like"
	FeedbackDislike Feedback = "dislike"
)

func (f Feedback) Valid() bool {
	switch f {
	case FeedbackNone, FeedbackLike, FeedbackDislike:
		return true
	}
	return false
}

// Message is immutable once appended, apart from Feedback.
type Message struct {
	ID               string        `json:"id"`
	Role             Role          `json:"role"`
	Content          string        `json:"content"`
	CreatedAt        time.Time     `json:"created_at"`
	Severity         risk.Severity `json:"severity,omitempty"`
	RiskScore        *int          `json:"risk_score,omitempty"`
	DeliveredByVoice bool          `json:"delivered_by_voice"`
	Feedback         Feedback      `json:"feedback,omitempty"`
	// Synthetic marks the welcome message, which is never sent for generation.
	Synthetic bool `json:"synthetic,omitempty"`
}

type Session struct {
	ID        string           `json:"id"`
	Title     string           `json:"title"`
	CreatedAt time.Time        `json:"created_at"`
	Messages  []Message        `json:"messages"`
	LastRisk  *risk.Assessment `json:"last_risk,omitempty"`
}

func (s Session) clone() Session {
	out := s
	out.Messages = append([]Message(nil), s.Messages...)
	for i := range out.Messages {
		if p := out.Messages[i].RiskScore; p != nil {
			v := *p
			out.Messages[i].RiskScore = &v
		}
	}
	if s.LastRisk != nil {
		lr := *s.LastRisk
		out.LastRisk = &lr
	}
	return out
}

func NewSessionID() string { return common.NewULID() }

func NewMessageID() string { return common.NewULID() }

// now is millisecond precision UTC so stored values survive a JSON round trip.
func now() time.Time { return time.Now().UTC().Truncate(time.Millisecond) }
