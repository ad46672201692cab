package rabbitmq

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suPer8Hu/health-triage/internal/chat"
	"github.com/suPer8Hu/health-triage/internal/risk"
	"github.com/suPer8Hu/health-triage/internal/triage"
)

var _ chat.RiskPublisher = (*Publisher)(nil)

func TestDecodeRisk(t *testing.T) {
	ev := chat.RiskEvent{
		SessionID: "01J0SESSION",
		MessageID: "01J0MESSAGE",
		Score:     9,
		Severity:  risk.Emergency,
		Source:    chat.SourceOffline,
		Intent:    triage.Emergency,
		At:        time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	body, err := json.Marshal(ev)
	require.NoError(t, err)

	got, err := DecodeRisk(body)
	require.NoError(t, err)
	assert.Equal(t, ev, got)

	_, err = DecodeRisk([]byte("{"))
	assert.Error(t, err)
}
