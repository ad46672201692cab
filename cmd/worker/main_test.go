package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suPer8Hu/health-triage/internal/chat"
	"github.com/suPer8Hu/health-triage/internal/db"
	"github.com/suPer8Hu/health-triage/internal/risk"
	"github.com/suPer8Hu/health-triage/internal/store/sqlstore"
	"github.com/suPer8Hu/health-triage/internal/triage"
)

func TestStoreRisk(t *testing.T) {
	gdb, err := db.Open(db.DriverSQLite, "file:workertest?mode=memory&cache=shared")
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))
	riskLog := sqlstore.NewRiskLog(gdb)
	ctx := context.Background()

	ev := chat.RiskEvent{
		SessionID: "S1",
		MessageID: "M1",
		Score:     10,
		Severity:  risk.Emergency,
		Source:    chat.SourceOffline,
		Intent:    triage.Emergency,
		At:        time.Now().UTC(),
	}
	require.NoError(t, storeRisk(ctx, riskLog, ev))
	require.NoError(t, storeRisk(ctx, riskLog, ev), "redelivery is harmless")

	rows, err := riskLog.ListBySession(ctx, "S1", 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "emergency", rows[0].Severity)
	assert.Equal(t, "emergency", rows[0].Intent)
	assert.Equal(t, "offline", rows[0].Source)
}
