package sqlstore

import (
	"context"
	"fmt"
	"testing"
	"time"

	gormsqlite "github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "open sqlite")
	require.NoError(t, db.AutoMigrate(Models()...), "automigrate")
	return db
}

func TestSlot_ReadMissingIsEmpty(t *testing.T) {
	slot := NewSlot(openTestDB(t), "sessions")
	data, err := slot.Read(context.Background())
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestSlot_WriteOverwrites(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	slot := NewSlot(db, "sessions")

	require.NoError(t, slot.Write(ctx, []byte(`[{"id":"a"}]`)))
	require.NoError(t, slot.Write(ctx, []byte(`[{"id":"b"}]`)))

	data, err := slot.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"b"}]`, string(data))

	var n int64
	require.NoError(t, db.Model(&KVSlot{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestSlot_KeysAreIndependent(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	a, b := NewSlot(db, "a"), NewSlot(db, "b")

	require.NoError(t, a.Write(ctx, []byte("one")))
	data, err := b.Read(ctx)
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestRiskLog_InsertAndList(t *testing.T) {
	ctx := context.Background()
	log := NewRiskLog(openTestDB(t))
	at := time.Now().UTC()

	for i, score := range []int{3, 8} {
		require.NoError(t, log.Insert(ctx, &RiskEvent{
			SessionID: "S1",
			MessageID: fmt.Sprintf("M%d", i),
			Score:     score,
			Severity:  "low",
			Source:    "offline",
			Intent:    "symptom_report",
			At:        at,
		}))
	}
	require.NoError(t, log.Insert(ctx, &RiskEvent{SessionID: "S2", MessageID: "M9", Score: 1, Severity: "low", Source: "live", At: at}))

	got, err := log.ListBySession(ctx, "S1", 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "M1", got[0].MessageID)
	assert.Equal(t, 8, got[0].Score)
}

func TestRiskLog_RedeliveryIgnored(t *testing.T) {
	ctx := context.Background()
	log := NewRiskLog(openTestDB(t))
	ev := RiskEvent{SessionID: "S1", MessageID: "M1", Score: 4, Severity: "medium", Source: "live", At: time.Now()}

	first := ev
	require.NoError(t, log.Insert(ctx, &first))
	again := ev
	require.NoError(t, log.Insert(ctx, &again))

	got, err := log.ListBySession(ctx, "S1", 10)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
