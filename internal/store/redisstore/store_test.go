package redisstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testStore connects to the local redis DB 15 and skips when it is not
// reachable.
func testStore(t *testing.T) *Store {
	t.Helper()
	s := New(Config{Addr: "localhost:6379", DB: 15})
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.Ping(ctx); err != nil {
		_ = s.Close()
		t.Skipf("redis not available: %v", err)
	}
	t.Cleanup(func() {
		_ = s.client.FlushDB(context.Background()).Err()
		_ = s.Close()
	})
	return s
}

func TestSlot_ReadMissing(t *testing.T) {
	s := testStore(t)
	data, err := s.Slot("test:missing").Read(context.Background())
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestSlot_WriteRead(t *testing.T) {
	ctx := context.Background()
	slot := testStore(t).Slot("test:sessions")

	require.NoError(t, slot.Write(ctx, []byte(`[{"id":"a"}]`)))
	require.NoError(t, slot.Write(ctx, []byte(`[{"id":"b"}]`)))

	data, err := slot.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"b"}]`, string(data))
}
