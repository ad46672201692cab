package chat

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suPer8Hu/health-triage/internal/risk"
)

func newLoadedStore(t *testing.T, slot Slot, opts ...StoreOption) *SessionStore {
	t.Helper()
	s := NewSessionStore(slot, opts...)
	s.Load(context.Background())
	return s
}

func TestLoad_EmptySlotStartsFresh(t *testing.T) {
	slot := NewMemorySlot(nil)
	s := newLoadedStore(t, slot)

	sessions := s.List()
	require.Len(t, sessions, 1)
	assert.Equal(t, DefaultTitle, sessions[0].Title)
	require.Len(t, sessions[0].Messages, 1)
	assert.Equal(t, RoleAssistant, sessions[0].Messages[0].Role)
	assert.True(t, sessions[0].Messages[0].Synthetic)
	assert.Equal(t, 1, slot.Writes(), "fresh session is persisted")
}

func TestLoad_CorruptDataStartsFresh(t *testing.T) {
	for _, raw := range []string{"{not json", "[]", `{"id":"x"}`, `[{"title":"no id"}]`} {
		t.Run(raw, func(t *testing.T) {
			s := newLoadedStore(t, NewMemorySlot([]byte(raw)))
			sessions := s.List()
			require.Len(t, sessions, 1)
			require.Len(t, sessions[0].Messages, 1)
			assert.True(t, sessions[0].Messages[0].Synthetic)
		})
	}
}

func TestPersistRoundTrip(t *testing.T) {
	ctx := context.Background()
	slot := NewMemorySlot(nil)
	s := newLoadedStore(t, slot, WithGreetingName("Asha"))

	second := s.Create(ctx, "")
	score := 6
	require.True(t, s.Append(ctx, second.ID, Message{ID: NewMessageID(), Role: RoleUser, Content: "fever since monday", CreatedAt: now()}))
	require.True(t, s.Append(ctx, second.ID, Message{
		ID: NewMessageID(), Role: RoleAssistant, Content: "**Risk Assessment: 6/10**", CreatedAt: now(),
		Severity: risk.Medium, RiskScore: &score, DeliveredByVoice: true,
	}))
	require.True(t, s.SetLastRisk(ctx, second.ID, risk.Assessment{Score: 6, Severity: risk.Medium}))
	require.True(t, s.RenameIfDefault(ctx, second.ID, "fever since monday"))

	reloaded := newLoadedStore(t, slot)
	assert.Equal(t, s.List(), reloaded.List())

	got, ok := reloaded.Get(second.ID)
	require.True(t, ok)
	assert.Contains(t, got.Messages[0].Content, "Asha")
}

func TestMutationsWriteThrough(t *testing.T) {
	ctx := context.Background()
	slot := NewMemorySlot(nil)
	s := newLoadedStore(t, slot)
	base := slot.Writes()

	sess := s.Create(ctx, "")
	s.Append(ctx, sess.ID, Message{ID: "m1", Role: RoleUser, Content: "hi"})
	s.SetLastRisk(ctx, sess.ID, risk.Assessment{Score: 3, Severity: risk.Low})
	s.RenameIfDefault(ctx, sess.ID, "hi")
	require.NoError(t, s.SetFeedback(ctx, sess.ID, "m1", FeedbackLike))
	s.Delete(ctx, sess.ID)
	assert.Equal(t, base+6, slot.Writes())

	var stored []Session
	data, err := slot.Read(ctx)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &stored))
	assert.Len(t, stored, 1)
}

func TestCreateIsNewestFirst(t *testing.T) {
	s := newLoadedStore(t, NewMemorySlot(nil))
	created := s.Create(context.Background(), "Ravi")
	list := s.List()
	require.Len(t, list, 2)
	assert.Equal(t, created.ID, list[0].ID)
	assert.NotEqual(t, list[0].ID, list[1].ID)
	assert.Contains(t, created.Messages[0].Content, "Hello, Ravi!")
}

func TestAppend_UnknownSessionIsNoop(t *testing.T) {
	slot := NewMemorySlot(nil)
	s := newLoadedStore(t, slot)
	writes := slot.Writes()

	assert.False(t, s.Append(context.Background(), "missing", Message{ID: "x"}))
	assert.Equal(t, writes, slot.Writes())
	assert.Len(t, s.List()[0].Messages, 1)
}

func TestDelete_KeepsAtLeastOneSession(t *testing.T) {
	ctx := context.Background()
	s := newLoadedStore(t, NewMemorySlot(nil))
	only := s.List()[0]

	assert.False(t, s.Delete(ctx, only.ID))
	assert.Equal(t, 1, s.Count())

	a := s.Create(ctx, "")
	b := s.Create(ctx, "")
	for _, id := range []string{a.ID, only.ID, b.ID, "missing"} {
		s.Delete(ctx, id)
		assert.GreaterOrEqual(t, s.Count(), 1)
	}
	assert.Equal(t, 1, s.Count())
	assert.Equal(t, b.ID, s.List()[0].ID)
}

func TestRenameIfDefault_OneShot(t *testing.T) {
	ctx := context.Background()
	s := newLoadedStore(t, NewMemorySlot(nil))
	id := s.List()[0].ID

	assert.True(t, s.RenameIfDefault(ctx, id, "my back hurts"))
	assert.False(t, s.RenameIfDefault(ctx, id, "something else"))

	got, _ := s.Get(id)
	assert.Equal(t, "my back hurts", got.Title)
}

func TestRenameIfDefault_Truncates(t *testing.T) {
	ctx := context.Background()
	s := newLoadedStore(t, NewMemorySlot(nil))
	id := s.List()[0].ID

	long := "I have had a throbbing headache for three days now"
	s.RenameIfDefault(ctx, id, long)
	got, _ := s.Get(id)
	assert.Equal(t, "I have had a throbbing headache for...", got.Title)
	assert.True(t, strings.HasSuffix(got.Title, "..."))
}

func TestSetFeedback(t *testing.T) {
	ctx := context.Background()
	s := newLoadedStore(t, NewMemorySlot(nil))
	sess := s.List()[0]
	welcome := sess.Messages[0].ID

	require.NoError(t, s.SetFeedback(ctx, sess.ID, welcome, FeedbackDislike))
	got, _ := s.Get(sess.ID)
	assert.Equal(t, FeedbackDislike, got.Messages[0].Feedback)

	assert.ErrorIs(t, s.SetFeedback(ctx, "missing", welcome, FeedbackLike), ErrSessionNotFound)
	assert.ErrorIs(t, s.SetFeedback(ctx, sess.ID, "missing", FeedbackLike), ErrMessageNotFound)
	assert.ErrorIs(t, s.SetFeedback(ctx, sess.ID, welcome, Feedback("love")), ErrInvalidFeedback)
}

func TestListReturnsCopies(t *testing.T) {
	s := newLoadedStore(t, NewMemorySlot(nil))
	list := s.List()
	list[0].Messages[0].Content = "changed"
	list[0].Title = "changed"

	again := s.List()
	assert.NotEqual(t, "changed", again[0].Title)
	assert.NotEqual(t, "changed", again[0].Messages[0].Content)
}
