package notification

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"compliancedocs/internal/model"
)

func sampleFeed() []model.Notification {
	return []model.Notification{
		{ID: "a", Urgent: true, ActionRequired: true},
		{ID: "b", ActionRequired: true},
		{ID: "c"},
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(ApplyRead(sampleFeed(), nil))

	assert.Equal(t, model.NotificationSummary{
		TotalCount:             3,
		UnreadCount:            3,
		HasUrgentNotifications: true,
		ActionRequiredCount:    2,
	}, s)
}

func TestApplyRead_SingleReadDecrementsByOne(t *testing.T) {
	before := Summarize(ApplyRead(sampleFeed(), map[string]bool{}))
	after := Summarize(ApplyRead(sampleFeed(), map[string]bool{"b": true}))

	assert.Equal(t, before.UnreadCount-1, after.UnreadCount)
	assert.Equal(t, before.TotalCount, after.TotalCount)
}

func TestApplyRead_AllReadIsZeroUnread(t *testing.T) {
	feed := sampleFeed()
	read := map[string]bool{}
	for _, id := range IDs(feed) {
		read[id] = true
	}

	s := Summarize(ApplyRead(feed, read))
	assert.Zero(t, s.UnreadCount)
	assert.Equal(t, 3, s.TotalCount)
	assert.True(t, s.HasUrgentNotifications)
}

func TestApplyRead_UnknownIDsIgnored(t *testing.T) {
	feed := ApplyRead(sampleFeed(), map[string]bool{"zzz": true})
	for _, n := range feed {
		assert.False(t, n.Read)
	}
}
