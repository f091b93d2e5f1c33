package notification

import "compliancedocs/internal/model"

// ApplyRead overlays a viewer's read set onto a freshly built feed.
func ApplyRead(feed []model.Notification, read map[string]bool) []model.Notification {
	for i := range feed {
		feed[i].Read = read[feed[i].ID]
	}
	return feed
}

// Summarize computes the badge counts for a feed.
func Summarize(feed []model.Notification) model.NotificationSummary {
	s := model.NotificationSummary{TotalCount: len(feed)}
	for _, n := range feed {
		if !n.Read {
			s.UnreadCount++
		}
		if n.Urgent {
			s.HasUrgentNotifications = true
		}
		if n.ActionRequired {
			s.ActionRequiredCount++
		}
	}
	return s
}

// IDs returns the ids of every notification in feed, in order.
func IDs(feed []model.Notification) []string {
	ids := make([]string, len(feed))
	for i, n := range feed {
		ids[i] = n.ID
	}
	return ids
}
