package model

import "time"

type NotificationType string

const (
	NotificationSuccess NotificationType = "success"
	NotificationWarning NotificationType = "warning"
	NotificationError   NotificationType = "error"
	NotificationInfo    NotificationType = "info"
)

type NotificationCategory string

const (
	CategoryUpload         NotificationCategory = "upload"
	CategoryReview         NotificationCategory = "review"
	CategoryExpired        NotificationCategory = "expired"
	CategoryExpiring       NotificationCategory = "expiring"
	CategoryRejected       NotificationCategory = "rejected"
	CategoryComplianceNote NotificationCategory = "compliance"
)

// Notification is derived from current records and catalog state and never persisted;
// only its read flag is stored, keyed by viewer and ID.
type Notification struct {
	ID              string               `json:"id"`
	SubjectID       string               `json:"subject_id,omitempty"`
	DocumentTypeKey string               `json:"document_type_key,omitempty"`
	Type            NotificationType     `json:"type"`
	Category        NotificationCategory `json:"category"`
	Title           string               `json:"title"`
	Message         string               `json:"message"`
	ActionRequired  bool                 `json:"action_required"`
	ActionURL       string               `json:"action_url,omitempty"`
	ActionText      string               `json:"action_text,omitempty"`
	Urgent          bool                 `json:"urgent"`
	Read            bool                 `json:"read"`
	Timestamp       time.Time            `json:"timestamp"`
}

// NotificationSummary backs the unread badge.
type NotificationSummary struct {
	TotalCount             int  `json:"total_count"`
	UnreadCount            int  `json:"unread_count"`
	HasUrgentNotifications bool `json:"has_urgent_notifications"`
	ActionRequiredCount    int  `json:"action_required_count"`
}

// NotificationFeed is an ordered feed with its summary.
type NotificationFeed struct {
	Notifications []Notification      `json:"notifications"`
	Summary       NotificationSummary `json:"summary"`
	Stale         bool                `json:"stale"`
}
