// Package events publishes document lifecycle events for downstream consumers
// (notification delivery, audit). Publishing is best effort: callers log failures
// and never roll back a committed change because an event could not be sent.
package events

import (
	"context"
	"time"

	"compliancedocs/internal/config"
	"compliancedocs/internal/model"
)

// Type names a document lifecycle event.
type Type string

const (
	DocumentUploaded Type = "document.uploaded"
	DocumentVerified Type = "document.verified"
	DocumentRejected Type = "document.rejected"
	DocumentDeleted  Type = "document.deleted"
)

// DocumentEvent is the payload written to the document events topic.
type DocumentEvent struct {
	Type               Type                     `json:"type"`
	RecordID           string                   `json:"record_id"`
	PreviousRecordID   string                   `json:"previous_record_id,omitempty"`
	SubjectID          string                   `json:"subject_id"`
	DocumentTypeKey    string                   `json:"document_type_key"`
	VerificationStatus model.VerificationStatus `json:"verification_status,omitempty"`
	Notes              string                   `json:"notes,omitempty"`
	Actor              string                   `json:"actor,omitempty"`
	OccurredAt         time.Time                `json:"occurred_at"`
}

// Publisher sends document events.
type Publisher interface {
	Publish(ctx context.Context, ev DocumentEvent) error
	Close() error
}

// New returns a Kafka publisher, or a no-op publisher when no brokers are configured.
func New(cfg config.KafkaConfig) Publisher {
	if len(cfg.Brokers) == 0 {
		return Noop{}
	}
	return NewKafkaPublisher(cfg)
}

// Noop drops every event.
type Noop struct{}

func (Noop) Publish(context.Context, DocumentEvent) error { return nil }
func (Noop) Close() error                                 { return nil }
