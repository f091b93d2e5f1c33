package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"compliancedocs/internal/config"
	"compliancedocs/internal/model"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestNew(t *testing.T) {
	assert.IsType(t, Noop{}, New(config.KafkaConfig{}))
	assert.IsType(t, &KafkaPublisher{}, New(config.KafkaConfig{Brokers: []string{"localhost:9092"}, Topic: "t"}))
}

func TestKafkaPublisher_Publish(t *testing.T) {
	w := &fakeWriter{}
	p := &KafkaPublisher{w: w}
	at := time.Date(2025, 1, 5, 9, 0, 0, 0, time.UTC)

	err := p.Publish(context.Background(), DocumentEvent{
		Type:               DocumentRejected,
		RecordID:           "42",
		SubjectID:          "doc-1",
		DocumentTypeKey:    "dbs-check",
		VerificationStatus: model.VerificationRejected,
		Notes:              "illegible scan",
		OccurredAt:         at,
	})

	require.NoError(t, err)
	require.Len(t, w.msgs, 1)
	msg := w.msgs[0]
	assert.Equal(t, "doc-1", string(msg.Key))
	assert.Equal(t, "document.rejected", string(msg.Headers[0].Value))

	var got DocumentEvent
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.Equal(t, "42", got.RecordID)
	assert.Equal(t, "illegible scan", got.Notes)

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestKafkaPublisher_PublishError(t *testing.T) {
	p := &KafkaPublisher{w: &fakeWriter{err: errors.New("broker down")}}

	err := p.Publish(context.Background(), DocumentEvent{Type: DocumentDeleted, SubjectID: "doc-1"})

	assert.ErrorContains(t, err, "document.deleted")
	assert.ErrorContains(t, err, "broker down")
}
