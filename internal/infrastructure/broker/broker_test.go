package broker

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	domain "bondregistry/internal/domain/entity/bonds"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type published struct {
	exchange string
	key      string
	msg      amqp.Publishing
}

type fakeChannel struct {
	declared   []string
	kinds      []string
	published  []published
	declareErr error
	publishErr error
	closed     bool
}

func (f *fakeChannel) ExchangeDeclare(name, kind string, _, _, _, _ bool, _ amqp.Table) error {
	f.declared = append(f.declared, name)
	f.kinds = append(f.kinds, kind)
	return f.declareErr
}

func (f *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.published = append(f.published, published{exchange: exchange, key: key, msg: msg})
	return nil
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestPublisherDeclaresTopicExchange(t *testing.T) {
	ch := &fakeChannel{}
	_, err := newPublisher(ch, "bonds", quietLogger())
	require.NoError(t, err)

	assert.Equal(t, []string{"bonds"}, ch.declared)
	assert.Equal(t, []string{"topic"}, ch.kinds)
}

func TestPublisherRejectsBadSetup(t *testing.T) {
	t.Run("empty exchange", func(t *testing.T) {
		ch := &fakeChannel{}
		_, err := newPublisher(ch, "", quietLogger())
		assert.Error(t, err)
		assert.True(t, ch.closed)
	})

	t.Run("declare failure", func(t *testing.T) {
		ch := &fakeChannel{declareErr: errors.New("access refused")}
		_, err := newPublisher(ch, "bonds", quietLogger())
		assert.ErrorContains(t, err, "declare exchange bonds")
		assert.True(t, ch.closed)
	})
}

func TestPublishBondEvent(t *testing.T) {
	ch := &fakeChannel{}
	pub, err := newPublisher(ch, "bonds", quietLogger())
	require.NoError(t, err)

	owner := uuid.New()
	event := domain.Event{
		Type:       domain.EventCreated,
		OccurredAt: time.Date(2024, time.January, 2, 3, 4, 5, 0, time.UTC),
		Bond: domain.Bond{
			ID:        7,
			Owner:     owner,
			ISIN:      "FR0000131104",
			Size:      100000000,
			Currency:  "EUR",
			Maturity:  time.Date(2025, time.March, 27, 0, 0, 0, 0, time.UTC),
			LEI:       "R0MUWSFPU8MPRO8K5P83",
			LegalName: "BNP PARIBAS",
		},
	}
	require.NoError(t, pub.PublishBondEvent(context.Background(), event))

	require.Len(t, ch.published, 1)
	got := ch.published[0]
	assert.Equal(t, "bonds", got.exchange)
	assert.Equal(t, "bond.created", got.key)
	assert.Equal(t, "application/json", got.msg.ContentType)
	assert.Equal(t, amqp.Persistent, got.msg.DeliveryMode)

	var body BondMessage
	require.NoError(t, json.Unmarshal(got.msg.Body, &body))
	assert.Equal(t, "bond.created", body.Event)
	assert.Equal(t, int64(7), body.Bond.ID)
	assert.Equal(t, owner.String(), body.Bond.Owner)
	assert.Equal(t, "2025-03-27", body.Bond.Maturity)
	assert.Equal(t, "BNP PARIBAS", body.Bond.LegalName)
}

func TestPublishBondEventPropagatesChannelError(t *testing.T) {
	ch := &fakeChannel{publishErr: amqp.ErrClosed}
	pub, err := newPublisher(ch, "bonds", quietLogger())
	require.NoError(t, err)

	err = pub.PublishBondEvent(context.Background(), domain.Event{Type: domain.EventUpdated})
	assert.ErrorIs(t, err, amqp.ErrClosed)
}
