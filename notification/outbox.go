package notification

import (
	"ayursutra/models"
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
)

// Sender delivers a single notification.
type Sender interface {
	Send(ctx context.Context, n *models.Notification) error
}

// OutboxStore is the persistence the outbox needs.
type OutboxStore interface {
	PendingNotifications(ctx context.Context, before, staleBefore time.Time, limit int) ([]models.Notification, error)
	ClaimNotification(ctx context.Context, id string, staleBefore time.Time) (bool, error)
	SaveDeliveryAttempt(ctx context.Context, n *models.Notification) error
}

// ErrClaimed is returned by Deliver when another sender holds the row.
var ErrClaimed = errors.New("notification is being delivered elsewhere")

const (
	flushBatch = 50
	// rows younger than this are still being delivered inline by the booking request
	flushGrace = 30 * time.Second
	// a sending row untouched this long belongs to a sender that died
	sendingStale = 10 * time.Minute
)

// Outbox delivers stored notifications and records each attempt.
type Outbox struct {
	store       OutboxStore
	sender      Sender
	maxAttempts int
	log         zerolog.Logger
	now         func() time.Time
}

// NewOutbox returns an Outbox that gives up on a notification after maxAttempts.
func NewOutbox(store OutboxStore, sender Sender, maxAttempts int, log zerolog.Logger) *Outbox {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Outbox{
		store:       store,
		sender:      sender,
		maxAttempts: maxAttempts,
		log:         log.With().Str("component", "outbox").Logger(),
		now:         time.Now,
	}
}

// Deliver claims n, sends it and persists the outcome. The send error, if
// any, is returned after the attempt has been recorded. ErrClaimed means
// another sender owns the row and nothing was sent.
func (o *Outbox) Deliver(ctx context.Context, n *models.Notification) error {
	claimed, err := o.store.ClaimNotification(ctx, n.ID, o.now().Add(-sendingStale))
	if err != nil {
		return err
	}
	if !claimed {
		return ErrClaimed
	}
	n.Status = models.NotificationSending

	sendErr := o.sender.Send(ctx, n)

	n.Attempts++
	if sendErr == nil {
		at := o.now()
		n.Status = models.NotificationSent
		n.SentAt = &at
		n.LastError = ""
	} else {
		n.LastError = sendErr.Error()
		if n.Attempts >= o.maxAttempts {
			n.Status = models.NotificationFailed
		} else {
			n.Status = models.NotificationPending
		}
	}

	if err := o.store.SaveDeliveryAttempt(ctx, n); err != nil {
		o.log.Error().Err(err).Str("notification", n.ID).Msg("failed to record delivery attempt")
		if sendErr == nil {
			return err
		}
	}

	if sendErr != nil {
		o.log.Warn().Err(sendErr).
			Str("notification", n.ID).
			Str("recipient", n.Recipient).
			Int("attempts", n.Attempts).
			Str("status", n.Status).
			Msg("notification delivery failed")
		return sendErr
	}
	o.log.Info().Str("notification", n.ID).Str("recipient", n.Recipient).Msg("notification sent")
	return nil
}

// Flush delivers one batch of pending notifications and returns how many
// were sent.
func (o *Outbox) Flush(ctx context.Context) (int, error) {
	now := o.now()
	pending, err := o.store.PendingNotifications(ctx, now.Add(-flushGrace), now.Add(-sendingStale), flushBatch)
	if err != nil {
		return 0, err
	}

	sent := 0
	for i := range pending {
		if ctx.Err() != nil {
			return sent, ctx.Err()
		}
		if err := o.Deliver(ctx, &pending[i]); err == nil {
			sent++
		}
	}
	return sent, nil
}
