// Package webhook receives payment processor callbacks, verifies them and
// applies their effects on payments and revenue exactly once per event.
package webhook

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"cultivate/internal/config"
	"cultivate/internal/models"
	"cultivate/internal/repositories"
	"cultivate/internal/services/payment"
	"cultivate/internal/services/revenue"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	stripe "github.com/stripe/stripe-go/v72"
	stripewebhook "github.com/stripe/stripe-go/v72/webhook"
)

const (
	ProviderFlutterwave = "flutterwave"
	ProviderStripe      = "stripe"
)

// Signature headers per provider.
const (
	FlutterwaveSignatureHeader = "verif-hash"
	StripeSignatureHeader      = "Stripe-Signature"
)

type PaymentUpdater interface {
	UpdateStatusByTxRef(ctx context.Context, txRef string, status models.PaymentStatus, response map[string]interface{}) (*models.Payment, error)
}

type RevenueCompleter interface {
	MarkCompleted(ctx context.Context, id uint) (*models.Revenue, error)
}

// Request is one inbound callback.
type Request struct {
	Provider  string
	Signature string
	Body      []byte
}

// Outcome reports what a callback changed.
type Outcome struct {
	EventID          string `json:"eventId"`
	Duplicate        bool   `json:"duplicate"`
	RevenueCompleted *uint  `json:"revenueCompleted,omitempty"`
	PaymentUpdated   *uint  `json:"paymentUpdated,omitempty"`
}

type Service interface {
	Handle(ctx context.Context, req Request) (*Outcome, error)
}

type service struct {
	cfg      config.Webhooks
	events   repositories.WebhookEventRepository
	payments PaymentUpdater
	revenues RevenueCompleter
	log      *logrus.Logger
}

func NewService(
	cfg config.Webhooks,
	events repositories.WebhookEventRepository,
	payments PaymentUpdater,
	revenues RevenueCompleter,
	log *logrus.Logger,
) Service {
	return &service{cfg: cfg, events: events, payments: payments, revenues: revenues, log: log}
}

// SignatureHeader names the header carrying the provider's signature.
func SignatureHeader(provider string) string {
	if provider == ProviderStripe {
		return StripeSignatureHeader
	}
	return FlutterwaveSignatureHeader
}

// event is the provider-neutral view of a callback.
type event struct {
	id        string
	eventType string
	payload   map[string]interface{}
	revenueID string
	txRef     string
	status    string
}

func (s *service) Handle(ctx context.Context, req Request) (*Outcome, error) {
	var (
		evt *event
		err error
	)
	switch req.Provider {
	case ProviderFlutterwave:
		evt, err = s.parseFlutterwave(req)
	case ProviderStripe:
		evt, err = s.parseStripe(req)
	default:
		return nil, ErrUnknownProvider
	}
	if err != nil {
		return nil, err
	}

	log := s.log.WithFields(logrus.Fields{
		"provider": req.Provider,
		"event_id": evt.id,
		"type":     evt.eventType,
	})

	out := &Outcome{EventID: evt.id}
	seen, err := s.events.Exists(ctx, evt.id)
	if err != nil {
		return nil, fmt.Errorf("failed to check webhook event: %w", err)
	}
	if seen {
		log.Info("duplicate webhook ignored")
		out.Duplicate = true
		return out, nil
	}

	if evt.revenueID != "" {
		id, err := strconv.ParseUint(evt.revenueID, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: revenueId %q", ErrInvalidPayload, evt.revenueID)
		}
		rev, err := s.revenues.MarkCompleted(ctx, uint(id))
		switch {
		case errors.Is(err, revenue.ErrRevenueNotFound):
			log.WithField("revenue_id", id).Warn("webhook references unknown revenue")
		case err != nil:
			return nil, fmt.Errorf("failed to complete revenue: %w", err)
		default:
			out.RevenueCompleted = &rev.ID
			log.WithField("revenue_id", rev.ID).Info("revenue marked completed")
		}
	}

	if status, ok := paymentStatus(evt.status); ok && evt.txRef != "" {
		p, err := s.payments.UpdateStatusByTxRef(ctx, evt.txRef, status, evt.payload)
		switch {
		case errors.Is(err, payment.ErrPaymentNotFound):
			log.WithField("tx_ref", evt.txRef).Warn("webhook references unknown payment")
		case errors.Is(err, payment.ErrInvalidTransition):
			log.WithField("tx_ref", evt.txRef).Warn("webhook status ignored for settled payment")
		case err != nil:
			return nil, fmt.Errorf("failed to update payment: %w", err)
		default:
			out.PaymentUpdated = &p.ID
		}
	}

	if err := s.events.MarkProcessed(ctx, &models.WebhookEvent{
		Provider:  req.Provider,
		EventID:   evt.id,
		EventType: evt.eventType,
		Payload:   evt.payload,
	}); err != nil {
		return nil, fmt.Errorf("failed to store webhook event: %w", err)
	}

	log.Info("webhook processed")
	return out, nil
}

func (s *service) parseFlutterwave(req Request) (*event, error) {
	secret := s.cfg.FlutterwaveSecretHash
	if secret == "" {
		s.log.Warn("flutterwave secret hash not configured, accepting unsigned webhook")
	} else if subtle.ConstantTimeCompare([]byte(req.Signature), []byte(secret)) != 1 {
		return nil, ErrInvalidSignature
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(req.Body, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	data, _ := payload["data"].(map[string]interface{})
	evt := &event{
		eventType: stringField(payload, "event"),
		payload:   payload,
		revenueID: firstNonEmpty(stringField(payload, "revenueId"), stringField(data, "revenueId")),
		txRef: firstNonEmpty(
			stringField(payload, "txRef"), stringField(payload, "tx_ref"),
			stringField(data, "txRef"), stringField(data, "tx_ref"),
		),
		status: firstNonEmpty(stringField(data, "status"), stringField(payload, "status")),
	}

	id := firstNonEmpty(stringField(payload, "id"), stringField(data, "id"), evt.txRef)
	if id == "" {
		id = uuid.NewString()
	}
	evt.id = ProviderFlutterwave + ":" + id
	if evt.eventType != "" {
		evt.id += ":" + evt.eventType
	}
	if evt.status != "" {
		evt.id += ":" + strings.ToLower(evt.status)
	}
	return evt, nil
}

func (s *service) parseStripe(req Request) (*event, error) {
	var (
		se  stripe.Event
		err error
	)
	if s.cfg.StripeSigningSecret == "" {
		s.log.Warn("stripe signing secret not configured, accepting unsigned webhook")
		err = json.Unmarshal(req.Body, &se)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
	} else {
		se, err = stripewebhook.ConstructEvent(req.Body, req.Signature, s.cfg.StripeSigningSecret)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
		}
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(req.Body, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	var object, metadata map[string]interface{}
	if se.Data != nil {
		object = se.Data.Object
	}
	metadata, _ = object["metadata"].(map[string]interface{})

	id := se.ID
	if id == "" {
		id = uuid.NewString()
	}

	return &event{
		id:        ProviderStripe + ":" + id,
		eventType: se.Type,
		payload:   payload,
		revenueID: stringField(metadata, "revenueId"),
		txRef:     firstNonEmpty(stringField(metadata, "txRef"), stringField(metadata, "tx_ref")),
		status:    stripeStatus(se.Type),
	}, nil
}

func stripeStatus(eventType string) string {
	switch eventType {
	case "payment_intent.succeeded", "charge.succeeded", "checkout.session.completed":
		return "successful"
	case "payment_intent.payment_failed", "charge.failed":
		return "failed"
	}
	return ""
}

// paymentStatus maps processor wording onto payment statuses. Statuses that
// are not final leave the payment untouched.
func paymentStatus(s string) (models.PaymentStatus, bool) {
	switch strings.ToLower(s) {
	case "successful", "success", "succeeded", "completed":
		return models.PaymentStatusSuccess, true
	case "failed", "cancelled", "canceled":
		return models.PaymentStatusFailed, true
	}
	return "", false
}

func stringField(m map[string]interface{}, key string) string {
	if m == nil {
		return ""
	}
	switch v := m[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
