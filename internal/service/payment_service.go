package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"strconv"

	"trixtech/internal/domain"
	"trixtech/internal/models"
	"trixtech/pkg/stripe"

	"gorm.io/gorm"
)

type PaymentStore interface {
	Create(p *models.Payment) error
	GetByID(id uint) (*models.Payment, error)
	GetByIntentID(intentID string) (*models.Payment, error)
	UpdateStatus(id uint, status string) error
	MarkAllPendingProcessing() (int64, error)
}

// Gateway is the narrow payment-gateway capability the lifecycle manager
// needs. pkg/stripe.Client implements it; tests substitute a fake.
type Gateway interface {
	CreatePaymentIntent(ctx context.Context, amountCents int64, currency string, metadata map[string]string) (*stripe.PaymentIntent, error)
	GetPaymentIntent(ctx context.Context, id string) (*stripe.PaymentIntent, error)
	CreateRefund(ctx context.Context, paymentIntentID, reason string) (*stripe.Refund, error)
}

// PaymentService drives booking finalization and rollback from payment
// events: synchronous confirmation, admin refunds, webhook reconciliation,
// and the batch sweep. Gateway calls always happen before local writes, so a
// gateway failure leaves local state untouched.
type PaymentService struct {
	payments PaymentStore
	bookings BookingStore
	slots    SlotStore
	audit    AuditStore
	gateway  Gateway
	currency string
}

func NewPaymentService(payments PaymentStore, bookings BookingStore, slots SlotStore, audit AuditStore, gateway Gateway, currency string) *PaymentService {
	return &PaymentService{
		payments: payments,
		bookings: bookings,
		slots:    slots,
		audit:    audit,
		gateway:  gateway,
		currency: currency,
	}
}

// CreateIntent asks the gateway for an intent sized to the booking's price
// snapshot. Prices are decimal currency units everywhere in the app; the
// conversion to minor units happens only here, at the gateway boundary.
func (s *PaymentService) CreateIntent(ctx context.Context, bookingID, callerID uint) (*stripe.PaymentIntent, error) {
	b, err := s.bookings.GetByID(bookingID)
	if err != nil {
		return nil, notFound(err)
	}
	if b.UserID != callerID {
		return nil, ErrNotFound
	}
	intent, err := s.gateway.CreatePaymentIntent(ctx, toMinorUnits(b.TotalPrice), s.currency, map[string]string{
		"bookingId": strconv.FormatUint(uint64(b.ID), 10),
		"userId":    strconv.FormatUint(uint64(b.UserID), 10),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGateway, err)
	}
	return intent, nil
}

// Confirm finalizes the booking once the gateway reports the intent
// succeeded. The slot is not touched: it was already reserved at creation.
// Safe to race with the succeeded webhook; both write the same values and
// the payment record is keyed by the intent ID.
func (s *PaymentService) Confirm(ctx context.Context, bookingID uint, intentID string, callerID uint) (*models.Booking, error) {
	b, err := s.bookings.GetByID(bookingID)
	if err != nil {
		return nil, notFound(err)
	}
	if b.UserID != callerID {
		return nil, ErrNotFound
	}
	intent, err := s.gateway.GetPaymentIntent(ctx, intentID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGateway, err)
	}
	if intent.Status != stripe.StatusSucceeded {
		return nil, ErrPaymentNotSucceeded
	}
	if err := s.bookings.ConfirmPayment(b.ID, intentID); err != nil {
		return nil, err
	}
	if err := s.recordSucceededPayment(b, intent); err != nil {
		return nil, err
	}
	return s.bookings.GetByID(b.ID)
}

// recordSucceededPayment appends the Payment row exactly once per intent.
func (s *PaymentService) recordSucceededPayment(b *models.Booking, intent *stripe.PaymentIntent) error {
	_, err := s.payments.GetByIntentID(intent.ID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) && !errors.Is(err, ErrNotFound) {
		return err
	}
	return s.payments.Create(&models.Payment{
		BookingID:             b.ID,
		UserID:                b.UserID,
		Amount:                float64(intent.Amount) / 100,
		Currency:              intent.Currency,
		StripePaymentIntentID: intent.ID,
		Status:                domain.PaymentSucceeded,
		PaymentMethod:         "stripe",
	})
}

// Refund reverses a payment. The gateway call comes first; only after it
// succeeds are the payment, booking, and slot updated. If a local update
// then fails the gateway has refunded but the store has not caught up, and
// the retried call (or the charge.refunded webhook) reconciles the rest —
// every local step here is idempotent.
func (s *PaymentService) Refund(ctx context.Context, paymentID uint, reason string, adminID uint) (*stripe.Refund, error) {
	p, err := s.payments.GetByID(paymentID)
	if err != nil {
		return nil, notFound(err)
	}
	refund, err := s.gateway.CreateRefund(ctx, p.StripePaymentIntentID, reason)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGateway, err)
	}
	if err := s.payments.UpdateStatus(p.ID, domain.PaymentRefunded); err != nil {
		return nil, err
	}
	b, err := s.bookings.GetByID(p.BookingID)
	if err == nil {
		if err := s.slots.Release(b.TimeSlotID); err != nil {
			return nil, err
		}
		if err := s.bookings.MarkRefunded(b.ID); err != nil {
			return nil, err
		}
	} else if !IsNotFound(err) {
		return nil, err
	}
	if err := s.audit.Create(&models.AdminLog{
		AdminID:     adminID,
		Action:      domain.ActionRefundPayment,
		Description: fmt.Sprintf("Refunded payment %d (%s)", p.ID, reason),
		TargetID:    fmt.Sprintf("%d", p.ID),
	}); err != nil {
		return nil, err
	}
	return refund, nil
}

type intentPayload struct {
	ID       string `json:"id"`
	Metadata struct {
		BookingID string `json:"bookingId"`
	} `json:"metadata"`
}

type chargePayload struct {
	PaymentIntent string `json:"payment_intent"`
}

// HandleEvent applies a verified webhook event. Unknown booking references
// are acknowledged without error so the gateway stops redelivering; every
// applied transition is idempotent against replay.
func (s *PaymentService) HandleEvent(event *stripe.Event) error {
	switch event.Type {
	case domain.EventPaymentSucceeded:
		var pi intentPayload
		if err := json.Unmarshal(event.Data.Object, &pi); err != nil {
			return err
		}
		bookingID := parseID(pi.Metadata.BookingID)
		if bookingID == 0 {
			return nil
		}
		return s.bookings.ConfirmPayment(bookingID, pi.ID)

	case domain.EventPaymentFailed:
		var pi intentPayload
		if err := json.Unmarshal(event.Data.Object, &pi); err != nil {
			return err
		}
		bookingID := parseID(pi.Metadata.BookingID)
		if bookingID == 0 {
			return nil
		}
		// The booking stays pending and keeps its slot; the user may still
		// retry paying.
		return s.bookings.MarkPaymentFailed(bookingID)

	case domain.EventChargeRefunded:
		var ch chargePayload
		if err := json.Unmarshal(event.Data.Object, &ch); err != nil {
			return err
		}
		b, err := s.bookings.GetByStripePaymentID(ch.PaymentIntent)
		if err != nil {
			if IsNotFound(err) {
				return nil
			}
			return err
		}
		if err := s.slots.Release(b.TimeSlotID); err != nil {
			return err
		}
		return s.bookings.MarkRefunded(b.ID)

	default:
		log.Printf("[WEBHOOK] ignoring event type %s", event.Type)
		return nil
	}
}

// Reconcile sweeps pending payments to the processing marker. A maintenance
// hook, not a full reconciliation engine: bookings and slots are untouched.
func (s *PaymentService) Reconcile(adminID uint) (int64, error) {
	n, err := s.payments.MarkAllPendingProcessing()
	if err != nil {
		return 0, err
	}
	if err := s.audit.Create(&models.AdminLog{
		AdminID:     adminID,
		Action:      domain.ActionPaymentReconciliation,
		Description: fmt.Sprintf("Reconciled %d pending payments", n),
	}); err != nil {
		return 0, err
	}
	return n, nil
}

func toMinorUnits(price float64) int64 {
	return int64(math.Round(price * 100))
}

func parseID(s string) uint {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0
	}
	return uint(n)
}
