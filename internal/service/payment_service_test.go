package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"trixtech/internal/domain"
	"trixtech/internal/models"
	"trixtech/pkg/stripe"

	"gorm.io/gorm"
)

type fakePayments struct{ f *fakeStore }

func (p fakePayments) Create(pm *models.Payment) error {
	p.f.mu.Lock()
	defer p.f.mu.Unlock()
	p.f.nextPaymentID++
	pm.ID = p.f.nextPaymentID
	cp := *pm
	p.f.payments[pm.ID] = &cp
	return nil
}

func (p fakePayments) GetByID(id uint) (*models.Payment, error) {
	p.f.mu.Lock()
	defer p.f.mu.Unlock()
	pm, ok := p.f.payments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *pm
	return &cp, nil
}

func (p fakePayments) GetByIntentID(intentID string) (*models.Payment, error) {
	p.f.mu.Lock()
	defer p.f.mu.Unlock()
	for _, pm := range p.f.payments {
		if pm.StripePaymentIntentID == intentID {
			cp := *pm
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (p fakePayments) UpdateStatus(id uint, status string) error {
	p.f.mu.Lock()
	defer p.f.mu.Unlock()
	if pm, ok := p.f.payments[id]; ok {
		pm.Status = status
	}
	return nil
}

func (p fakePayments) MarkAllPendingProcessing() (int64, error) {
	p.f.mu.Lock()
	defer p.f.mu.Unlock()
	var n int64
	for _, pm := range p.f.payments {
		if pm.Status == domain.PaymentPending {
			pm.Status = domain.PaymentProcessing
			n++
		}
	}
	return n, nil
}

type fakeGateway struct {
	intentStatus  string
	amount        int64
	getErr        error
	refundErr     error
	createdAmount int64
	createdMeta   map[string]string
	refunded      []string
}

func (g *fakeGateway) CreatePaymentIntent(ctx context.Context, amountCents int64, currency string, metadata map[string]string) (*stripe.PaymentIntent, error) {
	g.createdAmount = amountCents
	g.createdMeta = metadata
	return &stripe.PaymentIntent{
		ID:           "pi_test_1",
		ClientSecret: "pi_test_1_secret",
		Status:       "requires_payment_method",
		Amount:       amountCents,
		Currency:     currency,
		Metadata:     metadata,
	}, nil
}

func (g *fakeGateway) GetPaymentIntent(ctx context.Context, id string) (*stripe.PaymentIntent, error) {
	if g.getErr != nil {
		return nil, g.getErr
	}
	return &stripe.PaymentIntent{ID: id, Status: g.intentStatus, Amount: g.amount, Currency: "usd"}, nil
}

func (g *fakeGateway) CreateRefund(ctx context.Context, paymentIntentID, reason string) (*stripe.Refund, error) {
	if g.refundErr != nil {
		return nil, g.refundErr
	}
	g.refunded = append(g.refunded, paymentIntentID)
	return &stripe.Refund{ID: "re_test_1", Status: "succeeded", PaymentIntent: paymentIntentID}, nil
}

func newPaymentService(f *fakeStore, g *fakeGateway) *PaymentService {
	return NewPaymentService(fakePayments{f}, fakeBookings{f}, fakeSlots{f}, fakeAudit{f}, g, "usd")
}

func seedPendingBooking(t *testing.T, f *fakeStore) *models.Booking {
	t.Helper()
	seedCatalog(f)
	b, err := newBookingService(f).Create(7, 1, 1, "")
	if err != nil {
		t.Fatalf("seed booking: %v", err)
	}
	return b
}

func TestCreateIntentConvertsToMinorUnits(t *testing.T) {
	f := newFakeStore()
	b := seedPendingBooking(t, f)
	g := &fakeGateway{}
	svc := newPaymentService(f, g)

	intent, err := svc.CreateIntent(context.Background(), b.ID, 7)
	if err != nil {
		t.Fatalf("create intent: %v", err)
	}
	if g.createdAmount != 2500 {
		t.Errorf("amount = %d cents, want 2500", g.createdAmount)
	}
	if intent.ClientSecret == "" {
		t.Error("missing client secret")
	}
	if g.createdMeta["bookingId"] != fmt.Sprintf("%d", b.ID) {
		t.Errorf("metadata bookingId = %q", g.createdMeta["bookingId"])
	}
	// No local state moved yet.
	if got := f.bookings[b.ID]; got.Status != domain.BookingPending || got.PaymentStatus != domain.PaymentStatusPending {
		t.Errorf("booking moved to %s/%s before payment", got.Status, got.PaymentStatus)
	}
}

func TestCreateIntentHidesOtherUsersBookings(t *testing.T) {
	f := newFakeStore()
	b := seedPendingBooking(t, f)
	svc := newPaymentService(f, &fakeGateway{})

	if _, err := svc.CreateIntent(context.Background(), b.ID, 8); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestConfirmFinalizesBooking(t *testing.T) {
	f := newFakeStore()
	b := seedPendingBooking(t, f)
	g := &fakeGateway{intentStatus: stripe.StatusSucceeded, amount: 2500}
	svc := newPaymentService(f, g)

	got, err := svc.Confirm(context.Background(), b.ID, "pi_test_1", 7)
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if got.Status != domain.BookingConfirmed || got.PaymentStatus != domain.PaymentStatusCompleted {
		t.Errorf("state = %s/%s, want confirmed/completed", got.Status, got.PaymentStatus)
	}
	if got.StripePaymentID != "pi_test_1" {
		t.Errorf("intent id not recorded: %q", got.StripePaymentID)
	}
	if len(f.payments) != 1 {
		t.Fatalf("payments recorded = %d, want 1", len(f.payments))
	}
	for _, pm := range f.payments {
		if pm.Status != domain.PaymentSucceeded || pm.Amount != 25 {
			t.Errorf("payment = %s/%v, want succeeded/25", pm.Status, pm.Amount)
		}
	}
}

func TestConfirmIsIdempotent(t *testing.T) {
	f := newFakeStore()
	b := seedPendingBooking(t, f)
	g := &fakeGateway{intentStatus: stripe.StatusSucceeded, amount: 2500}
	svc := newPaymentService(f, g)

	for i := 0; i < 3; i++ {
		if _, err := svc.Confirm(context.Background(), b.ID, "pi_test_1", 7); err != nil {
			t.Fatalf("confirm #%d: %v", i+1, err)
		}
	}
	if len(f.payments) != 1 {
		t.Errorf("payments recorded = %d, want 1 after replays", len(f.payments))
	}
}

func TestConfirmRejectsUnsucceededIntent(t *testing.T) {
	f := newFakeStore()
	b := seedPendingBooking(t, f)
	g := &fakeGateway{intentStatus: "requires_action"}
	svc := newPaymentService(f, g)

	_, err := svc.Confirm(context.Background(), b.ID, "pi_test_1", 7)
	if !errors.Is(err, ErrPaymentNotSucceeded) {
		t.Fatalf("err = %v, want ErrPaymentNotSucceeded", err)
	}
	got := f.bookings[b.ID]
	if got.Status != domain.BookingPending || got.PaymentStatus != domain.PaymentStatusPending {
		t.Errorf("booking changed to %s/%s on failed confirm", got.Status, got.PaymentStatus)
	}
	if len(f.payments) != 0 {
		t.Errorf("payment row written on failed confirm")
	}
}

func TestConfirmGatewayErrorLeavesStateAlone(t *testing.T) {
	f := newFakeStore()
	b := seedPendingBooking(t, f)
	g := &fakeGateway{getErr: errors.New("connection reset")}
	svc := newPaymentService(f, g)

	_, err := svc.Confirm(context.Background(), b.ID, "pi_test_1", 7)
	if !errors.Is(err, ErrGateway) {
		t.Fatalf("err = %v, want ErrGateway", err)
	}
	if got := f.bookings[b.ID]; got.PaymentStatus != domain.PaymentStatusPending {
		t.Errorf("booking changed despite gateway failure")
	}
}

func TestRefundRollsBackBookingAndSlot(t *testing.T) {
	f := newFakeStore()
	b := seedPendingBooking(t, f)
	g := &fakeGateway{intentStatus: stripe.StatusSucceeded, amount: 2500}
	svc := newPaymentService(f, g)

	if _, err := svc.Confirm(context.Background(), b.ID, "pi_test_1", 7); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	var paymentID uint
	for id := range f.payments {
		paymentID = id
	}

	refund, err := svc.Refund(context.Background(), paymentID, "requested_by_customer", 1)
	if err != nil {
		t.Fatalf("refund: %v", err)
	}
	if refund.PaymentIntent != "pi_test_1" {
		t.Errorf("refunded intent = %q", refund.PaymentIntent)
	}
	if f.payments[paymentID].Status != domain.PaymentRefunded {
		t.Errorf("payment status = %s, want refunded", f.payments[paymentID].Status)
	}
	got := f.bookings[b.ID]
	if got.Status != domain.BookingCancelled || got.PaymentStatus != domain.PaymentStatusRefunded {
		t.Errorf("booking = %s/%s, want cancelled/refunded", got.Status, got.PaymentStatus)
	}
	if !f.slots[1].Available {
		t.Errorf("slot not released on refund")
	}
	if len(f.logs) == 0 || f.logs[len(f.logs)-1].Action != domain.ActionRefundPayment {
		t.Errorf("refund not audit-logged")
	}
}

func TestRefundGatewayErrorWritesNothing(t *testing.T) {
	f := newFakeStore()
	b := seedPendingBooking(t, f)
	g := &fakeGateway{intentStatus: stripe.StatusSucceeded, amount: 2500}
	svc := newPaymentService(f, g)
	if _, err := svc.Confirm(context.Background(), b.ID, "pi_test_1", 7); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	g.refundErr = errors.New("gateway down")

	var paymentID uint
	for id := range f.payments {
		paymentID = id
	}
	if _, err := svc.Refund(context.Background(), paymentID, "", 1); !errors.Is(err, ErrGateway) {
		t.Fatalf("err = %v, want ErrGateway", err)
	}
	if f.payments[paymentID].Status != domain.PaymentSucceeded {
		t.Errorf("payment moved despite gateway failure")
	}
	if got := f.bookings[b.ID]; got.Status != domain.BookingConfirmed {
		t.Errorf("booking moved despite gateway failure")
	}
}

func intentEvent(t *testing.T, eventType, intentID string, bookingID uint) *stripe.Event {
	t.Helper()
	obj, err := json.Marshal(map[string]interface{}{
		"id":       intentID,
		"metadata": map[string]string{"bookingId": fmt.Sprintf("%d", bookingID)},
	})
	if err != nil {
		t.Fatal(err)
	}
	e := &stripe.Event{ID: "evt_1", Type: eventType}
	e.Data.Object = obj
	return e
}

func TestWebhookSucceededIsIdempotent(t *testing.T) {
	f := newFakeStore()
	b := seedPendingBooking(t, f)
	svc := newPaymentService(f, &fakeGateway{})

	evt := intentEvent(t, domain.EventPaymentSucceeded, "pi_test_1", b.ID)
	for i := 0; i < 3; i++ {
		if err := svc.HandleEvent(evt); err != nil {
			t.Fatalf("delivery #%d: %v", i+1, err)
		}
	}
	got := f.bookings[b.ID]
	if got.Status != domain.BookingConfirmed || got.PaymentStatus != domain.PaymentStatusCompleted {
		t.Errorf("booking = %s/%s, want confirmed/completed", got.Status, got.PaymentStatus)
	}
	if got.StripePaymentID != "pi_test_1" {
		t.Errorf("intent id = %q", got.StripePaymentID)
	}
}

func TestWebhookFailedKeepsSlotHeld(t *testing.T) {
	f := newFakeStore()
	b := seedPendingBooking(t, f)
	svc := newPaymentService(f, &fakeGateway{})

	if err := svc.HandleEvent(intentEvent(t, domain.EventPaymentFailed, "pi_test_1", b.ID)); err != nil {
		t.Fatalf("handle: %v", err)
	}
	got := f.bookings[b.ID]
	if got.PaymentStatus != domain.PaymentStatusFailed {
		t.Errorf("payment status = %s, want failed", got.PaymentStatus)
	}
	if got.Status != domain.BookingPending {
		t.Errorf("status = %s, want pending (user may retry)", got.Status)
	}
	if f.slots[1].Available {
		t.Errorf("slot released on payment failure")
	}
}

func TestWebhookChargeRefunded(t *testing.T) {
	f := newFakeStore()
	b := seedPendingBooking(t, f)
	svc := newPaymentService(f, &fakeGateway{intentStatus: stripe.StatusSucceeded, amount: 2500})
	if _, err := svc.Confirm(context.Background(), b.ID, "pi_test_1", 7); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	e := &stripe.Event{ID: "evt_2", Type: domain.EventChargeRefunded}
	e.Data.Object = json.RawMessage(`{"payment_intent":"pi_test_1"}`)
	if err := svc.HandleEvent(e); err != nil {
		t.Fatalf("handle: %v", err)
	}
	got := f.bookings[b.ID]
	if got.Status != domain.BookingCancelled || got.PaymentStatus != domain.PaymentStatusRefunded {
		t.Errorf("booking = %s/%s, want cancelled/refunded", got.Status, got.PaymentStatus)
	}
	if !f.slots[1].Available {
		t.Errorf("slot not released")
	}
}

func TestWebhookUnknownReferencesAreAcked(t *testing.T) {
	f := newFakeStore()
	svc := newPaymentService(f, &fakeGateway{})

	if err := svc.HandleEvent(intentEvent(t, domain.EventPaymentSucceeded, "pi_none", 0)); err != nil {
		t.Errorf("missing metadata: %v", err)
	}
	e := &stripe.Event{ID: "evt_3", Type: domain.EventChargeRefunded}
	e.Data.Object = json.RawMessage(`{"payment_intent":"pi_unknown"}`)
	if err := svc.HandleEvent(e); err != nil {
		t.Errorf("unknown intent: %v", err)
	}
	e = &stripe.Event{ID: "evt_4", Type: "customer.created"}
	e.Data.Object = json.RawMessage(`{}`)
	if err := svc.HandleEvent(e); err != nil {
		t.Errorf("unhandled type: %v", err)
	}
}

func TestReconcileSweepsPendingPayments(t *testing.T) {
	f := newFakeStore()
	seedCatalog(f)
	for i := 1; i <= 3; i++ {
		f.payments[uint(i)] = &models.Payment{ID: uint(i), Status: domain.PaymentPending}
	}
	f.payments[4] = &models.Payment{ID: 4, Status: domain.PaymentSucceeded}
	svc := newPaymentService(f, &fakeGateway{})

	n, err := svc.Reconcile(1)
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if n != 3 {
		t.Errorf("swept = %d, want 3", n)
	}
	if f.payments[4].Status != domain.PaymentSucceeded {
		t.Errorf("non-pending payment touched")
	}
	if len(f.logs) != 1 || f.logs[0].Action != domain.ActionPaymentReconciliation {
		t.Errorf("reconciliation not audit-logged")
	}
}
