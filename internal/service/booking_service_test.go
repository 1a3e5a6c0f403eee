package service

import (
	"errors"
	"sync"
	"testing"
	"time"

	"trixtech/internal/domain"
	"trixtech/internal/models"

	"gorm.io/gorm"
)

// fakeStore is an in-memory stand-in for the repositories. Reserve is
// atomic under the mutex, mirroring the conditional update the real store
// issues.
type fakeStore struct {
	mu                sync.Mutex
	services          map[uint]*models.Service
	slots             map[uint]*models.TimeSlot
	bookings          map[uint]*models.Booking
	payments          map[uint]*models.Payment
	logs              []models.AdminLog
	nextBookingID     uint
	nextPaymentID     uint
	failBookingCreate bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		services: make(map[uint]*models.Service),
		slots:    make(map[uint]*models.TimeSlot),
		bookings: make(map[uint]*models.Booking),
		payments: make(map[uint]*models.Payment),
	}
}

func (f *fakeStore) GetByID(id uint) (*models.Service, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.services[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *s
	return &cp, nil
}

type fakeSlots struct{ f *fakeStore }

func (s fakeSlots) GetByID(id uint) (*models.TimeSlot, error) {
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	slot, ok := s.f.slots[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *slot
	return &cp, nil
}

func (s fakeSlots) Reserve(id uint) (bool, error) {
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	slot, ok := s.f.slots[id]
	if !ok || !slot.Available {
		return false, nil
	}
	slot.Available = false
	return true, nil
}

func (s fakeSlots) Release(id uint) error {
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	if slot, ok := s.f.slots[id]; ok {
		slot.Available = true
	}
	return nil
}

type fakeBookings struct{ f *fakeStore }

func (b fakeBookings) Create(bk *models.Booking) error {
	b.f.mu.Lock()
	defer b.f.mu.Unlock()
	if b.f.failBookingCreate {
		return errors.New("insert failed")
	}
	b.f.nextBookingID++
	bk.ID = b.f.nextBookingID
	cp := *bk
	b.f.bookings[bk.ID] = &cp
	return nil
}

func (b fakeBookings) GetByID(id uint) (*models.Booking, error) {
	b.f.mu.Lock()
	defer b.f.mu.Unlock()
	bk, ok := b.f.bookings[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *bk
	return &cp, nil
}

func (b fakeBookings) GetByStripePaymentID(intentID string) (*models.Booking, error) {
	b.f.mu.Lock()
	defer b.f.mu.Unlock()
	for _, bk := range b.f.bookings {
		if bk.StripePaymentID == intentID {
			cp := *bk
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (b fakeBookings) Update(id uint, fields map[string]interface{}) error {
	b.f.mu.Lock()
	defer b.f.mu.Unlock()
	bk, ok := b.f.bookings[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if v, ok := fields["notes"]; ok {
		bk.Notes = v.(string)
	}
	return nil
}

func (b fakeBookings) SetStatus(id uint, status string) error {
	b.f.mu.Lock()
	defer b.f.mu.Unlock()
	bk, ok := b.f.bookings[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	bk.Status = status
	return nil
}

func (b fakeBookings) ConfirmPayment(id uint, intentID string) error {
	b.f.mu.Lock()
	defer b.f.mu.Unlock()
	bk, ok := b.f.bookings[id]
	if !ok {
		return nil
	}
	bk.PaymentStatus = domain.PaymentStatusCompleted
	bk.Status = domain.BookingConfirmed
	bk.StripePaymentID = intentID
	return nil
}

func (b fakeBookings) MarkPaymentFailed(id uint) error {
	b.f.mu.Lock()
	defer b.f.mu.Unlock()
	if bk, ok := b.f.bookings[id]; ok {
		bk.PaymentStatus = domain.PaymentStatusFailed
	}
	return nil
}

func (b fakeBookings) MarkRefunded(id uint) error {
	b.f.mu.Lock()
	defer b.f.mu.Unlock()
	if bk, ok := b.f.bookings[id]; ok {
		bk.Status = domain.BookingCancelled
		bk.PaymentStatus = domain.PaymentStatusRefunded
	}
	return nil
}

type fakeAudit struct{ f *fakeStore }

func (a fakeAudit) Create(l *models.AdminLog) error {
	a.f.mu.Lock()
	defer a.f.mu.Unlock()
	a.f.logs = append(a.f.logs, *l)
	return nil
}

func seedCatalog(f *fakeStore) {
	f.services[1] = &models.Service{ID: 1, Name: "Deep Clean", Price: 25, Duration: 60, Available: true}
	f.slots[1] = &models.TimeSlot{
		ID: 1, ServiceID: 1, Date: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		StartTime: "09:00", EndTime: "10:00", Available: true,
	}
}

func newBookingService(f *fakeStore) *BookingService {
	return NewBookingService(fakeBookings{f}, fakeSlots{f}, f, fakeAudit{f})
}

func TestCreateBookingSnapshotsPriceAndReservesSlot(t *testing.T) {
	f := newFakeStore()
	seedCatalog(f)
	svc := newBookingService(f)

	b, err := svc.Create(7, 1, 1, "please ring twice")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if b.TotalPrice != 25 {
		t.Errorf("total price = %v, want 25", b.TotalPrice)
	}
	if b.Status != domain.BookingPending || b.PaymentStatus != domain.PaymentStatusPending {
		t.Errorf("new booking state = %s/%s, want pending/pending", b.Status, b.PaymentStatus)
	}
	if !b.BookingDate.Equal(f.slots[1].Date) {
		t.Errorf("booking date not copied from slot")
	}
	if f.slots[1].Available {
		t.Errorf("slot still available after booking")
	}

	// A later price change must not leak into the existing booking.
	f.services[1].Price = 40
	got, _ := svc.Get(b.ID, 7, domain.RoleCustomer)
	if got.TotalPrice != 25 {
		t.Errorf("total price after price change = %v, want 25", got.TotalPrice)
	}
}

func TestCreateBookingMissingRefs(t *testing.T) {
	f := newFakeStore()
	seedCatalog(f)
	svc := newBookingService(f)

	if _, err := svc.Create(7, 99, 1, ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing service: err = %v, want ErrNotFound", err)
	}
	if _, err := svc.Create(7, 1, 99, ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing slot: err = %v, want ErrNotFound", err)
	}
}

func TestCreateBookingSlotUnavailable(t *testing.T) {
	f := newFakeStore()
	seedCatalog(f)
	f.slots[1].Available = false
	svc := newBookingService(f)

	if _, err := svc.Create(7, 1, 1, ""); !errors.Is(err, ErrSlotUnavailable) {
		t.Errorf("err = %v, want ErrSlotUnavailable", err)
	}
}

func TestConcurrentCreateOnlyOneWins(t *testing.T) {
	f := newFakeStore()
	seedCatalog(f)
	svc := newBookingService(f)

	results := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(user uint) {
			defer wg.Done()
			_, err := svc.Create(user, 1, 1, "")
			results <- err
		}(uint(i + 1))
	}
	wg.Wait()
	close(results)

	var ok, unavailable int
	for err := range results {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrSlotUnavailable):
			unavailable++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != 1 || unavailable != 1 {
		t.Errorf("got %d successes and %d unavailable, want exactly 1 of each", ok, unavailable)
	}
	if len(f.bookings) != 1 {
		t.Errorf("bookings created = %d, want 1", len(f.bookings))
	}
}

func TestCreateBookingCompensatesFailedInsert(t *testing.T) {
	f := newFakeStore()
	seedCatalog(f)
	f.failBookingCreate = true
	svc := newBookingService(f)

	if _, err := svc.Create(7, 1, 1, ""); err == nil {
		t.Fatal("expected insert error")
	}
	if !f.slots[1].Available {
		t.Errorf("slot not released after failed booking insert")
	}
}

func TestCancelRoundTripReleasesSlot(t *testing.T) {
	f := newFakeStore()
	seedCatalog(f)
	svc := newBookingService(f)

	b, err := svc.Create(7, 1, 1, "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if f.slots[1].Available {
		t.Fatal("slot should be held")
	}
	if err := svc.Cancel(b.ID, 7, domain.RoleCustomer); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if f.bookings[b.ID].Status != domain.BookingCancelled {
		t.Errorf("status = %s, want cancelled", f.bookings[b.ID].Status)
	}
	if !f.slots[1].Available {
		t.Errorf("slot not released on cancel")
	}
	// Cancelling again stays terminal and keeps the slot free.
	if err := svc.Cancel(b.ID, 7, domain.RoleCustomer); err != nil {
		t.Fatalf("repeat cancel: %v", err)
	}
	if f.bookings[b.ID].Status != domain.BookingCancelled || !f.slots[1].Available {
		t.Errorf("repeat cancel changed state")
	}
}

func TestCancelAuthorization(t *testing.T) {
	f := newFakeStore()
	seedCatalog(f)
	svc := newBookingService(f)

	b, _ := svc.Create(7, 1, 1, "")
	if err := svc.Cancel(b.ID, 8, domain.RoleCustomer); !errors.Is(err, ErrForbidden) {
		t.Errorf("stranger cancel: err = %v, want ErrForbidden", err)
	}
	if err := svc.Cancel(b.ID, 8, domain.RoleAdmin); err != nil {
		t.Errorf("admin cancel: %v", err)
	}
}

func TestSetStatusTransitionTable(t *testing.T) {
	f := newFakeStore()
	seedCatalog(f)
	svc := newBookingService(f)
	b, _ := svc.Create(7, 1, 1, "")

	if _, err := svc.SetStatus(b.ID, "archived", 1); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("unknown status: err = %v, want ErrInvalidStatus", err)
	}
	if _, err := svc.SetStatus(b.ID, domain.BookingCompleted, 1); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("pending->completed: err = %v, want ErrInvalidTransition", err)
	}
	// Confirming an unpaid booking would break confirmed => paid.
	if _, err := svc.SetStatus(b.ID, domain.BookingConfirmed, 1); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("confirm unpaid: err = %v, want ErrInvalidTransition", err)
	}

	f.bookings[b.ID].PaymentStatus = domain.PaymentStatusCompleted
	if _, err := svc.SetStatus(b.ID, domain.BookingConfirmed, 1); err != nil {
		t.Fatalf("confirm paid: %v", err)
	}
	if _, err := svc.SetStatus(b.ID, domain.BookingCompleted, 1); err != nil {
		t.Fatalf("complete: %v", err)
	}
	// Terminal: no way back.
	if _, err := svc.SetStatus(b.ID, domain.BookingPending, 1); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("completed->pending: err = %v, want ErrInvalidTransition", err)
	}
	if len(f.logs) == 0 {
		t.Error("no admin log entries written")
	}
	for _, l := range f.logs {
		if l.Action != domain.ActionUpdateBookingStatus {
			t.Errorf("log action = %s", l.Action)
		}
	}
}

func TestSetStatusCancelledReleasesSlot(t *testing.T) {
	f := newFakeStore()
	seedCatalog(f)
	svc := newBookingService(f)
	b, _ := svc.Create(7, 1, 1, "")

	if _, err := svc.SetStatus(b.ID, domain.BookingCancelled, 1); err != nil {
		t.Fatalf("set cancelled: %v", err)
	}
	if !f.slots[1].Available {
		t.Errorf("slot not released on admin cancellation")
	}
}

func TestSetStatusNotFound(t *testing.T) {
	f := newFakeStore()
	svc := newBookingService(f)
	if _, err := svc.SetStatus(42, domain.BookingCancelled, 1); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
