package service

import (
	"errors"
	"fmt"

	"trixtech/internal/domain"
	"trixtech/internal/models"

	"gorm.io/gorm"
)

type ServiceStore interface {
	GetByID(id uint) (*models.Service, error)
}

type SlotStore interface {
	GetByID(id uint) (*models.TimeSlot, error)
	Reserve(id uint) (bool, error)
	Release(id uint) error
}

type BookingStore interface {
	Create(b *models.Booking) error
	GetByID(id uint) (*models.Booking, error)
	GetByStripePaymentID(intentID string) (*models.Booking, error)
	Update(id uint, fields map[string]interface{}) error
	SetStatus(id uint, status string) error
	ConfirmPayment(id uint, intentID string) error
	MarkPaymentFailed(id uint) error
	MarkRefunded(id uint) error
}

type AuditStore interface {
	Create(l *models.AdminLog) error
}

// BookingService owns the booking/time-slot consistency rules. Every path
// that flips a slot or a booking status goes through here, including the
// admin overrides.
type BookingService struct {
	bookings BookingStore
	slots    SlotStore
	services ServiceStore
	audit    AuditStore
}

func NewBookingService(bookings BookingStore, slots SlotStore, services ServiceStore, audit AuditStore) *BookingService {
	return &BookingService{bookings: bookings, slots: slots, services: services, audit: audit}
}

// bookingTransitions is the guarded admin transition table. Completed and
// cancelled are terminal; a cancelled booking is never revived.
var bookingTransitions = map[string]map[string]bool{
	domain.BookingPending:   {domain.BookingConfirmed: true, domain.BookingCancelled: true},
	domain.BookingConfirmed: {domain.BookingCompleted: true, domain.BookingCancelled: true},
	domain.BookingCompleted: {},
	domain.BookingCancelled: {},
}

// Create reserves the slot and records the booking. The reservation is a
// conditional update, so of two concurrent requests for the same slot
// exactly one wins; the loser gets ErrSlotUnavailable. TotalPrice snapshots
// the service price and never tracks later price changes.
func (s *BookingService) Create(userID, serviceID, timeSlotID uint, notes string) (*models.Booking, error) {
	svc, err := s.services.GetByID(serviceID)
	if err != nil {
		return nil, notFound(err)
	}
	slot, err := s.slots.GetByID(timeSlotID)
	if err != nil {
		return nil, notFound(err)
	}
	if !slot.Available {
		return nil, ErrSlotUnavailable
	}
	reserved, err := s.slots.Reserve(timeSlotID)
	if err != nil {
		return nil, err
	}
	if !reserved {
		return nil, ErrSlotUnavailable
	}
	b := &models.Booking{
		UserID:        userID,
		ServiceID:     serviceID,
		TimeSlotID:    timeSlotID,
		Status:        domain.BookingPending,
		PaymentStatus: domain.PaymentStatusPending,
		TotalPrice:    svc.Price,
		BookingDate:   slot.Date,
		Notes:         notes,
	}
	if err := s.bookings.Create(b); err != nil {
		// Compensate the reservation so the slot is not orphaned.
		_ = s.slots.Release(timeSlotID)
		return nil, err
	}
	return b, nil
}

func (s *BookingService) Get(bookingID, callerID uint, callerRole string) (*models.Booking, error) {
	b, err := s.bookings.GetByID(bookingID)
	if err != nil {
		return nil, notFound(err)
	}
	if b.UserID != callerID && callerRole != domain.RoleAdmin {
		return nil, ErrForbidden
	}
	return b, nil
}

// UpdateNotes lets the owner (or an admin) change the free-text notes.
// Status is not writable here; it moves only through Cancel, SetStatus, and
// the payment paths.
func (s *BookingService) UpdateNotes(bookingID, callerID uint, callerRole, notes string) (*models.Booking, error) {
	b, err := s.Get(bookingID, callerID, callerRole)
	if err != nil {
		return nil, err
	}
	if err := s.bookings.Update(b.ID, map[string]interface{}{"notes": notes}); err != nil {
		return nil, err
	}
	b.Notes = notes
	return b, nil
}

// Cancel sets the booking cancelled and releases its slot. paymentStatus is
// untouched; a paid booking being cancelled routes through the refund path.
func (s *BookingService) Cancel(bookingID, callerID uint, callerRole string) error {
	b, err := s.bookings.GetByID(bookingID)
	if err != nil {
		return notFound(err)
	}
	if b.UserID != callerID && callerRole != domain.RoleAdmin {
		return ErrForbidden
	}
	if b.Status == domain.BookingCancelled {
		// Already terminal; re-release the slot in case a prior release
		// failed partway.
		return s.slots.Release(b.TimeSlotID)
	}
	if err := s.bookings.SetStatus(b.ID, domain.BookingCancelled); err != nil {
		return err
	}
	return s.slots.Release(b.TimeSlotID)
}

// SetStatus is the admin override, guarded by the transition table. Moving
// to confirmed additionally requires a completed payment, and moving to
// cancelled releases the slot like the user-facing cancel path does.
func (s *BookingService) SetStatus(bookingID uint, newStatus string, adminID uint) (*models.Booking, error) {
	if !domain.ValidBookingStatus(newStatus) {
		return nil, ErrInvalidStatus
	}
	b, err := s.bookings.GetByID(bookingID)
	if err != nil {
		return nil, notFound(err)
	}
	if b.Status != newStatus {
		if !bookingTransitions[b.Status][newStatus] {
			return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, b.Status, newStatus)
		}
		if newStatus == domain.BookingConfirmed && b.PaymentStatus != domain.PaymentStatusCompleted {
			return nil, fmt.Errorf("%w: cannot confirm unpaid booking", ErrInvalidTransition)
		}
		if err := s.bookings.SetStatus(b.ID, newStatus); err != nil {
			return nil, err
		}
		if newStatus == domain.BookingCancelled {
			if err := s.slots.Release(b.TimeSlotID); err != nil {
				return nil, err
			}
		}
		b.Status = newStatus
	}
	if err := s.audit.Create(&models.AdminLog{
		AdminID:     adminID,
		Action:      domain.ActionUpdateBookingStatus,
		Description: fmt.Sprintf("Updated booking %d status to %s", b.ID, newStatus),
		TargetID:    fmt.Sprintf("%d", b.ID),
	}); err != nil {
		return nil, err
	}
	return b, nil
}

// IsNotFound reports whether err is the record-absent case, from either the
// service sentinels or the store.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound)
}
