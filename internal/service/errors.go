package service

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrForbidden           = errors.New("forbidden")
	ErrSlotUnavailable     = errors.New("time slot not available")
	ErrPaymentNotSucceeded = errors.New("payment was not successful")
	ErrInvalidStatus       = errors.New("invalid booking status")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrGateway             = errors.New("payment gateway error")
)

// notFound translates the store's record-not-found into the service-level
// sentinel so handlers never depend on gorm.
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
