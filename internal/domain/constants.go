package domain

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// Booking status lifecycle. Cancelled and completed are terminal.
const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCompleted = "completed"
	BookingCancelled = "cancelled"
)

// Payment status as tracked on the booking itself.
const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
	PaymentStatusRefunded  = "refunded"
)

// Payment record status (payments collection).
const (
	PaymentPending    = "pending"
	PaymentProcessing = "processing"
	PaymentSucceeded  = "succeeded"
	PaymentFailed     = "failed"
	PaymentRefunded   = "refunded"
)

// Gateway webhook event types we reconcile on.
const (
	EventPaymentSucceeded = "payment_intent.succeeded"
	EventPaymentFailed    = "payment_intent.payment_failed"
	EventChargeRefunded   = "charge.refunded"
)

// Admin audit log actions.
const (
	ActionUpdateBookingStatus   = "UPDATE_BOOKING_STATUS"
	ActionRefundPayment         = "REFUND_PAYMENT"
	ActionPaymentReconciliation = "PAYMENT_RECONCILIATION"
	ActionApproveReview         = "APPROVE_REVIEW"
	ActionDeleteReview          = "DELETE_REVIEW"
)

func ValidBookingStatus(s string) bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCompleted, BookingCancelled:
		return true
	}
	return false
}
