// File: services/booking/interface.go
package booking

import (
	"context"

	bookingRepo "monet/database/repository/booking"
	paymentRepo "monet/database/repository/payment"
	"monet/models"
	"monet/services/availability"
	"monet/services/meeting"
	"monet/services/payment"

	"go.uber.org/zap"
)

// BookingRequest is the candidate's payload for a new booking.
type BookingRequest struct {
	ProfessionalID string          `json:"professionalId"`
	Slot           models.TimeSlot `json:"slot"`
	PriceCents     int64           `json:"priceCents"`
}

// BookingLifecycleService governs a single booking's status transitions and
// their paired escrow actions.
type BookingLifecycleService interface {
	RequestBooking(ctx context.Context, actor models.Actor, req BookingRequest) (*models.Booking, error)
	AcceptBooking(ctx context.Context, actor models.Actor, bookingID string) (*models.Booking, error)
	DeclineBooking(ctx context.Context, actor models.Actor, bookingID string) (*models.Booking, error)
	CancelBooking(ctx context.Context, actor models.Actor, bookingID, reason string) (*models.Booking, error)
	RecordJoin(ctx context.Context, actor models.Actor, bookingID string) (*models.Booking, error)

	GetBooking(ctx context.Context, actor models.Actor, bookingID string) (*models.Booking, error)
	ListBookings(ctx context.Context, actor models.Actor) ([]models.Booking, error)

	// CompleteFromQC flips completed_pending_feedback -> completed. The
	// boolean reports whether this caller performed the transition.
	CompleteFromQC(ctx context.Context, bookingID string) (bool, error)
	// RefundForFailedQC settles the booking status after a failed QC
	// override; the paired escrow refund is driven by the payout side.
	RefundForFailedQC(ctx context.Context, bookingID, reason string) error
	// RefundCompleted is the admin-only auto-refund path after a QC verdict
	// of failed on a completed booking.
	RefundCompleted(ctx context.Context, actor models.Actor, bookingID, reason string) (*models.Booking, error)
}

// ReminderScheduler enqueues a call reminder for an accepted booking.
type ReminderScheduler interface {
	ScheduleCallReminder(ctx context.Context, b *models.Booking) error
}

// DefaultBookingLifecycleService implements BookingLifecycleService.
type DefaultBookingLifecycleService struct {
	Repo         bookingRepo.BookingRepository
	Payments     paymentRepo.PaymentRepository
	Escrow       payment.EscrowPaymentPort
	Meetings     meeting.MeetingPort
	Availability availability.AvailabilityService
	Reminders    ReminderScheduler
	Logger       *zap.Logger

	// CancellationWindowMin is how many minutes before the call start a
	// candidate may still cancel with a full refund.
	CancellationWindowMin int
}
