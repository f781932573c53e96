package handlers

import (
	payeeRepo "monet/database/repository/payee"
	"monet/services/availability"
	"monet/services/booking"
	"monet/services/payout"
	"monet/services/qc"

	"go.uber.org/zap"
)

// HandlerBundle groups the HTTP handlers with the services they delegate
// to. Routes receive one bundle and wire its methods to endpoints.
type HandlerBundle struct {
	Availability availability.AvailabilityService
	Bookings     booking.BookingLifecycleService
	QC           qc.QCService
	Payouts      payout.PayoutService
	Payees       payeeRepo.PayeeRepository

	Logger *zap.Logger
}
