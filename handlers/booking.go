package handlers

import (
	"net/http"

	"monet/middleware"
	"monet/services/booking"
	"monet/utils"

	"github.com/gin-gonic/gin"
)

// RequestBookingHandler creates a booking request with its escrow hold.
func (hb *HandlerBundle) RequestBookingHandler(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Missing caller identity", "")
		return
	}

	var req booking.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	b, err := hb.Bookings.RequestBooking(c.Request.Context(), actor, req)
	if err != nil {
		utils.JSONDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

func (hb *HandlerBundle) AcceptBookingHandler(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Missing caller identity", "")
		return
	}

	b, err := hb.Bookings.AcceptBooking(c.Request.Context(), actor, c.Param("bookingId"))
	if err != nil {
		utils.JSONDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (hb *HandlerBundle) DeclineBookingHandler(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Missing caller identity", "")
		return
	}

	b, err := hb.Bookings.DeclineBooking(c.Request.Context(), actor, c.Param("bookingId"))
	if err != nil {
		utils.JSONDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (hb *HandlerBundle) CancelBookingHandler(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Missing caller identity", "")
		return
	}

	var input struct {
		Reason string `json:"reason"`
	}
	// Body is optional; a missing reason gets a default downstream.
	_ = c.ShouldBindJSON(&input)

	b, err := hb.Bookings.CancelBooking(c.Request.Context(), actor, c.Param("bookingId"), input.Reason)
	if err != nil {
		utils.JSONDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// RecordJoinHandler marks the caller as joined on the call.
func (hb *HandlerBundle) RecordJoinHandler(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Missing caller identity", "")
		return
	}

	b, err := hb.Bookings.RecordJoin(c.Request.Context(), actor, c.Param("bookingId"))
	if err != nil {
		utils.JSONDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (hb *HandlerBundle) GetBookingHandler(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Missing caller identity", "")
		return
	}

	b, err := hb.Bookings.GetBooking(c.Request.Context(), actor, c.Param("bookingId"))
	if err != nil {
		utils.JSONDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (hb *HandlerBundle) ListBookingsHandler(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Missing caller identity", "")
		return
	}

	bookings, err := hb.Bookings.ListBookings(c.Request.Context(), actor)
	if err != nil {
		utils.JSONDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// RefundBookingHandler is the admin path for refunding a completed booking.
func (hb *HandlerBundle) RefundBookingHandler(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Missing caller identity", "")
		return
	}

	var input struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&input)

	b, err := hb.Bookings.RefundCompleted(c.Request.Context(), actor, c.Param("bookingId"), input.Reason)
	if err != nil {
		utils.JSONDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}
