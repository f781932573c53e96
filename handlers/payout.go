package handlers

import (
	"net/http"
	"time"

	"monet/middleware"
	"monet/models"
	"monet/utils"

	"github.com/gin-gonic/gin"
)

// RequestPayoutHandler releases held funds for a settled booking (admin).
func (hb *HandlerBundle) RequestPayoutHandler(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Missing caller identity", "")
		return
	}

	hold, err := hb.Payouts.RequestPayout(c.Request.Context(), actor, c.Param("bookingId"))
	if err != nil {
		utils.JSONDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, hold)
}

// UpsertPayoutProfileHandler stores the professional's payable destination.
func (hb *HandlerBundle) UpsertPayoutProfileHandler(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Missing caller identity", "")
		return
	}
	if actor.Role != models.RoleProfessional {
		utils.JSONDomainError(c, utils.NewServiceError(utils.CodeForbidden, "only a professional may register a payout destination"))
		return
	}

	var input struct {
		StripeAccount string `json:"stripeAccount"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || input.StripeAccount == "" {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", "stripeAccount is required")
		return
	}

	profile := &models.PayoutProfile{
		ProfessionalID: actor.ID,
		StripeAccount:  input.StripeAccount,
		UpdatedAt:      time.Now().UTC(),
	}
	if err := hb.Payees.Upsert(c.Request.Context(), profile); err != nil {
		utils.JSONDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// GetPayoutProfileHandler returns the caller's stored payout destination.
func (hb *HandlerBundle) GetPayoutProfileHandler(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Missing caller identity", "")
		return
	}

	profile, err := hb.Payees.GetByProfessionalID(c.Request.Context(), actor.ID)
	if err != nil {
		utils.JSONError(c, http.StatusNotFound, "no payout profile on file", "")
		return
	}
	c.JSON(http.StatusOK, profile)
}
