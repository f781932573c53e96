package handlers

import (
	"net/http"
	"strconv"
	"time"

	"monet/middleware"
	"monet/models"
	"monet/utils"

	"github.com/gin-gonic/gin"
)

// SubmitAvailabilityHandler replaces the caller's stored free or busy set.
func (hb *HandlerBundle) SubmitAvailabilityHandler(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Missing caller identity", "")
		return
	}

	var input struct {
		Busy  bool              `json:"busy"`
		Slots []models.TimeSlot `json:"slots"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	set, err := hb.Availability.SubmitAvailability(c.Request.Context(), actor.ID, input.Busy, input.Slots)
	if err != nil {
		utils.JSONDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, set)
}

// GetAvailabilityHandler returns a user's availability converted to the
// requested timezone and split into bookable chunks.
func (hb *HandlerBundle) GetAvailabilityHandler(c *gin.Context) {
	userID := c.Param("userId")
	busy := c.Query("busy") == "true"
	tz := c.DefaultQuery("tz", "UTC")

	granularity := 30 * time.Minute
	if raw := c.Query("granularityMin"); raw != "" {
		mins, err := strconv.Atoi(raw)
		if err != nil || mins <= 0 {
			utils.JSONError(c, http.StatusBadRequest, "invalid input", "granularityMin must be a positive integer")
			return
		}
		granularity = time.Duration(mins) * time.Minute
	}

	slots, err := hb.Availability.GetAvailability(c.Request.Context(), userID, busy, tz, granularity)
	if err != nil {
		utils.JSONDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"userId": userID, "busy": busy, "slots": slots})
}

// GetBusyWindowHandler merges stored busy intervals with the best-effort
// third-party calendar read for the given window.
func (hb *HandlerBundle) GetBusyWindowHandler(c *gin.Context) {
	userID := c.Param("userId")

	start, err := time.Parse(time.RFC3339, c.Query("start"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", "start must be RFC3339")
		return
	}
	end, err := time.Parse(time.RFC3339, c.Query("end"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", "end must be RFC3339")
		return
	}

	window := models.TimeSlot{Start: start, End: end, Timezone: "UTC"}
	slots, err := hb.Availability.GetBusyWindow(c.Request.Context(), userID, window)
	if err != nil {
		utils.JSONDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"userId": userID, "busy": slots})
}
