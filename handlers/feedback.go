package handlers

import (
	"net/http"

	"monet/middleware"
	"monet/services/qc"
	"monet/utils"

	"github.com/gin-gonic/gin"
)

// SubmitFeedbackHandler stores the professional's write-up and runs the QC
// rubric over it immediately.
func (hb *HandlerBundle) SubmitFeedbackHandler(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Missing caller identity", "")
		return
	}

	var input qc.FeedbackInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	artifact, err := hb.QC.SubmitFeedback(c.Request.Context(), actor, c.Param("bookingId"), input)
	if err != nil {
		utils.JSONDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, artifact)
}

// RunQCHandler re-evaluates the stored artifact. Safe to repeat: a passed
// verdict is never recomputed.
func (hb *HandlerBundle) RunQCHandler(c *gin.Context) {
	artifact, err := hb.QC.RunQC(c.Request.Context(), c.Param("bookingId"))
	if err != nil {
		utils.JSONDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, artifact)
}

// OverrideQCHandler lets an admin force a verdict past the rubric.
func (hb *HandlerBundle) OverrideQCHandler(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Missing caller identity", "")
		return
	}

	var input struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	artifact, err := hb.QC.OverrideQC(c.Request.Context(), actor, c.Param("bookingId"), input.Status, input.Reason)
	if err != nil {
		utils.JSONDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, artifact)
}
