package referral

import (
	"net/http"

	"growpreen/pkg/calendar"
	"growpreen/pkg/errutil"
	"growpreen/pkg/identity"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type successRequest struct {
	ReferrerUserID string `json:"referrerUserId"`
	ReferredUserID string `json:"referredUserId"`
}

func (h *Handler) RecordSuccess(c *gin.Context) {
	var req successRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errutil.BadRequest("invalid request body", err))
		return
	}
	ref, err := h.svc.RecordSuccess(c.Request.Context(), req.ReferrerUserID, req.ReferredUserID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Referral recorded", "referral": ref})
}

func (h *Handler) Summary(c *gin.Context) {
	var month calendar.Month
	if raw := c.Query("month"); raw != "" {
		m, err := calendar.ParseMonth(raw)
		if err != nil {
			c.Error(errutil.BadRequest("month must be YYYY-MM", err))
			return
		}
		month = m
	}

	ctx := c.Request.Context()
	summary, err := h.svc.MonthlySummary(ctx, identity.UserID(ctx), month)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
