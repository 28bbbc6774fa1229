package ledger

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Entries(c *gin.Context) {
	entries, err := h.svc.Entries(c.Request.Context(), c.Param("userId"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

func (h *Handler) Verify(c *gin.Context) {
	userID := c.Param("userId")
	if _, err := h.svc.Get(c.Request.Context(), userID); err != nil {
		c.Error(err)
		return
	}
	report, err := h.svc.VerifyChain(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, report)
}
