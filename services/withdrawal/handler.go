package withdrawal

import (
	"net/http"

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

func (h *Handler) Balance(c *gin.Context) {
	ctx := c.Request.Context()
	balance, err := h.svc.Balance(ctx, identity.UserID(ctx))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"balance": balance})
}

func (h *Handler) ListMine(c *gin.Context) {
	ctx := c.Request.Context()
	items, err := h.svc.ListMine(ctx, identity.UserID(ctx))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) Request(c *gin.Context) {
	var req RequestParams
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errutil.BadRequest("invalid request body", err))
		return
	}
	ctx := c.Request.Context()
	w, err := h.svc.Request(ctx, identity.UserID(ctx), req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "withdrawal": w})
}

func (h *Handler) List(c *gin.Context) {
	items, err := h.svc.ListByStatus(c.Request.Context(), c.Query("status"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) Approve(c *gin.Context) {
	w, err := h.svc.Approve(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Withdrawal approved", "withdrawal": w})
}

func (h *Handler) Reject(c *gin.Context) {
	w, err := h.svc.Reject(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Withdrawal rejected", "withdrawal": w})
}
