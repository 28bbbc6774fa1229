package account

import (
	"net/http"

	"growpreen/pkg/db/pagination"
	"growpreen/pkg/errutil"
	"growpreen/pkg/identity"
	"growpreen/services/ledger"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Register(c *gin.Context) {
	var req RegisterParams
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errutil.BadRequest("invalid request body", err))
		return
	}
	u, err := h.svc.Register(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": u.ID, "mobile": u.Mobile, "myRefCode": u.MyRefCode})
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginParams
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errutil.BadRequest("invalid request body", err))
		return
	}
	u, err := h.svc.Authenticate(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    gin.H{"id": u.ID, "mobile": u.Mobile, "name": u.Name},
	})
}

func (h *Handler) Me(c *gin.Context) {
	ctx := c.Request.Context()
	p, err := h.svc.Me(ctx, identity.UserID(ctx))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) GetPayout(c *gin.Context) {
	ctx := c.Request.Context()
	p, err := h.svc.GetPayout(ctx, identity.UserID(ctx))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) UpdatePayout(c *gin.Context) {
	var req ledger.Payout
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errutil.BadRequest("invalid request body", err))
		return
	}
	ctx := c.Request.Context()
	p, err := h.svc.UpdatePayout(ctx, identity.UserID(ctx), req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "payout": p})
}

func (h *Handler) ListUsers(c *gin.Context) {
	var page pagination.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		c.Error(errutil.BadRequest("invalid pagination", err))
		return
	}
	users, err := h.svc.ListUsers(c.Request.Context(), page)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *Handler) Summary(c *gin.Context) {
	s, err := h.svc.Summary(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, s)
}
