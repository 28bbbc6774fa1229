package task

import (
	"net/http"

	"growpreen/pkg/errutil"
	"growpreen/pkg/identity"
	"growpreen/pkg/minio"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

type Handler struct {
	svc    *Service
	proofs *minio.ProofStore
}

type HandlerParams struct {
	fx.In
	Service *Service
	Proofs  *minio.ProofStore `optional:"true"`
}

func NewHandler(p HandlerParams) *Handler {
	return &Handler{svc: p.Service, proofs: p.Proofs}
}

type proofUploadRequest struct {
	Filename string `json:"filename" binding:"required"`
}

// ProofUpload hands out a presigned PUT for a screenshot; the returned
// screenshotUrl goes into the submission proof.
func (h *Handler) ProofUpload(c *gin.Context) {
	if h.proofs == nil {
		c.Error(errutil.New(errutil.StatusServiceUnavailable, "Screenshot upload is not enabled"))
		return
	}
	var req proofUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errutil.BadRequest("invalid request body", err))
		return
	}
	ctx := c.Request.Context()
	up, err := h.proofs.PresignProof(ctx, identity.UserID(ctx), req.Filename)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, up)
}

type submitRequest struct {
	TaskTemplateID string `json:"taskTemplateId"`
	Link           string `json:"link"`
	ScreenshotURL  string `json:"screenshotUrl"`
	Note           string `json:"note"`
}

func (h *Handler) Submit(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errutil.BadRequest("invalid request body", err))
		return
	}
	ctx := c.Request.Context()
	sub, err := h.svc.Submit(ctx, identity.UserID(ctx), req.TaskTemplateID, Proof{
		Link:       req.Link,
		Screenshot: req.ScreenshotURL,
		Note:       req.Note,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": sub.ID})
}

type reelRequest struct {
	Link string `json:"link"`
}

func (h *Handler) SubmitReel(c *gin.Context) {
	var req reelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errutil.BadRequest("invalid request body", err))
		return
	}
	ctx := c.Request.Context()
	sub, err := h.svc.SubmitReel(ctx, identity.UserID(ctx), req.Link)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": sub.ID})
}

func (h *Handler) DailyStatus(c *gin.Context) {
	ctx := c.Request.Context()
	st, err := h.svc.ReelStatus(ctx, identity.UserID(ctx))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *Handler) History(c *gin.Context) {
	ctx := c.Request.Context()
	items, err := h.svc.History(ctx, identity.UserID(ctx))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) Available(c *gin.Context) {
	ctx := c.Request.Context()
	items, err := h.svc.Available(ctx, identity.UserID(ctx))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) GetTemplate(c *gin.Context) {
	tpl, err := h.svc.GetTemplate(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, tpl)
}

func (h *Handler) ListSubmissions(c *gin.Context) {
	items, err := h.svc.ListSubmissions(c.Request.Context(), c.Query("status"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) Approve(c *gin.Context) {
	sub, err := h.svc.Approve(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task approved", "task": sub})
}

func (h *Handler) Reject(c *gin.Context) {
	sub, err := h.svc.Reject(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task rejected", "task": sub})
}

func (h *Handler) ListTemplates(c *gin.Context) {
	items, err := h.svc.ListTemplates(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) CreateTemplate(c *gin.Context) {
	var req TemplateParams
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errutil.BadRequest("invalid request body", err))
		return
	}
	tpl, err := h.svc.CreateTemplate(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, tpl)
}

type setActiveRequest struct {
	IsActive bool `json:"isActive"`
}

func (h *Handler) SetTemplateActive(c *gin.Context) {
	var req setActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errutil.BadRequest("invalid request body", err))
		return
	}
	tpl, err := h.svc.SetTemplateActive(c.Request.Context(), c.Param("id"), req.IsActive)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, tpl)
}

func (h *Handler) DeleteTemplate(c *gin.Context) {
	if err := h.svc.DeleteTemplate(c.Request.Context(), c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
