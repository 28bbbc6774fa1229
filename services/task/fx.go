package task

import (
	"growpreen/pkg/httpapi"

	"go.uber.org/fx"
)

var Module = fx.Module("task.service",
	fx.Provide(NewService),
)

var Routes = fx.Module("task.routes",
	fx.Provide(NewHandler),
	fx.Invoke(RegisterRoutes),
)

func RegisterRoutes(r *httpapi.Router, h *Handler) {
	r.User.GET("/tasks/available", h.Available)
	r.User.POST("/tasks/submit", r.Limited, h.Submit)
	r.User.POST("/tasks/submit-reel", r.Limited, h.SubmitReel)
	r.User.GET("/tasks/daily-status", h.DailyStatus)
	r.User.GET("/tasks/history", h.History)
	r.User.GET("/tasks/template/:id", h.GetTemplate)
	r.User.POST("/tasks/proof-upload", r.Limited, h.ProofUpload)

	r.Admin.GET("/task-submissions", h.ListSubmissions)
	r.Admin.POST("/tasks/:id/approve", h.Approve)
	r.Admin.POST("/tasks/:id/reject", h.Reject)
	r.Admin.GET("/task-templates", h.ListTemplates)
	r.Admin.POST("/task-templates", h.CreateTemplate)
	r.Admin.PATCH("/task-templates/:id", h.SetTemplateActive)
	r.Admin.DELETE("/task-templates/:id", h.DeleteTemplate)
}
