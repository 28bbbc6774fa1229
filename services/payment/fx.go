package payment

import (
	"growpreen/pkg/httpapi"

	"go.uber.org/fx"
)

var Module = fx.Module("payment.service",
	fx.Provide(NewService),
)

var Routes = fx.Module("payment.routes",
	fx.Provide(NewHandler),
	fx.Invoke(RegisterRoutes),
)

func RegisterRoutes(r *httpapi.Router, h *Handler) {
	r.Public.POST("/payments", r.Limited, h.Create)

	r.Admin.GET("/payments", h.List)
	r.Admin.POST("/payments/:id/status", h.SetStatus)
	r.Admin.POST("/payments/:id/approve", h.Approve)
	r.Admin.POST("/payments/:id/reject", h.Reject)
}
