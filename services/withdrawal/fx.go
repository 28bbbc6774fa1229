package withdrawal

import (
	"growpreen/pkg/httpapi"

	"go.uber.org/fx"
)

var Module = fx.Module("withdrawal.service",
	fx.Provide(NewService),
)

var Routes = fx.Module("withdrawal.routes",
	fx.Provide(NewHandler),
	fx.Invoke(RegisterRoutes),
)

func RegisterRoutes(r *httpapi.Router, h *Handler) {
	r.User.GET("/withdrawals/balance", h.Balance)
	r.User.GET("/withdrawals/my", h.ListMine)
	r.User.POST("/withdrawals/request", r.Limited, h.Request)

	r.Admin.GET("/withdrawals", h.List)
	r.Admin.POST("/withdrawals/:id/approve", h.Approve)
	r.Admin.POST("/withdrawals/:id/reject", h.Reject)
}
