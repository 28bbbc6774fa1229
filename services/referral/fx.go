package referral

import (
	"growpreen/pkg/httpapi"

	"go.uber.org/fx"
)

var Module = fx.Module("referral.service",
	fx.Provide(NewService),
)

var Routes = fx.Module("referral.routes",
	fx.Provide(NewHandler),
	fx.Invoke(RegisterRoutes),
)

func RegisterRoutes(r *httpapi.Router, h *Handler) {
	r.User.GET("/referrals/summary", h.Summary)
	r.Admin.POST("/referrals/success", h.RecordSuccess)
}
