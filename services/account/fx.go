package account

import (
	"growpreen/pkg/httpapi"

	"go.uber.org/fx"
)

var Module = fx.Module("account.service",
	fx.Provide(NewService),
)

var Routes = fx.Module("account.routes",
	fx.Provide(NewHandler),
	fx.Invoke(RegisterRoutes),
)

func RegisterRoutes(r *httpapi.Router, h *Handler) {
	r.Public.POST("/auth/register", r.Limited, h.Register)
	r.Public.POST("/auth/login", r.Limited, h.Login)

	r.User.GET("/me", h.Me)
	r.User.GET("/profile/payout", h.GetPayout)
	r.User.POST("/profile/payout", h.UpdatePayout)

	r.Admin.GET("/summary", h.Summary)
	r.Admin.GET("/users", h.ListUsers)
}
