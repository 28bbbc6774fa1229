package ledger

import (
	"growpreen/pkg/httpapi"

	"go.uber.org/fx"
)

var Module = fx.Module("ledger.service",
	fx.Provide(NewService),
)

var Routes = fx.Module("ledger.routes",
	fx.Provide(NewHandler),
	fx.Invoke(RegisterRoutes),
)

func RegisterRoutes(r *httpapi.Router, h *Handler) {
	r.Admin.GET("/ledger/:userId/entries", h.Entries)
	r.Admin.GET("/ledger/:userId/verify", h.Verify)
}
