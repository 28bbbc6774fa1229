package notification

import (
	"growpreen/pkg/httpapi"
	"growpreen/pkg/taskname"

	"github.com/hibiken/asynq"
	"go.uber.org/fx"
)

var Module = fx.Module("notification.service",
	fx.Provide(NewService, NewEmitter),
)

var Routes = fx.Module("notification.routes",
	fx.Provide(NewHandler),
	fx.Invoke(RegisterRoutes),
)

var WorkerModule = fx.Module("notification.worker",
	fx.Provide(NewWorker),
	fx.Invoke(RegisterWorker),
)

func RegisterRoutes(r *httpapi.Router, h *Handler) {
	r.User.GET("/notifications", h.List)
	r.User.POST("/notifications/:id/read", h.MarkRead)
}

func RegisterWorker(mux *asynq.ServeMux, w *Worker) {
	mux.HandleFunc(taskname.NotificationAppend, w.HandleAppend)
}
