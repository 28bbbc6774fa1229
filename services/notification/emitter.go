package notification

import (
	"context"
	"encoding/json"
	"time"

	"growpreen/pkg/calendar"
	"growpreen/pkg/config"
	"growpreen/pkg/gen"
	"growpreen/pkg/logger"
	"growpreen/pkg/metrics"
	"growpreen/pkg/task"
	"growpreen/pkg/taskname"

	"github.com/hibiken/asynq"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	ModeDirect = "direct"
	ModeQueue  = "queue"
)

// Emitter appends a message to a user's notification feed. Delivery is best-effort:
// failures are logged and never reach the caller.
type Emitter interface {
	Append(ctx context.Context, userID string, typ Type, message string)
}

type EmitterParams struct {
	fx.In
	Config   *config.Config
	Service  *Service
	IDs      gen.IDGenerator
	Enqueuer task.Enqueuer  `optional:"true"`
	Clock    calendar.Clock `optional:"true"`
}

func NewEmitter(p EmitterParams) Emitter {
	clock := p.Clock
	if clock == nil {
		clock = calendar.SystemClock{}
	}
	direct := &DirectEmitter{svc: p.Service, ids: p.IDs, clock: clock}
	if p.Config.Notification.Mode == ModeQueue && p.Enqueuer != nil {
		return &QueueEmitter{enq: p.Enqueuer, fallback: direct}
	}
	return direct
}

type DirectEmitter struct {
	svc   *Service
	ids   gen.IDGenerator
	clock calendar.Clock
}

func NewDirectEmitter(svc *Service, ids gen.IDGenerator, clock calendar.Clock) *DirectEmitter {
	return &DirectEmitter{svc: svc, ids: ids, clock: clock}
}

func (e *DirectEmitter) payload(userID string, typ Type, message string) AppendPayload {
	return AppendPayload{
		ID:        e.ids.NewID(),
		UserID:    userID,
		Type:      typ,
		Message:   message,
		CreatedAt: e.clock.Now().UTC(),
	}
}

func (e *DirectEmitter) Append(ctx context.Context, userID string, typ Type, message string) {
	e.store(ctx, e.payload(userID, typ, message))
}

func (e *DirectEmitter) store(ctx context.Context, p AppendPayload) {
	err := e.svc.Store(ctx, p.notification())
	metrics.RecordNotification(ModeDirect, err)
	if err != nil {
		logger.Ctx(ctx).Error("failed to store notification",
			zap.String("user_id", p.UserID),
			zap.String("type", p.Type.String()),
			zap.Error(err),
		)
	}
}

// QueueEmitter hands notifications to the worker and writes directly if the queue is unavailable.
type QueueEmitter struct {
	enq      task.Enqueuer
	fallback *DirectEmitter
}

func (e *QueueEmitter) Append(ctx context.Context, userID string, typ Type, message string) {
	p := e.fallback.payload(userID, typ, message)

	body, err := json.Marshal(p)
	if err == nil {
		_, err = e.enq.Enqueue(ctx, asynq.NewTask(taskname.NotificationAppend, body),
			asynq.Queue(task.QueueDefault),
			asynq.MaxRetry(5),
			asynq.Timeout(30*time.Second),
		)
	}
	metrics.RecordNotification(ModeQueue, err)
	if err != nil {
		logger.Ctx(ctx).Warn("failed to enqueue notification, writing directly",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		e.fallback.store(ctx, p)
	}
}
