package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

type Worker struct {
	svc *Service
}

func NewWorker(svc *Service) *Worker {
	return &Worker{svc: svc}
}

// HandleAppend stores a queued notification. Replays of the same id are no-ops.
func (w *Worker) HandleAppend(ctx context.Context, t *asynq.Task) error {
	var p AppendPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("decode notification payload: %v: %w", err, asynq.SkipRetry)
	}
	if p.ID == "" || p.UserID == "" {
		return fmt.Errorf("notification payload missing id or user: %w", asynq.SkipRetry)
	}

	if err := w.svc.Store(ctx, p.notification()); err != nil {
		zap.L().Error("failed to store queued notification", zap.String("id", p.ID), zap.Error(err))
		return err
	}
	return nil
}
