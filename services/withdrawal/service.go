package withdrawal

import (
	"context"
	"fmt"

	"growpreen/pkg/calendar"
	"growpreen/pkg/config"
	"growpreen/pkg/db/option"
	"growpreen/pkg/db/pagination"
	"growpreen/pkg/errutil"
	"growpreen/pkg/gen"
	"growpreen/pkg/logger"
	"growpreen/pkg/metrics"
	"growpreen/pkg/repository"
	"growpreen/services/ledger"
	"growpreen/services/notification"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const listLimit = 20

type Service struct {
	withdrawals repository.Repository[Withdrawal]
	ledger      *ledger.Service
	emitter     notification.Emitter
	ids         gen.IDGenerator
	minimum     int64
	clock       calendar.Clock
}

type ServiceParams struct {
	fx.In
	DB      *gorm.DB
	Config  *config.Config
	Ledger  *ledger.Service
	Emitter notification.Emitter
	IDs     gen.IDGenerator
	Clock   calendar.Clock `optional:"true"`
}

func NewService(p ServiceParams) *Service {
	clock := p.Clock
	if clock == nil {
		clock = calendar.SystemClock{}
	}
	return &Service{
		withdrawals: repository.ProvideStore[Withdrawal](p.DB),
		ledger:      p.Ledger,
		emitter:     p.Emitter,
		ids:         p.IDs,
		minimum:     p.Config.Program.WithdrawalMinimum,
		clock:       clock,
	}
}

// Request locks the amount by debiting it before the pending withdrawal is written.
// Concurrent requests serialize on the ledger, so they cannot overdraw a stale balance.
func (s *Service) Request(ctx context.Context, userID string, p RequestParams) (*Withdrawal, error) {
	log := logger.Ctx(ctx).With(zap.String("user_id", userID), zap.Int64("amount", p.Amount))

	if p.Amount < s.minimum {
		return nil, errutil.BelowMinimum(fmt.Sprintf("Minimum withdrawal is ₹%d", s.minimum),
			errutil.WithDetails(errutil.Detail{Field: "amount", Message: fmt.Sprintf("must be at least %d", s.minimum)}))
	}

	w := &Withdrawal{
		ID:      s.ids.NewID(),
		UserID:  userID,
		Amount:  p.Amount,
		Method:  p.Method,
		Details: p.Details,
		Status:  StatusPending,
	}

	if _, err := s.ledger.Debit(ctx, userID, p.Amount, ledger.Memo{
		ReferenceID: "withdrawal:" + w.ID,
		Description: "withdrawal requested",
	}); err != nil {
		return nil, err
	}

	if err := s.withdrawals.Create(ctx, w); err != nil {
		log.Error("failed to record withdrawal, refunding", zap.Error(err))
		if _, cerr := s.ledger.Credit(ctx, userID, p.Amount, ledger.Affects{}, ledger.Memo{
			ReferenceID: "withdrawal:" + w.ID,
			Description: "withdrawal request failed",
		}); cerr != nil {
			log.Error("withdrawal refund failed", zap.Error(cerr))
		}
		return nil, errutil.Internal("failed to create withdrawal", err)
	}

	log.Info("withdrawal requested", zap.String("withdrawal_id", w.ID))
	return w, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Withdrawal, error) {
	w, err := s.withdrawals.FindByID(ctx, id)
	if err != nil {
		return nil, errutil.Internal("failed to load withdrawal", err)
	}
	if w == nil {
		return nil, errutil.NotFound("withdrawal not found", nil)
	}
	return w, nil
}

// pending loads id and checks it is a well-formed withdrawal still awaiting a decision.
func (s *Service) pending(ctx context.Context, id string) (*Withdrawal, error) {
	w, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if w.UserID == "" || w.Amount <= 0 {
		return nil, errutil.InvalidRecord("Invalid withdrawal record")
	}
	if w.Status != StatusPending {
		return nil, errutil.InvalidTransition(fmt.Sprintf("withdrawal is already %s", w.Status))
	}
	return w, nil
}

func (s *Service) transition(ctx context.Context, w *Withdrawal, from, to Status) error {
	now := s.clock.Now()
	fields := map[string]any{"status": to, "processed_at": &now}
	if to == StatusPending {
		fields["processed_at"] = nil
	}
	rows, err := s.withdrawals.UpdateWhere(ctx, w.ID, map[string]any{"status": from}, fields)
	if err != nil {
		return errutil.Internal("failed to update withdrawal", err)
	}
	if rows == 0 {
		return errutil.InvalidTransition("withdrawal was decided concurrently")
	}
	w.Status = to
	if to == StatusPending {
		w.ProcessedAt = nil
	} else {
		w.ProcessedAt = &now
	}
	return nil
}

// Approve finalizes a pending withdrawal. The funds already left the balance at request time.
func (s *Service) Approve(ctx context.Context, id string) (*Withdrawal, error) {
	w, err := s.pending(ctx, id)
	if err != nil {
		return nil, err
	}

	err = s.transition(ctx, w, StatusPending, StatusApproved)
	metrics.RecordDecision("withdrawal", "approved", err)
	if err != nil {
		return nil, err
	}

	s.emitter.Append(ctx, w.UserID, notification.TypeWithdrawalApproved,
		fmt.Sprintf("Your withdrawal of ₹%d has been approved.", w.Amount))
	logger.Ctx(ctx).Info("withdrawal approved", zap.String("withdrawal_id", id), zap.String("user_id", w.UserID))
	return w, nil
}

// Reject closes a pending withdrawal and returns its amount to the balance. A failed refund
// puts the withdrawal back to Pending so the decision can be retried.
func (s *Service) Reject(ctx context.Context, id string) (*Withdrawal, error) {
	log := logger.Ctx(ctx).With(zap.String("withdrawal_id", id))

	w, err := s.pending(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.transition(ctx, w, StatusPending, StatusRejected); err != nil {
		metrics.RecordDecision("withdrawal", "rejected", err)
		return nil, err
	}

	_, err = s.ledger.Credit(ctx, w.UserID, w.Amount, ledger.Affects{}, ledger.Memo{
		ReferenceID: "withdrawal:" + w.ID,
		Description: "withdrawal rejected",
	})
	metrics.RecordDecision("withdrawal", "rejected", err)
	if err != nil {
		if rerr := s.transition(ctx, w, StatusRejected, StatusPending); rerr != nil {
			log.Error("failed to revert withdrawal rejection", zap.Error(rerr))
		}
		log.Warn("withdrawal refund failed", zap.Error(err))
		return nil, err
	}

	s.emitter.Append(ctx, w.UserID, notification.TypeWithdrawalRejected,
		fmt.Sprintf("Your withdrawal of ₹%d was rejected. Amount has been added back to your balance.", w.Amount))
	log.Info("withdrawal rejected", zap.String("user_id", w.UserID))
	return w, nil
}

// ListMine returns the user's latest withdrawals.
func (s *Service) ListMine(ctx context.Context, userID string) ([]*Withdrawal, error) {
	out, err := s.withdrawals.Find(ctx, &Withdrawal{UserID: userID},
		option.WithSortBy(option.QuerySortBy{SortBy: "created_at", OrderBy: "desc"}),
		option.ApplyPagination(pagination.Pagination{Limit: listLimit}),
	)
	if err != nil {
		return nil, errutil.Internal("failed to load withdrawals", err)
	}
	return out, nil
}

// ListByStatus is the admin queue. An empty status means Pending.
func (s *Service) ListByStatus(ctx context.Context, status string) ([]*Withdrawal, error) {
	if status == "" {
		status = string(StatusPending)
	}
	st, ok := ParseStatus(status)
	if !ok {
		return nil, errutil.InvalidStatus("unknown withdrawal status")
	}
	out, err := s.withdrawals.Find(ctx, &Withdrawal{Status: st},
		option.WithSortBy(option.QuerySortBy{SortBy: "created_at", OrderBy: "asc"}),
	)
	if err != nil {
		return nil, errutil.Internal("failed to load withdrawals", err)
	}
	return out, nil
}

// Balance is the withdrawable amount.
func (s *Service) Balance(ctx context.Context, userID string) (int64, error) {
	b, err := s.ledger.Balance(ctx, userID)
	if err != nil {
		return 0, err
	}
	return b.TotalEarning, nil
}

func (s *Service) CountPending(ctx context.Context) (int64, error) {
	return s.withdrawals.Count(ctx, &Withdrawal{Status: StatusPending})
}
