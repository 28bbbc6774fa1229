package payment

import (
	"context"
	"strings"
	"time"

	"growpreen/pkg/calendar"
	"growpreen/pkg/db/option"
	"growpreen/pkg/errutil"
	"growpreen/pkg/gen"
	"growpreen/pkg/logger"
	"growpreen/pkg/metrics"
	"growpreen/pkg/repository"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service gates registration eligibility. Payment decisions never move money.
type Service struct {
	payments repository.Repository[Payment]
	ids      gen.IDGenerator
	clock    calendar.Clock
}

type ServiceParams struct {
	fx.In
	DB    *gorm.DB
	IDs   gen.IDGenerator
	Clock calendar.Clock `optional:"true"`
}

func NewService(p ServiceParams) *Service {
	clock := p.Clock
	if clock == nil {
		clock = calendar.SystemClock{}
	}
	return &Service{
		payments: repository.ProvideStore[Payment](p.DB),
		ids:      p.IDs,
		clock:    clock,
	}
}

func (s *Service) Create(ctx context.Context, p CreateParams) (*Payment, error) {
	p.Mobile = strings.TrimSpace(p.Mobile)
	p.UTR = strings.TrimSpace(p.UTR)
	p.RefCode = strings.ToUpper(strings.TrimSpace(p.RefCode))

	var details []errutil.Detail
	if p.Mobile == "" {
		details = append(details, errutil.Detail{Field: "mobile", Message: "mobile is required"})
	}
	if p.Amount <= 0 {
		details = append(details, errutil.Detail{Field: "amount", Message: "amount must be greater than zero"})
	}
	if p.UTR == "" {
		details = append(details, errutil.Detail{Field: "utr", Message: "utr is required"})
	}
	if len(details) > 0 {
		return nil, errutil.BadRequest("invalid payment", nil, errutil.WithDetails(details...))
	}

	payment := &Payment{
		ID:      s.ids.NewID(),
		Mobile:  p.Mobile,
		Amount:  p.Amount,
		UTR:     p.UTR,
		RefCode: p.RefCode,
		Status:  StatusPending,
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, errutil.Internal("failed to create payment", err)
	}

	logger.Ctx(ctx).Info("payment submitted", zap.String("payment_id", payment.ID), zap.String("mobile", payment.Mobile))
	return payment, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Payment, error) {
	p, err := s.payments.FindByID(ctx, id)
	if err != nil {
		return nil, errutil.Internal("failed to load payment", err)
	}
	if p == nil {
		return nil, errutil.NotFound("payment not found", nil)
	}
	return p, nil
}

// SetStatus is the unguarded admin override: any of the three states, written as-is.
func (s *Service) SetStatus(ctx context.Context, id string, target string) (*Payment, error) {
	status, ok := ParseStatus(target)
	if !ok {
		return nil, errutil.InvalidStatus("status must be Pending, Approved or Rejected",
			errutil.WithDetails(errutil.Detail{Field: "status", Message: target}))
	}

	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.payments.Update(ctx, id, stamp(p, status, s.clock.Now())); err != nil {
		return nil, errutil.Internal("failed to update payment", err)
	}

	metrics.RecordDecision("payment", "set_"+strings.ToLower(string(status)), nil)
	logger.Ctx(ctx).Info("payment status overridden", zap.String("payment_id", id), zap.String("status", string(status)))
	return p, nil
}

// Approve is the guarded transition. Approving an approved payment is a no-op.
func (s *Service) Approve(ctx context.Context, id string) (*Payment, error) {
	return s.decide(ctx, id, StatusApproved)
}

// Reject is the guarded transition. Rejecting a rejected payment is a no-op.
func (s *Service) Reject(ctx context.Context, id string) (*Payment, error) {
	return s.decide(ctx, id, StatusRejected)
}

// stamp moves p to target and returns the columns to write. Only the timestamp of the
// current state is kept; Pending clears both.
func stamp(p *Payment, target Status, now time.Time) map[string]any {
	fields := map[string]any{"status": target, "approved_at": nil, "rejected_at": nil}
	p.Status, p.ApprovedAt, p.RejectedAt = target, nil, nil
	switch target {
	case StatusApproved:
		fields["approved_at"] = now
		p.ApprovedAt = &now
	case StatusRejected:
		fields["rejected_at"] = now
		p.RejectedAt = &now
	}
	return fields
}

func (s *Service) decide(ctx context.Context, id string, target Status) (*Payment, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Status == target {
		return p, nil
	}

	err = s.payments.Update(ctx, id, stamp(p, target, s.clock.Now()))
	metrics.RecordDecision("payment", strings.ToLower(string(target)), err)
	if err != nil {
		return nil, errutil.Internal("failed to update payment", err)
	}

	logger.Ctx(ctx).Info("payment decided", zap.String("payment_id", id), zap.String("status", string(target)))
	return p, nil
}

// List returns payments in the given state, newest first. "" or All lists everything.
func (s *Service) List(ctx context.Context, status string) ([]*Payment, error) {
	var query *Payment
	if status != "" && status != StatusAll {
		st, ok := ParseStatus(status)
		if !ok {
			return nil, errutil.InvalidStatus("unknown payment status")
		}
		query = &Payment{Status: st}
	}

	out, err := s.payments.Find(ctx, query, option.WithSortBy(option.QuerySortBy{SortBy: "created_at", OrderBy: "desc"}))
	if err != nil {
		return nil, errutil.Internal("failed to list payments", err)
	}
	return out, nil
}

func (s *Service) HasApproved(ctx context.Context, mobile string) (bool, error) {
	n, err := s.payments.Count(ctx, &Payment{Mobile: mobile, Status: StatusApproved})
	if err != nil {
		return false, errutil.Internal("failed to check payment", err)
	}
	return n > 0, nil
}

// FindReferralPayment returns the oldest payment for mobile that carries a referral code.
func (s *Service) FindReferralPayment(ctx context.Context, mobile string) (*Payment, error) {
	p, err := s.payments.FindOne(ctx, &Payment{Mobile: mobile},
		option.ApplyOperator(option.Condition{Field: "ref_code", Operator: option.NEQ, Value: ""}),
		option.WithSortBy(option.QuerySortBy{SortBy: "created_at", OrderBy: "asc"}),
	)
	if err != nil {
		return nil, errutil.Internal("failed to load referral payment", err)
	}
	return p, nil
}

func (s *Service) CountPending(ctx context.Context) (int64, error) {
	return s.payments.Count(ctx, &Payment{Status: StatusPending})
}
