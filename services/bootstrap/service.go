package bootstrap

import (
	"context"
	"fmt"

	"growpreen/pkg/config"
	"growpreen/pkg/gen"
	"growpreen/pkg/repository"
	"growpreen/services/ledger"
	"growpreen/services/notification"
	"growpreen/services/payment"
	"growpreen/services/referral"
	"growpreen/services/task"
	"growpreen/services/withdrawal"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Models lists every table the program owns.
func Models() []any {
	return []any{
		&ledger.User{},
		&ledger.LedgerEntry{},
		&payment.Payment{},
		&task.Template{},
		&task.Submission{},
		&withdrawal.Withdrawal{},
		&referral.Referral{},
		&notification.Notification{},
	}
}

// DefaultTemplates is the starter catalogue written into an empty template table.
var DefaultTemplates = []task.Template{
	{Title: "Follow our Instagram page", Description: "Follow the page and upload a screenshot.", RewardAmount: 10, Period: task.PeriodOneTime, ActionType: "FOLLOW"},
	{Title: "Share today's post", Description: "Share the pinned post to your story.", RewardAmount: 5, Period: task.PeriodDaily, ActionType: "SHARE"},
	{Title: "Monthly review", Description: "Write a short review of the program.", RewardAmount: 25, Period: task.PeriodMonthly, ActionType: "REVIEW"},
}

type Service struct {
	db        *gorm.DB
	config    *config.Config
	ids       gen.IDGenerator
	templates repository.Repository[task.Template]
}

type ServiceParams struct {
	fx.In
	DB     *gorm.DB
	Config *config.Config
	IDs    gen.IDGenerator
}

func NewService(p ServiceParams) *Service {
	return &Service{
		db:        p.DB,
		config:    p.Config,
		ids:       p.IDs,
		templates: repository.ProvideStore[task.Template](p.DB),
	}
}

func (s *Service) Migrate() error {
	if !s.config.Database.AutoMigrate {
		zap.L().Info("[bootstrap] auto migrate disabled")
		return nil
	}
	if err := s.db.AutoMigrate(Models()...); err != nil {
		zap.L().Error("[bootstrap] auto migrate failed", zap.Error(err))
		return fmt.Errorf("auto migrate: %w", err)
	}
	zap.L().Info("[bootstrap] schema migrated")
	return nil
}

// SeedTemplates writes tpls only when no template exists yet and reports how many were written.
func (s *Service) SeedTemplates(ctx context.Context, tpls []task.Template) (int, error) {
	n, err := s.templates.Count(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("count templates: %w", err)
	}
	if n > 0 {
		zap.L().Info("[bootstrap] templates already present, skipping seed", zap.Int64("count", n))
		return 0, nil
	}

	rows := make([]*task.Template, 0, len(tpls))
	for _, t := range tpls {
		t.ID = s.ids.NewID()
		t.IsActive = true
		if t.Period == "" {
			t.Period = task.PeriodOneTime
		}
		if t.ActionType == "" {
			t.ActionType = task.DefaultActionType
		}
		rows = append(rows, &t)
	}
	if err := s.templates.BatchCreate(ctx, rows); err != nil {
		return 0, fmt.Errorf("seed templates: %w", err)
	}
	zap.L().Info("[bootstrap] templates seeded", zap.Int("count", len(rows)))
	return len(rows), nil
}
