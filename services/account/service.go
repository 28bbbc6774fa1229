package account

import (
	"context"
	"errors"
	"strings"

	"growpreen/pkg/db/option"
	"growpreen/pkg/db/pagination"
	"growpreen/pkg/errutil"
	"growpreen/pkg/gen"
	"growpreen/pkg/lock"
	"growpreen/pkg/logger"
	"growpreen/pkg/rediskey"
	"growpreen/pkg/repository"
	"growpreen/pkg/sequence"
	"growpreen/services/ledger"
	"growpreen/services/payment"
	"growpreen/services/referral"
	"growpreen/services/withdrawal"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const (
	DefaultBcryptCost = 12
	minPasswordLength = 6
	refCodeAttempts   = 5
)

type Service struct {
	users       repository.Repository[ledger.User]
	ledger      *ledger.Service
	payments    *payment.Service
	withdrawals *withdrawal.Service
	referrals   *referral.Service
	codes       sequence.Generator
	locker      lock.Locker
	ids         gen.IDGenerator
	bcryptCost  int
}

type ServiceParams struct {
	fx.In
	DB          *gorm.DB
	Ledger      *ledger.Service
	Payments    *payment.Service
	Withdrawals *withdrawal.Service
	Referrals   *referral.Service
	Codes       sequence.Generator
	Locker      lock.Locker
	IDs         gen.IDGenerator
}

func NewService(p ServiceParams) *Service {
	return &Service{
		users:       repository.ProvideStore[ledger.User](p.DB),
		ledger:      p.Ledger,
		payments:    p.Payments,
		withdrawals: p.Withdrawals,
		referrals:   p.Referrals,
		codes:       p.Codes,
		locker:      p.Locker,
		ids:         p.IDs,
		bcryptCost:  DefaultBcryptCost,
	}
}

func (p RegisterParams) validate() error {
	var details []errutil.Detail
	if p.Mobile == "" {
		details = append(details, errutil.Detail{Field: "mobile", Message: "mobile is required"})
	}
	if len(p.Password) < minPasswordLength {
		details = append(details, errutil.Detail{Field: "password", Message: "password must be at least 6 characters"})
	}
	if p.Name == "" {
		details = append(details, errutil.Detail{Field: "name", Message: "name is required"})
	}
	if p.Age < 0 {
		details = append(details, errutil.Detail{Field: "age", Message: "age cannot be negative"})
	}
	if len(details) > 0 {
		return errutil.BadRequest("invalid registration", nil, errutil.WithDetails(details...))
	}
	return nil
}

// Register creates the member behind an approved payment and then credits whoever referred them.
// A failed referral is logged and never undoes the registration.
func (s *Service) Register(ctx context.Context, p RegisterParams) (*ledger.User, error) {
	p.Mobile = strings.TrimSpace(p.Mobile)
	p.Name = strings.TrimSpace(p.Name)
	if err := p.validate(); err != nil {
		return nil, err
	}

	log := logger.Ctx(ctx).With(zap.String("mobile", p.Mobile))

	ok, err := s.payments.HasApproved(ctx, p.Mobile)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errutil.PaymentNotApproved("Payment not approved yet")
	}

	var user *ledger.User
	err = lock.Do(ctx, s.locker, rediskey.BuildLockKey("register:"+p.Mobile), func(ctx context.Context) error {
		existing, err := s.users.FindOne(ctx, &ledger.User{Mobile: p.Mobile})
		if err != nil {
			return errutil.Internal("failed to check user", err)
		}
		if existing != nil {
			return errutil.AlreadyExists("User already exists")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(p.Password), s.bcryptCost)
		if err != nil {
			return errutil.Internal("failed to hash password", err)
		}
		code, err := s.uniqueRefCode(ctx)
		if err != nil {
			return err
		}

		user = &ledger.User{
			ID:               s.ids.NewID(),
			Mobile:           p.Mobile,
			PasswordHash:     string(hash),
			Name:             p.Name,
			Age:              p.Age,
			Gender:           p.Gender,
			Qualification:    p.Qualification,
			Approved:         true,
			IsNewUser:        true,
			ReelTaskUnlocked: true,
			MyRefCode:        code,
		}
		if err := s.users.Create(ctx, user); err != nil {
			return errutil.Internal("failed to create user", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, lock.ErrNotAcquired) {
			return nil, errutil.ConcurrentUpdate("registration in progress", err)
		}
		return nil, err
	}
	log.Info("user registered", zap.String("user_id", user.ID))

	s.applyReferral(ctx, user)
	return user, nil
}

func (s *Service) applyReferral(ctx context.Context, user *ledger.User) {
	log := logger.Ctx(ctx).With(zap.String("user_id", user.ID))

	pay, err := s.payments.FindReferralPayment(ctx, user.Mobile)
	if err != nil {
		log.Warn("referral lookup failed", zap.Error(err))
		return
	}
	if pay == nil {
		return
	}
	if _, _, err := s.referrals.RecordRegistration(ctx, pay.RefCode, user.ID); err != nil {
		log.Warn("referral credit failed", zap.String("ref_code", pay.RefCode), zap.Error(err))
	}
}

func (s *Service) uniqueRefCode(ctx context.Context) (string, error) {
	for i := 0; i < refCodeAttempts; i++ {
		code, err := s.codes.NextReferralCode(ctx)
		if err != nil {
			return "", errutil.Internal("failed to generate referral code", err)
		}
		taken, err := s.users.FindOne(ctx, &ledger.User{MyRefCode: code})
		if err != nil {
			return "", errutil.Internal("failed to check referral code", err)
		}
		if taken == nil {
			return code, nil
		}
	}
	return "", errutil.Internal("could not allocate a referral code", nil)
}

// Authenticate checks credentials for the gateway that issues sessions.
func (s *Service) Authenticate(ctx context.Context, p LoginParams) (*ledger.User, error) {
	u, err := s.users.FindOne(ctx, &ledger.User{Mobile: strings.TrimSpace(p.Mobile)})
	if err != nil {
		return nil, errutil.Internal("failed to load user", err)
	}
	if u == nil {
		return nil, errutil.Unauthorized("invalid mobile or password", nil)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(p.Password)); err != nil {
		return nil, errutil.Unauthorized("invalid mobile or password", nil)
	}
	if !u.Approved {
		return nil, errutil.Forbidden("User not approved", nil)
	}
	return u, nil
}

func (s *Service) Me(ctx context.Context, userID string) (*Profile, error) {
	u, err := s.ledger.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return profileOf(u), nil
}

func (s *Service) GetPayout(ctx context.Context, userID string) (*ledger.Payout, error) {
	u, err := s.ledger.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &u.Payout, nil
}

func validatePayout(p ledger.Payout) error {
	var details []errutil.Detail
	switch p.Method {
	case ledger.PayoutUPI:
		if p.UpiID == "" {
			details = append(details, errutil.Detail{Field: "upiId", Message: "upiId is required for UPI"})
		}
	case ledger.PayoutBank:
		if p.AccountNumber == "" {
			details = append(details, errutil.Detail{Field: "accountNumber", Message: "accountNumber is required for BANK"})
		}
		if p.IFSC == "" {
			details = append(details, errutil.Detail{Field: "ifsc", Message: "ifsc is required for BANK"})
		}
	default:
		details = append(details, errutil.Detail{Field: "method", Message: "method must be UPI or BANK"})
	}
	if len(details) > 0 {
		return errutil.BadRequest("invalid payout profile", nil, errutil.WithDetails(details...))
	}
	return nil
}

// UpdatePayout replaces the payout profile. Fields of the other method are cleared.
func (s *Service) UpdatePayout(ctx context.Context, userID string, p ledger.Payout) (*ledger.Payout, error) {
	p.Method = ledger.PayoutMethod(strings.ToUpper(strings.TrimSpace(string(p.Method))))
	if err := validatePayout(p); err != nil {
		return nil, err
	}
	if p.Method == ledger.PayoutUPI {
		p.BankName, p.AccountNumber, p.IFSC, p.AccountHolder = "", "", "", ""
	} else {
		p.UpiName, p.UpiMobile, p.UpiID = "", "", ""
	}

	if _, err := s.ledger.Get(ctx, userID); err != nil {
		return nil, err
	}
	err := s.users.Update(ctx, userID, map[string]any{
		"payout_method":         p.Method,
		"payout_upi_name":       p.UpiName,
		"payout_upi_mobile":     p.UpiMobile,
		"payout_upi_id":         p.UpiID,
		"payout_bank_name":      p.BankName,
		"payout_account_number": p.AccountNumber,
		"payout_ifsc":           p.IFSC,
		"payout_account_holder": p.AccountHolder,
	})
	if err != nil {
		return nil, errutil.Internal("failed to save payout profile", err)
	}
	return &p, nil
}

func (s *Service) ListUsers(ctx context.Context, page pagination.Pagination) ([]*ledger.User, error) {
	page = page.Normalize(pagination.DefaultLimit)
	out, err := s.users.Find(ctx, nil,
		option.WithSortBy(option.QuerySortBy{SortBy: "created_at", OrderBy: "desc"}),
		option.ApplyPagination(page),
	)
	if err != nil {
		return nil, errutil.Internal("failed to list users", err)
	}
	return out, nil
}

func (s *Service) Summary(ctx context.Context) (*Summary, error) {
	var out Summary
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := s.users.Count(gctx, nil)
		out.TotalUsers = n
		return err
	})
	g.Go(func() error {
		total, err := s.ledger.TotalBalance(gctx)
		out.TotalUserBalance = total
		return err
	})
	g.Go(func() error {
		n, err := s.payments.CountPending(gctx)
		out.PendingPayments = n
		return err
	})
	g.Go(func() error {
		n, err := s.withdrawals.CountPending(gctx)
		out.PendingWithdrawals = n
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, errutil.Internal("failed to load summary", err)
	}
	return &out, nil
}
