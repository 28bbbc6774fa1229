package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"growpreen/pkg/calendar"
	"growpreen/pkg/db/option"
	"growpreen/pkg/errutil"
	"growpreen/pkg/gen"
	"growpreen/pkg/lock"
	"growpreen/pkg/logger"
	"growpreen/pkg/metrics"
	"growpreen/pkg/rediskey"
	"growpreen/pkg/repository"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// maxAttempts bounds the version-check retries of one mutation.
const maxAttempts = 3

type Period string

const (
	PeriodDaily   Period = "daily"
	PeriodMonthly Period = "monthly"
)

// Affects selects which period buckets a credit also lands in. Total is always affected.
type Affects struct {
	Daily   bool
	Monthly bool
}

var AllPeriods = Affects{Daily: true, Monthly: true}

// Memo describes why a mutation happened. It ends up on the ledger entry.
type Memo struct {
	ReferenceID string
	Description string
	Metadata    map[string]any
}

// Change is one serialized mutation of a user's ledger state.
type Change struct {
	Credit  int64
	Debit   int64
	Affects Affects
	Reset   Period
	Memo    Memo

	// Profile edits non-balance fields (referral counter, reel unlock, new-user flag)
	// in the same write. Edits to any other field are discarded.
	Profile func(u *User)
}

func (c Change) op() string {
	switch {
	case c.Credit > 0:
		return "credit"
	case c.Debit > 0:
		return "debit"
	case c.Reset != "":
		return "reset_" + string(c.Reset)
	default:
		return "adjust"
	}
}

func (c Change) validate() error {
	if c.Credit < 0 || c.Debit < 0 {
		return errutil.BadRequest("amount must be positive", nil)
	}
	if c.Credit > 0 && c.Debit > 0 {
		return errutil.BadRequest("credit and debit cannot be combined", nil)
	}
	switch c.Reset {
	case "", PeriodDaily, PeriodMonthly:
	default:
		return errutil.BadRequest("unknown period", nil)
	}
	return nil
}

// apply computes the next state from u. It never touches identity or profile fields.
func (c Change) apply(u User) (User, error) {
	next := u

	if c.Debit > 0 {
		if c.Debit > u.TotalEarning {
			return u, errutil.InsufficientBalance("insufficient funds",
				errutil.WithDetails(errutil.Detail{Field: "amount", Message: fmt.Sprintf("balance is %d", u.TotalEarning)}))
		}
		next.TotalEarning -= c.Debit
	}

	if c.Credit > 0 {
		next.TotalEarning += c.Credit
		if c.Affects.Daily {
			next.DailyEarning += c.Credit
		}
		if c.Affects.Monthly {
			next.MonthlyEarning += c.Credit
		}
	}

	switch c.Reset {
	case PeriodDaily:
		next.DailyEarning = 0
	case PeriodMonthly:
		next.MonthlyEarning = 0
	}

	if c.Profile != nil {
		scratch := next
		c.Profile(&scratch)
		if scratch.ReferralsCompleted < 0 {
			return u, errutil.InvalidRecord("referral count cannot be negative")
		}
		next.ReferralsCompleted = scratch.ReferralsCompleted
		next.ReelTaskUnlocked = u.ReelTaskUnlocked || scratch.ReelTaskUnlocked
		next.IsNewUser = scratch.IsNewUser
	}

	return next, nil
}

func ledgerFields(u User) map[string]any {
	return map[string]any{
		"daily_earning":       u.DailyEarning,
		"monthly_earning":     u.MonthlyEarning,
		"total_earning":       u.TotalEarning,
		"referrals_completed": u.ReferralsCompleted,
		"reel_task_unlocked":  u.ReelTaskUnlocked,
		"is_new_user":         u.IsNewUser,
	}
}

type Service struct {
	db      *gorm.DB
	users   repository.Repository[User]
	entries repository.Repository[LedgerEntry]
	locker  lock.Locker
	ids     gen.IDGenerator
	clock   calendar.Clock
}

type ServiceParams struct {
	fx.In
	DB     *gorm.DB
	Locker lock.Locker
	IDs    gen.IDGenerator
	Clock  calendar.Clock `optional:"true"`
}

func NewService(p ServiceParams) *Service {
	clock := p.Clock
	if clock == nil {
		clock = calendar.SystemClock{}
	}
	return &Service{
		db:      p.DB,
		users:   repository.ProvideStore[User](p.DB),
		entries: repository.ProvideStore[LedgerEntry](p.DB),
		locker:  p.Locker,
		ids:     p.IDs,
		clock:   clock,
	}
}

// Apply runs c as one read-modify-write under the user's lock, guarded by the row version.
func (s *Service) Apply(ctx context.Context, userID string, c Change) (*User, error) {
	log := logger.Ctx(ctx).With(zap.String("user_id", userID), zap.String("op", c.op()))

	if err := c.validate(); err != nil {
		return nil, err
	}

	var out *User
	err := lock.Do(ctx, s.locker, rediskey.BuildUserLockKey(userID), func(ctx context.Context) error {
		for attempt := 0; attempt < maxAttempts; attempt++ {
			current, err := s.users.FindByID(ctx, userID)
			if err != nil {
				return errutil.Internal("failed to load user", err)
			}
			if current == nil {
				return errutil.NotFound("user not found", nil)
			}

			next, err := c.apply(*current)
			if err != nil {
				return err
			}

			fields := ledgerFields(next)
			fields["version"] = current.Version + 1
			rows, err := s.users.UpdateWhere(ctx, userID, map[string]any{"version": current.Version}, fields)
			if err != nil {
				return errutil.Internal("failed to write user ledger", err)
			}
			if rows == 0 {
				metrics.RecordLedgerRetry()
				log.Warn("ledger version conflict, retrying", zap.Int("attempt", attempt+1))
				continue
			}

			next.Version = current.Version + 1
			out = &next
			s.appendEntry(ctx, current, &next, c)
			return nil
		}
		return errutil.ConcurrentUpdate("user ledger changed concurrently", nil)
	})
	if errors.Is(err, lock.ErrNotAcquired) {
		err = errutil.ConcurrentUpdate("user ledger is busy, try again", err)
	}

	metrics.RecordLedger(c.op(), err)
	if err != nil {
		log.Debug("ledger change rejected", zap.Error(err))
		return nil, err
	}
	return out, nil
}

// Credit adds amount to the total and the selected period buckets.
func (s *Service) Credit(ctx context.Context, userID string, amount int64, affects Affects, memo Memo) (*User, error) {
	if amount <= 0 {
		return nil, errutil.BadRequest("amount must be greater than zero", nil)
	}
	return s.Apply(ctx, userID, Change{Credit: amount, Affects: affects, Memo: memo})
}

// Debit removes amount from the withdrawable total.
func (s *Service) Debit(ctx context.Context, userID string, amount int64, memo Memo) (*User, error) {
	if amount <= 0 {
		return nil, errutil.BadRequest("amount must be greater than zero", nil)
	}
	return s.Apply(ctx, userID, Change{Debit: amount, Memo: memo})
}

// Adjust edits non-balance ledger fields under the same serialization as balance writes.
func (s *Service) Adjust(ctx context.Context, userID string, fn func(u *User)) (*User, error) {
	return s.Apply(ctx, userID, Change{Profile: fn})
}

func (s *Service) ResetPeriod(ctx context.Context, userID string, period Period) (*User, error) {
	if period == "" {
		return nil, errutil.BadRequest("period is required", nil)
	}
	return s.Apply(ctx, userID, Change{Reset: period, Memo: Memo{Description: "period rollover"}})
}

func (s *Service) Get(ctx context.Context, userID string) (*User, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, errutil.Internal("failed to load user", err)
	}
	if u == nil {
		return nil, errutil.NotFound("user not found", nil)
	}
	return u, nil
}

func (s *Service) Balance(ctx context.Context, userID string) (*Balance, error) {
	u, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Balance{
		UserID:         u.ID,
		DailyEarning:   u.DailyEarning,
		MonthlyEarning: u.MonthlyEarning,
		TotalEarning:   u.TotalEarning,
	}, nil
}

// UsersWithEarnings lists ids of users whose period bucket is non-zero.
func (s *Service) UsersWithEarnings(ctx context.Context, period Period) ([]string, error) {
	field := "daily_earning"
	if period == PeriodMonthly {
		field = "monthly_earning"
	}
	users, err := s.users.Find(ctx, nil, option.ApplyOperator(option.Condition{
		Field:    field,
		Operator: option.NEQ,
		Value:    0,
	}))
	if err != nil {
		return nil, errutil.Internal("failed to list users", err)
	}
	ids := make([]string, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	return ids, nil
}

// TotalBalance sums the withdrawable balance of every user.
func (s *Service) TotalBalance(ctx context.Context) (int64, error) {
	var total int64
	err := s.db.WithContext(ctx).Model(&User{}).
		Select("COALESCE(SUM(total_earning), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, errutil.Internal("failed to sum balances", err)
	}
	return total, nil
}

func (s *Service) Entries(ctx context.Context, userID string) ([]*LedgerEntry, error) {
	entries, err := s.entries.Find(ctx, &LedgerEntry{UserID: userID}, option.WithSortBy(option.QuerySortBy{
		SortBy:  "seq",
		OrderBy: "asc",
	}))
	if err != nil {
		return nil, errutil.Internal("failed to list ledger entries", err)
	}
	return entries, nil
}

// VerifyChain re-hashes every entry of the user and checks the links.
func (s *Service) VerifyChain(ctx context.Context, userID string) (*ChainReport, error) {
	entries, err := s.Entries(ctx, userID)
	if err != nil {
		return nil, err
	}

	report := &ChainReport{UserID: userID, Entries: len(entries), Valid: true}
	previous := genesisHash
	for _, e := range entries {
		if e.PreviousHash != previous || e.GenerateHash() != e.Hash {
			report.Valid = false
			report.BrokenAt = e.Seq
			break
		}
		previous = e.Hash
	}
	return report, nil
}

// appendEntry records the mutation. Failures are logged and do not undo the balance write.
func (s *Service) appendEntry(ctx context.Context, before, after *User, c Change) {
	log := logger.Ctx(ctx).With(zap.String("user_id", after.ID))

	var (
		typ    EntryType
		amount int64
	)
	switch {
	case c.Credit > 0:
		typ, amount = EntryCredit, c.Credit
	case c.Debit > 0:
		typ, amount = EntryDebit, c.Debit
	case c.Reset == PeriodDaily && before.DailyEarning != 0:
		typ, amount = EntryResetDaily, before.DailyEarning
	case c.Reset == PeriodMonthly && before.MonthlyEarning != 0:
		typ, amount = EntryResetMonthly, before.MonthlyEarning
	default:
		return
	}

	last, err := s.entries.FindOne(ctx, &LedgerEntry{UserID: after.ID}, option.WithSortBy(option.QuerySortBy{
		SortBy:  "seq",
		OrderBy: "desc",
	}))
	if err != nil {
		log.Error("failed to load last ledger entry", zap.Error(err))
		return
	}

	now := s.clock.Now().UTC().Truncate(time.Millisecond)
	txID, err := GenerateTransactionID(now)
	if err != nil {
		log.Error("failed to generate transaction id", zap.Error(err))
		return
	}

	entry := &LedgerEntry{
		ID:            s.ids.NewID(),
		UserID:        after.ID,
		Seq:           1,
		Type:          typ,
		Amount:        amount,
		BalanceAfter:  after.TotalEarning,
		TransactionID: txID,
		ReferenceID:   c.Memo.ReferenceID,
		Description:   c.Memo.Description,
		PreviousHash:  genesisHash,
		CreatedAt:     now,
	}
	if last != nil {
		entry.Seq = last.Seq + 1
		entry.PreviousHash = last.Hash
	}
	if len(c.Memo.Metadata) > 0 {
		if b, err := json.Marshal(c.Memo.Metadata); err == nil {
			entry.Metadata = datatypes.JSON(b)
		}
	}
	entry.Hash = entry.GenerateHash()

	if err := s.entries.Create(ctx, entry); err != nil {
		log.Error("failed to append ledger entry", zap.String("type", string(typ)), zap.Error(err))
	}
}

// FindByRefCode returns nil when no user owns code.
func (s *Service) FindByRefCode(ctx context.Context, code string) (*User, error) {
	if code == "" {
		return nil, nil
	}
	u, err := s.users.FindOne(ctx, &User{MyRefCode: code})
	if err != nil {
		return nil, errutil.Internal("failed to resolve referral code", err)
	}
	return u, nil
}
