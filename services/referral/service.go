package referral

import (
	"context"
	"errors"
	"fmt"
	"time"

	"growpreen/pkg/calendar"
	"growpreen/pkg/config"
	"growpreen/pkg/errutil"
	"growpreen/pkg/gen"
	"growpreen/pkg/lock"
	"growpreen/pkg/logger"
	"growpreen/pkg/rediskey"
	"growpreen/pkg/repository"
	"growpreen/services/ledger"
	"growpreen/services/notification"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	referrals repository.Repository[Referral]
	ledger    *ledger.Service
	emitter   notification.Emitter
	locker    lock.Locker
	ids       gen.IDGenerator
	program   config.Program
	clock     calendar.Clock
	loc       *time.Location
}

type ServiceParams struct {
	fx.In
	DB      *gorm.DB
	Config  *config.Config
	Ledger  *ledger.Service
	Emitter notification.Emitter
	Locker  lock.Locker
	IDs     gen.IDGenerator
	Clock   calendar.Clock `optional:"true"`
}

func NewService(p ServiceParams) *Service {
	clock := p.Clock
	if clock == nil {
		clock = calendar.SystemClock{}
	}
	return &Service{
		referrals: repository.ProvideStore[Referral](p.DB),
		ledger:    p.Ledger,
		emitter:   p.Emitter,
		locker:    p.Locker,
		ids:       p.IDs,
		program:   p.Config.Program,
		clock:     clock,
		loc:       p.Config.Location(),
	}
}

// countAndUnlock bumps the referral counter and opens the reel task once the threshold is reached.
func (s *Service) countAndUnlock(u *ledger.User) {
	u.ReferralsCompleted++
	if u.ReferralsCompleted >= s.program.ReferralUnlockThreshold && !u.ReelTaskUnlocked {
		u.ReelTaskUnlocked = true
	}
}

// RecordRegistration credits the referrer behind code with the signup bonus, counts the
// referral and logs it. An unknown or empty code is a no-op and reports false.
func (s *Service) RecordRegistration(ctx context.Context, code, referredUserID string) (*Referral, bool, error) {
	log := logger.Ctx(ctx).With(zap.String("ref_code", code), zap.String("referred_user_id", referredUserID))

	referrer, err := s.ledger.FindByRefCode(ctx, code)
	if err != nil {
		return nil, false, err
	}
	if referrer == nil {
		log.Info("referral code not found, skipping")
		return nil, false, nil
	}
	if referrer.ID == referredUserID {
		log.Warn("self referral ignored")
		return nil, false, nil
	}

	ref, err := s.record(ctx, referrer.ID, referredUserID, SourceRegistration, ledger.Change{
		Credit: s.program.ReferralBonus,
		Memo: ledger.Memo{
			ReferenceID: "referral:" + referredUserID,
			Description: "referral signup bonus",
		},
		Profile: s.countAndUnlock,
	})
	if err != nil {
		return nil, false, err
	}

	s.emitter.Append(ctx, referrer.ID, notification.TypeReferralRecorded,
		fmt.Sprintf("A friend joined with your code. ₹%d bonus added to your balance.", s.program.ReferralBonus))
	log.Info("registration referral recorded", zap.String("referrer_user_id", referrer.ID))
	return ref, true, nil
}

// RecordSuccess counts and logs a referral without paying any bonus. A pair already in
// the log is refused.
func (s *Service) RecordSuccess(ctx context.Context, referrerUserID, referredUserID string) (*Referral, error) {
	if referrerUserID == "" {
		return nil, errutil.BadRequest("referrerUserId is required", nil)
	}

	var ref *Referral
	key := rediskey.BuildLockKey("referral:" + referrerUserID + ":" + referredUserID)
	err := lock.Do(ctx, s.locker, key, func(ctx context.Context) error {
		if referredUserID != "" {
			existing, err := s.referrals.FindOne(ctx, &Referral{ReferrerUserID: referrerUserID, ReferredUserID: referredUserID})
			if err != nil {
				return errutil.Internal("failed to check referral", err)
			}
			if existing != nil {
				return errutil.AlreadyExists("referral already recorded")
			}
		}

		var err error
		ref, err = s.record(ctx, referrerUserID, referredUserID, SourceDirect, ledger.Change{
			Profile: s.countAndUnlock,
		})
		return err
	})
	if err != nil {
		if errors.Is(err, lock.ErrNotAcquired) {
			return nil, errutil.ConcurrentUpdate("referral is being recorded", err)
		}
		return nil, err
	}

	s.emitter.Append(ctx, referrerUserID, notification.TypeReferralRecorded, "Your referral has been recorded.")
	return ref, nil
}

// record writes the log row, then applies change to the referrer. A failed ledger write
// removes the row again, so the counter and the log move together.
func (s *Service) record(ctx context.Context, referrerID, referredID string, source Source, change ledger.Change) (*Referral, error) {
	log := logger.Ctx(ctx).With(zap.String("referrer_user_id", referrerID), zap.String("referred_user_id", referredID))

	ref := &Referral{
		ID:             s.ids.NewID(),
		ReferrerUserID: referrerID,
		ReferredUserID: referredID,
		Status:         StatusSuccess,
		Month:          calendar.MonthOf(s.clock.Now(), s.loc),
		Source:         source,
	}
	if err := s.referrals.Create(ctx, ref); err != nil {
		log.Error("failed to write referral log", zap.Error(err))
		return nil, errutil.Internal("failed to record referral", err)
	}

	if _, err := s.ledger.Apply(ctx, referrerID, change); err != nil {
		if _, derr := s.referrals.Delete(context.WithoutCancel(ctx), ref.ID); derr != nil {
			log.Error("referral log row left behind after ledger failure",
				zap.String("referral_id", ref.ID), zap.Error(derr))
		}
		return nil, err
	}
	return ref, nil
}

// MonthlySummary reads the referral log for month. A zero month means the current one.
func (s *Service) MonthlySummary(ctx context.Context, userID string, month calendar.Month) (*Summary, error) {
	u, err := s.ledger.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if month.IsZero() {
		month = calendar.MonthOf(s.clock.Now(), s.loc)
	}

	count, err := s.referrals.Count(ctx, &Referral{
		ReferrerUserID: userID,
		Status:         StatusSuccess,
		Month:          month,
	})
	if err != nil {
		return nil, errutil.Internal("failed to count referrals", err)
	}

	summary := ComputeTier(int(count), s.program)
	summary.Month = month.String()
	summary.TotalCompleted = u.ReferralsCompleted
	return &summary, nil
}
