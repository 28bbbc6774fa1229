package task

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"growpreen/pkg/calendar"
	"growpreen/pkg/config"
	"growpreen/pkg/db/option"
	"growpreen/pkg/db/pagination"
	"growpreen/pkg/errutil"
	"growpreen/pkg/gen"
	"growpreen/pkg/lock"
	"growpreen/pkg/logger"
	"growpreen/pkg/metrics"
	"growpreen/pkg/rediskey"
	"growpreen/pkg/repository"
	"growpreen/services/ledger"
	"growpreen/services/notification"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const historyLimit = 20

const reelLockedReason = "Reel task locked. Refer at least 2 users to unlock."

type Service struct {
	templates   repository.Repository[Template]
	submissions repository.Repository[Submission]
	ledger      *ledger.Service
	emitter     notification.Emitter
	locker      lock.Locker
	ids         gen.IDGenerator
	program     config.Program
	clock       calendar.Clock
	loc         *time.Location
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
		templates:   repository.ProvideStore[Template](p.DB),
		submissions: repository.ProvideStore[Submission](p.DB),
		ledger:      p.Ledger,
		emitter:     p.Emitter,
		locker:      p.Locker,
		ids:         p.IDs,
		program:     p.Config.Program,
		clock:       clock,
		loc:         p.Config.Location(),
	}
}

func (s *Service) today() calendar.Day {
	return calendar.Today(s.clock, s.loc)
}

// Submit records a pending template submission for today. The reward is resolved at approval.
func (s *Service) Submit(ctx context.Context, userID, templateID string, proof Proof) (*Submission, error) {
	if strings.TrimSpace(templateID) == "" {
		return nil, errutil.BadRequest("taskTemplateId is required", nil)
	}
	tpl, err := s.GetTemplate(ctx, templateID)
	if err != nil {
		return nil, err
	}
	if !tpl.IsActive {
		return nil, errutil.BadRequest("task is not active", nil)
	}

	sub := &Submission{
		ID:         s.ids.NewID(),
		UserID:     userID,
		TemplateID: &tpl.ID,
		Type:       KindTemplate,
		Period:     tpl.Period,
		Status:     StatusPending,
		Proof:      datatypes.NewJSONType(proof),
		Date:       s.today(),
	}
	if err := s.submissions.Create(ctx, sub); err != nil {
		return nil, errutil.Internal("failed to submit task", err)
	}

	logger.Ctx(ctx).Info("task submitted",
		zap.String("submission_id", sub.ID),
		zap.String("user_id", userID),
		zap.String("template_id", tpl.ID),
	)
	return sub, nil
}

// SubmitReel records today's reel. Only one reel per user per day is accepted.
func (s *Service) SubmitReel(ctx context.Context, userID, link string) (*Submission, error) {
	link = strings.TrimSpace(link)
	if link == "" {
		return nil, errutil.BadRequest("link is required", nil)
	}

	u, err := s.ledger.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !u.ReelTaskUnlocked {
		return nil, errutil.ReelLocked(reelLockedReason)
	}

	var sub *Submission
	err = lock.Do(ctx, s.locker, rediskey.BuildLockKey("reel:"+userID), func(ctx context.Context) error {
		today := s.today()
		existing, err := s.todaysReel(ctx, userID, today)
		if err != nil {
			return err
		}
		if existing != nil {
			return errutil.AlreadyExists("Reel already submitted today")
		}

		sub = &Submission{
			ID:           s.ids.NewID(),
			UserID:       userID,
			Type:         KindReel,
			Period:       PeriodDaily,
			Status:       StatusPending,
			RewardAmount: s.program.ReelReward,
			Proof:        datatypes.NewJSONType(Proof{Link: link}),
			Date:         today,
		}
		if err := s.submissions.Create(ctx, sub); err != nil {
			return errutil.Internal("failed to submit reel", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, lock.ErrNotAcquired) {
			return nil, errutil.ConcurrentUpdate("reel submission in progress", err)
		}
		return nil, err
	}

	logger.Ctx(ctx).Info("reel submitted", zap.String("submission_id", sub.ID), zap.String("user_id", userID))
	return sub, nil
}

func (s *Service) todaysReel(ctx context.Context, userID string, today calendar.Day) (*Submission, error) {
	sub, err := s.submissions.FindOne(ctx, &Submission{UserID: userID, Type: KindReel, Date: today})
	if err != nil {
		return nil, errutil.Internal("failed to load reel submission", err)
	}
	return sub, nil
}

func (s *Service) ReelStatus(ctx context.Context, userID string) (*ReelStatus, error) {
	u, err := s.ledger.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !u.ReelTaskUnlocked {
		return &ReelStatus{Available: false, Reason: reelLockedReason}, nil
	}

	sub, err := s.todaysReel(ctx, userID, s.today())
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return &ReelStatus{Available: true, Status: ReelStatusNone}, nil
	}
	return &ReelStatus{Available: true, Status: string(sub.Status), TaskID: sub.ID}, nil
}

// History returns the user's latest submissions, newest day first.
func (s *Service) History(ctx context.Context, userID string) ([]*Submission, error) {
	out, err := s.submissions.Find(ctx, &Submission{UserID: userID},
		option.WithSortBy(option.QuerySortBy{SortBy: "date", OrderBy: "desc"}),
		option.WithSortBy(option.QuerySortBy{SortBy: "created_at", OrderBy: "desc"}),
		option.ApplyPagination(pagination.Pagination{Limit: historyLimit}),
	)
	if err != nil {
		return nil, errutil.Internal("failed to load task history", err)
	}
	return out, nil
}

func (s *Service) Available(ctx context.Context, userID string) ([]*Template, error) {
	templates, err := s.ListActiveTemplates(ctx)
	if err != nil {
		return nil, err
	}
	subs, err := s.submissions.Find(ctx, &Submission{UserID: userID, Type: KindTemplate})
	if err != nil {
		return nil, errutil.Internal("failed to load submissions", err)
	}
	return AvailableTasks(templates, subs, s.today()), nil
}

// ListSubmissions is the admin review queue. User and template lookups that fail leave the
// decoration empty instead of failing the listing.
func (s *Service) ListSubmissions(ctx context.Context, status string) ([]*SubmissionView, error) {
	if status == "" {
		status = string(StatusPending)
	}
	st, ok := ParseStatus(status)
	if !ok {
		return nil, errutil.InvalidStatus("unknown task status")
	}

	subs, err := s.submissions.Find(ctx, &Submission{Status: st},
		option.WithSortBy(option.QuerySortBy{SortBy: "date", OrderBy: "desc"}),
	)
	if err != nil {
		return nil, errutil.Internal("failed to load task submissions", err)
	}

	log := logger.Ctx(ctx)
	users := make(map[string]*ledger.User)
	titles := make(map[string]string)
	out := make([]*SubmissionView, 0, len(subs))
	for _, sub := range subs {
		view := &SubmissionView{Submission: sub}

		u, seen := users[sub.UserID]
		if !seen {
			u, err = s.ledger.Get(ctx, sub.UserID)
			if err != nil {
				log.Debug("submission user lookup failed", zap.String("user_id", sub.UserID), zap.Error(err))
				u = nil
			}
			users[sub.UserID] = u
		}
		if u != nil {
			view.UserName, view.UserMobile = u.Name, u.Mobile
		}

		if sub.TemplateID != nil {
			title, seen := titles[*sub.TemplateID]
			if !seen {
				if tpl, err := s.templates.FindByID(ctx, *sub.TemplateID); err == nil && tpl != nil {
					title = tpl.Title
				}
				titles[*sub.TemplateID] = title
			}
			view.TaskTitle = title
		}
		out = append(out, view)
	}
	return out, nil
}

func (s *Service) getSubmission(ctx context.Context, id string) (*Submission, error) {
	sub, err := s.submissions.FindByID(ctx, id)
	if err != nil {
		return nil, errutil.Internal("failed to load task", err)
	}
	if sub == nil {
		return nil, errutil.NotFound("task not found", nil)
	}
	return sub, nil
}

// resolveReward prefers the amount fixed at submission and falls back to the template's.
func (s *Service) resolveReward(ctx context.Context, sub *Submission) (int64, error) {
	if sub.RewardAmount != 0 || sub.TemplateID == nil {
		return sub.RewardAmount, nil
	}
	tpl, err := s.templates.FindByID(ctx, *sub.TemplateID)
	if err != nil {
		return 0, errutil.Internal("failed to load task template", err)
	}
	if tpl == nil {
		return 0, nil
	}
	return tpl.RewardAmount, nil
}

// Approve moves a pending submission to Approved and credits its reward to every bucket.
// The status write happens first so a second approval cannot credit twice.
func (s *Service) Approve(ctx context.Context, id string) (*Submission, error) {
	log := logger.Ctx(ctx).With(zap.String("submission_id", id))

	sub, err := s.getSubmission(ctx, id)
	if err != nil {
		return nil, err
	}
	if sub.Status != StatusPending {
		return nil, errutil.InvalidTransition(fmt.Sprintf("task is already %s", sub.Status))
	}

	reward, err := s.resolveReward(ctx, sub)
	if err != nil {
		return nil, err
	}

	rows, err := s.submissions.UpdateWhere(ctx, id,
		map[string]any{"status": StatusPending},
		map[string]any{"status": StatusApproved, "reward_amount": reward},
	)
	if err != nil {
		metrics.RecordDecision("task", "approved", err)
		return nil, errutil.Internal("failed to approve task", err)
	}
	if rows == 0 {
		return nil, errutil.InvalidTransition("task was decided concurrently")
	}

	_, err = s.ledger.Apply(ctx, sub.UserID, ledger.Change{
		Credit:  reward,
		Affects: ledger.AllPeriods,
		Memo: ledger.Memo{
			ReferenceID: "task:" + id,
			Description: "task approved",
		},
		Profile: func(u *ledger.User) { u.IsNewUser = false },
	})
	metrics.RecordDecision("task", "approved", err)
	if err != nil {
		if _, rerr := s.submissions.UpdateWhere(ctx, id,
			map[string]any{"status": StatusApproved},
			map[string]any{"status": StatusPending, "reward_amount": sub.RewardAmount},
		); rerr != nil {
			log.Error("failed to revert task approval", zap.Error(rerr))
		}
		log.Warn("task approval credit failed", zap.Error(err))
		return nil, err
	}

	sub.Status = StatusApproved
	sub.RewardAmount = reward

	s.emitter.Append(ctx, sub.UserID, notification.TypeTaskApproved,
		fmt.Sprintf("Your task has been approved and ₹%d added to your balance.", reward))
	log.Info("task approved", zap.String("user_id", sub.UserID), zap.Int64("reward", reward))
	return sub, nil
}

// Reject closes a pending submission. Nothing was credited, so there is nothing to reverse.
func (s *Service) Reject(ctx context.Context, id string) (*Submission, error) {
	sub, err := s.getSubmission(ctx, id)
	if err != nil {
		return nil, err
	}
	if sub.Status != StatusPending {
		return nil, errutil.InvalidTransition(fmt.Sprintf("task is already %s", sub.Status))
	}

	rows, err := s.submissions.UpdateWhere(ctx, id,
		map[string]any{"status": StatusPending},
		map[string]any{"status": StatusRejected},
	)
	metrics.RecordDecision("task", "rejected", err)
	if err != nil {
		return nil, errutil.Internal("failed to reject task", err)
	}
	if rows == 0 {
		return nil, errutil.InvalidTransition("task was decided concurrently")
	}
	sub.Status = StatusRejected

	s.emitter.Append(ctx, sub.UserID, notification.TypeTaskRejected,
		"Your task submission was rejected. Please check your proof and try again.")
	logger.Ctx(ctx).Info("task rejected", zap.String("submission_id", id), zap.String("user_id", sub.UserID))
	return sub, nil
}
