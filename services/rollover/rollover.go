package rollover

import (
	"context"
	"errors"
	"time"

	"growpreen/pkg/config"
	"growpreen/pkg/lock"
	"growpreen/pkg/rediskey"
	"growpreen/services/ledger"

	"github.com/robfig/cron/v3"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Job zeroes one period bucket for every user that has a non-zero value in it.
type Job struct {
	ledger *ledger.Service
	locker lock.Locker
}

func NewJob(l *ledger.Service, locker lock.Locker) *Job {
	return &Job{ledger: l, locker: locker}
}

// Run resets period for every user. A failing user does not stop the others; the
// number of users reset and the joined errors are returned.
func (j *Job) Run(ctx context.Context, period ledger.Period) (int, error) {
	var reset int
	err := lock.Do(ctx, j.locker, rediskey.BuildLockKey("rollover:"+string(period)), func(ctx context.Context) error {
		ids, err := j.ledger.UsersWithEarnings(ctx, period)
		if err != nil {
			return err
		}

		var errs []error
		for _, id := range ids {
			if ctx.Err() != nil {
				errs = append(errs, ctx.Err())
				break
			}
			if _, err := j.ledger.ResetPeriod(ctx, id, period); err != nil {
				zap.L().Warn("[Rollover] reset failed",
					zap.String("user_id", id),
					zap.String("period", string(period)),
					zap.Error(err),
				)
				errs = append(errs, err)
				continue
			}
			reset++
		}
		return errors.Join(errs...)
	})
	return reset, err
}

// Scheduler fires the daily and monthly resets at midnight in the program timezone.
type Scheduler struct {
	cron *cron.Cron
	job  *Job
}

type Params struct {
	fx.In
	Config *config.Config
	Job    *Job
}

func NewScheduler(p Params) (*Scheduler, error) {
	s := &Scheduler{
		cron: cron.New(cron.WithLocation(p.Config.Location())),
		job:  p.Job,
	}
	if _, err := s.cron.AddFunc(p.Config.Rollover.DailySpec, s.runner(ledger.PeriodDaily)); err != nil {
		return nil, err
	}
	if _, err := s.cron.AddFunc(p.Config.Rollover.MonthlySpec, s.runner(ledger.PeriodMonthly)); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scheduler) runner(period ledger.Period) func() {
	return func() {
		start := time.Now()
		zap.L().Info("[Rollover] running", zap.String("period", string(period)))

		n, err := s.job.Run(context.Background(), period)
		if err != nil {
			zap.L().Error("[Rollover] finished with errors",
				zap.String("period", string(period)),
				zap.Int("reset", n),
				zap.Error(err),
			)
			return
		}
		zap.L().Info("[Rollover] finished",
			zap.String("period", string(period)),
			zap.Int("reset", n),
			zap.Duration("duration", time.Since(start)),
		)
	}
}

// Entries lists the registered schedules with their next fire time.
func (s *Scheduler) Entries() []cron.Entry {
	return s.cron.Entries()
}

func StartScheduler(lc fx.Lifecycle, cfg *config.Config, s *Scheduler) {
	if !cfg.Rollover.Enable {
		zap.L().Info("[Rollover] disabled")
		return
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			s.cron.Start()
			zap.L().Info("[Rollover] scheduler started", zap.String("timezone", cfg.Timezone))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			done := s.cron.Stop()
			select {
			case <-done.Done():
			case <-ctx.Done():
				zap.L().Warn("[Rollover] stop timed out waiting for running job")
			}
			return nil
		},
	})
}

var Module = fx.Module("rollover",
	fx.Provide(NewJob, NewScheduler),
	fx.Invoke(StartScheduler),
)
