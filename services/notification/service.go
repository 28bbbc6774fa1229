package notification

import (
	"context"

	"growpreen/pkg/db/option"
	"growpreen/pkg/db/pagination"
	"growpreen/pkg/errutil"
	"growpreen/pkg/repository"

	"go.uber.org/fx"
	"gorm.io/gorm"
)

// ListLimit caps how many notifications a user sees at once.
const ListLimit = 30

type Service struct {
	notifications repository.Repository[Notification]
}

type ServiceParams struct {
	fx.In
	DB *gorm.DB
}

func NewService(p ServiceParams) *Service {
	return &Service{notifications: repository.ProvideStore[Notification](p.DB)}
}

// Store persists n unless a row with the same id already exists.
func (s *Service) Store(ctx context.Context, n *Notification) error {
	existing, err := s.notifications.FindByID(ctx, n.ID)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}
	return s.notifications.Create(ctx, n)
}

func (s *Service) List(ctx context.Context, userID string) ([]*Notification, error) {
	out, err := s.notifications.Find(ctx, &Notification{UserID: userID},
		option.WithSortBy(option.QuerySortBy{SortBy: "created_at", OrderBy: "desc"}),
		option.ApplyPagination(pagination.Pagination{Limit: ListLimit}),
	)
	if err != nil {
		return nil, errutil.Internal("failed to list notifications", err)
	}
	return out, nil
}

// MarkRead flags the caller's own notification as read.
func (s *Service) MarkRead(ctx context.Context, userID, id string) error {
	rows, err := s.notifications.UpdateWhere(ctx, id,
		map[string]any{"user_id": userID},
		map[string]any{"is_read": true},
	)
	if err != nil {
		return errutil.Internal("failed to mark notification read", err)
	}
	if rows == 0 {
		n, err := s.notifications.FindOne(ctx, &Notification{ID: id, UserID: userID})
		if err != nil {
			return errutil.Internal("failed to load notification", err)
		}
		if n == nil {
			return errutil.NotFound("notification not found", nil)
		}
	}
	return nil
}
