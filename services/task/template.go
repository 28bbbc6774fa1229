package task

import (
	"context"
	"strings"

	"growpreen/pkg/db/option"
	"growpreen/pkg/errutil"
	"growpreen/pkg/logger"

	"go.uber.org/zap"
)

func (s *Service) CreateTemplate(ctx context.Context, p TemplateParams) (*Template, error) {
	p.Title = strings.TrimSpace(p.Title)
	p.ActionType = strings.TrimSpace(p.ActionType)

	var details []errutil.Detail
	if p.Title == "" {
		details = append(details, errutil.Detail{Field: "title", Message: "title is required"})
	}
	if p.RewardAmount < 0 {
		details = append(details, errutil.Detail{Field: "rewardAmount", Message: "reward cannot be negative"})
	}
	period, ok := ParsePeriod(p.Period)
	if !ok {
		details = append(details, errutil.Detail{Field: "period", Message: "period must be Daily, Monthly or OneTime"})
	}
	if len(details) > 0 {
		return nil, errutil.BadRequest("invalid task template", nil, errutil.WithDetails(details...))
	}
	if p.ActionType == "" {
		p.ActionType = DefaultActionType
	}

	tpl := &Template{
		ID:           s.ids.NewID(),
		Title:        p.Title,
		Description:  p.Description,
		RewardAmount: p.RewardAmount,
		Period:       period,
		ActionType:   p.ActionType,
		IsActive:     true,
	}
	if err := s.templates.Create(ctx, tpl); err != nil {
		return nil, errutil.Internal("failed to create task template", err)
	}

	logger.Ctx(ctx).Info("task template created", zap.String("template_id", tpl.ID), zap.String("period", string(period)))
	return tpl, nil
}

func (s *Service) GetTemplate(ctx context.Context, id string) (*Template, error) {
	tpl, err := s.templates.FindByID(ctx, id)
	if err != nil {
		return nil, errutil.Internal("failed to load task template", err)
	}
	if tpl == nil {
		return nil, errutil.NotFound("task template not found", nil)
	}
	return tpl, nil
}

func (s *Service) SetTemplateActive(ctx context.Context, id string, active bool) (*Template, error) {
	tpl, err := s.GetTemplate(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.templates.Update(ctx, id, map[string]any{"is_active": active}); err != nil {
		return nil, errutil.Internal("failed to update task template", err)
	}
	tpl.IsActive = active
	return tpl, nil
}

func (s *Service) DeleteTemplate(ctx context.Context, id string) error {
	rows, err := s.templates.Delete(ctx, id)
	if err != nil {
		return errutil.Internal("failed to delete task template", err)
	}
	if rows == 0 {
		return errutil.NotFound("task template not found", nil)
	}
	logger.Ctx(ctx).Info("task template deleted", zap.String("template_id", id))
	return nil
}

func (s *Service) ListTemplates(ctx context.Context) ([]*Template, error) {
	out, err := s.templates.Find(ctx, nil, option.WithSortBy(option.QuerySortBy{SortBy: "created_at", OrderBy: "asc"}))
	if err != nil {
		return nil, errutil.Internal("failed to load task templates", err)
	}
	return out, nil
}

func (s *Service) ListActiveTemplates(ctx context.Context) ([]*Template, error) {
	out, err := s.templates.Find(ctx, &Template{IsActive: true},
		option.WithSortBy(option.QuerySortBy{SortBy: "created_at", OrderBy: "asc"}),
	)
	if err != nil {
		return nil, errutil.Internal("failed to load task templates", err)
	}
	return out, nil
}
