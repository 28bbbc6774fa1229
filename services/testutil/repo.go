package testutil

import (
	"context"

	"growpreen/pkg/db/option"
	"growpreen/pkg/repository"

	"gorm.io/gorm"
)

// RepoMock is a Repository whose behaviour is set per test through the Fn fields.
// Unset functions return zero values.
type RepoMock[T any] struct {
	FindFn        func(ctx context.Context, query *T, opts ...option.QueryOption) ([]*T, error)
	FindOneFn     func(ctx context.Context, query *T, opts ...option.QueryOption) (*T, error)
	FindByIDFn    func(ctx context.Context, id string) (*T, error)
	CreateFn      func(ctx context.Context, resource *T) error
	BatchCreateFn func(ctx context.Context, resources []*T) error
	UpdateFn      func(ctx context.Context, id string, resource any) error
	UpdateWhereFn func(ctx context.Context, id string, cond map[string]any, fields map[string]any) (int64, error)
	CountFn       func(ctx context.Context, query *T, opts ...option.QueryOption) (int64, error)
	DeleteFn      func(ctx context.Context, id string) (int64, error)
}

func (m *RepoMock[T]) WithTrx(tx *gorm.DB) repository.Repository[T] {
	return m
}

func (m *RepoMock[T]) Find(ctx context.Context, query *T, opts ...option.QueryOption) ([]*T, error) {
	if m.FindFn != nil {
		return m.FindFn(ctx, query, opts...)
	}
	return nil, nil
}

func (m *RepoMock[T]) FindOne(ctx context.Context, query *T, opts ...option.QueryOption) (*T, error) {
	if m.FindOneFn != nil {
		return m.FindOneFn(ctx, query, opts...)
	}
	return nil, nil
}

func (m *RepoMock[T]) FindByID(ctx context.Context, id string) (*T, error) {
	if m.FindByIDFn != nil {
		return m.FindByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *RepoMock[T]) Create(ctx context.Context, resource *T) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, resource)
	}
	return nil
}

func (m *RepoMock[T]) BatchCreate(ctx context.Context, resources []*T) error {
	if m.BatchCreateFn != nil {
		return m.BatchCreateFn(ctx, resources)
	}
	return nil
}

func (m *RepoMock[T]) Update(ctx context.Context, id string, resource any) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, id, resource)
	}
	return nil
}

func (m *RepoMock[T]) UpdateWhere(ctx context.Context, id string, cond map[string]any, fields map[string]any) (int64, error) {
	if m.UpdateWhereFn != nil {
		return m.UpdateWhereFn(ctx, id, cond, fields)
	}
	return 1, nil
}

func (m *RepoMock[T]) Count(ctx context.Context, query *T, opts ...option.QueryOption) (int64, error) {
	if m.CountFn != nil {
		return m.CountFn(ctx, query, opts...)
	}
	return 0, nil
}

func (m *RepoMock[T]) Delete(ctx context.Context, id string) (int64, error) {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return 0, nil
}
