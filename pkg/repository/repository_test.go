package repository

import (
	"context"
	"testing"

	"growpreen/pkg/db/option"
	"growpreen/pkg/db/pagination"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type widget struct {
	ID      string `gorm:"primaryKey"`
	Owner   string
	Status  string
	Version int64
	Active  bool
}

func newStore(t *testing.T) Repository[widget] {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&widget{}))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return ProvideStore[widget](db)
}

func TestFindOneReturnsNilWhenAbsent(t *testing.T) {
	repo := newStore(t)

	got, err := repo.FindOne(context.Background(), &widget{ID: "missing"})
	require.NoError(t, err)
	require.Nil(t, got)

	got, err = repo.FindByID(context.Background(), "missing")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestUpdateWhereActsAsCompareAndSwap(t *testing.T) {
	ctx := context.Background()
	repo := newStore(t)
	require.NoError(t, repo.Create(ctx, &widget{ID: "w1", Status: "Pending", Version: 1}))

	rows, err := repo.UpdateWhere(ctx, "w1",
		map[string]any{"status": "Pending"},
		map[string]any{"status": "Approved"})
	require.NoError(t, err)
	require.Equal(t, int64(1), rows)

	rows, err = repo.UpdateWhere(ctx, "w1",
		map[string]any{"status": "Pending"},
		map[string]any{"status": "Rejected"})
	require.NoError(t, err)
	require.Zero(t, rows)

	got, err := repo.FindByID(ctx, "w1")
	require.NoError(t, err)
	require.Equal(t, "Approved", got.Status)
}

func TestFindWithOptions(t *testing.T) {
	ctx := context.Background()
	repo := newStore(t)
	require.NoError(t, repo.BatchCreate(ctx, []*widget{
		{ID: "a", Owner: "u1", Version: 3, Active: true},
		{ID: "b", Owner: "u1", Version: 1},
		{ID: "c", Owner: "u1", Version: 2, Active: true},
		{ID: "d", Owner: "u2", Version: 9},
	}))

	out, err := repo.Find(ctx, &widget{Owner: "u1"},
		option.WithSortBy(option.QuerySortBy{SortBy: "version", OrderBy: "desc"}),
		option.ApplyPagination(pagination.Pagination{Limit: 2}),
	)
	require.NoError(t, err)
	require.Len(t, out, 2)
	require.Equal(t, "a", out[0].ID)
	require.Equal(t, "c", out[1].ID)

	n, err := repo.Count(ctx, &widget{Owner: "u1"}, option.Where("active", false))
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	n, err = repo.Count(ctx, nil, option.ApplyOperator(option.Condition{Field: "version", Operator: option.GT, Value: 2}))
	require.NoError(t, err)
	require.Equal(t, int64(2), n)

	deleted, err := repo.Delete(ctx, "d")
	require.NoError(t, err)
	require.Equal(t, int64(1), deleted)
}
