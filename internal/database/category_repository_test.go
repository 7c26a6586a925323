package database

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func categoryRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "name", "parent_id", "display_order",
		"is_for_products", "is_for_services", "is_for_ai_apps",
	})
}

func TestCategoryRepositoryTopLevelByName(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCategoryRepository(db, CategoryColumns{IsForProducts: true, IsForServices: true, IsForAIApps: true})
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, name, parent_id").
			WithArgs("electronics").
			WillReturnRows(categoryRows().AddRow(1, "Electronics", nil, 0, 1, 0, 0))

		cat, err := repo.TopLevelByName(ctx, "electronics")

		require.NoError(t, err)
		require.NotNil(t, cat)
		assert.Equal(t, int64(1), cat.ID)
		assert.Equal(t, "Electronics", cat.Name)
		assert.True(t, cat.IsTopLevel())
	})

	t.Run("not found returns nil without error", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, name, parent_id").
			WithArgs("nope").
			WillReturnRows(categoryRows())

		cat, err := repo.TopLevelByName(ctx, "nope")

		require.NoError(t, err)
		assert.Nil(t, cat)
	})

	t.Run("query error propagates", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, name, parent_id").
			WithArgs("electronics").
			WillReturnError(errors.New("no such table: categories"))

		_, err := repo.TopLevelByName(ctx, "electronics")

		require.Error(t, err)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryRepositoryTopLevel(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCategoryRepository(db, CategoryColumns{IsActive: true})

	mock.ExpectQuery("SELECT id, name, parent_id").
		WillReturnRows(categoryRows().
			AddRow(2, "Fashion", nil, 1, 1, 0, 0).
			AddRow(1, "Electronics", nil, 2, 1, 0, 0))

	cats, err := repo.TopLevel(context.Background())

	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, "Fashion", cats[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryRepositoryChildren(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCategoryRepository(db, CategoryColumns{})

	parent := int64(2)
	mock.ExpectQuery("SELECT id, name, parent_id").
		WithArgs(parent).
		WillReturnRows(categoryRows().
			AddRow(10, "Men's Fashion", parent, 1, 1, 0, 0).
			AddRow(11, "Women's Fashion", parent, 2, 1, 0, 0))

	cats, err := repo.Children(context.Background(), parent)

	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, "Men's Fashion", cats[0].Name)
	assert.False(t, cats[0].IsTopLevel())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryRepositoryMissingFlagColumns(t *testing.T) {
	db, mock := newMockDB(t)
	// No optional flag columns in this deployment: constants are selected
	// in their place.
	repo := NewCategoryRepository(db, CategoryColumns{})

	mock.ExpectQuery("1 AS is_for_products").
		WithArgs("electronics").
		WillReturnRows(categoryRows().AddRow(1, "Electronics", nil, 0, 1, 0, 0))

	cat, err := repo.TopLevelByName(context.Background(), "electronics")

	require.NoError(t, err)
	require.NotNil(t, cat)
	assert.True(t, cat.IsForProducts)
	assert.False(t, cat.IsForServices)
	assert.NoError(t, mock.ExpectationsWereMet())
}
