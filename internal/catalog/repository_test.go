package catalog

import (
	"context"
	"fmt"
	"testing"

	"github.com/casakiran/storefront-backend/pkg/db/models"
	pkgerrors "github.com/casakiran/storefront-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestRepo(t *testing.T) Repository {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "open sqlite")
	require.NoError(t, conn.AutoMigrate(&models.Category{}, &models.Product{}), "migrate schema")
	return NewGormRepository(conn)
}

func seedCategory(t *testing.T, repo Repository, name, slug string) *models.Category {
	t.Helper()
	category, err := repo.CreateCategory(context.Background(), &models.Category{
		ID:   uuid.New(),
		Name: name,
		Slug: slug,
	})
	require.NoError(t, err)
	return category
}

func seedProduct(t *testing.T, repo Repository, name string, price int64, categoryID *uuid.UUID, active, featured bool) *models.Product {
	t.Helper()
	product, err := repo.CreateProduct(context.Background(), &models.Product{
		ID:         uuid.New(),
		Name:       name,
		Price:      price,
		CategoryID: categoryID,
		Stock:      10,
		IsActive:   active,
		IsFeatured: featured,
	})
	require.NoError(t, err)
	return product
}

func TestGormRepositoryProductRoundtrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	category := seedCategory(t, repo, "Velas Aromáticas", "velas-aromaticas")
	created := seedProduct(t, repo, "Vela Lavanda", 12500, &category.ID, true, true)

	loaded, err := repo.GetProduct(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "Vela Lavanda", loaded.Name)
	require.NotNil(t, loaded.Category)
	require.Equal(t, "velas-aromaticas", loaded.Category.Slug)

	loaded.Stock = 3
	_, err = repo.UpdateProduct(ctx, loaded)
	require.NoError(t, err)

	reloaded, err := repo.GetProduct(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, 3, reloaded.Stock)

	require.NoError(t, repo.DeleteProduct(ctx, created.ID))

	_, err = repo.GetProduct(ctx, created.ID)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	require.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestGormRepositoryListProductsFilters(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	velas := seedCategory(t, repo, "Velas", "velas")
	seedProduct(t, repo, "Vela Activa", 100, &velas.ID, true, false)
	seedProduct(t, repo, "Vela Destacada", 200, &velas.ID, true, true)
	seedProduct(t, repo, "Vela Oculta", 300, &velas.ID, false, false)
	seedProduct(t, repo, "Sin Categoría", 400, nil, true, false)

	active, err := repo.ListProducts(ctx, ProductFilter{ActiveOnly: true})
	require.NoError(t, err)
	require.Len(t, active, 3)

	featured, err := repo.ListProducts(ctx, ProductFilter{ActiveOnly: true, FeaturedOnly: true})
	require.NoError(t, err)
	require.Len(t, featured, 1)
	require.Equal(t, "Vela Destacada", featured[0].Name)

	byCategory, err := repo.ListProducts(ctx, ProductFilter{ActiveOnly: true, CategoryID: &velas.ID})
	require.NoError(t, err)
	require.Len(t, byCategory, 2)

	limited, err := repo.ListProducts(ctx, ProductFilter{Limit: 2})
	require.NoError(t, err)
	require.Len(t, limited, 2)
}

func TestGormRepositoryGetCategoryBySlug(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	velas := seedCategory(t, repo, "Velas", "velas")

	found, err := repo.GetCategoryBySlug(ctx, "velas")
	require.NoError(t, err)
	require.Equal(t, velas.ID, found.ID)

	_, err = repo.GetCategoryBySlug(ctx, "no-existe")
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	require.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestGormRepositoryCategorySlugConflict(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	seedCategory(t, repo, "Velas", "velas")

	_, err := repo.CreateCategory(ctx, &models.Category{ID: uuid.New(), Name: "Velas 2", Slug: "velas"})
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	require.Equal(t, pkgerrors.CodeConflict, appErr.Code())
}

func TestGormRepositoryCountsAndCategoryProducts(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	velas := seedCategory(t, repo, "Velas", "velas")
	seedProduct(t, repo, "Uno", 100, &velas.ID, true, true)
	seedProduct(t, repo, "Dos", 200, &velas.ID, false, false)

	count, err := repo.CountProductsInCategory(ctx, velas.ID)
	require.NoError(t, err)
	require.EqualValues(t, 2, count)

	stats, err := repo.Counts(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 2, stats.Products)
	require.EqualValues(t, 1, stats.ActiveProducts)
	require.EqualValues(t, 1, stats.FeaturedProducts)
	require.EqualValues(t, 1, stats.Categories)
}
