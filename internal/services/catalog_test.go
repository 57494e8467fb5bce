package service_test

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/aaravmahajanofficial/storefront/internal/cache"
	appErrors "github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/internal/repositories/mocks"
	service "github.com/aaravmahajanofficial/storefront/internal/services"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var admin = models.Actor{ProfileID: 1, IsAdmin: true}

func setupCatalogService() (service.CatalogService, *mocks.ProductRepository, *mocks.CatalogRepository, *mocks.Cache) {
	products := new(mocks.ProductRepository)
	catalog := new(mocks.CatalogRepository)
	store := new(mocks.Cache)

	return service.NewCatalogService(products, catalog, store), products, catalog, store
}

func TestCatalogService_ListProducts(t *testing.T) {
	t.Run("Success - Page Size Clamped", func(t *testing.T) {
		// Arrange
		ctx := t.Context()
		svc, products, _, _ := setupCatalogService()
		filter := &models.ProductFilter{Page: 0, PageSize: 500}
		items := []models.Product{{ID: 1, Name: "Lamp"}}
		bounds := &models.PriceBounds{
			MinPrice: decimal.NewNullDecimal(decimal.RequireFromString("1.25")),
			MaxPrice: decimal.NewNullDecimal(decimal.RequireFromString("120.00")),
		}

		products.On("ListProducts", ctx, mock.MatchedBy(func(f *models.ProductFilter) bool {
			return f.Page == 1 && f.PageSize == 100
		})).Return(items, 1, nil).Once()
		products.On("GetPriceBounds", ctx).Return(bounds, nil).Once()

		// Act
		resp, err := svc.ListProducts(ctx, filter)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, items, resp.Data)
		assert.Equal(t, 1, resp.Total)
		assert.Equal(t, 1, resp.Page)
		assert.Equal(t, 100, resp.PageSize)
		assert.Equal(t, "1.25", resp.PriceBounds.MinPrice.Decimal.StringFixed(2))
		products.AssertExpectations(t)
	})

	t.Run("Failure - Database Error", func(t *testing.T) {
		// Arrange
		ctx := t.Context()
		svc, products, _, _ := setupCatalogService()

		products.On("ListProducts", ctx, mock.Anything).Return(nil, 0, errors.New("timeout")).Once()

		// Act
		resp, err := svc.ListProducts(ctx, &models.ProductFilter{})

		// Assert
		assert.Nil(t, resp)
		requireAppError(t, err, appErrors.ErrCodeDatabaseError)
	})
}

func TestCatalogService_GetProduct(t *testing.T) {
	t.Run("Success - Cache Hit Skips Database", func(t *testing.T) {
		// Arrange
		ctx := t.Context()
		svc, products, _, store := setupCatalogService()

		store.On("Get", ctx, "product:7", mock.AnythingOfType("*models.Product")).
			Run(func(args mock.Arguments) {
				*args.Get(2).(*models.Product) = models.Product{ID: 7, Name: "Lamp"}
			}).Return(true, nil).Once()

		// Act
		product, err := svc.GetProduct(ctx, 7)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "Lamp", product.Name)
		products.AssertNotCalled(t, "GetProductByID", mock.Anything, mock.Anything)
	})

	t.Run("Success - Cache Miss Fills Cache", func(t *testing.T) {
		// Arrange
		ctx := t.Context()
		svc, products, _, store := setupCatalogService()
		product := &models.Product{ID: 7, Name: "Lamp"}

		store.On("Get", ctx, "product:7", mock.Anything).Return(false, nil).Once()
		products.On("GetProductByID", ctx, int64(7)).Return(product, nil).Once()
		store.On("Set", ctx, "product:7", product, time.Duration(0)).Return(nil).Once()

		// Act
		got, err := svc.GetProduct(ctx, 7)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, product, got)
		store.AssertExpectations(t)
	})

	t.Run("Success - Cache Outage Falls Back To Database", func(t *testing.T) {
		// Arrange
		ctx := t.Context()
		svc, products, _, store := setupCatalogService()
		product := &models.Product{ID: 7}

		store.On("Get", ctx, "product:7", mock.Anything).Return(false, errors.New("redis down")).Once()
		products.On("GetProductByID", ctx, int64(7)).Return(product, nil).Once()
		store.On("Set", ctx, "product:7", product, time.Duration(0)).Return(errors.New("redis down")).Once()

		// Act
		got, err := svc.GetProduct(ctx, 7)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, product, got)
	})

	t.Run("Failure - Not Found", func(t *testing.T) {
		// Arrange
		ctx := t.Context()
		svc, products, _, store := setupCatalogService()

		store.On("Get", ctx, "product:404", mock.Anything).Return(false, nil).Once()
		products.On("GetProductByID", ctx, int64(404)).Return(nil, sql.ErrNoRows).Once()

		// Act
		product, err := svc.GetProduct(ctx, 404)

		// Assert
		assert.Nil(t, product)
		requireAppError(t, err, appErrors.ErrCodeNotFound)
	})
}

func TestCatalogService_CreateProduct(t *testing.T) {
	req := &models.CreateProductRequest{
		Name:        "Desk Lamp",
		Description: "<p>Bright</p><script>alert(1)</script>",
		Price:       decimal.RequireFromString("19.99"),
	}

	t.Run("Success - Slug Suffixed On Collision", func(t *testing.T) {
		// Arrange
		ctx := t.Context()
		svc, products, _, _ := setupCatalogService()

		products.On("SlugExists", ctx, "desk-lamp", int64(0)).Return(true, nil).Once()
		products.On("SlugExists", ctx, "desk-lamp-1", int64(0)).Return(true, nil).Once()
		products.On("SlugExists", ctx, "desk-lamp-2", int64(0)).Return(false, nil).Once()
		products.On("CreateProduct", ctx, mock.MatchedBy(func(p *models.Product) bool {
			return p.Slug == "desk-lamp-2" && p.Status == models.ProductStatusNew && p.IsAvailable
		})).Return(nil).Once()

		// Act
		product, err := svc.CreateProduct(ctx, admin, req)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "desk-lamp-2", product.Slug)
		assert.Equal(t, "<p>Bright</p>", product.Description)
		assert.False(t, product.OldPrice.Valid)
		products.AssertExpectations(t)
	})

	t.Run("Failure - Not Admin", func(t *testing.T) {
		// Arrange
		ctx := t.Context()
		svc, products, _, _ := setupCatalogService()

		// Act
		product, err := svc.CreateProduct(ctx, models.Actor{ProfileID: 5}, req)

		// Assert
		assert.Nil(t, product)
		requireAppError(t, err, appErrors.ErrCodeForbidden)
		products.AssertNotCalled(t, "CreateProduct", mock.Anything, mock.Anything)
	})

	t.Run("Failure - Non Positive Price", func(t *testing.T) {
		// Arrange
		ctx := t.Context()
		svc, _, _, _ := setupCatalogService()

		// Act
		product, err := svc.CreateProduct(ctx, admin, &models.CreateProductRequest{Name: "Free", Price: decimal.Zero})

		// Assert
		assert.Nil(t, product)
		requireAppError(t, err, appErrors.ErrCodeValidation)
	})

	t.Run("Failure - Unknown Category", func(t *testing.T) {
		// Arrange
		ctx := t.Context()
		svc, products, _, _ := setupCatalogService()

		products.On("SlugExists", ctx, "desk-lamp", int64(0)).Return(false, nil).Once()
		products.On("CreateProduct", ctx, mock.Anything).Return(&pq.Error{Code: "23503"}).Once()

		// Act
		product, err := svc.CreateProduct(ctx, admin, req)

		// Assert
		assert.Nil(t, product)
		requireAppError(t, err, appErrors.ErrCodeValidation)
	})
}

func TestCatalogService_UpdateProduct(t *testing.T) {
	t.Run("Success - Partial Update Invalidates Cache", func(t *testing.T) {
		// Arrange
		ctx := t.Context()
		svc, products, _, store := setupCatalogService()
		existing := &models.Product{ID: 3, Name: "Pen", Slug: "pen", Price: decimal.RequireFromString("1.25"), IsAvailable: true}
		price := decimal.RequireFromString("1.50")
		available := false

		products.On("GetProductByID", ctx, int64(3)).Return(existing, nil).Once()
		products.On("UpdateProduct", ctx, mock.MatchedBy(func(p *models.Product) bool {
			return p.Price.Equal(price) && !p.IsAvailable && p.Name == "Pen" && p.Slug == "pen"
		})).Return(nil).Once()
		store.On("Delete", ctx, cache.ProductKey(3)).Return(nil).Once()

		// Act
		product, err := svc.UpdateProduct(ctx, admin, 3, &models.UpdateProductRequest{Price: &price, IsAvailable: &available})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "1.50", product.Price.StringFixed(2))
		products.AssertExpectations(t)
		store.AssertExpectations(t)
	})

	t.Run("Failure - Not Found", func(t *testing.T) {
		// Arrange
		ctx := t.Context()
		svc, products, _, _ := setupCatalogService()

		products.On("GetProductByID", ctx, int64(9)).Return(nil, sql.ErrNoRows).Once()

		// Act
		product, err := svc.UpdateProduct(ctx, admin, 9, &models.UpdateProductRequest{})

		// Assert
		assert.Nil(t, product)
		requireAppError(t, err, appErrors.ErrCodeNotFound)
	})
}

func TestCatalogService_DeleteProduct(t *testing.T) {
	t.Run("Success - Deleted And Evicted", func(t *testing.T) {
		// Arrange
		ctx := t.Context()
		svc, products, _, store := setupCatalogService()

		products.On("DeleteProduct", ctx, int64(3)).Return(nil).Once()
		store.On("Delete", ctx, "product:3").Return(errors.New("redis down")).Once()

		// Act
		err := svc.DeleteProduct(ctx, admin, 3)

		// Assert
		require.NoError(t, err)
		store.AssertExpectations(t)
	})

	t.Run("Failure - Missing Product", func(t *testing.T) {
		// Arrange
		ctx := t.Context()
		svc, products, _, _ := setupCatalogService()

		products.On("DeleteProduct", ctx, int64(3)).Return(sql.ErrNoRows).Once()

		// Act
		err := svc.DeleteProduct(ctx, admin, 3)

		// Assert
		requireAppError(t, err, appErrors.ErrCodeNotFound)
	})
}

func TestCatalogService_Taxonomy(t *testing.T) {
	t.Run("Success - Category With Products", func(t *testing.T) {
		// Arrange
		ctx := t.Context()
		svc, products, catalog, _ := setupCatalogService()
		category := &models.Category{ID: 4, Name: "Lighting", Slug: "lighting"}

		catalog.On("GetCategoryBySlug", ctx, "lighting").Return(category, nil).Once()
		products.On("ListProducts", ctx, mock.MatchedBy(func(f *models.ProductFilter) bool {
			return len(f.CategoryIDs) == 1 && f.CategoryIDs[0] == 4
		})).Return([]models.Product{{ID: 7}}, 1, nil).Once()

		// Act
		resp, err := svc.GetCategory(ctx, "lighting")

		// Assert
		require.NoError(t, err)
		assert.Equal(t, category, resp.Category)
		assert.Len(t, resp.Products, 1)
	})

	t.Run("Failure - Unknown Category", func(t *testing.T) {
		// Arrange
		ctx := t.Context()
		svc, _, catalog, _ := setupCatalogService()

		catalog.On("GetCategoryBySlug", ctx, "nope").Return(nil, sql.ErrNoRows).Once()

		// Act
		resp, err := svc.GetCategory(ctx, "nope")

		// Assert
		assert.Nil(t, resp)
		requireAppError(t, err, appErrors.ErrCodeNotFound)
	})

	t.Run("Success - Brands And Locations", func(t *testing.T) {
		// Arrange
		ctx := t.Context()
		svc, _, catalog, _ := setupCatalogService()

		catalog.On("ListBrands", ctx).Return([]models.Brand{{ID: 1, Name: "Acme"}}, nil).Once()
		catalog.On("ListLocations", ctx).Return([]models.Location{{ID: 2, Name: "Kazan"}}, nil).Once()
		catalog.On("ListCategories", ctx).Return(nil, errors.New("boom")).Once()

		// Act
		brands, brandErr := svc.ListBrands(ctx)
		locations, locErr := svc.ListLocations(ctx)
		categories, catErr := svc.ListCategories(ctx)

		// Assert
		require.NoError(t, brandErr)
		require.NoError(t, locErr)
		assert.Equal(t, "Acme", brands[0].Name)
		assert.Equal(t, "Kazan", locations[0].Name)
		assert.Nil(t, categories)
		requireAppError(t, catErr, appErrors.ErrCodeDatabaseError)
	})
}

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Desk Lamp":          "desk-lamp",
		"  50% off -- LAMP ": "50-off-lamp",
		"Стол письменный":    "стол-письменный",
		"!!!":                "product",
	}

	for in, want := range tests {
		assert.Equal(t, want, service.Slugify(in), in)
	}
}
