package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/cache"
	appErrors "github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	repository "github.com/aaravmahajanofficial/storefront/internal/repositories"
	"github.com/shopspring/decimal"
)

type CatalogService interface {
	ListProducts(ctx context.Context, filter *models.ProductFilter) (*models.ProductListResponse, error)
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
	CreateProduct(ctx context.Context, actor models.Actor, req *models.CreateProductRequest) (*models.Product, error)
	UpdateProduct(ctx context.Context, actor models.Actor, id int64, req *models.UpdateProductRequest) (*models.Product, error)
	DeleteProduct(ctx context.Context, actor models.Actor, id int64) error
	ListCategories(ctx context.Context) ([]models.Category, error)
	GetCategory(ctx context.Context, slug string) (*models.CategoryDetailResponse, error)
	ListBrands(ctx context.Context) ([]models.Brand, error)
	ListLocations(ctx context.Context) ([]models.Location, error)
}

type catalogService struct {
	products repository.ProductRepository
	catalog  repository.CatalogRepository
	cache    cache.Cache
}

func NewCatalogService(products repository.ProductRepository, catalog repository.CatalogRepository, store cache.Cache) CatalogService {
	return &catalogService{products: products, catalog: catalog, cache: store}
}

func (s *catalogService) ListProducts(ctx context.Context, filter *models.ProductFilter) (*models.ProductListResponse, error) {

	filter.Page, filter.PageSize = normalizePage(filter.Page, filter.PageSize)

	products, total, err := s.products.ListProducts(ctx, filter)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to list products").WithError(err)
	}

	bounds, err := s.products.GetPriceBounds(ctx)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to load price bounds").WithError(err)
	}

	return &models.ProductListResponse{
		PaginatedResponse: models.NewPaginatedResponse(products, total, filter.Page, filter.PageSize),
		PriceBounds:       *bounds,
	}, nil
}

func (s *catalogService) GetProduct(ctx context.Context, id int64) (*models.Product, error) {

	logger := middleware.LoggerFromContext(ctx)
	key := cache.ProductKey(id)

	var cached models.Product
	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		logger.Warn("Product cache read failed", slog.String("key", key), slog.String("error", err.Error()))
	}
	if found {
		return &cached, nil
	}

	product, err := s.products.GetProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NotFoundError("Product not found").WithError(err)
		}

		return nil, appErrors.DatabaseError("Failed to fetch product").WithError(err)
	}

	if err := s.cache.Set(ctx, key, product, 0); err != nil {
		logger.Warn("Product cache write failed", slog.String("key", key), slog.String("error", err.Error()))
	}

	return product, nil
}

func (s *catalogService) CreateProduct(ctx context.Context, actor models.Actor, req *models.CreateProductRequest) (*models.Product, error) {

	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	if !req.Price.IsPositive() {
		return nil, appErrors.AddValidationError("price", "must be greater than zero")
	}

	product := &models.Product{
		CategoryID:    req.CategoryID,
		BrandID:       req.BrandID,
		Name:          sanitize(req.Name),
		Description:   sanitizeRich(req.Description),
		Complectation: sanitizeRich(req.Complectation),
		Price:         req.Price,
		Discount:      req.Discount,
		Status:        req.Status,
		IsAvailable:   true,
	}

	if product.Status == "" {
		product.Status = models.ProductStatusNew
	}

	if req.IsAvailable != nil {
		product.IsAvailable = *req.IsAvailable
	}

	if req.OldPrice != nil {
		product.OldPrice = decimal.NewNullDecimal(*req.OldPrice)
	}

	slug, err := s.uniqueSlug(ctx, product.Name, 0)
	if err != nil {
		return nil, err
	}
	product.Slug = slug

	if err := s.products.CreateProduct(ctx, product); err != nil {
		return nil, productWriteError(err, "Failed to create product")
	}

	return product, nil
}

func (s *catalogService) UpdateProduct(ctx context.Context, actor models.Actor, id int64, req *models.UpdateProductRequest) (*models.Product, error) {

	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	product, err := s.products.GetProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NotFoundError("Product not found").WithError(err)
		}

		return nil, appErrors.DatabaseError("Failed to fetch product").WithError(err)
	}

	if req.CategoryID != nil {
		product.CategoryID = req.CategoryID
	}
	if req.BrandID != nil {
		product.BrandID = req.BrandID
	}
	if req.Name != nil {
		product.Name = sanitize(*req.Name)
	}
	if req.Description != nil {
		product.Description = sanitizeRich(*req.Description)
	}
	if req.Complectation != nil {
		product.Complectation = sanitizeRich(*req.Complectation)
	}
	if req.Price != nil {
		if !req.Price.IsPositive() {
			return nil, appErrors.AddValidationError("price", "must be greater than zero")
		}
		product.Price = *req.Price
	}
	if req.OldPrice != nil {
		product.OldPrice = decimal.NewNullDecimal(*req.OldPrice)
	}
	if req.Discount != nil {
		product.Discount = req.Discount
	}
	if req.Status != nil {
		product.Status = *req.Status
	}
	if req.IsAvailable != nil {
		product.IsAvailable = *req.IsAvailable
	}

	if err := s.products.UpdateProduct(ctx, product); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NotFoundError("Product not found").WithError(err)
		}

		return nil, productWriteError(err, "Failed to update product")
	}

	s.invalidate(ctx, id)

	return product, nil
}

func (s *catalogService) DeleteProduct(ctx context.Context, actor models.Actor, id int64) error {

	if err := requireAdmin(actor); err != nil {
		return err
	}

	if err := s.products.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.NotFoundError("Product not found").WithError(err)
		}

		return appErrors.DatabaseError("Failed to delete product").WithError(err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *catalogService) ListCategories(ctx context.Context) ([]models.Category, error) {

	categories, err := s.catalog.ListCategories(ctx)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to list categories").WithError(err)
	}

	return categories, nil
}

func (s *catalogService) GetCategory(ctx context.Context, slug string) (*models.CategoryDetailResponse, error) {

	category, err := s.catalog.GetCategoryBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NotFoundError("Category not found").WithError(err)
		}

		return nil, appErrors.DatabaseError("Failed to fetch category").WithError(err)
	}

	products, _, err := s.products.ListProducts(ctx, &models.ProductFilter{
		CategoryIDs: []int64{category.ID},
		Page:        1,
		PageSize:    maxPageSize,
	})
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to list category products").WithError(err)
	}

	return &models.CategoryDetailResponse{Category: category, Products: products}, nil
}

func (s *catalogService) ListBrands(ctx context.Context) ([]models.Brand, error) {

	brands, err := s.catalog.ListBrands(ctx)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to list brands").WithError(err)
	}

	return brands, nil
}

func (s *catalogService) ListLocations(ctx context.Context) ([]models.Location, error) {

	locations, err := s.catalog.ListLocations(ctx)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to list locations").WithError(err)
	}

	return locations, nil
}

func (s *catalogService) invalidate(ctx context.Context, id int64) {
	key := cache.ProductKey(id)
	if err := s.cache.Delete(ctx, key); err != nil {
		middleware.LoggerFromContext(ctx).Warn("Product cache invalidation failed",
			slog.String("key", key), slog.String("error", err.Error()))
	}
}

// uniqueSlug derives a slug from name and appends -1, -2, ... until no other
// product uses it.
func (s *catalogService) uniqueSlug(ctx context.Context, name string, excludeID int64) (string, error) {

	base := Slugify(name)
	slug := base

	for i := 1; ; i++ {
		exists, err := s.products.SlugExists(ctx, slug, excludeID)
		if err != nil {
			return "", appErrors.DatabaseError("Failed to check slug").WithError(err)
		}

		if !exists {
			return slug, nil
		}

		slug = fmt.Sprintf("%s-%d", base, i)
	}
}

// Slugify lowercases name and joins its letter and digit runs with dashes.
func Slugify(name string) string {

	var b strings.Builder
	dash := false

	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			dash = false

			continue
		}
		dash = true
	}

	if b.Len() == 0 {
		return "product"
	}

	return b.String()
}

func productWriteError(err error, message string) error {
	switch {
	case repository.IsForeignKeyViolation(err):
		return appErrors.ValidationError("Unknown category or brand").WithError(err)
	case repository.IsUniqueViolation(err):
		return appErrors.DuplicateEntryError("Product slug already in use").WithError(err)
	default:
		return appErrors.DatabaseError(message).WithError(err)
	}
}
