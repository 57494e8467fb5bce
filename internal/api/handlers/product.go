package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	service "github.com/aaravmahajanofficial/storefront/internal/services"
	"github.com/aaravmahajanofficial/storefront/internal/utils"
	"github.com/aaravmahajanofficial/storefront/internal/utils/response"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

type ProductHandler struct {
	catalogService service.CatalogService
	validator      *validator.Validate
}

func NewProductHandler(catalogService service.CatalogService) *ProductHandler {
	return &ProductHandler{catalogService: catalogService, validator: utils.NewValidator()}
}

// CreateProduct godoc
//	@Summary		Create a product
//	@Description	Adds a product to the catalog. The slug is derived from the name.
//	@Tags			Products
//	@Accept			json
//	@Produce		json
//	@Param			product	body		models.CreateProductRequest	true	"Product details"
//	@Success		201		{object}	models.Product
//	@Failure		400		{object}	response.ErrorResponse	"Validation error or unknown category/brand"
//	@Failure		401		{object}	response.ErrorResponse	"Authentication required"
//	@Failure		403		{object}	response.ErrorResponse	"Admin access required"
//	@Security		BearerAuth
//	@Router			/products [post]
func (h *ProductHandler) CreateProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		actor, err := requireActor(r)
		if err != nil {
			logger.Warn("Unauthorized product creation attempt")
			response.Error(w, err)
			return
		}

		var req models.CreateProductRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid create product input")
			return
		}

		product, err := h.catalogService.CreateProduct(r.Context(), actor, &req)
		if err != nil {
			logger.Error("Failed to create product", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Product created", slog.Int64("productId", product.ID), slog.String("slug", product.Slug))
		response.Success(w, http.StatusCreated, product)
	}
}

// GetProduct godoc
//	@Summary		Get a product
//	@Tags			Products
//	@Produce		json
//	@Param			id	path		int	true	"Product ID"
//	@Success		200	{object}	models.Product
//	@Failure		400	{object}	response.ErrorResponse	"Invalid product ID"
//	@Failure		404	{object}	response.ErrorResponse	"Product not found"
//	@Router			/products/{id} [get]
func (h *ProductHandler) GetProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		id, err := utils.ParseInt64(r, "id")
		if err != nil {
			logger.Warn("Invalid product ID", slog.String("id", r.PathValue("id")))
			response.Error(w, err)
			return
		}

		product, err := h.catalogService.GetProduct(r.Context(), id)
		if err != nil {
			logger.Warn("Failed to fetch product", slog.Int64("productId", id), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, product)
	}
}

// UpdateProduct godoc
//	@Summary		Update a product
//	@Description	Applies a partial update. The slug never changes.
//	@Tags			Products
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int							true	"Product ID"
//	@Param			product	body		models.UpdateProductRequest	true	"Fields to change"
//	@Success		200		{object}	models.Product
//	@Failure		400		{object}	response.ErrorResponse
//	@Failure		403		{object}	response.ErrorResponse	"Admin access required"
//	@Failure		404		{object}	response.ErrorResponse	"Product not found"
//	@Security		BearerAuth
//	@Router			/products/{id} [put]
func (h *ProductHandler) UpdateProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		actor, err := requireActor(r)
		if err != nil {
			logger.Warn("Unauthorized product update attempt")
			response.Error(w, err)
			return
		}

		id, err := utils.ParseInt64(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}
		logger = logger.With(slog.Int64("productId", id))

		var req models.UpdateProductRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid update product input")
			return
		}

		product, err := h.catalogService.UpdateProduct(r.Context(), actor, id, &req)
		if err != nil {
			logger.Error("Failed to update product", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Product updated")
		response.Success(w, http.StatusOK, product)
	}
}

// DeleteProduct godoc
//	@Summary		Delete a product
//	@Description	Removes the product, its cart lines and favorites. Order history keeps the frozen name and price.
//	@Tags			Products
//	@Param			id	path	int	true	"Product ID"
//	@Success		204
//	@Failure		403	{object}	response.ErrorResponse	"Admin access required"
//	@Failure		404	{object}	response.ErrorResponse	"Product not found"
//	@Security		BearerAuth
//	@Router			/products/{id} [delete]
func (h *ProductHandler) DeleteProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		actor, err := requireActor(r)
		if err != nil {
			logger.Warn("Unauthorized product deletion attempt")
			response.Error(w, err)
			return
		}

		id, err := utils.ParseInt64(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		if err := h.catalogService.DeleteProduct(r.Context(), actor, id); err != nil {
			logger.Error("Failed to delete product", slog.Int64("productId", id), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Product deleted", slog.Int64("productId", id))
		response.NoContent(w)
	}
}

// ListProducts godoc
//	@Summary		List products
//	@Description	Storefront listing with search, category and price filters, sorting and pagination.
//	@Tags			Products
//	@Produce		json
//	@Param			q			query		string	false	"Matches product or category name"
//	@Param			category	query		[]int	false	"Category IDs, 0 means all"	collectionFormat(multi)
//	@Param			price_min	query		string	false	"Lower price bound"
//	@Param			price_max	query		string	false	"Upper price bound"
//	@Param			discounted	query		int		false	"1 to show discounted products only"
//	@Param			sort		query		string	false	"price_asc, price_desc or popular"
//	@Param			page		query		int		false	"Page number"	default(1)
//	@Param			show		query		int		false	"Page size"		default(20)
//	@Success		200			{object}	models.ProductListResponse
//	@Failure		500			{object}	response.ErrorResponse
//	@Router			/products [get]
func (h *ProductHandler) ListProducts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		filter := parseProductFilter(r)

		products, err := h.catalogService.ListProducts(r.Context(), filter)
		if err != nil {
			logger.Error("Failed to list products", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, products)
	}
}

func parseProductFilter(r *http.Request) *models.ProductFilter {

	q := r.URL.Query()

	filter := &models.ProductFilter{
		Query:      strings.TrimSpace(q.Get("q")),
		Discounted: q.Get("discounted") == "1",
		Sort:       models.ProductSort(q.Get("sort")),
		Page:       utils.QueryInt(r, "page", 1),
		PageSize:   utils.QueryInt(r, "show", 0),
	}

	for _, raw := range q["category"] {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id < 0 {
			continue
		}
		if id == 0 {
			// "all categories" wins over any other selection
			filter.CategoryIDs = nil
			break
		}
		filter.CategoryIDs = append(filter.CategoryIDs, id)
	}

	if v, err := decimal.NewFromString(q.Get("price_min")); err == nil {
		filter.PriceMin = &v
	}
	if v, err := decimal.NewFromString(q.Get("price_max")); err == nil {
		filter.PriceMax = &v
	}

	switch filter.Sort {
	case models.SortPriceAsc, models.SortPriceDesc, models.SortPopular:
	default:
		filter.Sort = models.SortNewest
	}

	return filter
}

// ListCategories godoc
//	@Summary		List categories
//	@Description	Categories with their product counts, most populated first.
//	@Tags			Catalog
//	@Produce		json
//	@Success		200	{array}	models.Category
//	@Router			/categories [get]
func (h *ProductHandler) ListCategories() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		categories, err := h.catalogService.ListCategories(r.Context())
		if err != nil {
			middleware.LoggerFromContext(r.Context()).Error("Failed to list categories", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, categories)
	}
}

// GetCategory godoc
//	@Summary		Get a category
//	@Tags			Catalog
//	@Produce		json
//	@Param			slug	path		string	true	"Category slug"
//	@Success		200		{object}	models.CategoryDetailResponse
//	@Failure		404		{object}	response.ErrorResponse	"Category not found"
//	@Router			/categories/{slug} [get]
func (h *ProductHandler) GetCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		slug := r.PathValue("slug")

		category, err := h.catalogService.GetCategory(r.Context(), slug)
		if err != nil {
			middleware.LoggerFromContext(r.Context()).Warn("Failed to fetch category",
				slog.String("slug", slug), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, category)
	}
}

// ListBrands godoc
//	@Summary	List brands
//	@Tags		Catalog
//	@Produce	json
//	@Success	200	{array}	models.Brand
//	@Router		/brands [get]
func (h *ProductHandler) ListBrands() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		brands, err := h.catalogService.ListBrands(r.Context())
		if err != nil {
			middleware.LoggerFromContext(r.Context()).Error("Failed to list brands", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, brands)
	}
}

// ListLocations godoc
//	@Summary	List store locations
//	@Tags		Catalog
//	@Produce	json
//	@Success	200	{array}	models.Location
//	@Router		/locations [get]
func (h *ProductHandler) ListLocations() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		locations, err := h.catalogService.ListLocations(r.Context())
		if err != nil {
			middleware.LoggerFromContext(r.Context()).Error("Failed to list locations", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, locations)
	}
}
