package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type ProductStatus string

const (
	ProductStatusNew       ProductStatus = "new"
	ProductStatusExcellent ProductStatus = "excellent"
	ProductStatusDefect    ProductStatus = "defect"
	ProductStatusMarriage  ProductStatus = "marriage"
)

type Category struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	ParentID     *int64    `json:"parent_id,omitempty"`
	ProductCount int       `json:"product_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Brand struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
}

type Location struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Product struct {
	ID            int64               `json:"id"`
	CategoryID    *int64              `json:"category_id,omitempty"`
	BrandID       *int64              `json:"brand_id,omitempty"`
	Name          string              `json:"name"`
	Slug          string              `json:"slug"`
	Description   string              `json:"description"`
	Complectation string              `json:"complectation,omitempty"`
	Price         decimal.Decimal     `json:"price"`
	OldPrice      decimal.NullDecimal `json:"old_price"`
	Discount      *int                `json:"discount,omitempty"`
	Status        ProductStatus       `json:"status"`
	IsAvailable   bool                `json:"is_available"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

type CreateProductRequest struct {
	CategoryID    *int64           `json:"category_id,omitempty"`
	BrandID       *int64           `json:"brand_id,omitempty"`
	Name          string           `json:"name" validate:"required,min=2,max=255"`
	Description   string           `json:"description"`
	Complectation string           `json:"complectation"`
	Price         decimal.Decimal  `json:"price" swaggertype:"string" example:"19.99"`
	OldPrice      *decimal.Decimal `json:"old_price,omitempty" swaggertype:"string" example:"24.99"`
	Discount      *int             `json:"discount,omitempty" validate:"omitempty,min=0,max=100"`
	Status        ProductStatus    `json:"status" validate:"omitempty,oneof=new excellent defect marriage"`
	IsAvailable   *bool            `json:"is_available,omitempty"`
}

type UpdateProductRequest struct {
	CategoryID    *int64           `json:"category_id,omitempty"`
	BrandID       *int64           `json:"brand_id,omitempty"`
	Name          *string          `json:"name,omitempty" validate:"omitempty,min=2,max=255"`
	Description   *string          `json:"description,omitempty"`
	Complectation *string          `json:"complectation,omitempty"`
	Price         *decimal.Decimal `json:"price,omitempty" swaggertype:"string" example:"19.99"`
	OldPrice      *decimal.Decimal `json:"old_price,omitempty" swaggertype:"string" example:"24.99"`
	Discount      *int             `json:"discount,omitempty" validate:"omitempty,min=0,max=100"`
	Status        *ProductStatus   `json:"status,omitempty" validate:"omitempty,oneof=new excellent defect marriage"`
	IsAvailable   *bool            `json:"is_available,omitempty"`
}

type ProductSort string

const (
	SortNewest    ProductSort = ""
	SortPriceAsc  ProductSort = "price_asc"
	SortPriceDesc ProductSort = "price_desc"
	SortPopular   ProductSort = "popular"
)

// ProductFilter mirrors the storefront listing query string.
type ProductFilter struct {
	Query       string
	CategoryIDs []int64
	PriceMin    *decimal.Decimal
	PriceMax    *decimal.Decimal
	Discounted  bool
	Sort        ProductSort
	Page        int
	PageSize    int
}

type PriceBounds struct {
	MinPrice decimal.NullDecimal `json:"min_price" swaggertype:"string"`
	MaxPrice decimal.NullDecimal `json:"max_price" swaggertype:"string"`
}

type ProductListResponse struct {
	PaginatedResponse
	PriceBounds PriceBounds `json:"price_bounds"`
}

type CategoryDetailResponse struct {
	Category *Category `json:"category"`
	Products []Product `json:"products"`
}
