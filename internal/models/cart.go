package models

import (
	"errors"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// MaxLineQuantity caps the quantity of a single cart line.
const MaxLineQuantity = 999

var ErrQuantityLimit = errors.New("cart line quantity limit reached")

// CartOwner identifies whose cart an operation targets. A zero ProfileID
// means the caller is a guest and SessionID keys the cart.
type CartOwner struct {
	ProfileID int64
	SessionID string
}

func (o CartOwner) IsGuest() bool {
	return o.ProfileID == 0
}

// CartLine is one product in a cart. For persisted carts Price is the live
// product price; for guest carts it is the price captured when the line was added.
type CartLine struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

func (l CartLine) Total() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

type CartLines []CartLine

func (ls CartLines) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range ls {
		total = total.Add(l.Total())
	}

	return total
}

func (ls CartLines) Quantity() int {
	qty := 0
	for _, l := range ls {
		qty += l.Quantity
	}

	return qty
}

// GuestCartLine is the session-stored snapshot of a product.
type GuestCartLine struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

// GuestCart maps the decimal product id to its line.
type GuestCart map[string]GuestCartLine

func GuestCartKey(productID int64) string {
	return strconv.FormatInt(productID, 10)
}

// Lines returns the guest cart ordered by product id. Entries whose key is
// not a product id are skipped.
func (g GuestCart) Lines() CartLines {
	lines := make(CartLines, 0, len(g))
	for key, line := range g {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			continue
		}
		lines = append(lines, CartLine{ProductID: id, Name: line.Name, Price: line.Price, Quantity: line.Quantity})
	}

	sort.Slice(lines, func(i, j int) bool { return lines[i].ProductID < lines[j].ProductID })

	return lines
}

type CartAction string

const (
	CartActionIncrease CartAction = "increase"
	CartActionDecrease CartAction = "decrease"
)

func (a CartAction) Valid() bool {
	return a == CartActionIncrease || a == CartActionDecrease
}

// CoerceQuantity turns a loosely typed quantity into a positive count.
// Anything unparseable, fractional or below one becomes 1; large values are
// capped at MaxLineQuantity.
func CoerceQuantity(v any) int {
	var q float64

	switch t := v.(type) {
	case float64:
		if t == math.Trunc(t) {
			q = t
		}
	case int:
		q = float64(t)
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		if err == nil {
			q = float64(n)
		}
	}

	switch {
	case q < 1:
		return 1
	case q > MaxLineQuantity:
		return MaxLineQuantity
	default:
		return int(q)
	}
}

type AddItemRequest struct {
	Quantity any `json:"quantity" swaggertype:"integer" example:"1"`
}

type UpdateItemRequest struct {
	Action CartAction `json:"action" validate:"required" example:"increase"`
}

// QuantityChange is the outcome of applying an increase/decrease delta.
type QuantityChange struct {
	Removed   bool
	Quantity  int
	ItemTotal decimal.Decimal
	CartTotal decimal.Decimal
}

type AddItemResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	CartQty int    `json:"cart_qty"`
}

type UpdateItemResponse struct {
	Status    string `json:"status"`
	Removed   bool   `json:"removed"`
	Quantity  *int   `json:"quantity,omitempty"`
	ItemTotal string `json:"item_total,omitempty"`
	CartTotal string `json:"cart_total"`
}

type UpdateItemErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func NewUpdateItemResponse(change *QuantityChange) UpdateItemResponse {
	resp := UpdateItemResponse{
		Status:    "success",
		Removed:   change.Removed,
		CartTotal: FormatMoney(change.CartTotal),
	}

	if !change.Removed {
		qty := change.Quantity
		resp.Quantity = &qty
		resp.ItemTotal = FormatMoney(change.ItemTotal)
	}

	return resp
}

type CartItemView struct {
	ProductID  int64  `json:"product_id"`
	Name       string `json:"name"`
	Price      string `json:"price"`
	Quantity   int    `json:"quantity"`
	TotalPrice string `json:"total_price"`
}

type CartView struct {
	Items     []CartItemView `json:"items"`
	CartQty   int            `json:"cart_qty"`
	CartTotal string         `json:"cart_total"`
}

func NewCartView(lines CartLines) *CartView {
	view := &CartView{
		Items:     make([]CartItemView, 0, len(lines)),
		CartQty:   lines.Quantity(),
		CartTotal: FormatMoney(lines.Total()),
	}

	for _, l := range lines {
		view.Items = append(view.Items, CartItemView{
			ProductID:  l.ProductID,
			Name:       l.Name,
			Price:      FormatMoney(l.Price),
			Quantity:   l.Quantity,
			TotalPrice: FormatMoney(l.Total()),
		})
	}

	return view
}

type ClaimCartResponse struct {
	MergedLines int `json:"merged_lines"`
	CartQty     int `json:"cart_qty"`
}
