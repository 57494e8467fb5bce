package models

type WishlistAction string

const (
	WishlistAdded   WishlistAction = "added"
	WishlistRemoved WishlistAction = "removed"
)

type WishlistToggleResponse struct {
	Success     bool           `json:"success"`
	Action      WishlistAction `json:"action"`
	WishlistQty int            `json:"wishlist_qty"`
}
