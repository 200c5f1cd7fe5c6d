package domain

type CartItem struct {
	ID        uint64   `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    uint64   `json:"-" gorm:"not null;uniqueIndex:idx_cart_user_product"`
	ProductID uint64   `json:"productId" gorm:"not null;uniqueIndex:idx_cart_user_product"`
	Product   *Product `json:"product,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	Quantity  int      `json:"quantity" gorm:"not null;default:1"`
}

type WishlistItem struct {
	ID        uint64   `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    uint64   `json:"-" gorm:"not null;uniqueIndex:idx_wishlist_user_product"`
	ProductID uint64   `json:"productId" gorm:"not null;uniqueIndex:idx_wishlist_user_product"`
	Product   *Product `json:"product,omitempty" gorm:"constraint:OnDelete:CASCADE"`
}

type ToggleResult string

const (
	ToggleAdded   ToggleResult = "added"
	ToggleRemoved ToggleResult = "removed"
)
