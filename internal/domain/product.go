package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Category struct {
	ID   uint64 `json:"id" gorm:"primaryKey;autoIncrement"`
	Name string `json:"name" gorm:"size:100;not null;uniqueIndex"`
}

type Product struct {
	ID          uint64          `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string          `json:"name" gorm:"size:200;not null;index"`
	Description string          `json:"description" gorm:"type:text"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	CategoryID  *uint64         `json:"categoryId" gorm:"index"`
	Category    *Category       `json:"category,omitempty" gorm:"constraint:OnDelete:SET NULL"`
	IsActive    bool            `json:"isActive" gorm:"not null"`
	Image       string          `json:"image" gorm:"size:500"`
	CreatedAt   time.Time       `json:"createdAt" gorm:"autoCreateTime"`
}

// CategoryName returns "" for uncategorised products.
func (p Product) CategoryName() string {
	if p.Category == nil {
		return ""
	}
	return p.Category.Name
}

// ProductInput is the full set of fields for a new product.
type ProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Category    string
	Image       string
}

func (in ProductInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return Invalid("product name is required")
	}
	if in.Price.IsNegative() {
		return Invalid("price must not be negative")
	}
	return nil
}

// ProductPatch carries optional product edits; nil fields are left unchanged.
// Category is applied by the caller since it needs a category lookup.
type ProductPatch struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Category    *string
	Image       *string
	IsActive    *bool
}

func (p ProductPatch) Apply(prod *Product) error {
	if p.Name != nil {
		if strings.TrimSpace(*p.Name) == "" {
			return Invalid("product name must not be empty")
		}
		prod.Name = *p.Name
	}
	if p.Description != nil {
		prod.Description = *p.Description
	}
	if p.Price != nil {
		if p.Price.IsNegative() {
			return Invalid("price must not be negative")
		}
		prod.Price = *p.Price
	}
	// An empty image keeps the current one, so a form re-submit without a new
	// upload does not clear it.
	if p.Image != nil && *p.Image != "" {
		prod.Image = *p.Image
	}
	if p.IsActive != nil {
		prod.IsActive = *p.IsActive
	}
	return nil
}

// ProductSeed is one record of a bulk catalog import.
type ProductSeed struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Image       string          `json:"image"`
}
