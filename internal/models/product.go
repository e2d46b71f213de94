package models

import (
	"time"

	"github.com/uptrace/bun"
)

// ProductType enumerates the four catalog shapes. Each has its own variant
// collections and its own pricing rule.
const (
	ProductTypeGame         = "game"
	ProductTypeGiftCard     = "giftcard"
	ProductTypeSubscription = "subscription"
	ProductTypeSoftware     = "software"
)

type Product struct {
	bun.BaseModel `bun:"table:products"`

	ID            string    `bun:"id,pk" json:"id"`
	StoreID       string    `bun:"store_id,notnull" json:"store_id"`
	Title         string    `bun:"title,notnull" json:"title"`
	Slug          string    `bun:"slug,unique,notnull" json:"slug"`
	ProductType   string    `bun:"product_type,notnull" json:"product_type"`
	BasePrice     int64     `bun:"base_price,notnull" json:"base_price"`
	OriginalPrice *int64    `bun:"original_price,nullzero" json:"original_price,omitempty"`
	Currency      string    `bun:"currency,notnull" json:"currency"`
	IsActive      bool      `bun:"is_active,notnull,default:true" json:"is_active"`
	CreatedAt     time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt     time.Time `bun:"updated_at,nullzero" json:"updated_at,omitempty"`
}

// Edition is a game-only variant axis. Exactly one edition per game should be
// flagged default; when none is, catalog order decides.
type Edition struct {
	bun.BaseModel `bun:"table:editions"`

	ID            string `bun:"id,pk" json:"id"`
	ProductID     string `bun:"product_id,notnull" json:"product_id"`
	Name          string `bun:"name,notnull" json:"name"`
	Price         int64  `bun:"price,notnull" json:"price"`
	OriginalPrice *int64 `bun:"original_price,nullzero" json:"original_price,omitempty"`
	IsDefault     bool   `bun:"is_default,notnull,default:false" json:"is_default"`
	SortOrder     int    `bun:"sort_order,notnull,default:0" json:"sort_order"`
}

// Platform applies to games and software. PriceModifier is stored and
// snapshotted into line items but never added to the resolved price.
type Platform struct {
	bun.BaseModel `bun:"table:platforms"`

	ID            string `bun:"id,pk" json:"id"`
	ProductID     string `bun:"product_id,notnull" json:"product_id"`
	Name          string `bun:"name,notnull" json:"name"`
	Slug          string `bun:"slug,notnull" json:"slug"`
	PriceModifier int64  `bun:"price_modifier,notnull,default:0" json:"price_modifier"`
	SortOrder     int    `bun:"sort_order,notnull,default:0" json:"sort_order"`
}

// Denomination is the gift-card axis. Price is what the customer pays,
// FaceValue is what the card redeems for; they may differ on bonus cards.
type Denomination struct {
	bun.BaseModel `bun:"table:denominations"`

	ID        string `bun:"id,pk" json:"id"`
	ProductID string `bun:"product_id,notnull" json:"product_id"`
	FaceValue int64  `bun:"face_value,notnull" json:"face_value"`
	Price     int64  `bun:"price,notnull" json:"price"`
	Currency  string `bun:"currency,notnull" json:"currency"`
	IsPopular bool   `bun:"is_popular,notnull,default:false" json:"is_popular"`
	SortOrder int    `bun:"sort_order,notnull,default:0" json:"sort_order"`
}

// Plan is the subscription axis. A plan alone carries no price; the price
// lives on its durations.
type Plan struct {
	bun.BaseModel `bun:"table:plans"`

	ID        string         `bun:"id,pk" json:"id"`
	ProductID string         `bun:"product_id,notnull" json:"product_id"`
	Name      string         `bun:"name,notnull" json:"name"`
	IsPopular bool           `bun:"is_popular,notnull,default:false" json:"is_popular"`
	SortOrder int            `bun:"sort_order,notnull,default:0" json:"sort_order"`
	Durations []PlanDuration `bun:"rel:has-many,join:id=plan_id" json:"durations,omitempty"`
}

type PlanDuration struct {
	bun.BaseModel `bun:"table:plan_durations"`

	ID        string `bun:"id,pk" json:"id"`
	PlanID    string `bun:"plan_id,notnull" json:"plan_id"`
	Months    int    `bun:"months,notnull" json:"months"`
	Label     string `bun:"label,notnull" json:"label"`
	Price     int64  `bun:"price,notnull" json:"price"`
	IsPopular bool   `bun:"is_popular,notnull,default:false" json:"is_popular"`
	SortOrder int    `bun:"sort_order,notnull,default:0" json:"sort_order"`
}

type LicenseType struct {
	bun.BaseModel `bun:"table:license_types"`

	ID        string `bun:"id,pk" json:"id"`
	ProductID string `bun:"product_id,notnull" json:"product_id"`
	Name      string `bun:"name,notnull" json:"name"`
	Price     int64  `bun:"price,notnull" json:"price"`
	IsPopular bool   `bun:"is_popular,notnull,default:false" json:"is_popular"`
	SortOrder int    `bun:"sort_order,notnull,default:0" json:"sort_order"`
}

// LicenseDuration hangs off the product, not the license type. Its multiplier
// applies on top of the license-type price. DiscountPercent is display data
// only; the resolver does not apply it.
type LicenseDuration struct {
	bun.BaseModel `bun:"table:license_durations"`

	ID              string  `bun:"id,pk" json:"id"`
	ProductID       string  `bun:"product_id,notnull" json:"product_id"`
	Label           string  `bun:"label,notnull" json:"label"`
	PriceMultiplier float64 `bun:"price_multiplier,notnull,default:1" json:"price_multiplier"`
	DiscountPercent int     `bun:"discount_percent,notnull,default:0" json:"discount_percent"`
	SortOrder       int     `bun:"sort_order,notnull,default:0" json:"sort_order"`
}

// FlashDeal is a time-bounded percentage discount scoped to one product.
// At most one active deal per product is assumed.
type FlashDeal struct {
	bun.BaseModel `bun:"table:flash_deals"`

	ID                 string    `bun:"id,pk" json:"id"`
	ProductID          string    `bun:"product_id,notnull" json:"product_id"`
	DiscountPercentage int64     `bun:"discount_percentage,notnull" json:"discount_percentage"`
	StartTime          time.Time `bun:"start_time,notnull" json:"start_time"`
	EndTime            time.Time `bun:"end_time,notnull" json:"end_time"`
	CreatedAt          time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}

// VariantCatalog bundles one product with every variant collection attached
// to it. Only the collections matching the product type are meaningful; the
// rest stay empty. The catalog is treated as immutable for the duration of a
// request.
type VariantCatalog struct {
	Product          Product           `json:"product"`
	Editions         []Edition         `json:"editions,omitempty"`
	Platforms        []Platform        `json:"platforms,omitempty"`
	Denominations    []Denomination    `json:"denominations,omitempty"`
	Plans            []Plan            `json:"plans,omitempty"`
	LicenseTypes     []LicenseType     `json:"license_types,omitempty"`
	LicenseDurations []LicenseDuration `json:"license_durations,omitempty"`
	Deal             *FlashDeal        `json:"deal,omitempty"`
}
