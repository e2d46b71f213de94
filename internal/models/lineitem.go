package models

import (
	"time"

	"github.com/uptrace/bun"
)

// LineItem is an immutable priced snapshot of one product configuration. It
// denormalizes the id and display label of every selected option so order
// detail views never re-join against the variant catalog, which may have
// changed or lost rows since purchase. UnitPrice is the post-promotion price
// actually charged; ListPrice keeps the pre-promotion value for strikethrough
// display and auditing. Option columns are nullable rather than omitted so
// the row shape is uniform across product types.
type LineItem struct {
	bun.BaseModel `bun:"table:line_items"`

	ID           string `bun:"id,pk" json:"id"`
	UserID       string `bun:"user_id,notnull" json:"user_id"`
	ProductID    string `bun:"product_id,notnull" json:"product_id"`
	ProductTitle string `bun:"product_title,notnull" json:"product_title"`
	ProductType  string `bun:"product_type,notnull" json:"product_type"`
	Currency     string `bun:"currency,notnull" json:"currency"`
	UnitPrice    int64  `bun:"unit_price,notnull" json:"unit_price"`
	ListPrice    int64  `bun:"list_price,notnull" json:"list_price"`
	Quantity     int    `bun:"quantity,notnull" json:"quantity"`
	TotalPrice   int64  `bun:"total_price,notnull" json:"total_price"`

	EditionID           *string `bun:"edition_id,nullzero" json:"edition_id"`
	EditionName         *string `bun:"edition_name,nullzero" json:"edition_name"`
	PlatformID          *string `bun:"platform_id,nullzero" json:"platform_id"`
	PlatformName        *string `bun:"platform_name,nullzero" json:"platform_name"`
	PlanID              *string `bun:"plan_id,nullzero" json:"plan_id"`
	PlanName            *string `bun:"plan_name,nullzero" json:"plan_name"`
	DurationID          *string `bun:"duration_id,nullzero" json:"duration_id"`
	DurationLabel       *string `bun:"duration_label,nullzero" json:"duration_label"`
	DurationMonths      *int    `bun:"duration_months,nullzero" json:"duration_months"`
	DenominationID      *string `bun:"denomination_id,nullzero" json:"denomination_id"`
	DenominationValue   *int64  `bun:"denomination_value,nullzero" json:"denomination_value"`
	LicenseTypeID       *string `bun:"license_type_id,nullzero" json:"license_type_id"`
	LicenseTypeName     *string `bun:"license_type_name,nullzero" json:"license_type_name"`
	LicenseDurationID   *string `bun:"license_duration_id,nullzero" json:"license_duration_id"`
	LicenseDurationName *string `bun:"license_duration_label,nullzero" json:"license_duration_label"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}
