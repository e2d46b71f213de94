package models

// SelectionState holds the option ids a shopper has currently chosen for one
// product, one per axis. Only the axes relevant to the product type are
// expected to be populated; the resolver ignores the rest. It is a plain
// serializable value so pricing can run without any UI harness.
type SelectionState struct {
	EditionID         string `json:"edition_id,omitempty"`
	PlatformID        string `json:"platform_id,omitempty"`
	PlanID            string `json:"plan_id,omitempty"`
	DurationID        string `json:"duration_id,omitempty"`
	DenominationID    string `json:"denomination_id,omitempty"`
	LicenseTypeID     string `json:"license_type_id,omitempty"`
	LicenseDurationID string `json:"license_duration_id,omitempty"`
	Quantity          int    `json:"quantity"`
}
