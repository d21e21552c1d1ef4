package model

// ChemicalType is the master record for a chemical product, keyed by CAS number.
// The canonical unit is fixed at registration; all bottles of the type are
// tracked and summed in it.
type ChemicalType struct {
	CasNumber     string `db:"cas_number" json:"cas_number"`
	Name          string `db:"name" json:"name"`
	Hazards       string `db:"hazards" json:"hazards"`
	Description   string `db:"description" json:"description"`
	SdsLink       string `db:"sds_link" json:"sds_link"`
	CanonicalUnit string `db:"canonical_unit" json:"canonical_unit"`
}

// Bottle is one physical container of a chemical type. Depleted bottles are
// kept for audit, never deleted.
type Bottle struct {
	ID            int64   `db:"id" json:"id"`
	TrackingID    string  `db:"tracking_id" json:"tracking_id"`
	CasNumber     string  `db:"cas_number" json:"cas_number"`
	Barcode       string  `db:"barcode" json:"barcode"`
	QuantityValue float64 `db:"quantity_value" json:"quantity_value"`
	QuantityUnit  string  `db:"quantity_unit" json:"quantity_unit"`
	Depleted      bool    `db:"depleted" json:"depleted"`
	CreatedAt     string  `db:"created_at" json:"created_at"`
}

// ChemicalRecord is the flat bottle-joined-with-type row served by
// GET /chemicals/ and written to the CSV export.
type ChemicalRecord struct {
	ID            int64   `db:"id" json:"id"`
	Name          string  `db:"name" json:"name"`
	CasNumber     string  `db:"cas_number" json:"cas_number"`
	Barcode       string  `db:"barcode" json:"barcode"`
	TrackingID    string  `db:"tracking_id" json:"tracking_id"`
	QuantityValue float64 `db:"quantity_value" json:"quantity_value"`
	QuantityUnit  string  `db:"quantity_unit" json:"quantity_unit"`
	Hazards       string  `db:"hazards" json:"hazards"`
	Description   string  `db:"description" json:"description"`
	SdsLink       string  `db:"sds_link" json:"sds_link"`
	Depleted      bool    `db:"depleted" json:"depleted"`
}

// BottleInput is the POST /chemicals/ request body.
type BottleInput struct {
	Name          string  `json:"name"`
	CasNumber     string  `json:"cas_number"`
	Barcode       string  `json:"barcode"`
	Hazards       string  `json:"hazards"`
	Description   string  `json:"description"`
	SdsLink       string  `json:"sds_link"`
	QuantityValue float64 `json:"quantity_value"`
	QuantityUnit  string  `json:"quantity_unit"`
}

// StockSummary is the GET /total_stock/{name} response. ExcludedBottles counts
// bottles whose unit does not match the canonical unit; they are left out of
// TotalStock but still included in BottleCount.
type StockSummary struct {
	TotalStock      float64 `json:"total_stock"`
	Unit            string  `json:"unit"`
	BottleCount     int     `json:"bottle_count"`
	ExcludedBottles int     `json:"excluded_bottles,omitempty"`
}

type UsageRequest struct {
	TrackingID string  `json:"tracking_id"`
	AmountUsed float64 `json:"amount_used"`
}

type UsageResult struct {
	RemainingQuantity float64 `json:"remaining_quantity"`
	Unit              string  `json:"unit"`
}

// EnrichmentResult is the GET /autofill/{name} response. Found=false is a
// normal outcome, not an error; the caller fills the fields by hand.
type EnrichmentResult struct {
	Found       bool   `json:"found"`
	Name        string `json:"name,omitempty"`
	Hazards     string `json:"hazards,omitempty"`
	Description string `json:"description,omitempty"`
	SdsLink     string `json:"sds_link,omitempty"`
}
