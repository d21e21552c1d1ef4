package importer

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log"
	"strings"

	"github.com/jmoiron/sqlx"

	"chemtrack/enrich"
	"chemtrack/ledger"
	"chemtrack/model"
)

// Bulk import registers chemical types only. Bottles are added when physical
// stock is scanned in; a spreadsheet row has no real container behind it.

// RowResult reports one imported line.
type RowResult struct {
	Identifier string `json:"identifier"`
	Registered bool   `json:"registered"`
	Name       string `json:"name,omitempty"`
	Error      string `json:"error,omitempty"`
}

// headerWords are first-column values treated as a header line and skipped.
var headerWords = map[string]bool{
	"name":       true,
	"cas":        true,
	"cas_number": true,
	"chemical":   true,
}

// ImportIdentifiers reads identifiers (CAS numbers or names, first CSV
// column) from r, enriches each via the client and registers the resulting
// chemical types. One bad row never aborts the run.
func ImportIdentifiers(ctx context.Context, db *sqlx.DB, client *enrich.Client, r io.Reader) []RowResult {
	var results []RowResult

	scan := bufio.NewScanner(r)
	for scan.Scan() {
		item := strings.SplitN(scan.Text(), ",", 2)[0]
		item = strings.TrimSpace(strings.ReplaceAll(item, `"`, ""))
		if item == "" || headerWords[strings.ToLower(item)] {
			continue
		}

		results = append(results, importOne(ctx, db, client, item))
	}
	if err := scan.Err(); err != nil {
		results = append(results, RowResult{Identifier: "(read)", Error: err.Error()})
	}

	return results
}

func importOne(ctx context.Context, db *sqlx.DB, client *enrich.Client, item string) RowResult {
	res := RowResult{Identifier: item}

	enriched, err := client.Lookup(ctx, item)
	if err != nil {
		if errors.Is(err, model.ErrEnrichmentUnavailable) {
			res.Error = "not found in enrichment service"
		} else {
			res.Error = "enrichment lookup failed: " + err.Error()
		}
		return res
	}

	ct := model.ChemicalType{
		CasNumber:     item,
		Name:          enriched.Name,
		Hazards:       enriched.Hazards,
		Description:   "Bulk import",
		SdsLink:       enriched.SdsLink,
		CanonicalUnit: "ml",
	}
	if err := ledger.RegisterChemicalType(db, ct); err != nil {
		res.Error = "registration failed: " + err.Error()
		return res
	}

	log.Printf("Imported chemical type %s (%s)", ct.CasNumber, ct.Name)
	res.Registered = true
	res.Name = ct.Name
	return res
}
