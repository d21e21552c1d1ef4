package main

import (
	"net/http"

	"github.com/jmoiron/sqlx"

	"chemtrack/automation"
	"chemtrack/config"
	"chemtrack/enrich"
	"chemtrack/export"
	"chemtrack/importer"
	"chemtrack/ledger"
	"chemtrack/registry"
	"chemtrack/stock"
	"chemtrack/usage"
)

func SetupRoutes(mux *http.ServeMux, dbConn *sqlx.DB) {
	enrichClient := enrich.NewClient(config.GetConfig().EnrichmentBaseURL)

	chemicals := func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			registry.ListChemicalsHandler(dbConn)(w, r)
		case http.MethodPost:
			ledger.SaveBottleHandler(dbConn)(w, r)
		default:
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		}
	}
	mux.HandleFunc("/chemicals", chemicals)
	mux.HandleFunc("/chemicals/", chemicals)

	mux.HandleFunc("/search", registry.SearchChemicalsHandler(dbConn))
	mux.HandleFunc("/total_stock/", stock.TotalStockHandler(dbConn))
	mux.HandleFunc("/autofill/", enrich.AutofillHandler(enrichClient))
	mux.HandleFunc("/use_chemical/", usage.UseChemicalHandler(dbConn))
	mux.HandleFunc("/export_csv", export.ExportCSVHandler(dbConn))

	mux.HandleFunc("/api/resolve/", registry.ResolveHandler(dbConn))
	mux.HandleFunc("/api/import/chemicals", importer.ImportChemicalsHandler(dbConn, enrichClient))
	mux.HandleFunc("/api/sds/download", automation.DownloadSDSHandler())

	mux.HandleFunc("/api/config", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			GetConfigHandler()(w, r)
		case http.MethodPost:
			SaveConfigHandler()(w, r)
		default:
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		}
	})
}
