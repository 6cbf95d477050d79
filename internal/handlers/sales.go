package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/example/cineflix/internal/platform/analytics"
	"github.com/example/cineflix/internal/platform/api"
	"github.com/example/cineflix/internal/platform/auth"
	"github.com/example/cineflix/internal/platform/httpserver"
	"github.com/example/cineflix/internal/sales"
)

type recordSaleRequest struct {
	MovieID   int64   `json:"movie_id"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// RecordSale appends a sale to the ledger.
func RecordSale(ledger *sales.Ledger, ap *analytics.Publisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())

		var req recordSaleRequest
		if !decodeJSON(w, r, rid, &req) {
			return
		}

		sale, err := ledger.RecordSale(r.Context(), req.MovieID, req.Quantity, req.UnitPrice)
		if err != nil {
			writeDomainError(w, rid, err)
			return
		}

		username, _ := auth.UsernameFromContext(r.Context())
		ap.Publish(analytics.SubjectSaleRecorded, "sale_recorded", username, map[string]any{
			"sale_id": sale.ID,
			"total":   sale.Total,
		})

		api.WriteJSON(w, http.StatusCreated, sale)
	}
}

// ListSales returns the ledger newest first, optionally bounded by from/to.
func ListSales(ledger *sales.Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())

		p, ok := salesPeriod(w, r, rid)
		if !ok {
			return
		}
		list, err := ledger.List(r.Context(), p)
		if err != nil {
			writeDomainError(w, rid, err)
			return
		}
		if list == nil {
			list = []sales.Sale{}
		}
		api.WriteJSON(w, http.StatusOK, map[string]any{"sales": list, "count": len(list)})
	}
}

// CancelSale removes a sale from the ledger.
func CancelSale(ledger *sales.Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())

		if err := ledger.Cancel(r.Context(), chi.URLParam(r, "sale_id")); err != nil {
			writeDomainError(w, rid, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// SalesReport summarizes the ledger for the from/to window.
func SalesReport(ledger *sales.Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())

		p, ok := salesPeriod(w, r, rid)
		if !ok {
			return
		}
		report, err := ledger.Report(r.Context(), p)
		if err != nil {
			writeDomainError(w, rid, err)
			return
		}
		api.WriteJSON(w, http.StatusOK, report)
	}
}

// salesPeriod parses optional from/to query params, accepting RFC 3339
// timestamps or bare dates. On failure it writes a 400 and returns false.
func salesPeriod(w http.ResponseWriter, r *http.Request, rid string) (sales.Period, bool) {
	var p sales.Period
	for _, bound := range []struct {
		name string
		dst  *time.Time
	}{
		{"from", &p.From},
		{"to", &p.To},
	} {
		raw := r.URL.Query().Get(bound.name)
		if raw == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			t, err = time.Parse("2006-01-02", raw)
		}
		if err != nil {
			api.BadRequest(w, "INVALID_PERIOD", bound.name+" must be RFC 3339 or YYYY-MM-DD", rid, nil)
			return sales.Period{}, false
		}
		*bound.dst = t.UTC()
	}
	return p, true
}
