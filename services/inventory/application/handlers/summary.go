package handlers

import (
	"encoding/csv"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/ghuser/stocktake/pkg/httpx"
	appsvcs "github.com/ghuser/stocktake/services/inventory/application/services"
	"github.com/ghuser/stocktake/services/inventory/domain/models"
)

// SummaryResponse is the count-per-category view.
type SummaryResponse struct {
	Total      int                     `json:"total"      example:"5"`
	Categories []appsvcs.CategoryCount `json:"categories"`
} // @name SummaryResponse

// ExportColumns is the CSV header row written by Export.
var ExportColumns = []string{"id", "name", "count", "category", "created_at", "updated_at"}

// ReportsHandler serves read-only aggregate views.
type ReportsHandler struct {
	svc *appsvcs.Services
}

// NewReportsHandler returns a ReportsHandler backed by the given services.
func NewReportsHandler(svc *appsvcs.Services) *ReportsHandler {
	return &ReportsHandler{svc: svc}
}

// Summary returns the number of items per category.
//
//	@Summary		Inventory summary
//	@Description	Item count per category in category order; empty categories are omitted
//	@Tags			reports
//	@Produce		json
//	@Success		200	{object}	SummaryResponse
//	@Router			/summary [get]
func (h *ReportsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	sum := h.svc.Inventory.CachedSummary(r.Context())
	httpx.JSON(w, http.StatusOK, SummaryResponse{Total: sum.Total, Categories: sum.Categories})
}

// Export streams all items as CSV, most recently updated first.
//
//	@Summary	Export items as CSV
//	@Tags		reports
//	@Produce	text/csv
//	@Success	200	{string}	string	"CSV document"
//	@Router		/export.csv [get]
func (h *ReportsHandler) Export(w http.ResponseWriter, r *http.Request) {
	items := h.svc.Inventory.ListItems("")
	_ = httpx.CSVAttachment(w, "stocktake-items.csv", func(out io.Writer) error {
		return WriteCSV(out, items)
	})
}

// WriteCSV writes items as CSV with the ExportColumns header. Timestamps
// are RFC 3339 in UTC.
func WriteCSV(w io.Writer, items []models.Item) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ExportColumns); err != nil {
		return err
	}
	for _, it := range items {
		if err := cw.Write([]string{
			it.ID.String(),
			it.Name.String(),
			strconv.Itoa(it.Count),
			it.Category,
			it.CreatedAt.UTC().Format(time.RFC3339Nano),
			it.UpdatedAt.UTC().Format(time.RFC3339Nano),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
