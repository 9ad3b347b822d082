package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ghuser/stocktake/pkg/errhttp"
	"github.com/ghuser/stocktake/pkg/httpx"
	"github.com/ghuser/stocktake/services/inventory/domain/models"
)

// ErrorResponse is returned on all error responses.
type ErrorResponse struct {
	Error string `json:"error" example:"category not found"`
} // @name ErrorResponse

// ItemResponse is the JSON form of an item.
type ItemResponse struct {
	ID        uuid.UUID `json:"id"         example:"123e4567-e89b-12d3-a456-426614174000"`
	Name      string    `json:"name"       example:"Towels"`
	Count     int       `json:"count"      example:"3"`
	Category  string    `json:"category"   example:"Laundry"`
	CreatedAt time.Time `json:"created_at" example:"2025-01-15T10:30:00Z"`
	UpdatedAt time.Time `json:"updated_at" example:"2025-01-15T10:30:00Z"`
} // @name ItemResponse

// CategoryResponse is the JSON form of a category.
type CategoryResponse struct {
	ID        uuid.UUID `json:"id"         example:"550e8400-e29b-41d4-a716-446655440000"`
	Name      string    `json:"name"       example:"Laundry"`
	IsDefault bool      `json:"is_default" example:"true"`
	ItemCount int       `json:"item_count" example:"2"`
} // @name CategoryResponse

func toItemResponse(item models.Item) ItemResponse {
	return ItemResponse{
		ID:        item.ID,
		Name:      item.Name.String(),
		Count:     item.Count,
		Category:  item.Category,
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
	}
}

func toItemResponses(items []models.Item) []ItemResponse {
	out := make([]ItemResponse, len(items))
	for i, item := range items {
		out[i] = toItemResponse(item)
	}
	return out
}

func toCategoryResponse(c models.Category, itemCount int) CategoryResponse {
	return CategoryResponse{
		ID:        c.ID,
		Name:      c.Name.String(),
		IsDefault: c.IsDefault,
		ItemCount: itemCount,
	}
}

// responder writes errors, hiding 5xx details in production.
type responder struct {
	production bool
}

func (rs responder) fail(w http.ResponseWriter, err error) {
	errhttp.WriteSafeError(w, err, rs.production)
}

// pathID parses the {id} URL parameter, writing 400 when it is not a UUID.
func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "id must be a UUID")
		return uuid.Nil, false
	}
	return id, true
}
