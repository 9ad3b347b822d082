package handlers

import (
	"net/http"

	"github.com/ghuser/stocktake/pkg/httpx"
	pkgvalidator "github.com/ghuser/stocktake/pkg/validator"
	appsvcs "github.com/ghuser/stocktake/services/inventory/application/services"
	"github.com/ghuser/stocktake/services/inventory/domain/models"
)

// CreateItemRequest is the request body for POST /items. A negative count is
// stored as zero.
type CreateItemRequest struct {
	Name     string `json:"name"     validate:"required,notblank,max=255" example:"Towels"`
	Count    int    `json:"count"                                         example:"3"`
	Category string `json:"category" validate:"required,notblank,max=100" example:"Laundry"`
} // @name CreateItemRequest

// UpdateItemRequest is the request body for PATCH /items/{id}. Omitted
// fields are left unchanged.
type UpdateItemRequest struct {
	Name     *string `json:"name,omitempty"     validate:"omitempty,notblank,max=255" example:"Bath towels"`
	Count    *int    `json:"count,omitempty"                                          example:"4"`
	Category *string `json:"category,omitempty" validate:"omitempty,notblank,max=100" example:"Bathroom"`
} // @name UpdateItemRequest

// ListItemsResponse is returned by GET /items.
type ListItemsResponse struct {
	Items []ItemResponse `json:"items"`
	Total int            `json:"total" example:"1"`
} // @name ListItemsResponse

// ItemsHandler serves the /items endpoints.
type ItemsHandler struct {
	svc *appsvcs.Services
	responder
}

// NewItemsHandler returns an ItemsHandler backed by the given services.
func NewItemsHandler(svc *appsvcs.Services, production bool) *ItemsHandler {
	return &ItemsHandler{svc: svc, responder: responder{production: production}}
}

// List returns items, most recently updated first.
//
//	@Summary		List items
//	@Description	Lists items most recently updated first, optionally restricted to one category
//	@Tags			items
//	@Produce		json
//	@Param			category	query		string	false	"Category name (case-insensitive)"
//	@Success		200			{object}	ListItemsResponse
//	@Router			/items [get]
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	items := h.svc.Inventory.ListItems(r.URL.Query().Get("category"))
	httpx.JSON(w, http.StatusOK, ListItemsResponse{Items: toItemResponses(items), Total: len(items)})
}

// Create adds an item.
//
//	@Summary		Create item
//	@Description	Creates an item in an existing category
//	@Tags			items
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CreateItemRequest	true	"Item creation request"
//	@Success		201		{object}	ItemResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Router			/items [post]
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, ok := pkgvalidator.ValidateRequest[CreateItemRequest](w, r)
	if !ok {
		return
	}

	item, err := h.svc.Inventory.AddItem(r.Context(), req.Name, req.Count, req.Category)
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toItemResponse(item))
}

// Get returns one item.
//
//	@Summary	Get item
//	@Tags		items
//	@Produce	json
//	@Param		id	path		string	true	"Item ID"
//	@Success	200	{object}	ItemResponse
//	@Failure	400	{object}	ErrorResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/items/{id} [get]
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	item, err := h.svc.Inventory.GetItem(id)
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toItemResponse(item))
}

// Update applies a partial update.
//
//	@Summary		Update item
//	@Description	Updates name, count or category; omitted fields are unchanged
//	@Tags			items
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string				true	"Item ID"
//	@Param			request	body		UpdateItemRequest	true	"Fields to change"
//	@Success		200		{object}	ItemResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Router			/items/{id} [patch]
func (h *ItemsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	req, ok := pkgvalidator.ValidateRequest[UpdateItemRequest](w, r)
	if !ok {
		return
	}

	item, err := h.svc.Inventory.UpdateItem(r.Context(), id, models.ItemPatch{
		Name:     req.Name,
		Count:    req.Count,
		Category: req.Category,
	})
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toItemResponse(item))
}

// Delete removes an item. Unknown ids also return 204.
//
//	@Summary	Delete item
//	@Tags		items
//	@Param		id	path	string	true	"Item ID"
//	@Success	204
//	@Failure	400	{object}	ErrorResponse
//	@Router		/items/{id} [delete]
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.svc.Inventory.DeleteItem(r.Context(), id); err != nil {
		h.fail(w, err)
		return
	}
	httpx.NoContent(w)
}

// Increment adds one to an item's count.
//
//	@Summary	Increment item count
//	@Tags		items
//	@Produce	json
//	@Param		id	path		string	true	"Item ID"
//	@Success	200	{object}	ItemResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/items/{id}/increment [post]
func (h *ItemsHandler) Increment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	item, err := h.svc.Inventory.IncrementCount(r.Context(), id)
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toItemResponse(item))
}

// Decrement subtracts one from an item's count, stopping at zero.
//
//	@Summary	Decrement item count
//	@Tags		items
//	@Produce	json
//	@Param		id	path		string	true	"Item ID"
//	@Success	200	{object}	ItemResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/items/{id}/decrement [post]
func (h *ItemsHandler) Decrement(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	item, err := h.svc.Inventory.DecrementCount(r.Context(), id)
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toItemResponse(item))
}
