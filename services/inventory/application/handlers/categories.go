package handlers

import (
	"net/http"

	"github.com/ghuser/stocktake/pkg/httpx"
	pkgvalidator "github.com/ghuser/stocktake/pkg/validator"
	appsvcs "github.com/ghuser/stocktake/services/inventory/application/services"
	"github.com/ghuser/stocktake/services/inventory/domain/models"
)

// CategoryRequest is the request body for POST /categories and
// PUT /categories/{id}.
type CategoryRequest struct {
	Name string `json:"name" validate:"required,notblank,max=100" example:"Garage"`
} // @name CategoryRequest

// ListCategoriesResponse is returned by GET /categories.
type ListCategoriesResponse struct {
	Categories []CategoryResponse `json:"categories"`
} // @name ListCategoriesResponse

// DeleteCategoryResponse reports what happened to the deleted category's items.
type DeleteCategoryResponse struct {
	Disposition   string `json:"disposition"    example:"reassign:Home"`
	AffectedItems int    `json:"affected_items" example:"2"`
} // @name DeleteCategoryResponse

// CategoriesHandler serves the /categories endpoints.
type CategoriesHandler struct {
	svc *appsvcs.Services
	responder
}

// NewCategoriesHandler returns a CategoriesHandler backed by the given services.
func NewCategoriesHandler(svc *appsvcs.Services, production bool) *CategoriesHandler {
	return &CategoriesHandler{svc: svc, responder: responder{production: production}}
}

// List returns categories in storage order.
//
//	@Summary	List categories
//	@Tags		categories
//	@Produce	json
//	@Success	200	{object}	ListCategoriesResponse
//	@Router		/categories [get]
func (h *CategoriesHandler) List(w http.ResponseWriter, r *http.Request) {
	cats := h.svc.Inventory.ListCategories()
	out := make([]CategoryResponse, len(cats))
	for i, c := range cats {
		out[i] = toCategoryResponse(c, h.svc.Inventory.CategoryItemCount(c.Name.String()))
	}
	httpx.JSON(w, http.StatusOK, ListCategoriesResponse{Categories: out})
}

// Create adds a category.
//
//	@Summary	Create category
//	@Tags		categories
//	@Accept		json
//	@Produce	json
//	@Param		request	body		CategoryRequest	true	"Category name"
//	@Success	201		{object}	CategoryResponse
//	@Failure	409		{object}	ErrorResponse
//	@Failure	422		{object}	ErrorResponse
//	@Router		/categories [post]
func (h *CategoriesHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, ok := pkgvalidator.ValidateRequest[CategoryRequest](w, r)
	if !ok {
		return
	}
	c, err := h.svc.Inventory.AddCategory(r.Context(), req.Name)
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toCategoryResponse(c, 0))
}

// Rename renames a category and moves its items to the new name.
//
//	@Summary		Rename category
//	@Description	Renames a category; items tagged with the old name follow it
//	@Tags			categories
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string			true	"Category ID"
//	@Param			request	body		CategoryRequest	true	"New name"
//	@Success		200		{object}	CategoryResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Router			/categories/{id} [put]
func (h *CategoriesHandler) Rename(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	req, ok := pkgvalidator.ValidateRequest[CategoryRequest](w, r)
	if !ok {
		return
	}
	c, err := h.svc.Inventory.UpdateCategory(r.Context(), id, req.Name)
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toCategoryResponse(c, h.svc.Inventory.CategoryItemCount(c.Name.String())))
}

// Delete removes a category. With reassign_to its items move to that
// category; without it they are deleted.
//
//	@Summary	Delete category
//	@Tags		categories
//	@Produce	json
//	@Param		id			path		string	true	"Category ID"
//	@Param		reassign_to	query		string	false	"Category that receives the items"
//	@Success	200			{object}	DeleteCategoryResponse
//	@Failure	404			{object}	ErrorResponse
//	@Failure	422			{object}	ErrorResponse
//	@Router		/categories/{id} [delete]
func (h *CategoriesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	d := models.DeleteOrphans()
	if q := r.URL.Query(); q.Has("reassign_to") {
		d = models.ReassignTo(q.Get("reassign_to"))
	}

	applied, n, err := h.svc.Inventory.DeleteCategory(r.Context(), id, d)
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, DeleteCategoryResponse{Disposition: applied.String(), AffectedItems: n})
}
