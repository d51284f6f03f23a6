package http

import (
	"net/http"
	"strconv"

	"github.com/Wahyudi120505/SnapMart---FullStack-sub000/internal/domain"
)

type CatalogHandler struct {
	sessions *Sessions
}

func NewCatalogHandler(sessions *Sessions) *CatalogHandler {
	return &CatalogHandler{sessions: sessions}
}

// Search serves the paginated, filterable product listing backing the
// cashier's catalog view.
func (h *CatalogHandler) Search(w http.ResponseWriter, r *http.Request) {
	spec, err := specFromQuery(r)
	if err != nil {
		handleCoreError(w, err)
		return
	}

	ctrl := h.sessions.Get(sessionKeyFromContext(r.Context()))
	page, err := ctrl.Catalog().FetchPage(r.Context(), spec)
	if err != nil {
		handleCoreError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, page)
}

func specFromQuery(r *http.Request) (domain.CatalogQuerySpec, error) {
	q := r.URL.Query()
	spec := domain.CatalogQuerySpec{
		Page:      1,
		Size:      10,
		Name:      q.Get("name"),
		Category:  q.Get("category"),
		SortBy:    domain.SortKey(q.Get("sortBy")),
		SortOrder: domain.SortOrder(q.Get("sortOrder")),
	}

	var err error
	if spec.Page, err = intParam(q.Get("page"), 1); err != nil {
		return spec, domain.NewError(domain.KindValidation, "page must be an integer")
	}
	if spec.Size, err = intParam(q.Get("size"), 10); err != nil {
		return spec, domain.NewError(domain.KindValidation, "size must be an integer")
	}
	if spec.MinPrice, err = int64Param(q.Get("minPrice"), 0); err != nil {
		return spec, domain.NewError(domain.KindValidation, "minPrice must be an integer")
	}
	if spec.MaxPrice, err = int64Param(q.Get("maxPrice"), 0); err != nil {
		return spec, domain.NewError(domain.KindValidation, "maxPrice must be an integer")
	}

	// Full validation (price bounds, sort fields) happens in the spec itself
	// before any request is issued.
	return spec, nil
}

func intParam(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

func int64Param(raw string, def int64) (int64, error) {
	if raw == "" {
		return def, nil
	}
	return strconv.ParseInt(raw, 10, 64)
}
