package news

import (
	"errors"
	"net/http"
	"strconv"

	"htc-intelligence/internal/handler/http/respond"
	newsUC "htc-intelligence/internal/usecase/news"
)

type ListHandler struct{ Svc *newsUC.Service }

// ServeHTTP returns stored news records, newest first. The optional
// category query parameter restricts results to one label; limit caps the
// page size.
func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")

	limit, err := parseLimit(r)
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	items, err := h.Svc.List(r.Context(), category, limit)
	if err != nil {
		if errors.Is(err, newsUC.ErrInvalidLimit) {
			respond.SafeError(w, http.StatusBadRequest, err)
			return
		}
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	respond.JSON(w, http.StatusOK, toDTOs(items))
}

// parseLimit reads the limit query parameter. Absent means 0, which the
// service replaces with its default.
func parseLimit(r *http.Request) (int, error) {
	limitStr := r.URL.Query().Get("limit")
	if limitStr == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(limitStr)
	if err != nil {
		return 0, errors.New("limit must be an integer")
	}
	return limit, nil
}
