package news

import (
	"errors"
	"net/http"

	"htc-intelligence/internal/handler/http/respond"
	newsUC "htc-intelligence/internal/usecase/news"
)

type SearchHandler struct{ Svc *newsUC.Service }

// ServeHTTP searches stored news by keyword against titles and summaries.
func (h SearchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	keyword := r.URL.Query().Get("q")
	if keyword == "" {
		respond.SafeError(w, http.StatusBadRequest,
			errors.New("q query param required"))
		return
	}

	limit, err := parseLimit(r)
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	items, err := h.Svc.Search(r.Context(), keyword, limit)
	if err != nil {
		if errors.Is(err, newsUC.ErrInvalidLimit) || errors.Is(err, newsUC.ErrEmptyKeyword) {
			respond.SafeError(w, http.StatusBadRequest, err)
			return
		}
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	respond.JSON(w, http.StatusOK, toDTOs(items))
}
