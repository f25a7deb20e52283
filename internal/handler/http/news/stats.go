package news

import (
	"net/http"

	"htc-intelligence/internal/handler/http/respond"
	newsUC "htc-intelligence/internal/usecase/news"
)

type StatsHandler struct{ Svc *newsUC.Service }

// ServeHTTP returns store-level statistics, currently the total record count.
func (h StatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	total, err := h.Svc.Count(r.Context())
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	respond.JSON(w, http.StatusOK, map[string]int64{"total": total})
}
