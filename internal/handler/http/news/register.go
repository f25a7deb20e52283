package news

import (
	"net/http"

	newsUC "htc-intelligence/internal/usecase/news"
)

// Register registers the news read endpoints with the given mux. All
// endpoints are read-only; the crawl worker is the sole writer.
func Register(mux *http.ServeMux, svc *newsUC.Service) {
	mux.Handle("GET /api/v1/news", ListHandler{svc})
	mux.Handle("GET /api/v1/news/search", SearchHandler{svc})
	mux.Handle("GET /api/v1/news/stats", StatsHandler{svc})
}
