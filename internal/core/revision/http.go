package revision

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/libris/internal/platform/respond"
	"github.com/taibuivan/libris/pkg/convert"
	"github.com/taibuivan/libris/pkg/pagination"
)

// # Handler Implementation

// Handler implements the HTTP layer for the revision history.
type Handler struct {
	service *Service
}

// NewHandler constructs a new revision [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] serving the history listing.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/", handler.listRevisions)
	return router
}

// StatisticsRoutes returns a [chi.Router] serving the activity summary.
func (handler *Handler) StatisticsRoutes() chi.Router {
	router := chi.NewRouter()
	router.Get("/", handler.getStatistics)
	return router
}

/*
GET /api/v1/revisions.

Request:
  - from: int (offset, default 0)
  - size: int (1..100, default 20)

Response:
  - 200: []Assembled with pagination meta
*/
func (handler *Handler) listRevisions(writer http.ResponseWriter, request *http.Request) {
	window := pagination.FromRequest(request)

	revisions, err := handler.service.OrderedRevisions(request.Context(), window)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, revisions, pagination.NewMeta(window, len(revisions)))
}

/*
GET /api/v1/statistics.

Request:
  - days: int (look-back window, default 7)

Response:
  - 200: Statistics
*/
func (handler *Handler) getStatistics(writer http.ResponseWriter, request *http.Request) {
	days := convert.ToIntD(request.URL.Query().Get("days"), 0)

	statistics, err := handler.service.Statistics(request.Context(), days)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, statistics)
}
