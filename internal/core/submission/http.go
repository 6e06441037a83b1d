package submission

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/libris/internal/core/entity"
	"github.com/taibuivan/libris/internal/platform/middleware"
	requestutil "github.com/taibuivan/libris/internal/platform/request"
	"github.com/taibuivan/libris/internal/platform/respond"
	"github.com/taibuivan/libris/internal/platform/sec"
)

// # Handler Implementation

// Handler implements the HTTP layer for entity submissions.
type Handler struct {
	service *Service
}

// NewHandler constructs a new submission [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes adds the submission endpoints to router behind the editor role.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Group(func(editor chi.Router) {
		editor.Use(middleware.RequireRole(sec.RoleEditor))

		editor.Post("/{entityType}/create/handler", handler.create)
		editor.Post("/{entityType}/{bbid}/edit/handler", handler.edit)
	})
}

/*
POST /api/v1/{entityType}/create/handler.

Request: entity.Submission

Response:
  - 201: {"entity": SubmittedEntity}
  - 400: Unrecognized entity type or validation failure
  - 401: Not authenticated
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	submission, editorID, ok := handler.decode(writer, request)
	if !ok {
		return
	}

	submitted, err := handler.service.Create(request.Context(), editorID, submission)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, entity.SubmissionResult{Entity: submitted})
}

/*
POST /api/v1/{entityType}/{bbid}/edit/handler.

Request: entity.Submission

Response:
  - 200: {"entity": SubmittedEntity}
  - 404: Unknown entity
*/
func (handler *Handler) edit(writer http.ResponseWriter, request *http.Request) {
	submission, editorID, ok := handler.decode(writer, request)
	if !ok {
		return
	}

	submitted, err := handler.service.Edit(request.Context(), editorID, requestutil.Param(request, "bbid"), submission)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entity.SubmissionResult{Entity: submitted})
}

// decode resolves the family, the editor and the body, writing the error response on failure.
func (handler *Handler) decode(writer http.ResponseWriter, request *http.Request) (*entity.Submission, int, bool) {
	t, err := entity.TypeParam(request)
	if err != nil {
		respond.Error(writer, request, err)
		return nil, 0, false
	}

	editorID, err := requestutil.RequiredEditorID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return nil, 0, false
	}

	submission := &entity.Submission{Type: t}
	if err := requestutil.DecodeJSON(writer, request, submission); err != nil {
		respond.Error(writer, request, err)
		return nil, 0, false
	}

	return submission, editorID, true
}
