package entity

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/libris/internal/platform/apperr"
	requestutil "github.com/taibuivan/libris/internal/platform/request"
	"github.com/taibuivan/libris/internal/platform/respond"
)

// # Handler Implementation

// Handler implements the HTTP layer for entity reads.
type Handler struct {
	service *Service
}

// NewHandler constructs a new entity [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes adds the entity read endpoints to router.
//
// The endpoints share the API root with the submission handlers, so they are
// registered in place rather than mounted.
//
// # Routing Strategy
//
//   - /languages and /identifier-types serve reference data for the editor.
//   - /{entityType}/types serves the family's type vocabulary.
//   - /{entityType}/{bbid} serves one entity page at its master revision.
//
// The {entityType} segment is the kebab form of a family ("edition-group").
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/languages", handler.listLanguages)
	router.Get("/identifier-types", handler.listIdentifierTypes)
	router.Get("/{entityType}/types", handler.listTypeOptions)
	router.Get("/{entityType}/{bbid}", handler.getEntity)
}

// TypeParam resolves the kebab {entityType} URL segment of request.
//
// An unknown family becomes a 400 carrying the unrecognized-type message.
func TypeParam(request *http.Request) (Type, error) {
	t, err := ParseKebab(requestutil.Param(request, "entityType"))
	if err != nil {
		return "", badType(err)
	}
	return t, nil
}

func badType(err error) error {
	var unrecognized *UnrecognizedTypeError
	if errors.As(err, &unrecognized) {
		return apperr.BadRequest(unrecognized.Error())
	}
	return err
}

/*
GET /api/v1/{entityType}/{bbid}.

Response:
  - 200: Page
  - 400: Unrecognized entity type
  - 404: No master revision
*/
func (handler *Handler) getEntity(writer http.ResponseWriter, request *http.Request) {
	t, err := TypeParam(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	page, err := handler.service.GetPage(request.Context(), t, requestutil.Param(request, "bbid"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, page)
}

/*
GET /api/v1/{entityType}/types.

Response:
  - 200: []TypeOption
*/
func (handler *Handler) listTypeOptions(writer http.ResponseWriter, request *http.Request) {
	t, err := TypeParam(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	options, err := handler.service.ListTypeOptions(request.Context(), t)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, options)
}

func (handler *Handler) listLanguages(writer http.ResponseWriter, request *http.Request) {
	languages, err := handler.service.ListLanguages(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, languages)
}

/*
GET /api/v1/identifier-types?entity_type=Work&bbid=...

Description: Returns the identifier types an editor may use on a new entity
of the family, or on an existing entity when bbid is given.

Response:
  - 200: []IdentifierType
  - 400: Missing or unrecognized entity_type
*/
func (handler *Handler) listIdentifierTypes(writer http.ResponseWriter, request *http.Request) {
	query := request.URL.Query()

	t, err := ParseType(query.Get(FieldEntityType))
	if err != nil {
		respond.Error(writer, request, badType(err))
		return
	}

	identifierTypes, err := handler.service.IdentifierTypesFor(request.Context(), t, query.Get(FieldBBID))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, identifierTypes)
}
