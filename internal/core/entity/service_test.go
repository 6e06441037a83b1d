package entity_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/libris/internal/core/entity"
	"github.com/taibuivan/libris/internal/platform/apperr"
	"github.com/taibuivan/libris/internal/platform/dberr"
)

const duneBBID = "ba446064-90a6-447b-abe5-139bb6b7a1b1"

// fakeRepository serves entities from memory.
type fakeRepository struct {
	entities map[string]*entity.Entity
}

func (repository *fakeRepository) Get(_ context.Context, t entity.Type, bbid string) (*entity.Entity, error) {
	e, ok := repository.entities[bbid]
	if !ok || e.Type != t {
		return nil, dberr.ErrNotFound
	}
	return e, nil
}

func (repository *fakeRepository) ListLanguages(context.Context) ([]entity.Language, error) {
	return []entity.Language{{ID: 1, Name: "English", ISOCode: "eng"}}, nil
}

func (repository *fakeRepository) ListTypeOptions(_ context.Context, t entity.Type) ([]entity.TypeOption, error) {
	if t == entity.TypeWork {
		return []entity.TypeOption{{ID: 1, Label: "Novel"}}, nil
	}
	return nil, nil
}

func (repository *fakeRepository) ListIdentifierTypes(context.Context) ([]entity.IdentifierType, error) {
	return identifierTypes, nil
}

func newService() *entity.Service {
	repo := &fakeRepository{entities: map[string]*entity.Entity{
		duneBBID: {
			BBID:         duneBBID,
			Type:         entity.TypeWork,
			DefaultAlias: &entity.Alias{ID: 7, Name: "Dune", SortName: "Dune"},
			IdentifierSet: &entity.IdentifierSet{Identifiers: []entity.Identifier{
				{Value: "113230702", Type: identifierTypes[2]},
			}},
		},
	}}
	return entity.NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

/*
TestService_GetPage verifies lookup, bbid validation and not-found mapping.
*/
func TestService_GetPage(t *testing.T) {
	service := newService()
	ctx := context.Background()

	page, err := service.GetPage(ctx, entity.TypeWork, duneBBID)
	require.NoError(t, err)
	assert.Equal(t, "Work “Dune”", page.Title)

	_, err = service.GetPage(ctx, entity.TypeWork, "not-a-uuid")
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)

	_, err = service.GetPage(ctx, entity.TypeAuthor, duneBBID)
	require.Error(t, err)
	assert.Equal(t, "Author not found", err.Error())
}

/*
TestService_IdentifierTypesFor verifies the creation and edition branches.
*/
func TestService_IdentifierTypesFor(t *testing.T) {
	service := newService()
	ctx := context.Background()

	created, err := service.IdentifierTypesFor(ctx, entity.TypeWork, "")
	require.NoError(t, err)
	assert.Equal(t, []int{2, 4}, ids(created))

	edited, err := service.IdentifierTypesFor(ctx, entity.TypeWork, duneBBID)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3, 4}, ids(edited))
}

func serve(t *testing.T, target string) *httptest.ResponseRecorder {
	t.Helper()

	router := chi.NewRouter()
	entity.NewHandler(newService()).RegisterRoutes(router)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, target, nil))
	return recorder
}

/*
TestHandler_GetEntity verifies the page envelope and error statuses.
*/
func TestHandler_GetEntity(t *testing.T) {
	recorder := serve(t, "/work/"+duneBBID)
	require.Equal(t, http.StatusOK, recorder.Code)

	var body struct {
		Data struct {
			BBID  string `json:"bbid"`
			Link  string `json:"link"`
			Title string `json:"title"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, duneBBID, body.Data.BBID)
	assert.Equal(t, "/work/"+duneBBID, body.Data.Link)

	unknown := serve(t, "/series/"+duneBBID)
	assert.Equal(t, http.StatusBadRequest, unknown.Code)
	assert.Contains(t, unknown.Body.String(), "Unrecognized entity type: 'series'")

	missing := serve(t, "/author/"+duneBBID)
	assert.Equal(t, http.StatusNotFound, missing.Code)
}

/*
TestHandler_ReferenceData verifies the vocabulary endpoints.
*/
func TestHandler_ReferenceData(t *testing.T) {
	assert.Equal(t, http.StatusOK, serve(t, "/languages").Code)

	options := serve(t, "/work/types")
	require.Equal(t, http.StatusOK, options.Code)
	assert.Contains(t, options.Body.String(), "Novel")

	identifiers := serve(t, "/identifier-types?entity_type=Work&bbid="+duneBBID)
	require.Equal(t, http.StatusOK, identifiers.Code)
	assert.Contains(t, identifiers.Body.String(), "VIAF")

	assert.Equal(t, http.StatusBadRequest, serve(t, "/identifier-types").Code)
}
