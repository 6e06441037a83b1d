package submission_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/libris/internal/core/entity"
	"github.com/taibuivan/libris/internal/core/submission"
	"github.com/taibuivan/libris/internal/platform/apperr"
	"github.com/taibuivan/libris/internal/platform/constants"
	"github.com/taibuivan/libris/internal/platform/ctxutil"
	"github.com/taibuivan/libris/internal/platform/dberr"
	"github.com/taibuivan/libris/internal/platform/sec"
	"github.com/taibuivan/libris/pkg/pointer"
)

const duneBBID = "ba446064-90a6-447b-abe5-139bb6b7a1b1"

var (
	isbn     = entity.IdentifierType{ID: 1, Label: "ISBN-13", EntityType: entity.TypeEdition, ValidationRegex: `^\d{13}$`}
	wikidata = entity.IdentifierType{ID: 2, Label: "Wikidata", EntityType: entity.TypeWork, ValidationRegex: `^Q\d+$`}
)

// fakeCatalog serves fixed reference data and one existing work.
type fakeCatalog struct{}

func (fakeCatalog) Get(_ context.Context, t entity.Type, bbid string) (*entity.Entity, error) {
	if bbid != duneBBID || t != entity.TypeWork {
		return nil, dberr.ErrNotFound
	}
	return &entity.Entity{
		BBID:     duneBBID,
		Type:     entity.TypeWork,
		AliasSet: &entity.AliasSet{ID: 5},
		IdentifierSet: &entity.IdentifierSet{Identifiers: []entity.Identifier{
			{Value: "9780441013593", Type: isbn},
		}},
	}, nil
}

func (fakeCatalog) ListLanguages(context.Context) ([]entity.Language, error) {
	return []entity.Language{{ID: 1, Name: "English"}}, nil
}

func (fakeCatalog) ListTypeOptions(_ context.Context, t entity.Type) ([]entity.TypeOption, error) {
	return []entity.TypeOption{{ID: 4, Label: "Novel"}}, nil
}

func (fakeCatalog) ListIdentifierTypes(context.Context) ([]entity.IdentifierType, error) {
	return []entity.IdentifierType{isbn, wikidata}, nil
}

// fakeRepository records the last committed revision.
type fakeRepository struct {
	last *submission.Revision
}

func (repository *fakeRepository) Create(_ context.Context, revision submission.Revision) (*entity.SubmittedEntity, error) {
	repository.last = &revision
	return &entity.SubmittedEntity{BBID: "new-bbid", Type: revision.Submission.Type, EntityGID: "new-bbid"}, nil
}

func (repository *fakeRepository) Edit(_ context.Context, revision submission.Revision) (*entity.SubmittedEntity, error) {
	repository.last = &revision
	return &entity.SubmittedEntity{BBID: revision.Current.BBID, Type: revision.Current.Type, EntityGID: revision.Current.BBID}, nil
}

func newService(repo submission.Repository) *submission.Service {
	return submission.NewService(repo, fakeCatalog{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func validWork() *entity.Submission {
	return &entity.Submission{
		Type:        entity.TypeWork,
		Aliases:     []entity.AliasInput{{Name: "Dune", SortName: "Dune", LanguageID: pointer.To(1), Default: true}},
		TypeID:      pointer.To(4),
		Identifiers: []entity.IdentifierInput{{Value: "Q190192", TypeID: wikidata.ID}},
		Note:        "import",
	}
}

func fields(t *testing.T, err error) []string {
	t.Helper()

	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	require.Equal(t, "VALIDATION_ERROR", appErr.Code)

	out := make([]string, 0, len(appErr.Details))
	for _, detail := range appErr.Details {
		out = append(out, detail.Field)
	}
	return out
}

/*
TestService_Create verifies the domain rules applied to a new entity.
*/
func TestService_Create(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*entity.Submission)
		fields []string
	}{
		{"Valid", func(*entity.Submission) {}, nil},
		{"NoDefaultAlias", func(s *entity.Submission) { s.Aliases[0].Default = false }, []string{"aliases"}},
		{"TwoDefaultAliases", func(s *entity.Submission) {
			s.Aliases = append(s.Aliases, entity.AliasInput{Name: "Düne", SortName: "Dune", Default: true})
		}, []string{"aliases"}},
		{"ForeignIdentifierType", func(s *entity.Submission) {
			s.Identifiers = []entity.IdentifierInput{{Value: "9780441013593", TypeID: isbn.ID}}
		}, []string{"identifiers[0].type"}},
		{"PatternMismatch", func(s *entity.Submission) { s.Identifiers[0].Value = "190192" }, []string{"identifiers[0].value"}},
		{"UnknownTypeOption", func(s *entity.Submission) { s.TypeID = pointer.To(99) }, []string{"workTypeId"}},
		{"UnknownLanguage", func(s *entity.Submission) { s.Languages = []int{7} }, []string{"languages[0]"}},
		{"MissingSortName", func(s *entity.Submission) { s.Aliases[0].SortName = "" }, []string{"aliases[0].sortName"}},
		{"BlankAliasName", func(s *entity.Submission) { s.Aliases[0].Name = "  \t" }, []string{"aliases[0].name"}},
		{"LongAnnotation", func(s *entity.Submission) {
			s.Annotation = pointer.To(strings.Repeat("a", constants.MaxAnnotationLength+1))
		}, []string{"annotation"}},
		{"MalformedSkipsDomainRules", func(s *entity.Submission) {
			s.Aliases[0].Name = ""
			s.Languages = []int{7}
		}, []string{"aliases[0].name"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeRepository{}
			payload := validWork()
			tt.mutate(payload)

			submitted, err := newService(repo).Create(context.Background(), 3, payload)
			if tt.fields == nil {
				require.NoError(t, err)
				assert.Equal(t, "new-bbid", submitted.EntityGID)
				assert.Equal(t, 3, repo.last.EditorID)
				return
			}

			assert.ElementsMatch(t, tt.fields, fields(t, err))
			assert.Nil(t, repo.last)
		})
	}
}

/*
TestService_Edit verifies the union rule for identifier types and unchanged aliases.
*/
func TestService_Edit(t *testing.T) {
	repo := &fakeRepository{}
	service := newService(repo)

	payload := validWork()
	payload.Aliases = nil
	payload.Identifiers = append(payload.Identifiers, entity.IdentifierInput{Value: "9780441013593", TypeID: isbn.ID})

	submitted, err := service.Edit(context.Background(), 3, duneBBID, payload)
	require.NoError(t, err)
	assert.Equal(t, duneBBID, submitted.BBID)
	assert.Equal(t, 5, repo.last.Current.AliasSet.ID)

	_, err = service.Edit(context.Background(), 3, "9f1b1a4e-0000-4000-8000-000000000000", validWork())
	require.Error(t, err)
	assert.Equal(t, "Work not found", err.Error())
}

/*
TestRevision_CheckMaster verifies an edit validated against a stale master
revision is refused once the header lock shows a newer one.
*/
func TestRevision_CheckMaster(t *testing.T) {
	edit := submission.Revision{Current: &entity.Entity{BBID: duneBBID, Type: entity.TypeWork, RevisionID: 12}}

	require.NoError(t, edit.CheckMaster(12))

	appErr := apperr.As(edit.CheckMaster(13))
	require.NotNil(t, appErr)
	assert.Equal(t, "CONFLICT", appErr.Code)
	assert.Equal(t, http.StatusConflict, appErr.HTTPStatus)

	create := submission.Revision{}
	assert.NoError(t, create.CheckMaster(1))
}

func serve(t *testing.T, claims *sec.AuthClaims, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	router := chi.NewRouter()
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if claims != nil {
				request = request.WithContext(ctxutil.WithEditor(request.Context(), claims))
			}
			next.ServeHTTP(writer, request)
		})
	})
	submission.NewHandler(newService(&fakeRepository{})).RegisterRoutes(router)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, target, strings.NewReader(body)))
	return recorder
}

/*
TestHandler_Create verifies authorization and the response envelope.
*/
func TestHandler_Create(t *testing.T) {
	body := `{"aliases":[{"name":"Dune","sortName":"Dune","default":true}],"workTypeId":4,"note":"n"}`
	editor := &sec.AuthClaims{UserID: "3", Role: string(sec.RoleEditor)}

	assert.Equal(t, http.StatusUnauthorized, serve(t, nil, "/work/create/handler", body).Code)
	assert.Equal(t, http.StatusForbidden, serve(t, &sec.AuthClaims{UserID: "3", Role: string(sec.RoleReader)}, "/work/create/handler", body).Code)
	assert.Equal(t, http.StatusBadRequest, serve(t, editor, "/series/create/handler", body).Code)

	recorder := serve(t, editor, "/work/create/handler", body)
	require.Equal(t, http.StatusCreated, recorder.Code)

	var response struct {
		Data entity.SubmissionResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	require.NotNil(t, response.Data.Entity)
	assert.Equal(t, "new-bbid", response.Data.Entity.EntityGID)
	assert.Equal(t, entity.TypeWork, response.Data.Entity.Type)
}

/*
TestHandler_Edit verifies the edit route.
*/
func TestHandler_Edit(t *testing.T) {
	editor := &sec.AuthClaims{UserID: "3", Role: string(sec.RoleEditor)}

	recorder := serve(t, editor, "/work/"+duneBBID+"/edit/handler", `{"aliases":[],"note":"fix"}`)
	assert.Equal(t, http.StatusOK, recorder.Code)

	invalid := serve(t, editor, "/work/"+duneBBID+"/edit/handler", `{"aliases":`)
	assert.Equal(t, http.StatusBadRequest, invalid.Code)
}
