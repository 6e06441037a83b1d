package client_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/libris/internal/client"
	"github.com/taibuivan/libris/internal/core/entity"
	"github.com/taibuivan/libris/internal/form"
	"github.com/taibuivan/libris/pkg/pointer"
)

const duneBBID = "ba446064-90a6-447b-abe5-139bb6b7a1b1"

func newServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/work/{bbid}", func(writer http.ResponseWriter, request *http.Request) {
		if request.PathValue("bbid") != duneBBID {
			writer.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(writer, `{"error":"Work not found","code":"NOT_FOUND"}`)
			return
		}
		_, _ = io.WriteString(writer, `{"data":{"bbid":"`+duneBBID+`","type":"Work","default_alias":{"id":1,"name":"Dune"},"title":"Work “Dune”"}}`)
	})
	mux.HandleFunc("GET /api/v1/identifier-types", func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "Work", request.URL.Query().Get("entity_type"))
		_, _ = io.WriteString(writer, `{"data":[{"id":2,"label":"Wikidata","entity_type":"Work"}]}`)
	})
	mux.HandleFunc("POST /api/v1/work/create/handler", func(writer http.ResponseWriter, request *http.Request) {
		if request.Header.Get("Authorization") != "Bearer secret" {
			writer.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(writer, `{"error":"Authentication required","code":"UNAUTHORIZED"}`)
			return
		}

		var body map[string]any
		assert.NoError(t, json.NewDecoder(request.Body).Decode(&body))
		assert.Equal(t, float64(4), body["workTypeId"])

		writer.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(writer, `{"data":{"entity":{"bbid":"new","type":"Work","entity_gid":"new"}}}`)
	})
	mux.HandleFunc("POST /api/v1/work/{bbid}/edit/handler", func(writer http.ResponseWriter, request *http.Request) {
		_, _ = io.WriteString(writer, `{"data":{"entity":{"bbid":"`+request.PathValue("bbid")+`","type":"Work"}}}`)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

/*
TestClient_GetEntity verifies envelope unwrapping and error decoding.
*/
func TestClient_GetEntity(t *testing.T) {
	server := newServer(t)
	c := client.New(server.URL, "", time.Second)

	page, err := c.GetEntity(context.Background(), entity.TypeWork, duneBBID)
	require.NoError(t, err)
	assert.Equal(t, "Dune", page.DefaultAlias.Name)
	assert.Equal(t, "Work “Dune”", page.Title)

	_, err = c.GetEntity(context.Background(), entity.TypeWork, "missing")
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "NOT_FOUND", apiErr.Code)
}

/*
TestClient_ListIdentifierTypes verifies the query parameters.
*/
func TestClient_ListIdentifierTypes(t *testing.T) {
	c := client.New(newServer(t).URL, "", time.Second)

	identifierTypes, err := c.ListIdentifierTypes(context.Background(), entity.TypeWork, "")
	require.NoError(t, err)
	require.Len(t, identifierTypes, 1)
	assert.Equal(t, entity.TypeWork, identifierTypes[0].EntityType)
}

/*
TestClient_Submit verifies routing, the payload key and the unauthorized mapping.
*/
func TestClient_Submit(t *testing.T) {
	server := newServer(t)
	submission := entity.Submission{TypeID: pointer.To(4)}

	result, err := client.New(server.URL, "secret", time.Second).
		Submit(context.Background(), form.Target{Type: entity.TypeWork}, submission)
	require.NoError(t, err)
	assert.Equal(t, "new", result.Entity.EntityGID)

	_, err = client.New(server.URL, "", time.Second).
		Submit(context.Background(), form.Target{Type: entity.TypeWork}, submission)
	assert.ErrorIs(t, err, form.ErrUnauthorized)

	edited, err := client.New(server.URL, "secret", time.Second).
		Submit(context.Background(), form.Target{Type: entity.TypeWork, BBID: duneBBID}, submission)
	require.NoError(t, err)
	assert.Equal(t, duneBBID, edited.Entity.BBID)
}

/*
TestClient_ListRevisions verifies decoding of assembled entries, including empty ones.
*/
func TestClient_ListRevisions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/api/v1/revisions", request.URL.Path)
		assert.Equal(t, "20", request.URL.Query().Get("size"))
		_, _ = io.WriteString(writer, `{"data":[{"revision_id":3,"editor":{"id":1,"name":"alice"},"name":"Dune","alias_id":7},{}],"meta":{"from":0,"size":20,"next":null}}`)
	}))
	t.Cleanup(server.Close)

	revisions, err := client.New(server.URL, "", time.Second).ListRevisions(context.Background(), 0, 20)
	require.NoError(t, err)
	require.Len(t, revisions, 2)
	assert.Equal(t, "Dune", revisions[0].Name)
	assert.Equal(t, "alice", revisions[0].Editor.Name)
	assert.True(t, revisions[1].IsEmpty())
}
