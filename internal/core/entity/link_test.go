package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/libris/internal/core/entity"
)

/*
TestLink verifies the page path of an entity.
*/
func TestLink(t *testing.T) {
	link := entity.Link(entity.Ref{BBID: "ba446064-90a6-447b-abe5-139bb6b7a1b1", Type: entity.TypeEditionGroup})
	assert.Equal(t, "/edition-group/ba446064-90a6-447b-abe5-139bb6b7a1b1", link)
}

/*
TestTemplate verifies that fragments and values interleave in order.
*/
func TestTemplate(t *testing.T) {
	tests := []struct {
		name      string
		fragments []string
		keys      []string
		values    map[string]string
		want      string
	}{
		{"Greeting", []string{"Hello, ", "!"}, []string{"name"}, map[string]string{"name": "World"}, "Hello, World!"},
		{"TwoKeys", []string{"", " by ", ""}, []string{"title", "author"}, map[string]string{"title": "Dune", "author": "Herbert"}, "Dune by Herbert"},
		{"MissingKey", []string{"Work “", "”"}, []string{"name"}, map[string]string{}, "Work “”"},
		{"NoKeys", []string{"Static"}, nil, nil, "Static"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			render := entity.Template(tt.fragments, tt.keys...)
			assert.Equal(t, tt.want, render(tt.values))
		})
	}
}

/*
TestPageTitle verifies the named and unnamed branches.
*/
func TestPageTitle(t *testing.T) {
	named := entity.Template([]string{"Work “", "”"}, "name")

	tests := []struct {
		name   string
		entity *entity.Entity
		want   string
	}{
		{"NilEntity", nil, "Unnamed Work"},
		{"NoDefaultAlias", &entity.Entity{}, "Unnamed Work"},
		{"EmptyName", &entity.Entity{DefaultAlias: &entity.Alias{}}, "Unnamed Work"},
		{"Named", &entity.Entity{DefaultAlias: &entity.Alias{Name: "Dune"}}, "Work “Dune”"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, entity.PageTitle(tt.entity, "Unnamed Work", named))
		})
	}
}

/*
TestNewPage verifies that a page carries its link and family-specific title.
*/
func TestNewPage(t *testing.T) {
	page := entity.NewPage(&entity.Entity{
		BBID:         "a1",
		Type:         entity.TypePublisher,
		DefaultAlias: &entity.Alias{Name: "Gollancz"},
	})

	assert.Equal(t, "/publisher/a1", page.Link)
	assert.Equal(t, "Publisher “Gollancz”", page.Title)
	assert.Equal(t, "a1", page.BBID)
}
