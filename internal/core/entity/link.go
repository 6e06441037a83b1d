package entity

import "strings"

// Link returns the page path of an entity: "/<kebab-type>/<bbid>".
func Link(e Ref) string {
	return "/" + e.Type.Kebab() + "/" + e.BBID
}

// TemplateFunc renders a template with named values.
type TemplateFunc func(values map[string]string) string

// Template builds a [TemplateFunc] from literal fragments and the value keys
// placed between them, so that strings[i] is followed by values[keys[i]].
//
// Example:
//
//	greet := entity.Template([]string{"Hello, ", "!"}, "name")
//	greet(map[string]string{"name": "World"}) // "Hello, World!"
//
// A key missing from values renders as an empty string.
func Template(fragments []string, keys ...string) TemplateFunc {
	return func(values map[string]string) string {
		var builder strings.Builder
		if len(fragments) > 0 {
			builder.WriteString(fragments[0])
		}

		for i, key := range keys {
			builder.WriteString(values[key])
			if i+1 < len(fragments) {
				builder.WriteString(fragments[i+1])
			}
		}

		return builder.String()
	}
}

// PageTitle returns titleForUnnamed unless the entity has a default alias
// with a non-empty name, in which case templateForNamed renders the title
// from a "name" value.
//
// User-visible strings are never built by concatenation; localized templates
// can reorder the name freely.
func PageTitle(e *Entity, titleForUnnamed string, templateForNamed TemplateFunc) string {
	if e == nil || e.DefaultAlias == nil || e.DefaultAlias.Name == "" {
		return titleForUnnamed
	}
	return templateForNamed(map[string]string{"name": e.DefaultAlias.Name})
}

// pageTitles holds the display title rules of each family.
var pageTitles = map[Type]struct {
	unnamed string
	named   TemplateFunc
}{
	TypeAuthor:       {"Unnamed Author", Template([]string{"Author “", "”"}, "name")},
	TypeWork:         {"Unnamed Work", Template([]string{"Work “", "”"}, "name")},
	TypeEdition:      {"Unnamed Edition", Template([]string{"Edition “", "”"}, "name")},
	TypeEditionGroup: {"Unnamed Edition Group", Template([]string{"Edition Group “", "”"}, "name")},
	TypePublisher:    {"Unnamed Publisher", Template([]string{"Publisher “", "”"}, "name")},
}

// NewPage prepares e for display.
func NewPage(e *Entity) *Page {
	rules := pageTitles[e.Type]
	return &Page{
		Entity: e,
		Link:   Link(Ref{BBID: e.BBID, Type: e.Type}),
		Title:  PageTitle(e, rules.unnamed, rules.named),
	}
}
