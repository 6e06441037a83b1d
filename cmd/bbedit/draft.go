package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/taibuivan/libris/internal/core/entity"
	"github.com/taibuivan/libris/internal/form"
)

// Draft is the YAML form of a submission.
//
// Sections left out of the file keep the wizard's current value, which is the
// prefilled entity when editing.
type Draft struct {
	Aliases        []DraftAlias      `yaml:"aliases"`
	TypeID         *int              `yaml:"type_id"`
	Languages      []int             `yaml:"languages"`
	Disambiguation *string           `yaml:"disambiguation"`
	Annotation     *string           `yaml:"annotation"`
	Identifiers    []DraftIdentifier `yaml:"identifiers"`
	Note           string            `yaml:"note"`
}

// DraftAlias is one alias row of a draft.
type DraftAlias struct {
	Name     string `yaml:"name"`
	SortName string `yaml:"sort_name"`
	Language *int   `yaml:"language"`
	Primary  bool   `yaml:"primary"`
	Default  bool   `yaml:"default"`
}

// DraftIdentifier is one identifier row of a draft.
type DraftIdentifier struct {
	Type  int    `yaml:"type"`
	Value string `yaml:"value"`
}

// hasData reports whether the draft touches the data step.
func (d *Draft) hasData() bool {
	return d.TypeID != nil || d.Languages != nil || d.Disambiguation != nil || d.Annotation != nil || d.Identifiers != nil
}

// LoadDraft reads and parses a draft file.
func LoadDraft(path string) (*Draft, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read draft: %w", err)
	}

	var draft Draft
	if err := yaml.Unmarshal(raw, &draft); err != nil {
		return nil, fmt.Errorf("failed to parse draft %s: %w", path, err)
	}

	return &draft, nil
}

// Apply sends the draft's sections to the wizard as value-changed events.
func (d *Draft) Apply(wizard *form.Wizard) error {
	if d.Aliases != nil {
		aliases := make([]entity.AliasInput, 0, len(d.Aliases))
		for _, alias := range d.Aliases {
			aliases = append(aliases, entity.AliasInput{
				Name:       alias.Name,
				SortName:   alias.SortName,
				LanguageID: alias.Language,
				Primary:    alias.Primary,
				Default:    alias.Default,
			})
		}
		if err := wizard.Change(form.StepAliases, form.AliasesValue{Aliases: aliases}); err != nil {
			return err
		}
	}

	if d.hasData() {
		data := wizard.Value(form.StepData).(form.DataValue)
		if d.TypeID != nil {
			data.TypeID = d.TypeID
		}
		if d.Languages != nil {
			data.Languages = d.Languages
		}
		if d.Disambiguation != nil {
			data.Disambiguation = d.Disambiguation
		}
		if d.Annotation != nil {
			data.Annotation = d.Annotation
		}
		if d.Identifiers != nil {
			data.Identifiers = make([]entity.IdentifierInput, 0, len(d.Identifiers))
			for _, identifier := range d.Identifiers {
				data.Identifiers = append(data.Identifiers, entity.IdentifierInput{TypeID: identifier.Type, Value: identifier.Value})
			}
		}
		if err := wizard.Change(form.StepData, data); err != nil {
			return err
		}
	}

	return wizard.Change(form.StepNote, form.NoteValue{Note: d.Note})
}
