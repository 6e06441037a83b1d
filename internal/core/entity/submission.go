package entity

import (
	"encoding/json"
	"fmt"
	"strings"
)

// typeIDSuffix completes the family-specific key of the type option ("workTypeId").
const typeIDSuffix = "TypeId"

// # Submission Payload

// AliasInput is one alias row of a submission.
type AliasInput struct {
	ID         *int   `json:"id,omitempty"`
	Name       string `json:"name" validate:"max=255"`
	SortName   string `json:"sortName" validate:"max=255"`
	LanguageID *int   `json:"language"`
	Primary    bool   `json:"primary"`
	Default    bool   `json:"default"`
}

// IdentifierInput is one identifier row of a submission.
type IdentifierInput struct {
	ID     *int   `json:"id,omitempty"`
	Value  string `json:"value" validate:"required,max=255"`
	TypeID int    `json:"type" validate:"gt=0"`
}

// Submission is the body posted to create or edit an entity.
//
// The type option travels under a family-specific key, "<lowerCamelType>TypeId",
// so Type must be set before encoding and is inferred from that key when decoding
// into a Submission whose Type is empty.
type Submission struct {
	Type           Type              `json:"-"`
	Aliases        []AliasInput      `json:"aliases" validate:"dive"`
	TypeID         *int              `json:"-"`
	Languages      []int             `json:"languages" validate:"dive,gt=0"`
	Disambiguation *string           `json:"disambiguation" validate:"omitempty,max=255"`
	Annotation     *string           `json:"annotation"`
	Identifiers    []IdentifierInput `json:"identifiers" validate:"dive"`
	Note           string            `json:"note" validate:"max=2000"`
}

// submissionFields is Submission without its custom codec.
type submissionFields Submission

// TypeIDKey returns the JSON key of the type option for family t.
func TypeIDKey(t Type) string {
	return t.LowerCamel() + typeIDSuffix
}

// MarshalJSON writes the fixed fields plus the family-specific type id key.
func (s Submission) MarshalJSON() ([]byte, error) {
	fixed, err := json.Marshal(submissionFields(s))
	if err != nil {
		return nil, err
	}

	if s.Type == "" {
		return fixed, nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(fixed, &fields); err != nil {
		return nil, err
	}

	typeID, err := json.Marshal(s.TypeID)
	if err != nil {
		return nil, err
	}
	fields[TypeIDKey(s.Type)] = typeID

	return json.Marshal(fields)
}

// UnmarshalJSON reads the fixed fields and the type id key of s.Type, or of the
// first family whose key is present when s.Type is empty.
func (s *Submission) UnmarshalJSON(data []byte) error {
	var fixed submissionFields
	if err := json.Unmarshal(data, &fixed); err != nil {
		return err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	typ := s.Type
	if typ == "" {
		for key := range fields {
			if prefix, found := strings.CutSuffix(key, typeIDSuffix); found {
				if t, ok := typeForLowerCamel(prefix); ok {
					typ = t
					break
				}
			}
		}
	}

	fixed.Type = typ
	if raw, ok := fields[TypeIDKey(typ)]; ok && typ != "" {
		if err := json.Unmarshal(raw, &fixed.TypeID); err != nil {
			return fmt.Errorf("%s: %w", TypeIDKey(typ), err)
		}
	}

	*s = Submission(fixed)
	return nil
}

func typeForLowerCamel(prefix string) (Type, bool) {
	for _, t := range order {
		if t.LowerCamel() == prefix {
			return t, true
		}
	}
	return "", false
}

// DefaultAliases counts the aliases flagged as default.
func (s *Submission) DefaultAliases() int {
	count := 0
	for _, alias := range s.Aliases {
		if alias.Default {
			count++
		}
	}
	return count
}

// SubmissionResult is the body returned after a successful submission.
type SubmissionResult struct {
	Entity *SubmittedEntity `json:"entity"`
}

// SubmittedEntity identifies the entity a submission created or changed.
//
// EntityGID duplicates BBID under the key older clients redirect with.
type SubmittedEntity struct {
	BBID      string `json:"bbid"`
	Type      Type   `json:"type"`
	EntityGID string `json:"entity_gid"`
}

// Ref returns the minimal reference of the submitted entity.
func (e *SubmittedEntity) Ref() Ref {
	return Ref{BBID: e.BBID, Type: e.Type}
}
