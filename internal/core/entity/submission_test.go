package entity_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/libris/internal/core/entity"
	"github.com/taibuivan/libris/pkg/pointer"
)

/*
TestSubmission_MarshalJSON verifies the family-specific type id key.
*/
func TestSubmission_MarshalJSON(t *testing.T) {
	submission := entity.Submission{
		Type:    entity.TypeEditionGroup,
		Aliases: []entity.AliasInput{{Name: "Dune", SortName: "Dune", Default: true}},
		TypeID:  pointer.To(2),
		Note:    "first import",
	}

	data, err := json.Marshal(submission)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(data, &fields))

	assert.Equal(t, float64(2), fields["editionGroupTypeId"])
	assert.Equal(t, "first import", fields["note"])
	assert.NotContains(t, fields, "TypeID")
	assert.Contains(t, fields, "disambiguation")
}

/*
TestSubmission_UnmarshalJSON verifies decoding with a preset and an inferred family.
*/
func TestSubmission_UnmarshalJSON(t *testing.T) {
	body := `{"aliases":[{"name":"Dune","sortName":"Dune","language":1,"default":true}],"workTypeId":4,"note":"n"}`

	t.Run("Preset", func(t *testing.T) {
		submission := entity.Submission{Type: entity.TypeWork}
		require.NoError(t, json.Unmarshal([]byte(body), &submission))

		assert.Equal(t, entity.TypeWork, submission.Type)
		require.NotNil(t, submission.TypeID)
		assert.Equal(t, 4, *submission.TypeID)
		assert.Equal(t, 1, *submission.Aliases[0].LanguageID)
		assert.Equal(t, 1, submission.DefaultAliases())
	})

	t.Run("Inferred", func(t *testing.T) {
		var submission entity.Submission
		require.NoError(t, json.Unmarshal([]byte(body), &submission))

		assert.Equal(t, entity.TypeWork, submission.Type)
		assert.Equal(t, 4, *submission.TypeID)
	})

	t.Run("OtherFamilyKeyIgnored", func(t *testing.T) {
		submission := entity.Submission{Type: entity.TypeAuthor}
		require.NoError(t, json.Unmarshal([]byte(body), &submission))

		assert.Nil(t, submission.TypeID)
	})
}
