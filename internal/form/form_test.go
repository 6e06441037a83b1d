package form_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/taibuivan/libris/internal/core/entity"
	"github.com/taibuivan/libris/internal/form"
	"github.com/taibuivan/libris/pkg/pointer"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var wikidata = entity.IdentifierType{ID: 2, Label: "Wikidata", EntityType: entity.TypeWork, ValidationRegex: `^Q\d+$`}

// fakeTransport answers with a fixed result; a non-nil release channel holds the call until closed.
type fakeTransport struct {
	mu       sync.Mutex
	result   *entity.SubmissionResult
	err      error
	release  chan struct{}
	started  chan struct{}
	received []entity.Submission
}

func (transport *fakeTransport) Submit(ctx context.Context, _ form.Target, submission entity.Submission) (*entity.SubmissionResult, error) {
	transport.mu.Lock()
	transport.received = append(transport.received, submission)
	transport.mu.Unlock()

	if transport.started != nil {
		close(transport.started)
	}
	if transport.release != nil {
		select {
		case <-transport.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return transport.result, transport.err
}

// recordingNavigator keeps every destination.
type recordingNavigator struct {
	mu    sync.Mutex
	paths []string
}

func (navigator *recordingNavigator) Navigate(path string) {
	navigator.mu.Lock()
	defer navigator.mu.Unlock()
	navigator.paths = append(navigator.paths, path)
}

func (navigator *recordingNavigator) Paths() []string {
	navigator.mu.Lock()
	defer navigator.mu.Unlock()
	return append([]string(nil), navigator.paths...)
}

func success(bbid string) *entity.SubmissionResult {
	return &entity.SubmissionResult{Entity: &entity.SubmittedEntity{BBID: bbid, Type: entity.TypeWork, EntityGID: bbid}}
}

func newWizard(transport form.Transport, navigator form.Navigator) *form.Wizard {
	return form.New(form.Config{
		Target:     form.Target{Type: entity.TypeWork},
		References: form.References{IdentifierTypes: []entity.IdentifierType{wikidata}},
		Transport:  transport,
		Navigator:  navigator,
	}, nil)
}

func validAliases() form.AliasesValue {
	return form.AliasesValue{Aliases: []entity.AliasInput{{Name: "Dune", SortName: "Dune", Default: true}}}
}

/*
TestAliasesValue_Valid verifies the default-alias and required-field rules.
*/
func TestAliasesValue_Valid(t *testing.T) {
	tests := []struct {
		name    string
		aliases []entity.AliasInput
		editing bool
		want    bool
	}{
		{"OneDefault", validAliases().Aliases, false, true},
		{"EmptyCreate", nil, false, false},
		{"EmptyEdit", nil, true, true},
		{"NoDefault", []entity.AliasInput{{Name: "Dune", SortName: "Dune"}}, false, false},
		{"TwoDefaults", []entity.AliasInput{
			{Name: "Dune", SortName: "Dune", Default: true},
			{Name: "Düne", SortName: "Dune", Default: true},
		}, false, false},
		{"BlankSortName", []entity.AliasInput{{Name: "Dune", SortName: " ", Default: true}}, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value := form.AliasesValue{Aliases: tt.aliases}
			assert.Equal(t, tt.want, value.Valid(form.References{Editing: tt.editing}))
		})
	}
}

/*
TestDataValue_Valid verifies identifier type and pattern checks.
*/
func TestDataValue_Valid(t *testing.T) {
	refs := form.References{IdentifierTypes: []entity.IdentifierType{wikidata, {ID: 3, Label: "Free"}}}

	tests := []struct {
		name        string
		identifiers []entity.IdentifierInput
		want        bool
	}{
		{"None", nil, true},
		{"Matching", []entity.IdentifierInput{{Value: "Q190192", TypeID: 2}}, true},
		{"Mismatch", []entity.IdentifierInput{{Value: "190192", TypeID: 2}}, false},
		{"UnknownType", []entity.IdentifierInput{{Value: "Q1", TypeID: 9}}, false},
		{"NoPattern", []entity.IdentifierInput{{Value: "anything", TypeID: 3}}, true},
		{"Empty", []entity.IdentifierInput{{Value: "", TypeID: 3}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, form.DataValue{Identifiers: tt.identifiers}.Valid(refs))
		})
	}
}

/*
TestPrefill verifies extraction from an existing entity, including absent relations.
*/
func TestPrefill(t *testing.T) {
	e := &entity.Entity{
		DefaultAlias: &entity.Alias{ID: 8},
		AliasSet: &entity.AliasSet{Aliases: []entity.Alias{
			{ID: 7, Name: "Dune (draft)", SortName: "Dune (draft)"},
			{ID: 8, Name: "Dune", SortName: "Dune", Language: &entity.Language{ID: 1}, Primary: true},
		}},
		Disambiguation: &entity.Disambiguation{Comment: "novel"},
	}

	aliases := form.AliasesFromEntity(e)
	require.Len(t, aliases.Aliases, 2)
	assert.False(t, aliases.Aliases[0].Default)
	assert.Nil(t, aliases.Aliases[0].LanguageID)
	assert.True(t, aliases.Aliases[1].Default)
	assert.Equal(t, 1, *aliases.Aliases[1].LanguageID)

	data := form.DataFromEntity(e)
	assert.Equal(t, "novel", *data.Disambiguation)
	assert.Nil(t, data.Annotation)
	assert.Nil(t, data.TypeID)
	assert.NotNil(t, data.Identifiers)
	assert.Empty(t, data.Identifiers)

	// Identifiers and languages are carried over by id
	e.Languages = []entity.Language{{ID: 1}, {ID: 3}}
	e.IdentifierSet = &entity.IdentifierSet{Identifiers: []entity.Identifier{{ID: 11, Value: "Q190192", Type: wikidata}}}

	data = form.DataFromEntity(e)
	assert.Equal(t, []int{1, 3}, data.Languages)
	require.Len(t, data.Identifiers, 1)
	assert.Equal(t, 11, *data.Identifiers[0].ID)
	assert.Equal(t, wikidata.ID, data.Identifiers[0].TypeID)
}

/*
TestWizard_Tabs verifies clamped navigation.
*/
func TestWizard_Tabs(t *testing.T) {
	wizard := newWizard(&fakeTransport{}, &recordingNavigator{})
	assert.Equal(t, 1, wizard.Tab())

	wizard.Back()
	assert.Equal(t, 1, wizard.Tab())

	wizard.Next()
	wizard.Next()
	wizard.Next()
	assert.Equal(t, 3, wizard.Tab())
	assert.Equal(t, form.StepNote, wizard.Step())
}

/*
TestWizard_Validity verifies that validity changes only on tab change.
*/
func TestWizard_Validity(t *testing.T) {
	wizard := newWizard(&fakeTransport{}, &recordingNavigator{})

	// 1. Initially every step is valid, even the empty aliases of a creation,
	// but nothing has been evaluated yet
	assert.True(t, wizard.Valid(form.StepAliases))
	assert.False(t, wizard.SubmitEnabled())

	// 2. A change does not re-evaluate
	require.NoError(t, wizard.Change(form.StepData, form.DataValue{
		Identifiers: []entity.IdentifierInput{{Value: "bad", TypeID: 2}},
	}))
	assert.True(t, wizard.Valid(form.StepData))

	// 3. A tab change does: aliases [false], data [false]
	wizard.Next()
	assert.False(t, wizard.Valid(form.StepAliases))
	assert.False(t, wizard.Valid(form.StepData))
	assert.False(t, wizard.SubmitEnabled())

	// 4. [true, false] stays disabled
	require.NoError(t, wizard.Change(form.StepAliases, validAliases()))
	wizard.Back()
	assert.True(t, wizard.Valid(form.StepAliases))
	assert.False(t, wizard.SubmitEnabled())

	// 5. [true, true] enables submit
	require.NoError(t, wizard.Change(form.StepData, form.DataValue{}))
	wizard.SetTab(3)
	assert.True(t, wizard.SubmitEnabled())

	// 6. A value of another step is rejected
	assert.Error(t, wizard.Change(form.StepNote, form.DataValue{}))
}

/*
TestWizard_Submit verifies the payload and navigation outcomes.
*/
func TestWizard_Submit(t *testing.T) {
	const bbid = "ba446064-90a6-447b-abe5-139bb6b7a1b1"

	tests := []struct {
		name      string
		result    *entity.SubmissionResult
		err       error
		wantPaths []string
		wantErr   bool
	}{
		{"Success", success(bbid), nil, []string{"/work/" + bbid}, false},
		{"AbsentEntity", &entity.SubmissionResult{}, nil, []string{"/login"}, false},
		{"NilResult", nil, nil, []string{"/login"}, false},
		{"Unauthorized", nil, fmt.Errorf("post: %w", form.ErrUnauthorized), []string{"/login"}, false},
		{"Failure", nil, errors.New("500 Internal Server Error"), nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport := &fakeTransport{result: tt.result, err: tt.err}
			navigator := &recordingNavigator{}
			wizard := newWizard(transport, navigator)

			require.NoError(t, wizard.Change(form.StepAliases, validAliases()))
			require.NoError(t, wizard.Change(form.StepData, form.DataValue{TypeID: pointer.To(4)}))
			require.NoError(t, wizard.Change(form.StepNote, form.NoteValue{Note: "import"}))
			wizard.SetTab(3)

			err := wizard.Submit(context.Background())
			assert.Equal(t, tt.wantPaths, navigator.Paths())
			assert.False(t, wizard.Waiting())

			require.Len(t, transport.received, 1)
			payload := transport.received[0]
			assert.Equal(t, entity.TypeWork, payload.Type)
			assert.Equal(t, 4, *payload.TypeID)
			assert.Equal(t, "import", payload.Note)

			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, err, wizard.Err())
				assert.True(t, wizard.SubmitEnabled())
				return
			}

			require.NoError(t, err)
			assert.False(t, wizard.SubmitEnabled())
			assert.ErrorIs(t, wizard.Submit(context.Background()), form.ErrFinished)
		})
	}
}

/*
TestWizard_SubmitDisabled verifies that an invalid snapshot blocks submission.
*/
func TestWizard_SubmitDisabled(t *testing.T) {
	transport := &fakeTransport{result: success("x")}
	wizard := newWizard(transport, &recordingNavigator{})

	wizard.Next()
	assert.ErrorIs(t, wizard.Submit(context.Background()), form.ErrSubmitDisabled)
	assert.Empty(t, transport.received)
}

/*
TestWizard_SubmitNeedsEvaluation verifies that a submission is only posted after
a tab change has evaluated the values that would be sent.
*/
func TestWizard_SubmitNeedsEvaluation(t *testing.T) {
	transport := &fakeTransport{result: success("ba446064-90a6-447b-abe5-139bb6b7a1b1")}
	wizard := newWizard(transport, &recordingNavigator{})

	// 1. A fresh creation has not been evaluated
	assert.ErrorIs(t, wizard.Submit(context.Background()), form.ErrSubmitDisabled)

	// 2. Evaluated, then changed again
	require.NoError(t, wizard.Change(form.StepAliases, validAliases()))
	wizard.SetTab(3)
	require.NoError(t, wizard.Change(form.StepNote, form.NoteValue{Note: "typo"}))
	assert.False(t, wizard.SubmitEnabled())
	assert.ErrorIs(t, wizard.Submit(context.Background()), form.ErrSubmitDisabled)
	assert.Empty(t, transport.received)

	// 3. Re-evaluated
	wizard.SetTab(3)
	require.NoError(t, wizard.Submit(context.Background()))
	require.Len(t, transport.received, 1)
	assert.Equal(t, "typo", transport.received[0].Note)
}

/*
TestWizard_ConcurrentNext verifies that concurrent tab moves are not lost.
*/
func TestWizard_ConcurrentNext(t *testing.T) {
	wizard := newWizard(&fakeTransport{}, &recordingNavigator{})

	var group sync.WaitGroup
	for range 2 {
		group.Add(1)
		go func() {
			defer group.Done()
			wizard.Next()
		}()
	}
	group.Wait()

	assert.Equal(t, 3, wizard.Tab())
}

/*
TestWizard_SubmitAsync verifies that a second submit while waiting is rejected without cancelling the first.
*/
func TestWizard_SubmitAsync(t *testing.T) {
	transport := &fakeTransport{
		result:  success("ba446064-90a6-447b-abe5-139bb6b7a1b1"),
		release: make(chan struct{}),
		started: make(chan struct{}),
	}
	navigator := &recordingNavigator{}
	wizard := newWizard(transport, navigator)
	require.NoError(t, wizard.Change(form.StepAliases, validAliases()))
	wizard.SetTab(3)

	done := wizard.SubmitAsync(context.Background())
	<-transport.started

	assert.True(t, wizard.Waiting())
	assert.False(t, wizard.SubmitEnabled())
	assert.ErrorIs(t, wizard.Submit(context.Background()), form.ErrSubmissionInFlight)

	close(transport.release)
	require.NoError(t, <-done)

	_, open := <-done
	assert.False(t, open)
	assert.Equal(t, []string{"/work/ba446064-90a6-447b-abe5-139bb6b7a1b1"}, navigator.Paths())
}
