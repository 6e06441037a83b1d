package form

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/taibuivan/libris/internal/core/entity"
	"github.com/taibuivan/libris/internal/platform/constants"
)

var (
	// ErrSubmissionInFlight is returned by Submit while an earlier submission is pending.
	ErrSubmissionInFlight = errors.New("form: submission already in flight")

	// ErrSubmitDisabled is returned by Submit when a step was invalid at the last tab
	// change, or when a value changed after it.
	ErrSubmitDisabled = errors.New("form: submit is disabled until every step is valid")

	// ErrFinished is returned once a submission has succeeded or redirected to login.
	ErrFinished = errors.New("form: wizard has finished")

	// ErrUnauthorized is returned by a [Transport] when the server rejects the editor's credentials.
	ErrUnauthorized = errors.New("form: not authenticated")
)

// Target is the entity a wizard submits for. An empty BBID creates a new entity.
type Target struct {
	Type entity.Type
	BBID string
}

// Transport posts a submission to the server.
type Transport interface {
	Submit(ctx context.Context, target Target, submission entity.Submission) (*entity.SubmissionResult, error)
}

// Navigator moves the editor to another page.
type Navigator interface {
	Navigate(path string)
}

// Config wires a [Wizard].
type Config struct {
	Target     Target
	References References
	Transport  Transport
	Navigator  Navigator

	// LoginPath is where an unauthenticated editor is sent.
	LoginPath string
}

// Wizard is the state machine of one create or edit session.
//
// Validity is re-evaluated for every step on each tab change and only then;
// [Wizard.Change] records a value without touching the validity snapshot, but
// submission stays disabled until the next tab change has evaluated it.
// A Wizard is safe for concurrent use.
type Wizard struct {
	mu sync.Mutex

	config   Config
	tab      int
	values   map[StepID]Value
	validity map[StepID]bool
	// evaluated is set by a tab change and cleared by Change.
	evaluated bool
	waiting   bool
	finished bool
	err      error
}

// New returns a wizard on tab 1 with every step considered valid but not yet evaluated.
// When prefill is non-nil the aliases and data steps start from it.
func New(config Config, prefill *entity.Entity) *Wizard {
	if config.LoginPath == "" {
		config.LoginPath = constants.DefaultLoginPath
	}

	wizard := &Wizard{
		config:   config,
		tab:      1,
		values:   make(map[StepID]Value, len(Steps)),
		validity: make(map[StepID]bool, len(Steps)),
	}

	wizard.values[StepAliases] = AliasesFromEntity(prefill)
	wizard.values[StepData] = DataFromEntity(prefill)
	wizard.values[StepNote] = NoteValue{}

	for _, step := range Steps {
		wizard.validity[step] = true
	}

	return wizard
}

// # Events

// Change records a new value for step.
func (wizard *Wizard) Change(step StepID, value Value) error {
	if value == nil || value.Step() != step {
		return fmt.Errorf("form: value does not belong to step %q", step)
	}

	wizard.mu.Lock()
	defer wizard.mu.Unlock()

	if wizard.finished {
		return ErrFinished
	}

	switch v := value.(type) {
	case AliasesValue:
		value = v.clone()
	case DataValue:
		value = v.clone()
	}
	wizard.values[step] = value
	wizard.evaluated = false

	return nil
}

// SetTab shows tab n, clamped to the available steps, and re-evaluates validity.
func (wizard *Wizard) SetTab(n int) {
	wizard.mu.Lock()
	defer wizard.mu.Unlock()
	wizard.setTab(n)
}

// Back shows the previous tab.
func (wizard *Wizard) Back() {
	wizard.mu.Lock()
	defer wizard.mu.Unlock()
	wizard.setTab(wizard.tab - 1)
}

// Next shows the following tab.
func (wizard *Wizard) Next() {
	wizard.mu.Lock()
	defer wizard.mu.Unlock()
	wizard.setTab(wizard.tab + 1)
}

// setTab must be called with mu held.
func (wizard *Wizard) setTab(n int) {
	wizard.tab = min(max(n, 1), len(Steps))
	for _, step := range Steps {
		wizard.validity[step] = wizard.values[step].Valid(wizard.config.References)
	}
	wizard.evaluated = true
}

// # State

// Tab returns the current tab number, starting at 1.
func (wizard *Wizard) Tab() int {
	wizard.mu.Lock()
	defer wizard.mu.Unlock()
	return wizard.tab
}

// Step returns the step shown on the current tab.
func (wizard *Wizard) Step() StepID {
	return Steps[wizard.Tab()-1]
}

// Value returns the current value of step.
func (wizard *Wizard) Value(step StepID) Value {
	wizard.mu.Lock()
	defer wizard.mu.Unlock()
	return wizard.values[step]
}

// Valid reports the validity of step as of the last tab change.
func (wizard *Wizard) Valid(step StepID) bool {
	wizard.mu.Lock()
	defer wizard.mu.Unlock()
	return wizard.validity[step]
}

// SubmitEnabled reports whether Submit would be attempted now.
func (wizard *Wizard) SubmitEnabled() bool {
	wizard.mu.Lock()
	defer wizard.mu.Unlock()
	return wizard.submitEnabled()
}

func (wizard *Wizard) submitEnabled() bool {
	if wizard.waiting || wizard.finished || !wizard.evaluated {
		return false
	}
	for _, step := range Steps {
		if !wizard.validity[step] {
			return false
		}
	}
	return true
}

// Waiting reports whether a submission is in flight.
func (wizard *Wizard) Waiting() bool {
	wizard.mu.Lock()
	defer wizard.mu.Unlock()
	return wizard.waiting
}

// Err returns the failure of the last submission, if any.
func (wizard *Wizard) Err() error {
	wizard.mu.Lock()
	defer wizard.mu.Unlock()
	return wizard.err
}

// Payload assembles the submission from the current step values.
func (wizard *Wizard) Payload() entity.Submission {
	wizard.mu.Lock()
	defer wizard.mu.Unlock()
	return wizard.payload()
}

func (wizard *Wizard) payload() entity.Submission {
	aliases := wizard.values[StepAliases].(AliasesValue).clone()
	data := wizard.values[StepData].(DataValue).clone()
	note := wizard.values[StepNote].(NoteValue)

	return entity.Submission{
		Type:           wizard.config.Target.Type,
		Aliases:        aliases.Aliases,
		TypeID:         data.TypeID,
		Languages:      data.Languages,
		Disambiguation: data.Disambiguation,
		Annotation:     data.Annotation,
		Identifiers:    data.Identifiers,
		Note:           note.Note,
	}
}

// # Submission

/*
Submit posts the assembled submission once.

Description: On success the editor is sent to the entity page and the wizard
finishes. A missing entity in the response or [ErrUnauthorized] sends the editor
to the login path instead. Any other failure is kept for [Wizard.Err] and the
wizard becomes submittable again; nothing is retried.

Returns:
  - error: ErrSubmissionInFlight, ErrSubmitDisabled, ErrFinished, or the transport failure
*/
func (wizard *Wizard) Submit(ctx context.Context) error {
	wizard.mu.Lock()
	switch {
	case wizard.finished:
		wizard.mu.Unlock()
		return ErrFinished
	case wizard.waiting:
		wizard.mu.Unlock()
		return ErrSubmissionInFlight
	case !wizard.submitEnabled():
		wizard.mu.Unlock()
		return ErrSubmitDisabled
	}
	wizard.waiting = true
	wizard.err = nil
	payload := wizard.payload()
	wizard.mu.Unlock()

	result, err := wizard.config.Transport.Submit(ctx, wizard.config.Target, payload)

	wizard.mu.Lock()
	wizard.waiting = false

	var destination string
	switch {
	case errors.Is(err, ErrUnauthorized), err == nil && (result == nil || result.Entity == nil):
		wizard.finished = true
		destination = wizard.config.LoginPath
	case err != nil:
		wizard.err = err
	default:
		wizard.finished = true
		destination = entity.Link(result.Entity.Ref())
	}
	wizard.mu.Unlock()

	if destination == "" {
		return err
	}

	wizard.config.Navigator.Navigate(destination)
	return nil
}

// SubmitAsync runs [Wizard.Submit] on its own goroutine. The returned channel
// receives the result and is then closed.
func (wizard *Wizard) SubmitAsync(ctx context.Context) <-chan error {
	done := make(chan error, 1)
	go func() {
		defer close(done)
		done <- wizard.Submit(ctx)
	}()
	return done
}
