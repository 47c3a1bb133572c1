// Package form implements the create/edit dialog contract as a pure state reducer:
// a form holds its current values, validation errors and dirty flags, and each action
// returns a new State without touching the previous one.
package form

import (
	"encoding/json"
	"reflect"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/diplomasi/admin/core"
)

var (
	errInvalidValue = "invalid value"

	// ErrNotSubmitted is returned by Reducer.Submit when validation blocked the submission.
	ErrNotSubmitted = errors.New("form has errors")
)

type (
	Values map[string]interface{}

	State struct {
		Values    Values            `json:"values"`
		Errors    map[string]string `json:"errors,omitempty"`
		Dirty     map[string]bool   `json:"dirty,omitempty"`
		Editing   bool              `json:"editing"`
		Submitted bool              `json:"submitted"`

		initial Values
	}

	// Payload is the struct (pointer) a form decodes into on submit.
	// It carries the `json` and `validate` tags of the form fields.
	Payload interface{}

	// Cleaner is implemented by payloads that normalize their values before validation.
	Cleaner interface {
		Clean()
	}

	Action interface {
		reduce(r *Reducer, s State, payload Payload) State
	}

	SetField struct {
		Name  string
		Value interface{}
	}

	Reset struct{}

	Submit struct{}
)

// New returns the initial State of a form. In edit mode (entity != nil) the values are
// pre-filled from the entity, otherwise from the defaults. Values hold their JSON types
// (numbers are float64), as posted values do.
func New(defaults Values, entity interface{}) (State, error) {
	values, err := jsonValues(defaults)
	if err != nil {
		return State{}, errors.Wrap(err, "decoding defaults")
	}
	editing := entity != nil && !(reflect.ValueOf(entity).Kind() == reflect.Ptr && reflect.ValueOf(entity).IsNil())
	if editing {
		entityVals, err := jsonValues(entity)
		if err != nil {
			return State{}, errors.Wrap(err, "decoding entity values")
		}
		for k, v := range entityVals {
			values[k] = v
		}
	}
	return State{
		Values:  values,
		Editing: editing,
		initial: values.copy(),
	}, nil
}

func jsonValues(v interface{}) (Values, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var vals Values
	if err = json.Unmarshal(data, &vals); err != nil {
		return nil, err
	}
	if vals == nil {
		vals = make(Values)
	}
	return vals, nil
}

// jsonValue returns v with its JSON type; v is kept as is when it cannot be encoded.
func jsonValue(v interface{}) interface{} {
	data, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out interface{}
	if err = json.Unmarshal(data, &out); err != nil {
		return v
	}
	return out
}

func (vals Values) copy() Values {
	cp := make(Values, len(vals))
	for k, v := range vals {
		cp[k] = v
	}
	return cp
}

func (s State) clone() State {
	ns := State{
		Values:    s.Values.copy(),
		Editing:   s.Editing,
		Submitted: s.Submitted,
		initial:   s.initial,
	}
	if s.Errors != nil {
		ns.Errors = make(map[string]string, len(s.Errors))
		for k, v := range s.Errors {
			ns.Errors[k] = v
		}
	}
	if s.Dirty != nil {
		ns.Dirty = make(map[string]bool, len(s.Dirty))
		for k, v := range s.Dirty {
			ns.Dirty[k] = v
		}
	}
	return ns
}

// IsDirty reports whether any field differs from its initial value.
func (s State) IsDirty() bool {
	for _, dirty := range s.Dirty {
		if dirty {
			return true
		}
	}
	return false
}

type Reducer struct {
	validate   *validator.Validate
	translator ut.Translator
}

func NewReducer(validate *validator.Validate, translator ut.Translator) *Reducer {
	return &Reducer{validate: validate, translator: translator}
}

// Reduce applies action to s. payload is only used (and filled) by Submit.
func (r *Reducer) Reduce(s State, action Action, payload Payload) State {
	return action.reduce(r, s, payload)
}

// Submit applies every change then submits the form into payload.
// When validation fails the returned error is a *core.ValidationError.
func (r *Reducer) Submit(s State, changes Values, payload Payload) (State, error) {
	for name, value := range changes {
		s = r.Reduce(s, SetField{Name: name, Value: value}, nil)
	}
	s = r.Reduce(s, Submit{}, payload)
	if !s.Submitted {
		flds := make([]core.FieldError, 0, len(s.Errors))
		for field, msg := range s.Errors {
			flds = append(flds, core.FieldError{Field: field, Error: msg})
		}
		return s, core.NewValidationError(ErrNotSubmitted, flds...)
	}
	return s, nil
}

func (a SetField) reduce(_ *Reducer, s State, _ Payload) State {
	ns := s.clone()
	value := jsonValue(a.Value)
	ns.Values[a.Name] = value
	ns.Submitted = false
	if ns.Dirty == nil {
		ns.Dirty = make(map[string]bool)
	}
	initial, ok := s.initial[a.Name]
	ns.Dirty[a.Name] = !ok || !reflect.DeepEqual(initial, value)
	delete(ns.Errors, a.Name)
	return ns
}

func (Reset) reduce(_ *Reducer, s State, _ Payload) State {
	return State{
		Values:  s.initial.copy(),
		Editing: s.Editing,
		initial: s.initial,
	}
}

func (Submit) reduce(r *Reducer, s State, payload Payload) State {
	ns := s.clone()
	ns.Errors = nil
	ns.Submitted = false

	if fldErrs := r.decode(ns.Values, payload); len(fldErrs) > 0 {
		ns.Errors = fldErrs
		return ns
	}
	if c, ok := payload.(Cleaner); ok {
		c.Clean()
	}
	if err := r.validate.Struct(payload); err != nil {
		var vErrs validator.ValidationErrors
		if errors.As(err, &vErrs) {
			ns.Errors = core.TranslateErrors(vErrs, r.translator)
		} else {
			ns.Errors = map[string]string{"_": err.Error()}
		}
		return ns
	}
	ns.Submitted = true
	return ns
}

func (r *Reducer) decode(values Values, payload Payload) map[string]string {
	data, err := json.Marshal(values)
	if err != nil {
		return map[string]string{"_": err.Error()}
	}
	if err = json.Unmarshal(data, payload); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return map[string]string{typeErr.Field: errInvalidValue}
		}
		return map[string]string{"_": err.Error()}
	}
	return nil
}
