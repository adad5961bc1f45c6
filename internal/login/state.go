package login

// Field names, as used by the inputs' name attributes.
const (
	FieldUsername = "username"
	FieldPassword = "password"
)

// Values are the current contents of the form inputs.
type Values struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Variables returns the mutation variables for v.
func (v Values) Variables() map[string]any {
	return map[string]any{
		FieldUsername: v.Username,
		FieldPassword: v.Password,
	}
}

// FormState is the complete local state of one form instance.
//
// IsSubmitting and SubmitSucceeded are never both true. Error is non-nil
// only when the most recent completed submission failed.
type FormState struct {
	Values          Values
	IsSubmitting    bool
	SubmitSucceeded bool
	Error           *string
}

// InitialState returns the state of a freshly mounted form.
func InitialState() FormState {
	return FormState{}
}

// Action is a state transition request. The set of actions is closed.
type Action interface {
	isAction()
}

// FieldChanged records a new value for one input.
type FieldChanged struct {
	Field string
	Value string
}

// SubmitStarted marks the start of a submission.
type SubmitStarted struct{}

// SubmitSucceeded marks a submission that returned a token.
// The token is not kept in state.
type SubmitSucceeded struct {
	Token string
}

// SubmitFailed marks a submission that failed with Error.
type SubmitFailed struct {
	Error string
}

func (FieldChanged) isAction()    {}
func (SubmitStarted) isAction()   {}
func (SubmitSucceeded) isAction() {}
func (SubmitFailed) isAction()    {}

// Reduce returns the state that results from applying action to state.
// Unknown actions, nil and unknown field names leave state unchanged.
func Reduce(state FormState, action Action) FormState {
	switch a := action.(type) {
	case FieldChanged:
		switch a.Field {
		case FieldUsername:
			state.Values.Username = a.Value
		case FieldPassword:
			state.Values.Password = a.Value
		}
	case SubmitStarted:
		state.IsSubmitting = true
		state.SubmitSucceeded = false
		state.Error = nil
	case SubmitSucceeded:
		state.IsSubmitting = false
		state.SubmitSucceeded = true
	case SubmitFailed:
		msg := a.Error
		state.IsSubmitting = false
		state.SubmitSucceeded = false
		state.Error = &msg
	}
	return state
}
