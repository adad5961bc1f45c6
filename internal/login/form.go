package login

import (
	"context"
	"errors"

	"github.com/vango-dev/loginform/pkg/graphql"
	"github.com/vango-dev/loginform/pkg/vango"
	"github.com/vango-dev/loginform/pkg/vdom"
)

// Form is the login form component. One Form serves one session.
type Form struct {
	client graphql.Client
	state  *vango.Reducer[FormState, Action]
	submit *vango.Action[Values, string]
}

// New creates a form that submits through client.
func New(client graphql.Client) *Form {
	return &Form{
		client: client,
		state:  vango.NewReducer(Reduce, InitialState()),
	}
}

// Mount binds the form to its session.
func (f *Form) Mount(ctx vango.Ctx) {
	f.submit = vango.NewAction(ctx, f.login,
		vango.DropWhileRunning(),
		vango.ActionName("login"),
		vango.OnActionStart(func() {
			f.state.Dispatch(SubmitStarted{})
		}),
		vango.OnActionSuccess(func(token any) {
			f.state.Dispatch(SubmitSucceeded{Token: token.(string)})
		}),
		vango.OnActionError(func(err error) {
			f.state.Dispatch(SubmitFailed{Error: errorMessage(err)})
		}),
	)
}

// Unmount cancels a submission that is still in flight.
func (f *Form) Unmount() {
	if f.submit != nil {
		f.submit.Reset()
	}
}

// State returns the current form state.
func (f *Form) State() FormState {
	return f.state.State()
}

func (f *Form) login(ctx context.Context, v Values) (string, error) {
	return TokenFrom(f.client.ExecuteMutation(ctx, LoginMutation, v.Variables()))
}

func (f *Form) handleSubmit() {
	if f.submit == nil {
		return
	}
	// Values are read when the event is processed, not when the form rendered.
	s := f.state.State()
	if s.IsSubmitting {
		return
	}
	f.submit.Run(s.Values)
}

func (f *Form) handleChange(field string) func(string) {
	return func(value string) {
		f.state.Dispatch(FieldChanged{Field: field, Value: value})
	}
}

// Render implements vdom.Component.
func (f *Form) Render() *vdom.VNode {
	s := f.state.State()

	return vdom.Div(
		vdom.Form(vdom.OnSubmit(f.handleSubmit),
			vdom.Div(
				vdom.Label(vdom.For(FieldUsername), "Username"),
				vdom.Input(
					vdom.Type("text"),
					vdom.Value(s.Values.Username),
					vdom.OnInput(f.handleChange(FieldUsername)),
					vdom.Placeholder("username"),
					vdom.ID(FieldUsername),
					vdom.Name(FieldUsername),
				),
			),
			vdom.Div(
				vdom.Label(vdom.For(FieldPassword), "Password"),
				vdom.Input(
					vdom.Type("password"),
					vdom.Value(s.Values.Password),
					vdom.OnInput(f.handleChange(FieldPassword)),
					vdom.Placeholder("password"),
					vdom.ID(FieldPassword),
					vdom.Name(FieldPassword),
				),
			),
			vdom.Div(
				vdom.Button(vdom.Type("submit"), "Login"),
			),
		),
		vdom.When(s.Error != nil, func() *vdom.VNode {
			return vdom.P(*s.Error)
		}),
	)
}

func errorMessage(err error) string {
	var combined *graphql.CombinedError
	if errors.As(err, &combined) {
		return combined.Message()
	}
	return err.Error()
}
