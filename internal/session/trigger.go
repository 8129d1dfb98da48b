package session

import (
	"fmt"

	exprlang "github.com/expr-lang/expr"
	exprvm "github.com/expr-lang/expr/vm"
)

// DefaultTriggerExpression matches the contact form filled with the owner's
// passphrase in all three fields.
const DefaultTriggerExpression = `name == "editmode207" && email == "editmode207" && message == "editmode207"`

// Form holds the contact form fields a Trigger inspects.
type Form struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// Trigger decides whether a form submission opens an edit session.
// It is a convenience gate, not an access control.
type Trigger interface {
	Match(f Form) (bool, error)
}

// TriggerFunc adapts a plain function to Trigger.
type TriggerFunc func(Form) (bool, error)

func (fn TriggerFunc) Match(f Form) (bool, error) { return fn(f) }

// ExprTrigger evaluates a boolean expr-lang expression over the variables
// name, email and message.
type ExprTrigger struct {
	expression string
	program    *exprvm.Program
}

// NewExprTrigger compiles expression. An empty expression uses
// DefaultTriggerExpression.
func NewExprTrigger(expression string) (*ExprTrigger, error) {
	if expression == "" {
		expression = DefaultTriggerExpression
	}
	program, err := exprlang.Compile(expression,
		exprlang.Env(formEnv(Form{})),
		exprlang.AsBool(),
	)
	if err != nil {
		return nil, fmt.Errorf("session: compile trigger: %w", err)
	}
	return &ExprTrigger{expression: expression, program: program}, nil
}

func (t *ExprTrigger) Match(f Form) (bool, error) {
	out, err := exprlang.Run(t.program, formEnv(f))
	if err != nil {
		return false, fmt.Errorf("session: evaluate trigger %q: %w", t.expression, err)
	}
	ok, _ := out.(bool)
	return ok, nil
}

func (t *ExprTrigger) String() string { return t.expression }

func formEnv(f Form) map[string]any {
	return map[string]any{
		"name":    f.Name,
		"email":   f.Email,
		"message": f.Message,
	}
}
