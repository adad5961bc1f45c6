package graphql

import (
	"fmt"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
)

// Operation types, as spelled in GraphQL documents.
const (
	OperationQuery        = string(ast.Query)
	OperationMutation     = string(ast.Mutation)
	OperationSubscription = string(ast.Subscription)
)

// Variable describes one variable definition of an operation.
type Variable struct {
	Name     string
	Type     string
	Required bool // non-null without a default value
}

// Document is a parsed operation document holding exactly one operation.
type Document struct {
	Source        string
	OperationName string
	OperationType string
	Variables     []Variable
}

// Parse parses source and extracts its single operation.
func Parse(source string) (*Document, error) {
	qd, err := parser.ParseQuery(&ast.Source{Input: source})
	if err != nil {
		return nil, fmt.Errorf("graphql: parse document: %w", err)
	}
	if len(qd.Operations) != 1 {
		return nil, fmt.Errorf("graphql: document must contain exactly one operation, found %d", len(qd.Operations))
	}

	op := qd.Operations[0]
	doc := &Document{
		Source:        source,
		OperationName: op.Name,
		OperationType: string(op.Operation),
	}
	for _, v := range op.VariableDefinitions {
		doc.Variables = append(doc.Variables, Variable{
			Name:     v.Variable,
			Type:     v.Type.String(),
			Required: v.Type.NonNull && v.DefaultValue == nil,
		})
	}
	return doc, nil
}

// MustParse is like Parse but panics if the document is invalid.
func MustParse(source string) *Document {
	doc, err := Parse(source)
	if err != nil {
		panic(err)
	}
	return doc
}

// CheckVariables reports the first required variable missing from vars.
func (d *Document) CheckVariables(vars map[string]any) error {
	for _, v := range d.Variables {
		if !v.Required {
			continue
		}
		if val, ok := vars[v.Name]; !ok || val == nil {
			return fmt.Errorf("graphql: variable %q of type %s is required", v.Name, v.Type)
		}
	}
	return nil
}

// String returns the operation name, or the type for anonymous operations.
func (d *Document) String() string {
	if d.OperationName != "" {
		return d.OperationName
	}
	return d.OperationType
}
