package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// maxIssuesShown bounds the issues rendered by SchemaError.Error.
const maxIssuesShown = 5

// SchemaIssue is one place where model output breaks the schema.
type SchemaIssue struct {
	// Path is a JSON pointer into the output, such as
	// "/activities/2/questions/0/count". Empty for the document itself.
	Path    string
	Message string
}

func (i SchemaIssue) String() string {
	path := i.Path
	if path == "" {
		path = "(document)"
	}
	return path + ": " + i.Message
}

// SchemaError lists every issue found when output was checked against a
// named schema.
type SchemaError struct {
	Schema string
	Issues []SchemaIssue
}

func (e *SchemaError) Error() string {
	shown := e.Issues
	if len(shown) > maxIssuesShown {
		shown = shown[:maxIssuesShown]
	}
	parts := make([]string, len(shown))
	for i, issue := range shown {
		parts[i] = issue.String()
	}
	msg := fmt.Sprintf("does not match %s: %s", e.Schema, strings.Join(parts, "; "))
	if extra := len(e.Issues) - len(shown); extra > 0 {
		msg += fmt.Sprintf(" (and %d more)", extra)
	}
	return msg
}

// compiled holds compiled schemas keyed by Schema.Name.
var compiled sync.Map

// validateOutput checks raw model output against schema. A nil schema
// accepts anything. Failures are an *Error of KindInvalidOutput carrying
// the output; schema violations wrap a *SchemaError.
func validateOutput(provider string, schema *Schema, raw json.RawMessage) error {
	if schema == nil {
		return nil
	}
	invalid := func(err error) error {
		return &Error{Kind: KindInvalidOutput, Provider: provider, Output: raw, Err: err}
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return invalid(fmt.Errorf("output is not JSON: %w", err))
	}

	sch, err := compileSchema(schema)
	if err != nil {
		return fmt.Errorf("compile schema %q: %w", schema.Name, err)
	}

	if err := sch.Validate(doc); err != nil {
		var verr *jsonschema.ValidationError
		if errors.As(err, &verr) {
			return invalid(&SchemaError{Schema: schema.Name, Issues: issuesFrom(verr)})
		}
		return invalid(err)
	}
	return nil
}

// issuesFrom flattens a validation error into leaf issues. Parent entries
// that only summarise their causes are dropped.
func issuesFrom(verr *jsonschema.ValidationError) []SchemaIssue {
	var issues []SchemaIssue
	var walk func(e *jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) > 0 {
			for _, c := range e.Causes {
				walk(c)
			}
			return
		}
		path := ""
		if len(e.InstanceLocation) > 0 {
			path = "/" + strings.Join(e.InstanceLocation, "/")
		}
		issues = append(issues, SchemaIssue{Path: path, Message: leafMessage(e)})
	}
	walk(verr)
	if len(issues) == 0 {
		issues = append(issues, SchemaIssue{Message: verr.Error()})
	}
	return issues
}

// leafMessage renders a single validation failure through the library's
// basic output format, which carries the localized message.
func leafMessage(e *jsonschema.ValidationError) string {
	out := e.BasicOutput()
	if out.Error != nil {
		return out.Error.String()
	}
	for _, u := range out.Errors {
		if u.Error != nil {
			return u.Error.String()
		}
	}
	return e.Error()
}

func compileSchema(schema *Schema) (*jsonschema.Schema, error) {
	if sch, ok := compiled.Load(schema.Name); ok {
		return sch.(*jsonschema.Schema), nil
	}

	// The compiler wants plain decoded JSON, not Go maps with typed values.
	def, err := json.Marshal(schema.Definition)
	if err != nil {
		return nil, fmt.Errorf("marshal definition: %w", err)
	}
	var doc any
	if err := json.Unmarshal(def, &doc); err != nil {
		return nil, fmt.Errorf("decode definition: %w", err)
	}

	url := "schema://" + schema.Name + ".json"
	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, doc); err != nil {
		return nil, err
	}
	sch, err := c.Compile(url)
	if err != nil {
		return nil, err
	}
	compiled.Store(schema.Name, sch)
	return sch, nil
}
