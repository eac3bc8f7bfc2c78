// Package schema validates parsed model output against the evaluation shape.
//
// Validation is a pure transform from untyped JSON to model.Evaluation. It
// knows nothing about retries or network calls.
package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/timvw/leaneval/internal/model"
)

// document mirrors model.Evaluation with the validation rules attached.
// Pointers distinguish a missing object or score from a zero value.
type document struct {
	ProblemAndPersona *problemAndPersona `json:"problemAndPersona" validate:"required"`
	MVPScope          *mvpScope          `json:"mvpScope" validate:"required"`
	Experiments       []experiment       `json:"experiments" validate:"min=2,max=5,dive"`
	Risks             []risk             `json:"risks" validate:"min=2,max=5,dive"`
	KPIs              []kpi              `json:"kpis" validate:"min=2,max=5,dive"`
	Scoring           *scoring           `json:"scoring" validate:"required"`
}

type problemAndPersona struct {
	Problem string `json:"problem" validate:"min=10"`
	Persona string `json:"persona" validate:"min=10"`
}

type mvpScope struct {
	Description string   `json:"description" validate:"min=20"`
	Features    []string `json:"features" validate:"min=2,max=5,dive,min=5"`
	Timeline    string   `json:"timeline" validate:"min=5"`
}

type experiment struct {
	Name        string `json:"name" validate:"min=5"`
	Description string `json:"description" validate:"min=20"`
	Metric      string `json:"metric" validate:"min=5"`
	Timeline    string `json:"timeline" validate:"min=5"`
}

type risk struct {
	Category    string `json:"category" validate:"min=3"`
	Description string `json:"description" validate:"min=10"`
	Mitigation  string `json:"mitigation" validate:"min=10"`
}

type kpi struct {
	Name        string `json:"name" validate:"min=5"`
	Target      string `json:"target" validate:"min=3"`
	Measurement string `json:"measurement" validate:"min=5"`
}

type scoring struct {
	Feasibility   *float64 `json:"feasibility" validate:"required,gte=0,lte=100"`
	MarketPull    *float64 `json:"marketPull" validate:"required,gte=0,lte=100"`
	SpeedToSignal *float64 `json:"speedToSignal" validate:"required,gte=0,lte=100"`
	Novelty       *float64 `json:"novelty" validate:"required,gte=0,lte=100"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON names.
	v.RegisterTagNameFunc(jsonName)
	return v
}

// Issue is a single violated rule.
type Issue struct {
	// Field is the JSON path, e.g. "experiments[0].name" or "scoring.novelty".
	Field string `json:"field"`
	// Rule is the failed constraint, e.g. "min=5" or "type".
	Rule string `json:"rule"`
	// Message is a human-readable description.
	Message string `json:"message"`
}

func (i Issue) String() string {
	return i.Field + ": " + i.Message
}

// ValidationError lists every field that does not match the schema.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		parts[i] = issue.String()
	}
	return fmt.Sprintf("schema validation failed (%d issues): %s", len(e.Issues), strings.Join(parts, "; "))
}

// Parse decodes JSON text and validates it. Numbers are kept exact until
// validation so that out-of-range literals such as 1e400 fail the score rules
// instead of the decoder.
func Parse(text string) (*model.Evaluation, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()
	var parsed any
	if err := dec.Decode(&parsed); err != nil {
		return nil, fmt.Errorf("parse evaluation JSON: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("parse evaluation JSON: unexpected data after top-level value")
	}
	return Validate(parsed)
}

// Validate checks an already-parsed JSON value (as produced by
// encoding/json into an interface{}, with or without UseNumber) and returns
// the typed evaluation. Keys must match exactly.
func Validate(parsed any) (*model.Evaluation, error) {
	if _, ok := parsed.(map[string]any); !ok {
		return nil, &ValidationError{Issues: []Issue{{
			Field:   "$",
			Rule:    "type",
			Message: fmt.Sprintf("expected object, got %s", jsonKind(parsed)),
		}}}
	}

	var doc document
	shape := map[string]Issue{}
	decode(parsed, reflect.ValueOf(&doc).Elem(), "", shape)

	issues := make(map[string]Issue, len(shape))
	for k, v := range shape {
		issues[k] = v
	}
	if err := validate.Struct(doc); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return nil, fmt.Errorf("validate evaluation: %w", err)
		}
		for _, fe := range fieldErrs {
			field := fieldPath(fe.Namespace())
			if covered(shape, field) {
				continue
			}
			issues[field] = Issue{
				Field:   field,
				Rule:    ruleName(fe),
				Message: describe(fe),
			}
		}
	}

	if len(issues) > 0 {
		return nil, &ValidationError{Issues: sortedIssues(issues)}
	}
	return doc.evaluation(), nil
}

// decode copies v into dst following dst's json tags. A missing key or a
// value of the wrong JSON kind is recorded in issues and leaves dst zero.
func decode(v any, dst reflect.Value, path string, issues map[string]Issue) {
	switch dst.Kind() {
	case reflect.Pointer:
		elem := reflect.New(dst.Type().Elem())
		decode(v, elem.Elem(), path, issues)
		if _, bad := issues[path]; !bad {
			dst.Set(elem)
		}
	case reflect.Struct:
		m, ok := v.(map[string]any)
		if !ok {
			typeIssue(issues, path, "object", v)
			return
		}
		t := dst.Type()
		for i := 0; i < t.NumField(); i++ {
			name := jsonName(t.Field(i))
			child := name
			if path != "" {
				child = path + "." + name
			}
			fv, present := m[name]
			if !present {
				issues[child] = Issue{Field: child, Rule: "required", Message: "is required"}
				continue
			}
			decode(fv, dst.Field(i), child, issues)
		}
	case reflect.Slice:
		items, ok := v.([]any)
		if !ok {
			typeIssue(issues, path, "array", v)
			return
		}
		out := reflect.MakeSlice(dst.Type(), len(items), len(items))
		for i, item := range items {
			decode(item, out.Index(i), fmt.Sprintf("%s[%d]", path, i), issues)
		}
		dst.Set(out)
	case reflect.String:
		s, ok := v.(string)
		if !ok {
			typeIssue(issues, path, "string", v)
			return
		}
		dst.SetString(s)
	case reflect.Float64:
		f, ok := number(v)
		if !ok {
			typeIssue(issues, path, "number", v)
			return
		}
		dst.SetFloat(f)
	}
}

// number accepts float64 and json.Number. Literals beyond float64 range
// become ±Inf and are left to the range rules.
func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case json.Number:
		f, err := strconv.ParseFloat(string(n), 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func typeIssue(issues map[string]Issue, path, want string, got any) {
	issues[path] = Issue{
		Field:   path,
		Rule:    "type",
		Message: fmt.Sprintf("expected %s, got %s", want, jsonKind(got)),
	}
}

func jsonName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	return name
}

// covered reports whether field, or an object or element containing it,
// already has an issue.
func covered(issues map[string]Issue, field string) bool {
	for p := range issues {
		if field == p || strings.HasPrefix(field, p+".") || strings.HasPrefix(field, p+"[") {
			return true
		}
	}
	return false
}

func (d *document) evaluation() *model.Evaluation {
	e := &model.Evaluation{
		ProblemAndPersona: model.ProblemAndPersona{
			Problem: d.ProblemAndPersona.Problem,
			Persona: d.ProblemAndPersona.Persona,
		},
		MVPScope: model.MVPScope{
			Description: d.MVPScope.Description,
			Features:    append([]string(nil), d.MVPScope.Features...),
			Timeline:    d.MVPScope.Timeline,
		},
		Scoring: model.Scoring{
			Feasibility:   *d.Scoring.Feasibility,
			MarketPull:    *d.Scoring.MarketPull,
			SpeedToSignal: *d.Scoring.SpeedToSignal,
			Novelty:       *d.Scoring.Novelty,
		},
	}
	for _, x := range d.Experiments {
		e.Experiments = append(e.Experiments, model.Experiment(x))
	}
	for _, r := range d.Risks {
		e.Risks = append(e.Risks, model.Risk(r))
	}
	for _, k := range d.KPIs {
		e.KPIs = append(e.KPIs, model.KPI(k))
	}
	return e
}

// fieldPath strips the root struct name from a validator namespace.
func fieldPath(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

func ruleName(fe validator.FieldError) string {
	if fe.Param() == "" {
		return fe.Tag()
	}
	return fe.Tag() + "=" + fe.Param()
}

func describe(fe validator.FieldError) string {
	isList := fe.Kind() == reflect.Slice || fe.Kind() == reflect.Array
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if isList {
			return fmt.Sprintf("must have at least %s entries", fe.Param())
		}
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		if isList {
			return fmt.Sprintf("must have at most %s entries", fe.Param())
		}
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "gte":
		return fmt.Sprintf("must be >= %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be <= %s", fe.Param())
	default:
		return fmt.Sprintf("failed %s", ruleName(fe))
	}
}

func sortedIssues(m map[string]Issue) []Issue {
	out := make([]Issue, 0, len(m))
	for _, issue := range m {
		out = append(out, issue)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Field < out[j].Field })
	return out
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case float64, json.Number:
		return "number"
	case bool:
		return "boolean"
	default:
		return fmt.Sprintf("%T", v)
	}
}
