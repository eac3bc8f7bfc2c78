package schema

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

// validDoc returns a fresh, schema-conforming evaluation as untyped JSON.
func validDoc(t *testing.T) map[string]any {
	t.Helper()
	const raw = `{
		"problemAndPersona": {
			"problem": "This is a test problem that is long enough",
			"persona": "This is a test persona description that is long enough"
		},
		"mvpScope": {
			"description": "This is a test MVP description that is long enough to pass validation",
			"features": ["Feature one that is long enough", "Feature two that is also long enough"],
			"timeline": "2-3 months"
		},
		"experiments": [
			{"name": "Test Experiment One", "description": "This is a test experiment description that is long enough", "metric": "Success metric test", "timeline": "2 weeks"},
			{"name": "Test Experiment Two", "description": "This is another test experiment description that is long enough", "metric": "Another success metric", "timeline": "3 weeks"}
		],
		"risks": [
			{"category": "High Risk", "description": "This is a test risk description", "mitigation": "This is a test mitigation strategy"},
			{"category": "Medium Risk", "description": "This is another test risk description", "mitigation": "This is another test mitigation strategy"}
		],
		"kpis": [
			{"name": "Test KPI One", "target": "100 users", "measurement": "Track via analytics dashboard"},
			{"name": "Test KPI Two", "target": "50% conversion", "measurement": "Track via signup form"}
		],
		"scoring": {"feasibility": 75, "marketPull": 80, "speedToSignal": 70, "novelty": 60}
	}`
	var doc map[string]any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		t.Fatalf("fixture: %v", err)
	}
	return doc
}

func experiments(n int) []any {
	out := make([]any, n)
	for i := range out {
		out[i] = map[string]any{
			"name":        "Landing page smoke test",
			"description": "Measure sign-up intent with a fake door page",
			"metric":      "5% conversion",
			"timeline":    "2 weeks",
		}
	}
	return out
}

func requireIssues(t *testing.T, err error) []Issue {
	t.Helper()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T (%v)", err, err)
	}
	return verr.Issues
}

func hasIssue(issues []Issue, field string) bool {
	for _, i := range issues {
		if i.Field == field {
			return true
		}
	}
	return false
}

func TestValidate_ValidDocument(t *testing.T) {
	got, err := Validate(validDoc(t))
	if err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
	if got.Scoring.MarketPull != 80 {
		t.Errorf("MarketPull: got %v, want 80", got.Scoring.MarketPull)
	}
	if len(got.Experiments) != 2 || got.Experiments[1].Name != "Test Experiment Two" {
		t.Errorf("Experiments not carried over: %+v", got.Experiments)
	}
	if got.Risks[0].Category != "High Risk" {
		t.Errorf("Risks[0].Category: got %q", got.Risks[0].Category)
	}
	if len(got.MVPScope.Features) != 2 {
		t.Errorf("Features: got %d, want 2", len(got.MVPScope.Features))
	}
}

func TestValidate_ExperimentCountBoundaries(t *testing.T) {
	tests := []struct {
		n       int
		wantErr bool
	}{
		{n: 0, wantErr: true},
		{n: 1, wantErr: true},
		{n: 2},
		{n: 5},
		{n: 6, wantErr: true},
	}

	for _, tt := range tests {
		doc := validDoc(t)
		doc["experiments"] = experiments(tt.n)
		_, err := Validate(doc)
		if (err != nil) != tt.wantErr {
			t.Errorf("experiments=%d: error = %v, wantErr %v", tt.n, err, tt.wantErr)
			continue
		}
		if tt.wantErr && !hasIssue(requireIssues(t, err), "experiments") {
			t.Errorf("experiments=%d: expected issue on experiments", tt.n)
		}
	}
}

func TestValidate_ScoringRange(t *testing.T) {
	tests := []struct {
		value   any
		wantErr bool
	}{
		{value: 101.0, wantErr: true},
		{value: 100.0},
		{value: 0.0},
		{value: 55.5},
		{value: -1.0, wantErr: true},
		{value: nil, wantErr: true},
		{value: "high", wantErr: true},
	}

	for _, tt := range tests {
		doc := validDoc(t)
		doc["scoring"].(map[string]any)["feasibility"] = tt.value
		_, err := Validate(doc)
		if (err != nil) != tt.wantErr {
			t.Errorf("feasibility=%v: error = %v, wantErr %v", tt.value, err, tt.wantErr)
			continue
		}
		if tt.wantErr && !hasIssue(requireIssues(t, err), "scoring.feasibility") {
			t.Errorf("feasibility=%v: expected issue on scoring.feasibility, got %v", tt.value, err)
		}
	}
}

func TestValidate_StringMinimums(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(doc map[string]any)
		field  string
	}{
		{
			name:   "problem too short",
			mutate: func(d map[string]any) { d["problemAndPersona"].(map[string]any)["problem"] = "Short" },
			field:  "problemAndPersona.problem",
		},
		{
			name:   "persona missing",
			mutate: func(d map[string]any) { delete(d["problemAndPersona"].(map[string]any), "persona") },
			field:  "problemAndPersona.persona",
		},
		{
			name:   "mvp description too short",
			mutate: func(d map[string]any) { d["mvpScope"].(map[string]any)["description"] = "Too short" },
			field:  "mvpScope.description",
		},
		{
			name:   "feature too short",
			mutate: func(d map[string]any) { d["mvpScope"].(map[string]any)["features"] = []any{"Feature one", "abc"} },
			field:  "mvpScope.features[1]",
		},
		{
			name:   "kpi target too short",
			mutate: func(d map[string]any) { d["kpis"].([]any)[0].(map[string]any)["target"] = "1" },
			field:  "kpis[0].target",
		},
		{
			name:   "risk category too short",
			mutate: func(d map[string]any) { d["risks"].([]any)[1].(map[string]any)["category"] = "Hi" },
			field:  "risks[1].category",
		},
		{
			name:   "scoring missing",
			mutate: func(d map[string]any) { delete(d, "scoring") },
			field:  "scoring",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := validDoc(t)
			tt.mutate(doc)
			_, err := Validate(doc)
			if err == nil {
				t.Fatal("expected validation error")
			}
			issues := requireIssues(t, err)
			if !hasIssue(issues, tt.field) {
				t.Errorf("expected issue on %s, got %v", tt.field, issues)
			}
		})
	}
}

func TestValidate_ReportsEveryField(t *testing.T) {
	doc := validDoc(t)
	doc["problemAndPersona"].(map[string]any)["problem"] = "Short"
	doc["experiments"] = experiments(1)
	doc["scoring"].(map[string]any)["novelty"] = 150.0

	_, err := Validate(doc)
	issues := requireIssues(t, err)
	for _, field := range []string{"problemAndPersona.problem", "experiments", "scoring.novelty"} {
		if !hasIssue(issues, field) {
			t.Errorf("missing issue for %s in %v", field, issues)
		}
	}
	if !strings.Contains(err.Error(), "3 issues") {
		t.Errorf("unexpected message: %v", err)
	}
}

func TestValidate_NonObject(t *testing.T) {
	for _, v := range []any{nil, []any{1.0}, "text", 42.0} {
		_, err := Validate(v)
		issues := requireIssues(t, err)
		if !hasIssue(issues, "$") {
			t.Errorf("Validate(%v): expected root issue, got %v", v, issues)
		}
	}
}

func TestParse(t *testing.T) {
	raw, err := json.Marshal(validDoc(t))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Parse(string(raw)); err != nil {
		t.Errorf("Parse() error: %v", err)
	}

	_, err = Parse(`{"scoring": {}}`)
	requireIssues(t, err)

	if _, err := Parse(`not json`); err == nil {
		t.Error("expected syntax error")
	}
}

func TestValidate_KeysMatchExactly(t *testing.T) {
	doc := validDoc(t)
	doc["ProblemAndPersona"] = doc["problemAndPersona"]
	delete(doc, "problemAndPersona")
	doc["SCORING"] = doc["scoring"]
	delete(doc, "scoring")
	kpi := doc["kpis"].([]any)[1].(map[string]any)
	kpi["Target"] = kpi["target"]
	delete(kpi, "target")

	_, err := Validate(doc)
	issues := requireIssues(t, err)
	for _, field := range []string{"problemAndPersona", "scoring", "kpis[1].target"} {
		if !hasIssue(issues, field) {
			t.Errorf("missing issue for %s in %v", field, issues)
		}
	}
	for _, issue := range issues {
		if issue.Rule != "required" {
			t.Errorf("%s: got rule %q, want required", issue.Field, issue.Rule)
		}
	}
}

func TestValidate_TypeMismatchReportedOnce(t *testing.T) {
	doc := validDoc(t)
	doc["experiments"].([]any)[0].(map[string]any)["name"] = 42.0
	doc["risks"].([]any)[1] = "not an object"

	_, err := Validate(doc)
	issues := requireIssues(t, err)
	want := map[string]string{
		"experiments[0].name": "type",
		"risks[1]":            "type",
	}
	if len(issues) != len(want) {
		t.Fatalf("got %d issues, want %d: %v", len(issues), len(want), issues)
	}
	for _, issue := range issues {
		if want[issue.Field] != issue.Rule {
			t.Errorf("unexpected issue %s (rule %s)", issue, issue.Rule)
		}
	}
	if issues[0].Message != "expected string, got number" {
		t.Errorf("Message: got %q", issues[0].Message)
	}
}

func TestParse_OutOfRangeNumbers(t *testing.T) {
	tests := []struct {
		literal string
		rule    string
	}{
		{literal: "1e400", rule: "lte=100"},
		{literal: "-1e400", rule: "gte=0"},
	}

	for _, tt := range tests {
		raw, err := json.Marshal(validDoc(t))
		if err != nil {
			t.Fatal(err)
		}
		text := strings.Replace(string(raw), `"feasibility":75`, `"feasibility":`+tt.literal, 1)
		if text == string(raw) {
			t.Fatal("fixture does not contain feasibility 75")
		}

		_, err = Parse(text)
		issues := requireIssues(t, err)
		if len(issues) != 1 || issues[0].Field != "scoring.feasibility" || issues[0].Rule != tt.rule {
			t.Errorf("%s: got %v, want one %s issue on scoring.feasibility", tt.literal, issues, tt.rule)
		}
	}
}

func TestParse_TrailingData(t *testing.T) {
	if _, err := Parse(`{"scoring": {}} {}`); err == nil {
		t.Error("expected error for trailing data")
	}
}
