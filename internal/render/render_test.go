package render

import (
	"bytes"
	"strings"
	"testing"
)

type doc struct {
	Operation string         `json:"operation"`
	Notes     map[string]any `json:"notes,omitempty"`
}

func TestRenderJSONLines(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, FormatJSON)
	if err := r.Render(doc{Operation: "aws.iam.list_roles", Notes: map[string]any{"page": 1}}); err != nil {
		t.Fatalf("render: %v", err)
	}
	if err := r.Render(doc{Operation: "aws.iam.list_roles"}); err != nil {
		t.Fatalf("render: %v", err)
	}
	want := `{"operation":"aws.iam.list_roles","notes":{"page":1}}` + "\n" + `{"operation":"aws.iam.list_roles"}` + "\n"
	if buf.String() != want {
		t.Fatalf("unexpected output:\n%s", buf.String())
	}
}

func TestRenderYAMLDocuments(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, FormatYAML)
	for i := 0; i < 2; i++ {
		if err := r.Render(doc{Operation: "aws.iam.get_role"}); err != nil {
			t.Fatalf("render: %v", err)
		}
	}
	out := buf.String()
	if strings.Count(out, "---\n") != 1 {
		t.Fatalf("expected one separator, got:\n%s", out)
	}
	if !strings.Contains(out, "operation: aws.iam.get_role") {
		t.Fatalf("expected json tag names in yaml, got:\n%s", out)
	}
}

func TestParseFormat(t *testing.T) {
	cases := map[string]Format{"": FormatJSON, "JSON": FormatJSON, "yml": FormatYAML, "yaml": FormatYAML}
	for in, want := range cases {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Fatalf("ParseFormat(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseFormat("table"); err == nil {
		t.Fatalf("expected error")
	}
}
