package awsiam

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iam/types"

	"iamkit/internal/mcp"
)

func TestParseTag(t *testing.T) {
	tests := []struct {
		name    string
		input   any
		key     string
		value   string
		wantErr bool
	}{
		{name: "pair", input: "env=prod", key: "env", value: "prod"},
		{name: "emptyValue", input: "env=", key: "env", value: ""},
		{name: "equalsInValue", input: "expr=a=b", key: "expr", value: "a=b"},
		{name: "object", input: map[string]any{"key": "team", "value": "infra"}, key: "team", value: "infra"},
		{name: "sdkCase", input: map[string]any{"Key": "team", "Value": "infra"}, key: "team", value: "infra"},
		{name: "json", input: `{"key":"a","value":"b"}`, key: "a", value: "b"},
		{name: "noSeparator", input: "env", wantErr: true},
		{name: "noKey", input: map[string]any{"value": "x"}, wantErr: true},
		{name: "number", input: 3, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tag, err := parseTag(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", tag)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if aws.ToString(tag.Key) != tt.key || aws.ToString(tag.Value) != tt.value {
				t.Fatalf("unexpected tag %s=%s", aws.ToString(tag.Key), aws.ToString(tag.Value))
			}
		})
	}
}

func TestPolicyText(t *testing.T) {
	if _, err := policyText("{bad"); err == nil {
		t.Fatalf("expected invalid JSON to fail")
	}
	text, err := policyText(map[string]any{"Version": "2012-10-17"})
	if err != nil || text != `{"Version":"2012-10-17"}` {
		t.Fatalf("unexpected text %q (%v)", text, err)
	}
	text, err = policyText("  {\"a\":1}  ")
	if err != nil || text != `{"a":1}` {
		t.Fatalf("expected trimmed text, got %q (%v)", text, err)
	}
}

func TestContextEntries(t *testing.T) {
	b := bind(mcp.Args{"entries": []any{
		map[string]any{"name": "aws:MultiFactorAuthPresent", "type": "boolean", "values": []any{true}},
		`{"name":"aws:SourceIp","type":"ipList","values":["10.0.0.1","10.0.0.2"]}`,
	}})
	entries := b.contextEntries("entries")
	if b.err != nil {
		t.Fatalf("unexpected error: %v", b.err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].ContextKeyType != types.ContextKeyTypeEnumBoolean || entries[0].ContextKeyValues[0] != "true" {
		t.Fatalf("unexpected first entry %+v", entries[0])
	}
	if entries[1].ContextKeyType != types.ContextKeyTypeEnumIpList || len(entries[1].ContextKeyValues) != 2 {
		t.Fatalf("unexpected second entry %+v", entries[1])
	}

	bad := bind(mcp.Args{"entries": []any{map[string]any{"name": "k", "type": "weird"}}})
	bad.contextEntries("entries")
	if bad.err == nil {
		t.Fatalf("expected unknown type to fail")
	}
}

func TestBinderKeepsFirstError(t *testing.T) {
	b := bind(mcp.Args{"count": "x"})
	b.required("roleName")
	b.int32("count")
	if b.err == nil || b.err.Error() != "roleName is required" {
		t.Fatalf("expected first error to win, got %v", b.err)
	}
}

func TestSecretIsNotTrimmed(t *testing.T) {
	b := bind(mcp.Args{"password": " pa ss "})
	if got := aws.ToString(b.secret("password")); got != " pa ss " {
		t.Fatalf("secret should be kept verbatim, got %q", got)
	}
}
