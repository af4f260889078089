package redact

import (
	"testing"
	"time"
)

func TestRedactString(t *testing.T) {
	r := New()
	input := "bearer eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.xxx.yyy"
	if out := r.RedactString(input); out != "bearer "+Placeholder {
		t.Fatalf("unexpected redaction output: %s", out)
	}
	if out := r.RedactString("arn:aws:iam::123456789012:role/service-role/long-role-name"); out != "arn:aws:iam::123456789012:role/service-role/long-role-name" {
		t.Fatalf("arn should be kept, got %s", out)
	}
}

func TestRedactValueNested(t *testing.T) {
	r := New()
	in := map[string]any{
		"AccessKey": map[string]any{
			"AccessKeyId":     "AKIAEXAMPLE",
			"SecretAccessKey": "wJalrXUtnFEMI/K7MDENG/bPxRfiCYEXAMPLEKEY",
		},
		"list": []any{"keep", map[string]any{"Password": "hunter2"}},
	}
	out := r.RedactValue(in).(map[string]any)
	key := out["AccessKey"].(map[string]any)
	if key["SecretAccessKey"] != Placeholder {
		t.Fatalf("expected secret redacted, got %v", key["SecretAccessKey"])
	}
	if key["AccessKeyId"] != "AKIAEXAMPLE" {
		t.Fatalf("expected access key id kept")
	}
	list := out["list"].([]any)
	if list[1].(map[string]any)["Password"] != Placeholder {
		t.Fatalf("expected password redacted")
	}
}

type credentials struct {
	AccessKeyId     *string
	SecretAccessKey *string
	SessionToken    *string
	Expiration      *time.Time
}

func TestRedactValueStruct(t *testing.T) {
	id, secret, token := "ASIAEXAMPLE", "secret", "token"
	out := New().RedactValue(&credentials{AccessKeyId: &id, SecretAccessKey: &secret, SessionToken: &token})
	m, ok := out.(map[string]any)
	if !ok {
		t.Fatalf("expected generic map, got %T", out)
	}
	if m["SecretAccessKey"] != Placeholder || m["SessionToken"] != Placeholder {
		t.Fatalf("expected secrets redacted: %#v", m)
	}
	if m["AccessKeyId"] != "ASIAEXAMPLE" {
		t.Fatalf("expected id kept: %#v", m)
	}
}

func TestIsSecretKey(t *testing.T) {
	for _, key := range []string{"password", "SecretAccessKey", "privateKey"} {
		if !IsSecretKey(key) {
			t.Fatalf("expected %s to be secret", key)
		}
	}
	if IsSecretKey("UserName") {
		t.Fatalf("UserName is not secret")
	}
}
