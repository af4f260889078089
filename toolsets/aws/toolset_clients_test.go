package aws

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	awslib "iamkit/internal/aws"
	"iamkit/internal/cache"
	"iamkit/internal/mcp"
)

func TestToolsetClientPooling(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("AWS_CONFIG_FILE", filepath.Join(dir, "config"))
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", filepath.Join(dir, "credentials"))
	t.Setenv("AWS_ACCESS_KEY_ID", "test")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "secret")
	t.Setenv("AWS_REGION", "us-west-2")

	store := cache.NewStore()
	toolset := New()
	if err := toolset.Init(mcp.ToolsetContext{Clients: awslib.NewPool(store, awslib.Settings{}, time.Minute)}); err != nil {
		t.Fatalf("init toolset: %v", err)
	}

	iam1, region1, err := toolset.iamClient(context.Background(), "")
	if err != nil || iam1 == nil {
		t.Fatalf("iam client: %v", err)
	}
	if region1 != "us-west-2" {
		t.Fatalf("expected region from environment, got %q", region1)
	}
	iam2, region2, err := toolset.iamClient(context.Background(), "")
	if err != nil || iam1 != iam2 || region1 != region2 {
		t.Fatalf("expected pooled iam client: %v", err)
	}

	other, region3, err := toolset.iamClient(context.Background(), "eu-west-1")
	if err != nil || other == iam1 || region3 != "eu-west-1" {
		t.Fatalf("expected distinct client for eu-west-1, got region %q (%v)", region3, err)
	}

	sts1, _, err := toolset.stsClient(context.Background(), "")
	if err != nil || sts1 == nil {
		t.Fatalf("sts client: %v", err)
	}
	if store.Len() != 3 {
		t.Fatalf("expected 3 pooled clients, got %d", store.Len())
	}
}
