package aws

import (
	"testing"
	"time"

	awslib "iamkit/internal/aws"
	"iamkit/internal/cache"
	"iamkit/internal/config"
	"iamkit/internal/mcp"
)

func TestToolsetInitAndRegister(t *testing.T) {
	toolset := New()
	if err := toolset.Init(mcp.ToolsetContext{}); err == nil {
		t.Fatalf("expected error for missing client pool")
	}
	ctx := mcp.ToolsetContext{Clients: awslib.NewPool(cache.NewStore(), awslib.Settings{}, time.Minute)}
	if err := toolset.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	cfg := config.DefaultConfig()
	reg := mcp.NewRegistry(&cfg)
	if err := toolset.Register(reg); err != nil {
		t.Fatalf("register: %v", err)
	}
	for _, name := range []string{
		"aws.iam.list_roles",
		"aws.iam.get_account_authorization_details",
		"aws.iam.simulate_principal_policy",
		"aws.sts.get_caller_identity",
	} {
		if _, ok := reg.Get(name); !ok {
			t.Fatalf("expected %s to be registered", name)
		}
	}
	if err := toolset.Register(reg); err == nil {
		t.Fatalf("expected duplicate registration to fail")
	}
}

func TestToolsetFactoryRegistered(t *testing.T) {
	factory, ok := mcp.ToolsetFactoryFor("aws")
	if !ok {
		t.Fatalf("expected aws toolset factory")
	}
	if factory().ID() != "aws" {
		t.Fatalf("unexpected toolset id")
	}
}
