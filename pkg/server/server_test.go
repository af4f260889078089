package server

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"
	"time"

	sdkjsonrpc "github.com/modelcontextprotocol/go-sdk/jsonrpc"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"iamkit/internal/config"
	rcmcp "iamkit/internal/mcp"
	"iamkit/internal/policy"

	_ "iamkit/toolsets/aws"
)

func hermeticAWS(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("AWS_CONFIG_FILE", filepath.Join(dir, "config"))
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", filepath.Join(dir, "credentials"))
	t.Setenv("AWS_ACCESS_KEY_ID", "AKIDEXAMPLE")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "secret")
	t.Setenv("AWS_REGION", "us-east-1")
	t.Setenv("AWS_PROFILE", "")
	t.Setenv("AWS_EC2_METADATA_DISABLED", "true")
	t.Setenv(ConfigEnv, "")
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestBuildRuntimeMinimalConfig(t *testing.T) {
	hermeticAWS(t)
	cfg := config.DefaultConfig()
	cfg.Toolsets = []string{}

	runtime, err := BuildRuntime(cfg, Deps{Stderr: io.Discard})
	if err != nil {
		t.Fatalf("BuildRuntime failed: %v", err)
	}
	defer runtime.Close()
	if runtime.Context.Clients == nil {
		t.Fatalf("expected client pool")
	}
	if runtime.Invoker() == nil || runtime.Invoker().Registry() != runtime.Registry {
		t.Fatalf("expected invoker bound to registry")
	}
	if runtime.Registry.Len() != 0 {
		t.Fatalf("expected no operations registered")
	}
}

func TestBuildRuntimeRegistersIAM(t *testing.T) {
	hermeticAWS(t)
	runtime, err := BuildRuntime(config.DefaultConfig(), Deps{Stderr: io.Discard})
	if err != nil {
		t.Fatalf("BuildRuntime failed: %v", err)
	}
	defer runtime.Close()
	for _, name := range []string{"aws.iam.list_roles", "aws.iam.delete_role", "aws.sts.get_caller_identity"} {
		if _, ok := runtime.Registry.Get(name); !ok {
			t.Fatalf("expected %s to be registered", name)
		}
	}
}

func TestBuildRuntimeReadOnlyFiltersMutations(t *testing.T) {
	hermeticAWS(t)
	cfg := config.DefaultConfig()
	cfg.ReadOnly = true
	runtime, err := BuildRuntime(cfg, Deps{Stderr: io.Discard})
	if err != nil {
		t.Fatalf("BuildRuntime failed: %v", err)
	}
	defer runtime.Close()
	for _, spec := range runtime.Registry.Specs() {
		if spec.Mutating() {
			t.Fatalf("read-only runtime registered %s", spec.Name)
		}
	}
	if _, ok := runtime.Registry.Get("aws.iam.get_role"); !ok {
		t.Fatalf("expected read operations to remain")
	}
}

func TestBuildRuntimeAuditLogFile(t *testing.T) {
	hermeticAWS(t)
	path := filepath.Join(t.TempDir(), "audit.jsonl")
	cfg := config.DefaultConfig()
	cfg.AuditLog = path

	runtime, err := BuildRuntime(cfg, Deps{Stderr: io.Discard})
	if err != nil {
		t.Fatalf("BuildRuntime failed: %v", err)
	}
	// Declined by the gate, so no AWS call is attempted.
	result := runtime.Context.CallTool(context.Background(), policy.User{ID: "test"}, "aws.iam.delete_role", map[string]any{"roleName": "app"}, nil)
	if !result.Faulted() {
		t.Fatalf("expected declined delete")
	}
	if err := runtime.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read audit log: %v", err)
	}
	if !strings.Contains(string(data), `"declined"`) || !strings.Contains(string(data), "aws.iam.delete_role") {
		t.Fatalf("unexpected audit log: %s", data)
	}
}

func TestBuildRuntimeAuditLogUnwritable(t *testing.T) {
	hermeticAWS(t)
	cfg := config.DefaultConfig()
	cfg.AuditLog = filepath.Join(t.TempDir(), "missing", "audit.jsonl")
	if _, err := BuildRuntime(cfg, Deps{Stderr: io.Discard}); err == nil {
		t.Fatalf("expected audit log error")
	}
}

func TestBuildRuntimeBadLogLevel(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.LogLevel = "loud"
	if _, err := BuildRuntime(cfg, Deps{Stderr: io.Discard}); err == nil {
		t.Fatalf("expected log level error")
	}
}

func TestBuildRuntimeUnknownToolset(t *testing.T) {
	hermeticAWS(t)
	cfg := config.DefaultConfig()
	cfg.Toolsets = []string{"missing"}

	if _, err := BuildRuntime(cfg, Deps{Stderr: io.Discard}); err == nil {
		t.Fatalf("expected error for unknown toolset")
	}
}

func TestRunWithInMemoryTransport(t *testing.T) {
	hermeticAWS(t)
	configPath := writeConfig(t, `toolsets = ["aws"]`)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	start := time.Now()
	err := Run(ctx, Options{
		ConfigPath: configPath,
		Version:    "test",
		Stderr:     io.Discard,
		Transport:  fakeTransport{},
	})
	if time.Since(start) > time.Second {
		t.Fatalf("run took too long")
	}
	_ = err
}

func TestRunConfigLoadError(t *testing.T) {
	hermeticAWS(t)
	err := Run(context.Background(), Options{
		ConfigPath: filepath.Join(t.TempDir(), "missing.toml"),
		Version:    "test",
		Stderr:     io.Discard,
		Transport:  fakeTransport{},
	})
	if err == nil {
		t.Fatalf("expected error for config load failure")
	}
}

func TestRunUsesEnvConfig(t *testing.T) {
	hermeticAWS(t)
	t.Setenv(ConfigEnv, writeConfig(t, "toolsets = [\"aws\"]\nregion = \"eu-west-1\"\n"))

	err := Run(context.Background(), Options{
		Version:   "test",
		Stderr:    io.Discard,
		Transport: fakeTransport{},
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
}

func TestRunTransportError(t *testing.T) {
	hermeticAWS(t)
	err := Run(context.Background(), Options{
		ConfigPath: writeConfig(t, `toolsets = ["aws"]`),
		Version:    "test",
		Stderr:     io.Discard,
		Transport:  errorTransport{},
	})
	if err == nil {
		t.Fatalf("expected server error")
	}
}

func TestRunOverridesApplied(t *testing.T) {
	hermeticAWS(t)
	toolsets := []string{"aws"}
	readOnly := true
	disableDestructive := true
	logLevel := "debug"
	profile := "audit"
	err := Run(context.Background(), Options{
		ConfigPath: writeConfig(t, `toolsets = ["missing"]`),
		Overrides: config.Overrides{
			Profile:            &profile,
			Toolsets:           &toolsets,
			ReadOnly:           &readOnly,
			DisableDestructive: &disableDestructive,
			LogLevel:           &logLevel,
		},
		Stderr:    nil,
		Transport: fakeTransport{},
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
}

func TestRunInitError(t *testing.T) {
	hermeticAWS(t)
	err := Run(context.Background(), Options{
		ConfigPath: writeConfig(t, `toolsets = ["missing"]`),
		Version:    "test",
		Stderr:     io.Discard,
		Transport:  fakeTransport{},
	})
	if err == nil {
		t.Fatalf("expected init error")
	}
}

func TestRunReloadSignal(t *testing.T) {
	hermeticAWS(t)
	configPath := writeConfig(t, `toolsets = ["aws"]`)
	done := make(chan struct{})
	runErr := make(chan error, 1)
	go func() {
		runErr <- Run(context.Background(), Options{
			ConfigPath: configPath,
			Version:    "test",
			Stderr:     io.Discard,
			Transport:  blockingTransport{done: done},
		})
	}()
	time.Sleep(50 * time.Millisecond)
	_ = syscall.Kill(syscall.Getpid(), syscall.SIGHUP)
	time.Sleep(50 * time.Millisecond)
	close(done)
	if err := <-runErr; err != nil {
		t.Fatalf("run: %v", err)
	}
}

type errorToolset struct {
	id string
}

func (t errorToolset) ID() string {
	return t.id
}

func (t errorToolset) Version() string {
	return "0.0.0"
}

func (t errorToolset) Init(rcmcp.ToolsetContext) error {
	return fmt.Errorf("init error")
}

func (t errorToolset) Register(rcmcp.Registry) error {
	return nil
}

type registerErrorToolset struct {
	id string
}

func (t registerErrorToolset) ID() string {
	return t.id
}

func (t registerErrorToolset) Version() string {
	return "0.0.0"
}

func (t registerErrorToolset) Init(rcmcp.ToolsetContext) error {
	return nil
}

func (t registerErrorToolset) Register(rcmcp.Registry) error {
	return fmt.Errorf("register error")
}

func TestBuildRuntimeToolsetInitError(t *testing.T) {
	hermeticAWS(t)
	id := fmt.Sprintf("test-init-%d", time.Now().UnixNano())
	if err := rcmcp.RegisterToolset(id, func() rcmcp.Toolset { return errorToolset{id: id} }); err != nil {
		t.Fatalf("register toolset: %v", err)
	}
	cfg := config.DefaultConfig()
	cfg.Toolsets = []string{id}
	if _, err := BuildRuntime(cfg, Deps{Stderr: io.Discard}); err == nil {
		t.Fatalf("expected init error")
	}
}

func TestBuildRuntimeToolsetRegisterError(t *testing.T) {
	hermeticAWS(t)
	id := fmt.Sprintf("test-register-%d", time.Now().UnixNano())
	if err := rcmcp.RegisterToolset(id, func() rcmcp.Toolset { return registerErrorToolset{id: id} }); err != nil {
		t.Fatalf("register toolset: %v", err)
	}
	cfg := config.DefaultConfig()
	cfg.Toolsets = []string{id}
	if _, err := BuildRuntime(cfg, Deps{Stderr: io.Discard}); err == nil {
		t.Fatalf("expected register error")
	}
}

type fakeTransport struct{}

func (fakeTransport) Connect(context.Context) (sdkmcp.Connection, error) {
	return &fakeConn{}, nil
}

type fakeConn struct{}

func (c *fakeConn) Read(context.Context) (sdkjsonrpc.Message, error) {
	return nil, io.EOF
}

func (c *fakeConn) Write(context.Context, sdkjsonrpc.Message) error {
	return nil
}

func (c *fakeConn) Close() error {
	return nil
}

func (c *fakeConn) SessionID() string {
	return "test"
}

type errorTransport struct{}

func (errorTransport) Connect(context.Context) (sdkmcp.Connection, error) {
	return nil, fmt.Errorf("connect error")
}

type blockingTransport struct {
	done chan struct{}
}

func (t blockingTransport) Connect(context.Context) (sdkmcp.Connection, error) {
	return &blockingConn{done: t.done}, nil
}

type blockingConn struct {
	done chan struct{}
}

func (c *blockingConn) Read(context.Context) (sdkjsonrpc.Message, error) {
	<-c.done
	return nil, io.EOF
}

func (c *blockingConn) Write(context.Context, sdkjsonrpc.Message) error {
	return nil
}

func (c *blockingConn) Close() error {
	return nil
}

func (c *blockingConn) SessionID() string {
	return "blocking"
}
