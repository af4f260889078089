package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"iamkit/internal/audit"
	awslib "iamkit/internal/aws"
	"iamkit/internal/cache"
	"iamkit/internal/config"
	"iamkit/internal/invoke"
	"iamkit/internal/logging"
	rcmcp "iamkit/internal/mcp"
	"iamkit/internal/policy"
	"iamkit/internal/redact"
)

// ConfigEnv names the environment variable consulted when no config path is given.
const ConfigEnv = "IAMKIT_CONFIG"

type Options struct {
	ConfigPath string
	ConfigDir  string
	Overrides  config.Overrides
	Version    string
	Stderr     io.Writer
	// Transport defaults to stdio.
	Transport sdkmcp.Transport
}

// Deps are the process-level collaborators a runtime is built with.
type Deps struct {
	Stderr  io.Writer
	Confirm invoke.ConfirmFunc
	Force   bool
}

// Runtime is a configured registry plus the context its operations run in.
type Runtime struct {
	Config   config.Config
	Context  rcmcp.ToolContext
	Registry *rcmcp.ToolRegistry
	Logger   *zap.Logger
	closers  []io.Closer
}

func (r *Runtime) Invoker() *rcmcp.ToolInvoker {
	return r.Context.Invoker
}

func (r *Runtime) Close() error {
	if r == nil {
		return nil
	}
	if r.Logger != nil {
		_ = r.Logger.Sync()
	}
	var errs []error
	for _, closer := range r.closers {
		errs = append(errs, closer.Close())
	}
	return errors.Join(errs...)
}

// LoadConfig resolves the config path (falling back to IAMKIT_CONFIG) and loads it.
func LoadConfig(path, dir string, overrides config.Overrides) (config.Config, error) {
	if path == "" {
		path = os.Getenv(ConfigEnv)
	}
	cfg, err := config.Load(path, dir, overrides)
	if err != nil {
		return cfg, fmt.Errorf("config load failed: %w", err)
	}
	return cfg, nil
}

func Run(ctx context.Context, opts Options) error {
	errOut := opts.Stderr
	if errOut == nil {
		errOut = os.Stderr
	}
	cfg, err := LoadConfig(opts.ConfigPath, opts.ConfigDir, opts.Overrides)
	if err != nil {
		return err
	}
	// The MCP client confirms through the confirm/force arguments; there is no terminal.
	deps := Deps{Stderr: errOut}
	runtime, err := BuildRuntime(cfg, deps)
	if err != nil {
		return fmt.Errorf("init failed: %w", err)
	}

	server := sdkmcp.NewServer(&sdkmcp.Implementation{Name: "iamkit", Version: opts.Version}, nil)
	toolNames, err := rcmcp.RegisterSDKTools(server, runtime.Registry, runtime.Context)
	if err != nil {
		_ = runtime.Close()
		return fmt.Errorf("tool registration failed: %w", err)
	}
	runtime.Logger.Info("serving", zap.Int("operations", len(toolNames)), zap.Strings("toolsets", cfg.Toolsets))

	live := &reloader{server: server, runtime: runtime, toolNames: toolNames, deps: deps, opts: opts}
	reloadCh := make(chan os.Signal, 1)
	notifyReload(reloadCh)
	reloaded := make(chan struct{})
	go func() {
		defer close(reloaded)
		for range reloadCh {
			live.reload()
		}
	}()
	defer func() {
		stopReload(reloadCh)
		<-reloaded
		_ = live.close()
	}()

	transport := opts.Transport
	if transport == nil {
		transport = &sdkmcp.StdioTransport{}
	}
	if err := server.Run(ctx, transport); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

type reloader struct {
	mu        sync.Mutex
	server    *sdkmcp.Server
	runtime   *Runtime
	toolNames []string
	deps      Deps
	opts      Options
}

// reload rebuilds the runtime from configuration and swaps the served tool set.
// A failed reload keeps the current runtime.
func (r *reloader) reload() {
	r.mu.Lock()
	defer r.mu.Unlock()
	log := r.runtime.Logger
	cfg, err := LoadConfig(r.opts.ConfigPath, r.opts.ConfigDir, r.opts.Overrides)
	if err != nil {
		log.Error("config reload failed", zap.Error(err))
		return
	}
	next, err := BuildRuntime(cfg, r.deps)
	if err != nil {
		log.Error("reload init failed", zap.Error(err))
		return
	}
	if len(r.toolNames) > 0 {
		r.server.RemoveTools(r.toolNames...)
	}
	toolNames, err := rcmcp.RegisterSDKTools(r.server, next.Registry, next.Context)
	if err != nil {
		log.Error("tool registration failed", zap.Error(err))
		_ = next.Close()
		return
	}
	previous := r.runtime
	r.runtime, r.toolNames = next, toolNames
	next.Logger.Info("reloaded", zap.Int("operations", len(toolNames)))
	_ = previous.Close()
}

func (r *reloader) close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.runtime.Close()
}

// BuildRuntime wires logging, auditing, the client pool and the configured toolsets.
func BuildRuntime(cfg config.Config, deps Deps) (*Runtime, error) {
	errOut := deps.Stderr
	if errOut == nil {
		errOut = os.Stderr
	}
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat, errOut)
	if err != nil {
		return nil, err
	}
	runtime := &Runtime{Config: cfg, Logger: logger}

	var auditLogger *audit.Logger
	switch path := strings.TrimSpace(cfg.AuditLog); path {
	case "":
	case "-", "stderr":
		auditLogger = audit.NewLogger(errOut)
	default:
		file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return nil, fmt.Errorf("open audit log: %w", err)
		}
		runtime.closers = append(runtime.closers, file)
		auditLogger = audit.NewLogger(file)
	}

	pool := awslib.NewPool(cache.NewStore(), awslib.Settings{
		Profile:     cfg.Profile,
		Region:      cfg.Region,
		EndpointURL: cfg.EndpointURL,
	}, time.Duration(cfg.Clients.TTLSeconds)*time.Second)

	reg := rcmcp.NewRegistry(&runtime.Config)
	toolCtx := rcmcp.ToolContext{
		Config:   &runtime.Config,
		Logger:   logger,
		Policy:   policy.NewAuthorizer(cfg.AllowedTools...),
		Redactor: redact.New(),
		Audit:    auditLogger,
		Clients:  pool,
		Confirm:  deps.Confirm,
		Force:    deps.Force,
	}
	toolCtx = rcmcp.NewToolInvoker(reg, toolCtx).Context()

	for _, id := range cfg.Toolsets {
		factory, ok := rcmcp.ToolsetFactoryFor(id)
		if !ok {
			_ = runtime.Close()
			return nil, fmt.Errorf("unknown toolset: %s", id)
		}
		toolset := factory()
		if err := toolset.Init(toolCtx); err != nil {
			_ = runtime.Close()
			return nil, fmt.Errorf("init toolset %s: %w", id, err)
		}
		if err := toolset.Register(reg); err != nil {
			_ = runtime.Close()
			return nil, fmt.Errorf("register toolset %s: %w", id, err)
		}
	}
	logger.Debug("runtime built", zap.Int("operations", reg.Len()), zap.String("profile", cfg.Profile), zap.String("region", cfg.Region))

	runtime.Context = toolCtx
	runtime.Registry = reg
	return runtime, nil
}
