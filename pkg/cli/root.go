package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"iamkit/internal/config"
	"iamkit/pkg/server"
)

// ErrFaulted is returned when an operation produced at least one fault envelope. The
// envelopes themselves have already been written.
var ErrFaulted = errors.New("operation failed")

const envPrefix = "IAMKIT"

// Streams are the terminal endpoints a command talks to.
type Streams struct {
	In     io.Reader
	Out    io.Writer
	ErrOut io.Writer
}

type app struct {
	v       *viper.Viper
	streams Streams
	version string
	serve   func(context.Context, server.Options) error
}

// NewRootCommand builds the iamkit command tree. Operation subcommands are generated
// from the registered toolsets.
func NewRootCommand(version string, streams Streams) *cobra.Command {
	a := &app{v: viper.New(), streams: streams, version: version, serve: server.Run}
	return a.root()
}

// Execute runs the command line and returns the process exit status.
func Execute(ctx context.Context, version string, args []string, streams Streams) int {
	if streams.ErrOut == nil {
		streams.ErrOut = os.Stderr
	}
	cmd := NewRootCommand(version, streams)
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, ErrFaulted) {
			fmt.Fprintf(streams.ErrOut, "%s %v\n", paint(streams.ErrOut, errorColor, "Error:"), err)
		}
		return 1
	}
	return 0
}

func (a *app) root() *cobra.Command {
	if a.streams.In == nil {
		a.streams.In = os.Stdin
	}
	if a.streams.Out == nil {
		a.streams.Out = os.Stdout
	}
	if a.streams.ErrOut == nil {
		a.streams.ErrOut = os.Stderr
	}

	root := &cobra.Command{
		Use:           "iamkit",
		Short:         "Call AWS IAM operations from the terminal or over MCP",
		Version:       a.version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(a.streams.In)
	root.SetOut(a.streams.Out)
	root.SetErr(a.streams.ErrOut)

	flags := root.PersistentFlags()
	flags.String("config", "", "config file (TOML); also IAMKIT_CONFIG")
	flags.String("config-dir", "", "directory of drop-in TOML files merged after --config")
	flags.String("profile", "", "AWS shared config profile")
	flags.String("region", "", "AWS region")
	flags.String("endpoint-url", "", "override the service endpoint")
	flags.StringSlice("toolsets", nil, "toolsets to enable")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.String("log-format", "", "log format (console or json)")
	flags.StringP("output", "o", "", "output format (json or yaml)")
	flags.String("audit-log", "", "append audit events to this file (- for stderr)")
	flags.Bool("read-only", false, "only expose read-only operations")
	flags.Bool("disable-destructive", false, "hide destructive operations")
	flags.Bool("force", false, "skip confirmation prompts for mutating operations")
	a.bind(flags)

	root.AddCommand(a.operationsCommand(), a.serveCommand())
	for _, group := range a.operationGroups() {
		root.AddCommand(group)
	}
	return root
}

func (a *app) bind(flags *pflag.FlagSet) {
	a.v.SetEnvPrefix(envPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()
	flags.VisitAll(func(f *pflag.Flag) {
		_ = a.v.BindPFlag(f.Name, f)
	})
}

// overrides keeps only values the caller set by flag or environment, so config files
// are not clobbered by flag defaults.
func (a *app) overrides() config.Overrides {
	var o config.Overrides
	o.Profile = a.stringValue("profile")
	o.Region = a.stringValue("region")
	o.EndpointURL = a.stringValue("endpoint-url")
	o.LogLevel = a.stringValue("log-level")
	o.LogFormat = a.stringValue("log-format")
	o.Output = a.stringValue("output")
	o.AuditLog = a.stringValue("audit-log")
	o.ReadOnly = a.boolValue("read-only")
	o.DisableDestructive = a.boolValue("disable-destructive")
	if a.v.IsSet("toolsets") {
		toolsets := a.v.GetStringSlice("toolsets")
		o.Toolsets = &toolsets
	}
	return o
}

func (a *app) stringValue(key string) *string {
	if !a.v.IsSet(key) {
		return nil
	}
	value := a.v.GetString(key)
	return &value
}

func (a *app) boolValue(key string) *bool {
	if !a.v.IsSet(key) {
		return nil
	}
	value := a.v.GetBool(key)
	return &value
}

func (a *app) loadConfig() (config.Config, error) {
	return server.LoadConfig(a.v.GetString("config"), a.v.GetString("config-dir"), a.overrides())
}

func (a *app) serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the operations as MCP tools over stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.serve(cmd.Context(), server.Options{
				ConfigPath: a.v.GetString("config"),
				ConfigDir:  a.v.GetString("config-dir"),
				Overrides:  a.overrides(),
				Version:    a.version,
				Stderr:     a.streams.ErrOut,
			})
		},
	}
}
