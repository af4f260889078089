package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"unicode"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	awslib "iamkit/internal/aws"
	"iamkit/internal/cache"
	"iamkit/internal/invoke"
	rcmcp "iamkit/internal/mcp"
	"iamkit/internal/render"
	"iamkit/pkg/server"
)

// Arguments owned by persistent flags or by the prompt rather than per-operation flags.
var reservedArgs = map[string]bool{"region": true, "confirm": true, "force": true}

// catalogue registers every known toolset against an unfiltered registry. No client is
// built until an operation runs.
func catalogue() []rcmcp.ToolSpec {
	reg := rcmcp.NewRegistry(nil)
	ctx := rcmcp.ToolContext{Clients: awslib.NewPool(cache.NewStore(), awslib.Settings{}, 0)}
	for _, id := range rcmcp.RegisteredToolsets() {
		factory, ok := rcmcp.ToolsetFactoryFor(id)
		if !ok {
			continue
		}
		toolset := factory()
		if toolset == nil || toolset.Init(ctx) != nil || toolset.Register(reg) != nil {
			continue
		}
	}
	return reg.Specs()
}

// commandPath splits "aws.iam.list_roles" into ("iam", "list-roles").
func commandPath(operation string) (string, string) {
	parts := strings.Split(operation, ".")
	if len(parts) < 2 {
		return "", strings.ReplaceAll(operation, "_", "-")
	}
	return parts[len(parts)-2], strings.ReplaceAll(parts[len(parts)-1], "_", "-")
}

func (a *app) operationGroups() []*cobra.Command {
	groups := map[string]*cobra.Command{}
	for _, spec := range catalogue() {
		group, name := commandPath(spec.Name)
		if group == "" {
			continue
		}
		parent, ok := groups[group]
		if !ok {
			parent = &cobra.Command{
				Use:   group,
				Short: fmt.Sprintf("%s operations", strings.ToUpper(group)),
			}
			groups[group] = parent
		}
		parent.AddCommand(a.operationCommand(spec, name))
	}
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]*cobra.Command, 0, len(names))
	for _, name := range names {
		out = append(out, groups[name])
	}
	return out
}

func (a *app) operationCommand(spec rcmcp.ToolSpec, name string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   name,
		Short: spec.Description,
		Args:  cobra.NoArgs,
	}
	if spec.Mutating() {
		cmd.Long = spec.Description + "\n\nPrompts for confirmation unless --force is given."
	}
	fields := operationFlags(cmd.Flags(), spec.InputSchema)
	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		args, err := collectArgs(cmd.Flags(), fields)
		if err != nil {
			return err
		}
		return a.invoke(cmd, spec.Name, args)
	}
	return cmd
}

type flagKind int

const (
	kindString flagKind = iota
	kindNumber
	kindBool
	kindStrings
	kindObjects
	kindDocument
)

// field ties one flag to the argument it fills.
type field struct {
	arg  string
	flag string
	kind flagKind
}

func operationFlags(flags *pflag.FlagSet, schema map[string]any) []field {
	properties, _ := schema["properties"].(map[string]any)
	required := map[string]bool{}
	switch names := schema["required"].(type) {
	case []string:
		for _, name := range names {
			required[name] = true
		}
	case []any:
		for _, name := range names {
			if s, ok := name.(string); ok {
				required[s] = true
			}
		}
	}

	names := make([]string, 0, len(properties))
	for name := range properties {
		if !reservedArgs[name] {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	fields := make([]field, 0, len(names))
	for _, name := range names {
		prop, _ := properties[name].(map[string]any)
		usage, _ := prop["description"].(string)
		if values, ok := prop["enum"].([]string); ok && len(values) > 0 {
			usage = fmt.Sprintf("%s (one of %s)", usage, strings.Join(values, ", "))
		}
		if required[name] {
			usage += " (required)"
		}
		f := field{arg: name, flag: kebab(name), kind: kindOf(prop)}
		switch f.kind {
		case kindNumber:
			flags.Int(f.flag, 0, usage)
		case kindBool:
			flags.Bool(f.flag, false, usage)
		case kindStrings, kindObjects:
			flags.StringArray(f.flag, nil, usage+" (repeatable)")
		case kindDocument:
			flags.String(f.flag, "", usage+" (JSON text or file://path)")
		default:
			flags.String(f.flag, "", usage)
		}
		fields = append(fields, f)
	}
	return fields
}

func kindOf(prop map[string]any) flagKind {
	switch t := prop["type"].(type) {
	case string:
		switch t {
		case "number", "integer":
			return kindNumber
		case "boolean":
			return kindBool
		case "array":
			items, _ := prop["items"].(map[string]any)
			if itemType, ok := items["type"].(string); ok && itemType == "string" {
				return kindStrings
			}
			return kindObjects
		}
		return kindString
	case []string:
		return kindDocument
	}
	return kindString
}

// collectArgs copies only the flags the caller set, so omitted parameters stay absent.
func collectArgs(flags *pflag.FlagSet, fields []field) (map[string]any, error) {
	args := map[string]any{}
	for _, f := range fields {
		if !flags.Changed(f.flag) {
			continue
		}
		switch f.kind {
		case kindNumber:
			value, err := flags.GetInt(f.flag)
			if err != nil {
				return nil, err
			}
			args[f.arg] = value
		case kindBool:
			value, err := flags.GetBool(f.flag)
			if err != nil {
				return nil, err
			}
			args[f.arg] = value
		case kindStrings:
			values, err := flags.GetStringArray(f.flag)
			if err != nil {
				return nil, err
			}
			items := make([]any, 0, len(values))
			for _, value := range values {
				items = append(items, value)
			}
			args[f.arg] = items
		case kindObjects:
			values, err := flags.GetStringArray(f.flag)
			if err != nil {
				return nil, err
			}
			items := make([]any, 0, len(values))
			for _, value := range values {
				items = append(items, objectOrString(value))
			}
			args[f.arg] = items
		case kindDocument:
			value, err := flags.GetString(f.flag)
			if err != nil {
				return nil, err
			}
			text, err := readDocument(value)
			if err != nil {
				return nil, fmt.Errorf("--%s: %w", f.flag, err)
			}
			args[f.arg] = text
		default:
			value, err := flags.GetString(f.flag)
			if err != nil {
				return nil, err
			}
			args[f.arg] = value
		}
	}
	return args, nil
}

// objectOrString decodes JSON objects and leaves anything else (key=value tags) as text.
func objectOrString(value string) any {
	trimmed := strings.TrimSpace(value)
	if strings.HasPrefix(trimmed, "{") {
		var obj map[string]any
		if err := json.Unmarshal([]byte(trimmed), &obj); err == nil {
			return obj
		}
	}
	return value
}

func readDocument(value string) (string, error) {
	path, ok := strings.CutPrefix(value, "file://")
	if !ok {
		return value, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func kebab(name string) string {
	var b strings.Builder
	for i, r := range name {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('-')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}

// invoke runs one operation through a fresh runtime and streams its envelopes.
func (a *app) invoke(cmd *cobra.Command, operation string, args map[string]any) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	format, err := render.ParseFormat(cfg.Output)
	if err != nil {
		return err
	}
	runtime, err := server.BuildRuntime(cfg, server.Deps{
		Stderr:  a.streams.ErrOut,
		Confirm: a.confirm(cmd),
		Force:   a.v.GetBool("force"),
	})
	if err != nil {
		return err
	}
	defer func() { _ = runtime.Close() }()

	user, err := runtime.Context.Policy.Authenticate("")
	if err != nil {
		return err
	}
	renderer := render.NewRenderer(cmd.OutOrStdout(), format)
	var renderErr error
	result := runtime.Invoker().Call(cmd.Context(), user, operation, args, func(env invoke.Envelope) {
		if err := renderer.Render(env); err != nil && renderErr == nil {
			renderErr = err
		}
	})
	if renderErr != nil {
		return renderErr
	}
	if result.Faulted() {
		return ErrFaulted
	}
	return nil
}

type operationInfo struct {
	Operation string `json:"operation"`
	Command   string `json:"command"`
	Safety    string `json:"safety"`
	Paged     bool   `json:"paged,omitempty"`
}

func (a *app) operationsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "operations",
		Short: "List the operations enabled by the current configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			format, err := render.ParseFormat(cfg.Output)
			if err != nil {
				return err
			}
			runtime, err := server.BuildRuntime(cfg, server.Deps{Stderr: a.streams.ErrOut})
			if err != nil {
				return err
			}
			defer func() { _ = runtime.Close() }()
			renderer := render.NewRenderer(cmd.OutOrStdout(), format)
			for _, info := range runtime.Registry.List() {
				group, name := commandPath(info.Name)
				entry := operationInfo{Operation: info.Name, Command: strings.TrimSpace(group + " " + name), Safety: string(info.Safety), Paged: info.Paged}
				if err := renderer.Render(entry); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
