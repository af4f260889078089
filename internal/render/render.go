package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"sigs.k8s.io/yaml"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

func ParseFormat(value string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported output format %q", value)
	}
}

// Renderer writes a stream of documents: one JSON object per line, or YAML documents
// separated by "---".
type Renderer struct {
	mu      sync.Mutex
	out     io.Writer
	format  Format
	written int
}

func NewRenderer(out io.Writer, format Format) *Renderer {
	if out == nil {
		out = io.Discard
	}
	if format == "" {
		format = FormatJSON
	}
	return &Renderer{out: out, format: format}
}

func (r *Renderer) Render(value any) error {
	data, err := Marshal(r.format, value)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.format == FormatYAML && r.written > 0 {
		if _, err := io.WriteString(r.out, "---\n"); err != nil {
			return err
		}
	}
	if _, err := r.out.Write(data); err != nil {
		return err
	}
	r.written++
	return nil
}

// Marshal encodes value in format. YAML goes through the JSON tags of value.
func Marshal(format Format, value any) ([]byte, error) {
	switch format {
	case FormatYAML:
		data, err := yaml.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		return data, nil
	default:
		data, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("encode json: %w", err)
		}
		return append(data, '\n'), nil
	}
}
