package awsiam

import "iamkit/internal/mcp"

type param struct {
	name     string
	schema   map[string]any
	required bool
}

func str(name, description string) param {
	return param{name: name, schema: map[string]any{"type": "string", "description": description}}
}

func num(name, description string) param {
	return param{name: name, schema: map[string]any{"type": "number", "description": description}}
}

func boolean(name, description string) param {
	return param{name: name, schema: map[string]any{"type": "boolean", "description": description}}
}

func strList(name, description string) param {
	return param{name: name, schema: map[string]any{
		"type":        "array",
		"description": description,
		"items":       map[string]any{"type": "string"},
	}}
}

func enum(name, description string, values ...string) param {
	return param{name: name, schema: map[string]any{"type": "string", "description": description, "enum": values}}
}

func document(name, description string) param {
	return param{name: name, schema: map[string]any{
		"type":        []string{"string", "object"},
		"description": description,
	}}
}

func tagList(name string) param {
	return param{name: name, schema: map[string]any{
		"type":        "array",
		"description": "Tags as {key, value} objects or key=value strings.",
		"items": map[string]any{
			"type": []string{"object", "string"},
			"properties": map[string]any{
				"key":   map[string]any{"type": "string"},
				"value": map[string]any{"type": "string"},
			},
		},
	}}
}

func contextEntryList(name string) param {
	return param{name: name, schema: map[string]any{
		"type":        "array",
		"description": "Context entries as {name, type, values} objects.",
		"items": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"name":   map[string]any{"type": "string"},
				"type":   map[string]any{"type": "string"},
				"values": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			},
			"required": []string{"name"},
		},
	}}
}

func required(p param) param {
	p.required = true
	return p
}

func params(p ...param) []param {
	return p
}

// inputSchema builds the JSON schema of one operation. Every operation takes region;
// paged ones add the pagination controls and mutating ones the gate override.
func inputSchema(fields []param, paged bool, safety mcp.ToolSafety) map[string]any {
	properties := map[string]any{
		"region": map[string]any{"type": "string", "description": "AWS region used to resolve the endpoint."},
	}
	var requiredNames []string
	for _, p := range fields {
		properties[p.name] = p.schema
		if p.required {
			requiredNames = append(requiredNames, p.name)
		}
	}
	if paged {
		properties["marker"] = map[string]any{"type": "string", "description": "Resume from this marker and return one page."}
		properties["pageSize"] = map[string]any{"type": "number", "description": "Items per request (1-1000); returns one page."}
		properties["maxItems"] = map[string]any{"type": "number", "description": "Stop after this many items in total."}
		properties["noAutoIteration"] = map[string]any{"type": "boolean", "description": "Return only the first page."}
	}
	if safety != mcp.SafetyReadOnly {
		properties["confirm"] = map[string]any{"type": "boolean", "description": "Skip the confirmation prompt."}
		properties["force"] = map[string]any{"type": "boolean", "description": "Skip the confirmation prompt."}
	}
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(requiredNames) > 0 {
		schema["required"] = requiredNames
	}
	return schema
}
