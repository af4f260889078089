package awsiam

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iam/types"

	"iamkit/internal/invoke"
	"iamkit/internal/mcp"
)

// binder reads request fields from the invocation arguments. The first problem is kept
// in err and later reads are still safe to make.
type binder struct {
	args mcp.Args
	err  error
}

func bind(args mcp.Args) *binder {
	return &binder{args: args}
}

func (b *binder) fail(err error) {
	if b.err == nil && err != nil {
		b.err = err
	}
}

func (b *binder) required(key string) *string {
	value, err := b.args.Required(key)
	if err != nil {
		b.fail(err)
		return nil
	}
	return aws.String(value)
}

// secret is required like any other field but never trimmed.
func (b *binder) secret(key string) *string {
	value := b.args.String(key)
	if value == nil || *value == "" {
		b.fail(invoke.Required(key))
		return nil
	}
	return value
}

func (b *binder) optional(key string) *string {
	return b.args.String(key)
}

func (b *binder) int32(key string) *int32 {
	value, err := b.args.Int32(key)
	b.fail(err)
	return value
}

func (b *binder) flag(key string) bool {
	value, err := b.args.Bool(key)
	b.fail(err)
	return value != nil && *value
}

func (b *binder) strings(key string) []string {
	values, err := b.args.Strings(key)
	b.fail(err)
	return values
}

func (b *binder) requiredStrings(key string) []string {
	values := b.strings(key)
	if b.err == nil && len(values) == 0 {
		b.fail(invoke.Required(key))
	}
	return values
}

// document reads a policy document given either as JSON text or as an object.
func (b *binder) document(key string) *string {
	if !b.args.Has(key) {
		b.fail(invoke.Required(key))
		return nil
	}
	text, err := policyText(b.args[key])
	if err != nil {
		b.fail(invoke.Invalid(key, err))
		return nil
	}
	return aws.String(text)
}

func (b *binder) optionalDocument(key string) *string {
	if !b.args.Has(key) {
		return nil
	}
	return b.document(key)
}

func (b *binder) documents(key string) []string {
	items, err := b.args.List(key)
	if err != nil || len(items) == 0 {
		b.fail(err)
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		text, err := policyText(item)
		if err != nil {
			b.fail(invoke.Invalid(key, err))
			return nil
		}
		out = append(out, text)
	}
	return out
}

// tags accepts {key, value} objects, their JSON text, or key=value strings.
func (b *binder) tags(key string) []types.Tag {
	items, err := b.args.List(key)
	if err != nil || len(items) == 0 {
		b.fail(err)
		return nil
	}
	out := make([]types.Tag, 0, len(items))
	for _, item := range items {
		tag, err := parseTag(item)
		if err != nil {
			b.fail(invoke.Invalid(key, err))
			return nil
		}
		out = append(out, tag)
	}
	return out
}

func (b *binder) requiredTags(key string) []types.Tag {
	tags := b.tags(key)
	if b.err == nil && len(tags) == 0 {
		b.fail(invoke.Required(key))
	}
	return tags
}

func (b *binder) contextEntries(key string) []types.ContextEntry {
	objects, err := b.args.Objects(key)
	if err != nil || len(objects) == 0 {
		b.fail(err)
		return nil
	}
	out := make([]types.ContextEntry, 0, len(objects))
	for _, obj := range objects {
		entry, err := parseContextEntry(obj)
		if err != nil {
			b.fail(invoke.Invalid(key, err))
			return nil
		}
		out = append(out, entry)
	}
	return out
}

// enumOf reads an optional enum value, matching allowed values case-insensitively.
func enumOf[T ~string](b *binder, key string, allowed []T) T {
	value := b.args.String(key)
	if value == nil || strings.TrimSpace(*value) == "" {
		return ""
	}
	for _, candidate := range allowed {
		if strings.EqualFold(string(candidate), strings.TrimSpace(*value)) {
			return candidate
		}
	}
	names := make([]string, 0, len(allowed))
	for _, candidate := range allowed {
		names = append(names, string(candidate))
	}
	b.fail(invoke.Invalid(key, fmt.Errorf("%q is not one of %s", *value, strings.Join(names, ", "))))
	return ""
}

func requiredEnum[T ~string](b *binder, key string, allowed []T) T {
	if !b.args.Has(key) {
		b.fail(invoke.Required(key))
		return ""
	}
	return enumOf(b, key, allowed)
}

func policyText(value any) (string, error) {
	switch v := value.(type) {
	case string:
		text := strings.TrimSpace(v)
		if !json.Valid([]byte(text)) {
			return "", errors.New("policy document is not valid JSON")
		}
		return text, nil
	case map[string]any, []any:
		raw, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(raw), nil
	default:
		return "", fmt.Errorf("expected a policy document, got %T", value)
	}
}

func parseTag(item any) (types.Tag, error) {
	switch v := item.(type) {
	case map[string]any:
		return tagFromObject(v)
	case string:
		text := strings.TrimSpace(v)
		if strings.HasPrefix(text, "{") {
			var obj map[string]any
			if err := json.Unmarshal([]byte(text), &obj); err != nil {
				return types.Tag{}, fmt.Errorf("decode %q: %w", text, err)
			}
			return tagFromObject(obj)
		}
		key, value, ok := strings.Cut(text, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return types.Tag{}, fmt.Errorf("expected key=value, got %q", text)
		}
		return types.Tag{Key: aws.String(strings.TrimSpace(key)), Value: aws.String(value)}, nil
	default:
		return types.Tag{}, fmt.Errorf("expected a tag, got %T", item)
	}
}

func tagFromObject(obj map[string]any) (types.Tag, error) {
	key := field(obj, "key", "Key")
	if key == "" {
		return types.Tag{}, errors.New("tag key is required")
	}
	return types.Tag{Key: aws.String(key), Value: aws.String(field(obj, "value", "Value"))}, nil
}

func parseContextEntry(obj map[string]any) (types.ContextEntry, error) {
	name := field(obj, "name", "ContextKeyName")
	if name == "" {
		return types.ContextEntry{}, errors.New("context entry name is required")
	}
	entry := types.ContextEntry{ContextKeyName: aws.String(name)}
	if kind := field(obj, "type", "ContextKeyType"); kind != "" {
		matched := false
		for _, candidate := range types.ContextKeyTypeEnum("").Values() {
			if strings.EqualFold(string(candidate), kind) {
				entry.ContextKeyType = candidate
				matched = true
				break
			}
		}
		if !matched {
			return types.ContextEntry{}, fmt.Errorf("unknown context key type %q", kind)
		}
	}
	values := obj["values"]
	if values == nil {
		values = obj["ContextKeyValues"]
	}
	switch v := values.(type) {
	case nil:
	case string:
		entry.ContextKeyValues = []string{v}
	case []string:
		entry.ContextKeyValues = v
	case []any:
		for _, item := range v {
			entry.ContextKeyValues = append(entry.ContextKeyValues, fmt.Sprintf("%v", item))
		}
	default:
		return types.ContextEntry{}, fmt.Errorf("context entry values: expected a list, got %T", values)
	}
	return entry, nil
}

func field(obj map[string]any, keys ...string) string {
	for _, key := range keys {
		if value, ok := obj[key]; ok && value != nil {
			return strings.TrimSpace(fmt.Sprintf("%v", value))
		}
	}
	return ""
}
