package variantschema

import (
	"context"

	"gopkg.in/yaml.v3"
)

// ParseYAMLBytes decodes a YAML document and validates it. The decoded tree
// is normalized into JSON-shaped map[string]any values first, so both input
// formats flow through the same validation path.
func ParseYAMLBytes(ctx context.Context, data []byte, opts ...ParseOpt) (VariantsSchema, error) {
	var node any
	if err := yaml.Unmarshal(data, &node); err != nil {
		return VariantsSchema{}, Issues{Issue{Path: "/", Code: CodeParseError, Message: err.Error(), Cause: err}}
	}
	return Parse(ctx, yamlNormalizeValue(node), opts...)
}

// ParseYAMLBytesWithMeta is ParseYAMLBytes with presence metadata collection.
func ParseYAMLBytesWithMeta(ctx context.Context, data []byte, opts ...ParseOpt) (Decoded[VariantsSchema], error) {
	var node any
	if err := yaml.Unmarshal(data, &node); err != nil {
		return Decoded[VariantsSchema]{}, Issues{Issue{Path: "/", Code: CodeParseError, Message: err.Error(), Cause: err}}
	}
	return ParseWithMeta(ctx, yamlNormalizeValue(node), opts...)
}

// yamlAnyToStringMap converts YAML-decoded values (which may contain
// map[any]any) into JSON-like map[string]any recursively. Non-map roots
// return nil.
func yamlAnyToStringMap(v any) map[string]any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = yamlNormalizeValue(vv)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			ks, ok := k.(string)
			if !ok {
				continue
			}
			out[ks] = yamlNormalizeValue(vv)
		}
		return out
	default:
		return nil
	}
}

func yamlNormalizeValue(v any) any {
	switch t := v.(type) {
	case map[string]any, map[any]any:
		return yamlAnyToStringMap(t)
	case []any:
		arr := make([]any, len(t))
		for i := range t {
			arr[i] = yamlNormalizeValue(t[i])
		}
		return arr
	default:
		return v
	}
}
