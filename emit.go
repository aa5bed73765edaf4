package variantschema

import (
	"bytes"
	stdjson "encoding/json"
	"strings"

	json "github.com/goccy/go-json"

	js "github.com/wheelnext/variantschema/jsonschema"
)

// Fixed schema-artifact metadata; emitted verbatim when requested, never
// derived from a document being validated.
const (
	SchemaDialect = "https://json-schema.org/draft/2020-12/schema"
	SchemaID      = "https://wheelnext.dev/variants.json"
	SchemaTitle   = "{name}-{version}-variants.json"
)

// EmitOptions configures schema emission.
type EmitOptions struct {
	// Indent is the number of spaces per indentation level; 0 emits compact
	// single-line output.
	Indent int
	// Metadata adds the $schema, $id, and title constants to the artifact.
	Metadata bool
}

// EmitJSONSchema serializes the rule set as a draft 2020-12 JSON Schema
// document. Emission is pure: two calls with the same options produce
// byte-identical output.
func EmitJSONSchema(opt EmitOptions) (string, error) {
	s := JSONSchema()
	if opt.Metadata {
		s.Dialect = SchemaDialect
		s.ID = SchemaID
		s.Title = SchemaTitle
	}
	data, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	if opt.Indent > 0 {
		// Indentation reflows the already-marshaled compact form.
		var buf bytes.Buffer
		if err := stdjson.Indent(&buf, data, "", strings.Repeat(" ", opt.Indent)); err != nil {
			return "", err
		}
		data = buf.Bytes()
	}
	return string(data), nil
}

// JSONSchema projects the full validation rule set into a JSON Schema tree.
// Every pattern, uniqueness, length, and cross-field rule the parser
// enforces appears here so external tooling can check documents without
// running the validator.
func JSONSchema() *js.Schema {
	return &js.Schema{
		Type:                 "object",
		AdditionalProperties: false,
		Properties: map[string]*js.Schema{
			KeyDefaultPriorities: {
				Description: "Default provider priorities",
				Ref:         "#/$defs/DefaultPriorities",
			},
			KeyProviders: {
				Description:          "Mapping of namespaces to provider information",
				Type:                 "object",
				AdditionalProperties: false,
				PatternProperties: map[string]*js.Schema{
					PatternProviderKey: {Ref: "#/$defs/Provider"},
				},
			},
			KeyStaticProperties: nullable(
				"Static properties for AoT providers (by namespace)",
				nestedListsSchema(PatternNamespace, PatternNamespace, PatternValue),
			),
			KeyVariants: {
				Description:          "Mapping of variant labels to properties",
				Type:                 "object",
				AdditionalProperties: false,
				PatternProperties: map[string]*js.Schema{
					PatternVariantLabel: {
						Type:                 "object",
						AdditionalProperties: false,
						PatternProperties: map[string]*js.Schema{
							PatternValue: {
								Type:                 "object",
								AdditionalProperties: false,
								PatternProperties: map[string]*js.Schema{
									PatternValue: {
										Type:        "array",
										Items:       &js.Schema{Type: "string", Pattern: PatternValue},
										MinItems:    js.Int(1),
										UniqueItems: true,
									},
								},
							},
						},
					},
				},
			},
		},
		Required: []string{KeyDefaultPriorities, KeyProviders, KeyVariants},
		Defs: map[string]*js.Schema{
			"DefaultPriorities": defaultPrioritiesSchema(),
			"Provider":          providerSchema(),
		},
	}
}

func defaultPrioritiesSchema() *js.Schema {
	return &js.Schema{
		Type:                 "object",
		AdditionalProperties: false,
		Properties: map[string]*js.Schema{
			KeyNamespace: {
				Description: "Default namespace priorities",
				Type:        "array",
				Items:       &js.Schema{Type: "string", Pattern: PatternNamespace},
				MinItems:    js.Int(1),
				UniqueItems: true,
			},
			KeyFeature: nullable(
				"Default feature priorities (by namespace)",
				&js.Schema{
					Type:                 "object",
					AdditionalProperties: false,
					PatternProperties: map[string]*js.Schema{
						PatternNamespace: {
							Type:        "array",
							Items:       &js.Schema{Type: "string", Pattern: PatternNamespace},
							UniqueItems: true,
						},
					},
				},
			),
			KeyProperty: nullable(
				"Default property priorities (by namespace)",
				nestedListsSchema(PatternNamespace, PatternNamespace, PatternValue),
			),
		},
		Required: []string{KeyNamespace},
	}
}

func providerSchema() *js.Schema {
	return &js.Schema{
		Type:                 "object",
		AdditionalProperties: false,
		Properties: map[string]*js.Schema{
			KeyPluginAPI: nullable(
				"Object reference to plugin class",
				&js.Schema{Type: "string", Pattern: PatternPluginAPI},
			),
			KeyEnableIf: nullable(
				"Environment marker specifying when to enable the plugin",
				&js.Schema{Type: "string", MinLength: js.Int(1)},
			),
			KeyInstallTime: {
				Description: "Whether a plugin is used at install time",
				Type:        "boolean",
				Default:     true,
			},
			KeyOptional: {
				Description: "Whether the provider is optional",
				Type:        "boolean",
				Default:     false,
			},
			KeyRequires: nullable(
				"Dependency specifiers for how to install the plugin",
				&js.Schema{
					Type:        "array",
					Items:       &js.Schema{Type: "string", MinLength: js.Int(1)},
					UniqueItems: true,
				},
			),
		},
		// requires must be present unless install-time is explicitly false.
		AnyOf: []*js.Schema{
			{Required: []string{KeyRequires}},
			{
				Properties: map[string]*js.Schema{
					KeyInstallTime: {Const: false},
				},
				Required: []string{KeyInstallTime},
			},
		},
	}
}

// nestedListsSchema describes a two-level mapping ending in unique string
// lists, the shape shared by static-properties and property priorities.
func nestedListsSchema(outerPattern, innerPattern, valuePattern string) *js.Schema {
	return &js.Schema{
		Type:                 "object",
		AdditionalProperties: false,
		PatternProperties: map[string]*js.Schema{
			outerPattern: {
				Type:                 "object",
				AdditionalProperties: false,
				PatternProperties: map[string]*js.Schema{
					innerPattern: {
						Type:        "array",
						Items:       &js.Schema{Type: "string", Pattern: valuePattern},
						UniqueItems: true,
					},
				},
			},
		},
	}
}

// nullable wraps a schema so explicit null is accepted alongside the value
// shape, matching how the parser treats null optionals as absent.
func nullable(description string, s *js.Schema) *js.Schema {
	return &js.Schema{
		Description: description,
		AnyOf:       []*js.Schema{s, {Type: "null"}},
	}
}
