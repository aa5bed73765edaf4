package variantschema_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	variantschema "github.com/wheelnext/variantschema"
)

// decodeSchema unmarshals emitted schema text for structural assertions.
func decodeSchema(t *testing.T, text string) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		t.Fatalf("emitted schema is not valid JSON: %v\n%s", err, text)
	}
	return out
}

func TestEmitJSONSchema_Deterministic(t *testing.T) {
	opt := variantschema.EmitOptions{Indent: 2, Metadata: true}
	a, err := variantschema.EmitJSONSchema(opt)
	if err != nil {
		t.Fatalf("emit: %v", err)
	}
	b, err := variantschema.EmitJSONSchema(opt)
	if err != nil {
		t.Fatalf("emit: %v", err)
	}
	if a != b {
		t.Fatalf("emission must be byte-identical across calls")
	}
}

func TestEmitJSONSchema_MetadataConstants(t *testing.T) {
	withMeta, err := variantschema.EmitJSONSchema(variantschema.EmitOptions{Indent: 2, Metadata: true})
	if err != nil {
		t.Fatalf("emit: %v", err)
	}
	doc := decodeSchema(t, withMeta)
	if doc["$schema"] != "https://json-schema.org/draft/2020-12/schema" {
		t.Fatalf("$schema mismatch: %v", doc["$schema"])
	}
	if doc["$id"] != "https://wheelnext.dev/variants.json" {
		t.Fatalf("$id mismatch: %v", doc["$id"])
	}
	if doc["title"] != "{name}-{version}-variants.json" {
		t.Fatalf("title mismatch: %v", doc["title"])
	}

	without, err := variantschema.EmitJSONSchema(variantschema.EmitOptions{Indent: 2})
	if err != nil {
		t.Fatalf("emit: %v", err)
	}
	for _, verbatim := range []string{
		"https://json-schema.org/draft/2020-12/schema",
		"https://wheelnext.dev/variants.json",
		"{name}-{version}-variants.json",
	} {
		if !strings.Contains(withMeta, verbatim) {
			t.Fatalf("metadata constant %q missing from metadata emission", verbatim)
		}
		if strings.Contains(without, verbatim) {
			t.Fatalf("metadata constant %q must not appear without the flag", verbatim)
		}
	}
}

func TestEmitJSONSchema_Indent(t *testing.T) {
	compact, err := variantschema.EmitJSONSchema(variantschema.EmitOptions{Indent: 0})
	if err != nil {
		t.Fatalf("emit: %v", err)
	}
	if strings.Contains(compact, "\n") {
		t.Fatalf("indent 0 must emit compact output")
	}

	indented, err := variantschema.EmitJSONSchema(variantschema.EmitOptions{Indent: 4})
	if err != nil {
		t.Fatalf("emit: %v", err)
	}
	if !strings.Contains(indented, "\n    \"") {
		t.Fatalf("indent 4 must use four-space levels")
	}

	// Indentation never changes the content: stripping it must reproduce
	// the compact emission exactly.
	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(indented)); err != nil {
		t.Fatalf("compacting indented output: %v", err)
	}
	if buf.String() != compact {
		t.Fatalf("indented output must compact back to the compact form\n got=%s\nwant=%s", buf.String(), compact)
	}

	again, err := variantschema.EmitJSONSchema(variantschema.EmitOptions{Indent: 4})
	if err != nil {
		t.Fatalf("emit: %v", err)
	}
	if again != indented {
		t.Fatalf("indented emission must be byte-identical across calls (lengths %d and %d)", len(indented), len(again))
	}
}

func TestJSONSchema_Structure(t *testing.T) {
	text, err := variantschema.EmitJSONSchema(variantschema.EmitOptions{Indent: 2})
	if err != nil {
		t.Fatalf("emit: %v", err)
	}
	doc := decodeSchema(t, text)

	if doc["type"] != "object" || doc["additionalProperties"] != false {
		t.Fatalf("root must be a closed object: %v", doc)
	}

	required, _ := doc["required"].([]any)
	want := map[string]bool{"default-priorities": true, "providers": true, "variants": true}
	if len(required) != len(want) {
		t.Fatalf("required mismatch: %v", required)
	}
	for _, r := range required {
		if !want[r.(string)] {
			t.Fatalf("unexpected required entry: %v", r)
		}
	}

	defs, _ := doc["$defs"].(map[string]any)
	provider, _ := defs["Provider"].(map[string]any)
	if provider == nil {
		t.Fatalf("$defs must define Provider: %v", defs)
	}
	// The cross-field rule appears as an anyOf on Provider.
	anyOf, _ := provider["anyOf"].([]any)
	if len(anyOf) != 2 {
		t.Fatalf("Provider must carry the requires/install-time anyOf: %v", provider)
	}

	props, _ := doc["properties"].(map[string]any)
	providers, _ := props["providers"].(map[string]any)
	pp, _ := providers["patternProperties"].(map[string]any)
	if _, ok := pp["^[A-Za-z0-9_]+$"]; !ok {
		t.Fatalf("provider key pattern missing: %v", pp)
	}

	variants, _ := props["variants"].(map[string]any)
	vp, _ := variants["patternProperties"].(map[string]any)
	if _, ok := vp["^[a-z0-9_.]{1,16}$"]; !ok {
		t.Fatalf("variant label pattern missing: %v", vp)
	}

	dp, _ := defs["DefaultPriorities"].(map[string]any)
	ns, _ := dp["properties"].(map[string]any)["namespace"].(map[string]any)
	if ns["minItems"] != float64(1) || ns["uniqueItems"] != true {
		t.Fatalf("namespace array constraints missing: %v", ns)
	}
	items, _ := ns["items"].(map[string]any)
	if items["pattern"] != "^[a-z0-9_]+$" {
		t.Fatalf("namespace item pattern missing: %v", items)
	}
}
