package variantschema_test

import (
	"context"
	"reflect"
	"testing"

	variantschema "github.com/wheelnext/variantschema"
)

const yamlDoc = `
default-priorities:
  namespace: [cuda, cpu]
providers:
  cuda_provider:
    plugin-api: pkg.mod:CudaPlugin
    install-time: true
    requires:
      - nvidia-cuda>=12.0
variants:
  cuda12:
    cuda:
      version: ["12.0", "12.1"]
`

func TestParseYAMLBytes(t *testing.T) {
	ctx := context.Background()
	got, err := variantschema.ParseYAMLBytes(ctx, []byte(yamlDoc))
	if err != nil {
		t.Fatalf("yaml document must validate, got: %v", err)
	}
	want, err := variantschema.Parse(ctx, baseDoc())
	if err != nil {
		t.Fatalf("base doc: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("yaml and json input must agree\n got=%+v\nwant=%+v", got, want)
	}

	if _, err := variantschema.ParseYAMLBytes(ctx, []byte(":\n  - not valid yaml: [")); err == nil {
		t.Fatalf("malformed yaml must fail")
	}
}

func TestParseYAMLBytesWithMeta(t *testing.T) {
	ctx := context.Background()
	dm, err := variantschema.ParseYAMLBytesWithMeta(ctx, []byte(yamlDoc))
	if err != nil {
		t.Fatalf("yaml document must validate, got: %v", err)
	}
	p := dm.Presence["/providers/cuda_provider/optional"]
	if p&variantschema.PresenceDefaultApplied == 0 {
		t.Fatalf("absent optional must be DefaultApplied: %v", dm.Presence)
	}
}
