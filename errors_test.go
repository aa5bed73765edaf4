package variantschema_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	variantschema "github.com/wheelnext/variantschema"
)

func TestIssues_ErrorSummary(t *testing.T) {
	iss := variantschema.Issues{
		{Path: "/a", Code: variantschema.CodePattern},
		{Path: "/b", Code: variantschema.CodeUnknownKey},
		{Path: "/c", Code: variantschema.CodeTooShort},
		{Path: "/d", Code: variantschema.CodeTooLong},
	}
	s := iss.Error()
	if !strings.Contains(s, "pattern at /a") {
		t.Fatalf("summary must lead with the first issue: %q", s)
	}
	if !strings.Contains(s, "(total 4)") {
		t.Fatalf("summary must report the total: %q", s)
	}
}

func TestAsIssues(t *testing.T) {
	iss := variantschema.Issues{{Path: "/", Code: variantschema.CodeParseError}}
	wrapped := fmt.Errorf("context: %w", iss)
	got, ok := variantschema.AsIssues(wrapped)
	if !ok || len(got) != 1 {
		t.Fatalf("AsIssues must unwrap: %v %v", got, ok)
	}
	if _, ok := variantschema.AsIssues(errors.New("plain")); ok {
		t.Fatalf("plain errors are not Issues")
	}
	if _, ok := variantschema.AsIssues(nil); ok {
		t.Fatalf("nil is not Issues")
	}
}

func TestPathRef(t *testing.T) {
	p := variantschema.Root().Field("providers").Field("cuda_provider").Field("plugin-api")
	if p.Pointer() != "/providers/cuda_provider/plugin-api" {
		t.Fatalf("pointer mismatch: %q", p.Pointer())
	}
	if variantschema.Root().Pointer() != "/" {
		t.Fatalf("root pointer mismatch")
	}
	if got := variantschema.Root().Field("a/b").Field("c~d").Pointer(); got != "/a~1b/c~0d" {
		t.Fatalf("RFC6901 escaping mismatch: %q", got)
	}
	if got := variantschema.Root().Field("xs").Index(3).Pointer(); got != "/xs/3" {
		t.Fatalf("index pointer mismatch: %q", got)
	}
	if got := variantschema.At("/providers/x").Pointer(); got != "/providers/x" {
		t.Fatalf("At round-trip mismatch: %q", got)
	}
	if got := variantschema.Root().Field("variants").Field("").Pointer(); got != "/variants/" {
		t.Fatalf("empty key must stay a reference token: %q", got)
	}
	if got := variantschema.At("/variants/").Pointer(); got != "/variants/" {
		t.Fatalf("At must keep empty reference tokens: %q", got)
	}

	it := p.Issue(variantschema.CodePattern, "msg", "pattern", "^x$", "got", "y")
	if it.Path != p.Pointer() || it.Params["pattern"] != "^x$" || it.Params["got"] != "y" {
		t.Fatalf("issue construction mismatch: %+v", it)
	}
}
