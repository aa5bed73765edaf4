package variantschema

import (
	"fmt"
	"regexp"
)

// Pattern literals shared by the field validators and the schema emitter.
const (
	PatternNamespace    = `^[a-z0-9_]+$`
	PatternValue        = `^[a-z0-9_.]+$`
	PatternProviderKey  = `^[A-Za-z0-9_]+$`
	PatternPluginAPI    = `^([a-zA-Z0-9._]+ *: *[a-zA-Z0-9._]+)|([a-zA-Z0-9._]+)$`
	PatternVariantLabel = `^[a-z0-9_.]{1,16}$`
)

var (
	namespaceRe   = regexp.MustCompile(PatternNamespace)
	valueRe       = regexp.MustCompile(PatternValue)
	providerKeyRe = regexp.MustCompile(PatternProviderKey)
	// PatternPluginAPI alternates between an anchored-prefix colon form and a
	// whole-string bare form. Go regexp search is unanchored, so the compiled
	// form anchors both alternatives to preserve those semantics.
	pluginAPIRe    = regexp.MustCompile(`^(?:[a-zA-Z0-9._]+ *: *[a-zA-Z0-9._]+|[a-zA-Z0-9._]+$)`)
	variantLabelRe = regexp.MustCompile(PatternVariantLabel)
)

// ---- coercion helpers (any -> typed), invalid_type on mismatch ----

func asObject(p PathRef, v any) (map[string]any, Issues) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, Issues{p.Issue(CodeInvalidType, "expected object", "got", typeName(v))}
	}
	return m, nil
}

func asString(p PathRef, v any) (string, Issues) {
	s, ok := v.(string)
	if !ok {
		return "", Issues{p.Issue(CodeInvalidType, "expected string", "got", typeName(v))}
	}
	return s, nil
}

func asBool(p PathRef, v any) (bool, Issues) {
	b, ok := v.(bool)
	if !ok {
		return false, Issues{p.Issue(CodeInvalidType, "expected boolean", "got", typeName(v))}
	}
	return b, nil
}

func asStringList(p PathRef, v any) ([]string, Issues) {
	arr, ok := v.([]any)
	if !ok {
		return nil, Issues{p.Issue(CodeInvalidType, "expected array of strings", "got", typeName(v))}
	}
	out := make([]string, 0, len(arr))
	var iss Issues
	for i, e := range arr {
		s, ok := e.(string)
		if !ok {
			iss = AppendIssues(iss, p.Index(i).Issue(CodeInvalidType, "expected string", "got", typeName(e)))
			continue
		}
		out = append(out, s)
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return out, nil
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case float64:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// ---- pattern and uniqueness validators ----

// checkPattern validates one string against a pattern. The value is returned
// unchanged; callers rely on no-partial-success semantics of the Issues.
func checkPattern(p PathRef, what, s, pattern string, re *regexp.Regexp) Issues {
	if re.MatchString(s) {
		return nil
	}
	return Issues{p.Issue(CodePattern,
		fmt.Sprintf("%s '%s' must match %s", what, s, pattern),
		"pattern", pattern, "got", s)}
}

// checkStringList validates every element against a pattern and enforces
// pairwise uniqueness. One invalid element fails the whole field.
func checkStringList(p PathRef, what string, vals []string, pattern string, re *regexp.Regexp, failFast bool) Issues {
	var iss Issues
	for i, s := range vals {
		if i2 := checkPattern(p.Index(i), what, s, pattern, re); len(i2) > 0 {
			iss = AppendIssues(iss, i2...)
			if failFast {
				return iss
			}
		}
	}
	if dup, at, found := firstDuplicate(vals); found {
		iss = AppendIssues(iss, p.Index(at).Issue(CodeUniqueness,
			fmt.Sprintf("%s items must be unique, '%s' repeats", what, dup),
			"duplicate", dup))
	}
	return iss
}

// checkNonEmptyList validates that every element is a non-empty string and
// enforces pairwise uniqueness (the requires field shape).
func checkNonEmptyList(p PathRef, what string, vals []string, failFast bool) Issues {
	var iss Issues
	for i, s := range vals {
		if len(s) < 1 {
			iss = AppendIssues(iss, p.Index(i).Issue(CodeTooShort,
				fmt.Sprintf("each %s item must have minimum length 1", what),
				"minLength", 1))
			if failFast {
				return iss
			}
		}
	}
	if dup, at, found := firstDuplicate(vals); found {
		iss = AppendIssues(iss, p.Index(at).Issue(CodeUniqueness,
			fmt.Sprintf("%s items must be unique, '%s' repeats", what, dup),
			"duplicate", dup))
	}
	return iss
}

// firstDuplicate reports the first repeated element and the index of its
// second occurrence.
func firstDuplicate(vals []string) (string, int, bool) {
	seen := make(map[string]struct{}, len(vals))
	for i, s := range vals {
		if _, ok := seen[s]; ok {
			return s, i, true
		}
		seen[s] = struct{}{}
	}
	return "", 0, false
}
