package variantschema

import (
	"context"
	"fmt"
	"sort"
	"unicode/utf8"
)

// DefaultPriorities holds the default provider ordering preferences.
// Nil maps mean the field was absent; an empty map is a present, empty
// mapping. Values are read-only after construction.
type DefaultPriorities struct {
	// Namespace lists namespaces in priority order. At least one entry.
	Namespace []string
	// Feature maps a namespace to its feature priorities.
	Feature map[string][]string
	// Property maps a namespace to feature-keyed property priorities.
	Property map[string]map[string][]string
}

// Provider describes one variant provider plugin.
type Provider struct {
	// PluginAPI is an object reference to the plugin class, optionally
	// colon-qualified ("pkg.mod:Class"). Empty means absent.
	PluginAPI string
	// EnableIf is an environment marker expression. Empty means absent; the
	// expression is not interpreted here.
	EnableIf string
	// InstallTime reports whether the plugin runs at install time
	// (defaults to true when absent from the input).
	InstallTime bool
	// Optional reports whether the provider is optional (defaults to false).
	Optional bool
	// Requires lists dependency specifiers for installing the plugin.
	// Nil means absent; a non-nil empty slice is a present, empty list.
	Requires []string
}

// VariantsSchema is the validated wheel-variants document.
type VariantsSchema struct {
	DefaultPriorities DefaultPriorities
	// Providers maps provider keys to provider information.
	Providers map[string]Provider
	// StaticProperties maps namespace -> feature -> values for ahead-of-time
	// providers. Nil when absent.
	StaticProperties map[string]map[string][]string
	// Variants maps variant label -> namespace -> feature -> values.
	Variants map[string]map[string]map[string][]string
}

// ruleRequiresWithInstallTime names the one cross-field rule.
const ruleRequiresWithInstallTime = "requires-with-install-time"

// Validate re-checks an already-typed value against the full rule set,
// mirroring what Parse enforces during construction. Hand-built values pass
// through the same patterns, uniqueness, and cross-field checks.
func (dp DefaultPriorities) Validate(ctx context.Context) error {
	if iss := dp.validate(Root(), false); len(iss) > 0 {
		return iss
	}
	return nil
}

func (dp DefaultPriorities) validate(p PathRef, failFast bool) Issues {
	var iss Issues
	np := p.Field(KeyNamespace)
	if len(dp.Namespace) < 1 {
		iss = AppendIssues(iss, np.Issue(CodeTooShort, "namespace must have at least 1 item", "minItems", 1))
		if failFast {
			return iss
		}
	}
	iss = AppendIssues(iss, checkStringList(np, "namespace", dp.Namespace, PatternNamespace, namespaceRe, failFast)...)
	if failFast && len(iss) > 0 {
		return iss
	}

	for _, ns := range sortedKeys(dp.Feature) {
		fp := p.Field(KeyFeature).Field(ns)
		if i2 := checkPattern(fp, "feature namespace", ns, PatternNamespace, namespaceRe); len(i2) > 0 {
			iss = AppendIssues(iss, i2...)
			if failFast {
				return iss
			}
		}
		iss = AppendIssues(iss, checkStringList(fp, "feature", dp.Feature[ns], PatternNamespace, namespaceRe, failFast)...)
		if failFast && len(iss) > 0 {
			return iss
		}
	}

	for _, ns := range sortedKeys(dp.Property) {
		npp := p.Field(KeyProperty).Field(ns)
		if i2 := checkPattern(npp, "property namespace", ns, PatternNamespace, namespaceRe); len(i2) > 0 {
			iss = AppendIssues(iss, i2...)
			if failFast {
				return iss
			}
		}
		for _, feat := range sortedKeys(dp.Property[ns]) {
			fp := npp.Field(feat)
			if i2 := checkPattern(fp, "property feature", feat, PatternNamespace, namespaceRe); len(i2) > 0 {
				iss = AppendIssues(iss, i2...)
				if failFast {
					return iss
				}
			}
			iss = AppendIssues(iss, checkStringList(fp, "property value", dp.Property[ns][feat], PatternValue, valueRe, failFast)...)
			if failFast && len(iss) > 0 {
				return iss
			}
		}
	}
	return iss
}

// Validate re-checks a provider, including the cross-field rule: requires
// must be present whenever install-time is not false.
func (pr Provider) Validate(ctx context.Context) error {
	if iss := pr.validate(Root(), false); len(iss) > 0 {
		return iss
	}
	return nil
}

func (pr Provider) validate(p PathRef, failFast bool) Issues {
	var iss Issues
	if pr.PluginAPI != "" {
		if i2 := checkPattern(p.Field(KeyPluginAPI), "plugin-api", pr.PluginAPI, PatternPluginAPI, pluginAPIRe); len(i2) > 0 {
			iss = AppendIssues(iss, i2...)
			if failFast {
				return iss
			}
		}
	}
	if pr.Requires != nil {
		iss = AppendIssues(iss, checkNonEmptyList(p.Field(KeyRequires), "requires", pr.Requires, failFast)...)
		if failFast && len(iss) > 0 {
			return iss
		}
	}
	// Cross-field rule, checked after the individual fields.
	if pr.InstallTime && pr.Requires == nil {
		it := p.Issue(CodeBusinessRule, "'requires' is required when 'install-time' is not false")
		it.Rule = ruleRequiresWithInstallTime
		iss = AppendIssues(iss, it)
	}
	return iss
}

// Validate re-checks a complete document.
func (vs VariantsSchema) Validate(ctx context.Context) error {
	if iss := vs.validate(Root(), false); len(iss) > 0 {
		return iss
	}
	return nil
}

func (vs VariantsSchema) validate(p PathRef, failFast bool) Issues {
	iss := vs.DefaultPriorities.validate(p.Field(KeyDefaultPriorities), failFast)
	if failFast && len(iss) > 0 {
		return iss
	}

	if vs.Providers == nil {
		iss = AppendIssues(iss, p.Field(KeyProviders).Issue(CodeRequired, "required property missing"))
		if failFast {
			return iss
		}
	}
	for _, key := range sortedKeys(vs.Providers) {
		pp := p.Field(KeyProviders).Field(key)
		if i2 := checkPattern(pp, "provider key", key, PatternProviderKey, providerKeyRe); len(i2) > 0 {
			iss = AppendIssues(iss, i2...)
			if failFast {
				return iss
			}
		}
		iss = AppendIssues(iss, vs.Providers[key].validate(pp, failFast)...)
		if failFast && len(iss) > 0 {
			return iss
		}
	}

	iss = AppendIssues(iss, validateStaticProperties(p.Field(KeyStaticProperties), vs.StaticProperties, failFast)...)
	if failFast && len(iss) > 0 {
		return iss
	}

	if vs.Variants == nil {
		iss = AppendIssues(iss, p.Field(KeyVariants).Issue(CodeRequired, "required property missing"))
		if failFast {
			return iss
		}
	}
	iss = AppendIssues(iss, validateVariants(p.Field(KeyVariants), vs.Variants, failFast)...)
	return iss
}

func validateStaticProperties(p PathRef, sp map[string]map[string][]string, failFast bool) Issues {
	var iss Issues
	for _, ns := range sortedKeys(sp) {
		np := p.Field(ns)
		if i2 := checkPattern(np, "static property namespace", ns, PatternNamespace, namespaceRe); len(i2) > 0 {
			iss = AppendIssues(iss, i2...)
			if failFast {
				return iss
			}
		}
		for _, feat := range sortedKeys(sp[ns]) {
			fp := np.Field(feat)
			if i2 := checkPattern(fp, "static property feature", feat, PatternNamespace, namespaceRe); len(i2) > 0 {
				iss = AppendIssues(iss, i2...)
				if failFast {
					return iss
				}
			}
			iss = AppendIssues(iss, checkStringList(fp, "static property value", sp[ns][feat], PatternValue, valueRe, failFast)...)
			if failFast && len(iss) > 0 {
				return iss
			}
		}
	}
	return iss
}

func validateVariants(p PathRef, variants map[string]map[string]map[string][]string, failFast bool) Issues {
	var iss Issues
	for _, label := range sortedKeys(variants) {
		lp := p.Field(label)
		if i2 := checkVariantLabel(lp, label); len(i2) > 0 {
			iss = AppendIssues(iss, i2...)
			if failFast {
				return iss
			}
		}
		for _, ns := range sortedKeys(variants[label]) {
			np := lp.Field(ns)
			if i2 := checkPattern(np, "variant namespace", ns, PatternValue, valueRe); len(i2) > 0 {
				iss = AppendIssues(iss, i2...)
				if failFast {
					return iss
				}
			}
			for _, feat := range sortedKeys(variants[label][ns]) {
				fp := np.Field(feat)
				if i2 := checkPattern(fp, "variant feature", feat, PatternValue, valueRe); len(i2) > 0 {
					iss = AppendIssues(iss, i2...)
					if failFast {
						return iss
					}
				}
				vals := variants[label][ns][feat]
				if len(vals) < 1 {
					iss = AppendIssues(iss, fp.Issue(CodeTooShort,
						fmt.Sprintf("variant '%s.%s.%s' must have at least 1 value", label, ns, feat),
						"minItems", 1))
					if failFast {
						return iss
					}
				}
				iss = AppendIssues(iss, checkStringList(fp, "variant value", vals, PatternValue, valueRe, failFast)...)
				if failFast && len(iss) > 0 {
					return iss
				}
			}
		}
	}
	return iss
}

// checkVariantLabel distinguishes length violations from character-set
// violations so callers see the applicable rule. Length counts runes, so a
// multibyte label under the limit fails the pattern rule, not the length one.
func checkVariantLabel(p PathRef, label string) Issues {
	n := utf8.RuneCountInString(label)
	switch {
	case n == 0:
		return Issues{p.Issue(CodeTooShort, "variant label must have at least 1 character", "minLength", 1)}
	case n > 16:
		return Issues{p.Issue(CodeTooLong,
			fmt.Sprintf("variant label '%s' must have at most 16 characters", label),
			"maxLength", 16, "got", n)}
	case !variantLabelRe.MatchString(label):
		return Issues{p.Issue(CodePattern,
			fmt.Sprintf("variant label '%s' must match %s", label, PatternVariantLabel),
			"pattern", PatternVariantLabel, "got", label)}
	}
	return nil
}

// sortedKeys returns map keys in ascending order for deterministic issue
// ordering across runs.
func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
