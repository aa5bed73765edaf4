package variantschema

import (
	json "github.com/goccy/go-json"
)

// CanonicalMap serializes the document back to its canonical mapping form:
// hyphenated keys, install-time and optional always explicit, absent
// optional fields omitted (never emitted as empty collections). Re-parsing
// the result reproduces an equal value.
func (vs VariantsSchema) CanonicalMap() map[string]any {
	out := map[string]any{
		KeyDefaultPriorities: vs.DefaultPriorities.canonicalMap(),
		KeyVariants:          nestedToAny(vs.Variants),
	}
	providers := make(map[string]any, len(vs.Providers))
	for k, pr := range vs.Providers {
		providers[k] = pr.canonicalMap()
	}
	out[KeyProviders] = providers
	if vs.StaticProperties != nil {
		sp := make(map[string]any, len(vs.StaticProperties))
		for ns, features := range vs.StaticProperties {
			sp[ns] = listsToAny(features)
		}
		out[KeyStaticProperties] = sp
	}
	return out
}

func (dp DefaultPriorities) canonicalMap() map[string]any {
	out := map[string]any{
		KeyNamespace: stringsToAny(dp.Namespace),
	}
	if dp.Feature != nil {
		out[KeyFeature] = listsToAny(dp.Feature)
	}
	if dp.Property != nil {
		prop := make(map[string]any, len(dp.Property))
		for ns, features := range dp.Property {
			prop[ns] = listsToAny(features)
		}
		out[KeyProperty] = prop
	}
	return out
}

func (pr Provider) canonicalMap() map[string]any {
	out := map[string]any{
		KeyInstallTime: pr.InstallTime,
		KeyOptional:    pr.Optional,
	}
	if pr.PluginAPI != "" {
		out[KeyPluginAPI] = pr.PluginAPI
	}
	if pr.EnableIf != "" {
		out[KeyEnableIf] = pr.EnableIf
	}
	if pr.Requires != nil {
		out[KeyRequires] = stringsToAny(pr.Requires)
	}
	return out
}

// MarshalJSON emits the canonical mapping form. Map keys are sorted by the
// encoder, so output is deterministic for a given value.
func (vs VariantsSchema) MarshalJSON() ([]byte, error) {
	return json.Marshal(vs.CanonicalMap())
}

// EncodePreserving returns the canonical map with default-only fields
// removed, so fields the input never mentioned stay missing in the output.
// Fields explicitly present (including explicit defaults) are kept.
func EncodePreserving(db Decoded[VariantsSchema]) map[string]any {
	out := db.Value.CanonicalMap()
	providers, _ := out[KeyProviders].(map[string]any)
	for key, v := range providers {
		pm, _ := v.(map[string]any)
		if pm == nil {
			continue
		}
		for _, field := range []string{KeyInstallTime, KeyOptional} {
			ptr := "/" + KeyProviders + "/" + key + "/" + field
			p := db.Presence[ptr]
			defaultOnly := p&PresenceDefaultApplied != 0 && p&PresenceSeen == 0 && p&PresenceWasNull == 0
			if defaultOnly {
				delete(pm, field)
			}
		}
	}
	return out
}

func stringsToAny(vals []string) []any {
	out := make([]any, len(vals))
	for i, s := range vals {
		out[i] = s
	}
	return out
}

func listsToAny(m map[string][]string) map[string]any {
	out := make(map[string]any, len(m))
	for k, lst := range m {
		out[k] = stringsToAny(lst)
	}
	return out
}

func nestedToAny(m map[string]map[string]map[string][]string) map[string]any {
	out := make(map[string]any, len(m))
	for label, namespaces := range m {
		ns := make(map[string]any, len(namespaces))
		for k, features := range namespaces {
			ns[k] = listsToAny(features)
		}
		out[label] = ns
	}
	return out
}
