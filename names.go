package variantschema

// Canonical (hyphenated) key names used in serialized documents. Input
// documents may use either the canonical spelling or the underscored alias;
// output always uses the canonical one.
const (
	KeyDefaultPriorities = "default-priorities"
	KeyProviders         = "providers"
	KeyStaticProperties  = "static-properties"
	KeyVariants          = "variants"

	KeyNamespace = "namespace"
	KeyFeature   = "feature"
	KeyProperty  = "property"

	KeyPluginAPI   = "plugin-api"
	KeyEnableIf    = "enable-if"
	KeyInstallTime = "install-time"
	KeyOptional    = "optional"
	KeyRequires    = "requires"
)

// aliasNames maps canonical key names to their underscored input aliases.
// Keys without an entry have no alias.
var aliasNames = map[string]string{
	KeyDefaultPriorities: "default_priorities",
	KeyStaticProperties:  "static_properties",
	KeyPluginAPI:         "plugin_api",
	KeyEnableIf:          "enable_if",
	KeyInstallTime:       "install_time",
}

// fetchAliased retrieves the value stored under the canonical key or its
// underscored alias. Supplying both spellings at once is rejected.
func fetchAliased(m map[string]any, p PathRef, canonical string) (any, bool, Issues) {
	v, ok := m[canonical]
	alias, hasAlias := aliasNames[canonical]
	if !hasAlias {
		return v, ok, nil
	}
	av, aok := m[alias]
	if ok && aok {
		iss := Issues{p.Field(canonical).Issue(CodeDuplicateKey,
			"'"+canonical+"' and '"+alias+"' are aliases and cannot both be set",
			"canonical", canonical, "alias", alias)}
		return nil, false, iss
	}
	if aok {
		return av, true, nil
	}
	return v, ok, nil
}

// knownKeySet expands canonical field names with their aliases for
// unknown-key detection at one object level.
func knownKeySet(canonical ...string) map[string]struct{} {
	out := make(map[string]struct{}, len(canonical)*2)
	for _, k := range canonical {
		out[k] = struct{}{}
		if a, ok := aliasNames[k]; ok {
			out[a] = struct{}{}
		}
	}
	return out
}
