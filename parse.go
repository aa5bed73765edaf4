package variantschema

import (
	"context"
	"io"

	json "github.com/goccy/go-json"
)

// Parse validates a raw document (nested maps, as produced by a JSON or YAML
// decoder) and returns the typed VariantsSchema. On failure no value is
// returned; a document is either fully valid or rejected.
func Parse(ctx context.Context, v any, opts ...ParseOpt) (VariantsSchema, error) {
	vs, _, iss := parseDocument(v, false, lastOpt(opts))
	if len(iss) > 0 {
		return VariantsSchema{}, iss
	}
	return vs, nil
}

// ParseWithMeta validates a raw document and returns the typed value together
// with presence metadata. Presence tells callers whether install-time and the
// optional fields were seen in the input, were null, or got their defaults.
func ParseWithMeta(ctx context.Context, v any, opts ...ParseOpt) (Decoded[VariantsSchema], error) {
	vs, pm, iss := parseDocument(v, true, lastOpt(opts))
	if len(iss) > 0 {
		return Decoded[VariantsSchema]{Presence: pm}, iss
	}
	return Decoded[VariantsSchema]{Value: vs, Presence: pm}, nil
}

// ParseBytes decodes JSON and validates the resulting document.
func ParseBytes(ctx context.Context, data []byte, opts ...ParseOpt) (VariantsSchema, error) {
	v, iss := decodeJSON(data)
	if iss != nil {
		return VariantsSchema{}, iss
	}
	return Parse(ctx, v, opts...)
}

// ParseBytesWithMeta decodes JSON and validates, collecting presence metadata.
func ParseBytesWithMeta(ctx context.Context, data []byte, opts ...ParseOpt) (Decoded[VariantsSchema], error) {
	v, iss := decodeJSON(data)
	if iss != nil {
		return Decoded[VariantsSchema]{}, iss
	}
	return ParseWithMeta(ctx, v, opts...)
}

// ParseReader reads a full JSON document from r and validates it.
func ParseReader(ctx context.Context, r io.Reader, opts ...ParseOpt) (VariantsSchema, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return VariantsSchema{}, Issues{Issue{Path: "/", Code: CodeParseError, Message: err.Error(), Cause: err}}
	}
	return ParseBytes(ctx, data, opts...)
}

func lastOpt(opts []ParseOpt) ParseOpt {
	if len(opts) > 0 {
		return opts[len(opts)-1]
	}
	return ParseOpt{}
}

func decodeJSON(data []byte) (any, Issues) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, Issues{Issue{Path: "/", Code: CodeParseError, Message: err.Error(), Cause: err}}
	}
	return v, nil
}

// parseDocument assembles and validates the document. Rule order per entity:
// leaf field patterns, then container shape, then the cross-field rule, with
// top-level required-field presence reported last. Issues are collected
// across the whole document unless opt.FailFast is set.
func parseDocument(v any, withMeta bool, opt ParseOpt) (VariantsSchema, PresenceMap, Issues) {
	var pm PresenceMap
	if withMeta {
		pm = PresenceMap{}
	}

	root := Root()
	m, iss := asObject(root, v)
	if len(iss) > 0 {
		return VariantsSchema{}, pm, iss
	}

	iss = AppendIssues(iss, checkUnknown(root, m,
		knownKeySet(KeyDefaultPriorities, KeyProviders, KeyStaticProperties, KeyVariants), opt)...)
	if opt.FailFast && len(iss) > 0 {
		return VariantsSchema{}, pm, iss
	}

	var vs VariantsSchema
	var haveDP, haveProviders bool
	var missing []string

	// default-priorities
	dpPath := root.Field(KeyDefaultPriorities)
	if raw, ok, i2 := fetchAliased(m, root, KeyDefaultPriorities); len(i2) > 0 {
		iss = AppendIssues(iss, i2...)
	} else if !ok || raw == nil {
		if ok {
			markSeen(pm, dpPath, true)
			iss = AppendIssues(iss, dpPath.Issue(CodeInvalidType, "expected object", "got", "null"))
		} else {
			missing = append(missing, KeyDefaultPriorities)
		}
	} else {
		markSeen(pm, dpPath, false)
		dp, i2 := assembleDefaultPriorities(dpPath, raw, pm, opt)
		iss = AppendIssues(iss, i2...)
		if len(i2) == 0 {
			vs.DefaultPriorities = dp
			haveDP = true
		}
	}
	if opt.FailFast && len(iss) > 0 {
		return VariantsSchema{}, pm, iss
	}

	// providers
	provPath := root.Field(KeyProviders)
	if raw, ok := m[KeyProviders]; !ok || raw == nil {
		if ok {
			markSeen(pm, provPath, true)
			iss = AppendIssues(iss, provPath.Issue(CodeInvalidType, "expected object", "got", "null"))
		} else {
			missing = append(missing, KeyProviders)
		}
	} else {
		markSeen(pm, provPath, false)
		providers, i2 := assembleProviders(provPath, raw, pm, opt)
		iss = AppendIssues(iss, i2...)
		if len(i2) == 0 {
			vs.Providers = providers
			haveProviders = true
		}
	}
	if opt.FailFast && len(iss) > 0 {
		return VariantsSchema{}, pm, iss
	}

	// static-properties (optional)
	spPath := root.Field(KeyStaticProperties)
	if raw, ok, i2 := fetchAliased(m, root, KeyStaticProperties); len(i2) > 0 {
		iss = AppendIssues(iss, i2...)
	} else if ok {
		markSeen(pm, spPath, raw == nil)
		if raw != nil {
			sp, i3 := asNestedStringLists(spPath, raw, opt)
			iss = AppendIssues(iss, i3...)
			if len(i3) == 0 {
				vs.StaticProperties = sp
			}
		}
	}
	if opt.FailFast && len(iss) > 0 {
		return VariantsSchema{}, pm, iss
	}

	// variants
	varPath := root.Field(KeyVariants)
	var haveVariants bool
	if raw, ok := m[KeyVariants]; !ok || raw == nil {
		if ok {
			markSeen(pm, varPath, true)
			iss = AppendIssues(iss, varPath.Issue(CodeInvalidType, "expected object", "got", "null"))
		} else {
			missing = append(missing, KeyVariants)
		}
	} else {
		markSeen(pm, varPath, false)
		variants, i2 := assembleVariants(varPath, raw, opt)
		iss = AppendIssues(iss, i2...)
		if len(i2) == 0 {
			vs.Variants = variants
			haveVariants = true
		}
	}
	if opt.FailFast && len(iss) > 0 {
		return VariantsSchema{}, pm, iss
	}

	// Rule passes over the assembled pieces.
	if haveDP {
		iss = AppendIssues(iss, vs.DefaultPriorities.validate(dpPath, opt.FailFast)...)
		if opt.FailFast && len(iss) > 0 {
			return VariantsSchema{}, pm, iss
		}
	}
	if haveProviders {
		for _, key := range sortedKeys(vs.Providers) {
			pp := provPath.Field(key)
			iss = AppendIssues(iss, checkPattern(pp, "provider key", key, PatternProviderKey, providerKeyRe)...)
			if opt.FailFast && len(iss) > 0 {
				return VariantsSchema{}, pm, iss
			}
			iss = AppendIssues(iss, vs.Providers[key].validate(pp, opt.FailFast)...)
			if opt.FailFast && len(iss) > 0 {
				return VariantsSchema{}, pm, iss
			}
		}
	}
	if vs.StaticProperties != nil {
		iss = AppendIssues(iss, validateStaticProperties(spPath, vs.StaticProperties, opt.FailFast)...)
		if opt.FailFast && len(iss) > 0 {
			return VariantsSchema{}, pm, iss
		}
	}
	if haveVariants {
		iss = AppendIssues(iss, validateVariants(varPath, vs.Variants, opt.FailFast)...)
		if opt.FailFast && len(iss) > 0 {
			return VariantsSchema{}, pm, iss
		}
	}

	// Required-field presence goes last.
	for _, k := range missing {
		iss = AppendIssues(iss, root.Field(k).Issue(CodeRequired, "required property missing"))
		if opt.FailFast {
			return VariantsSchema{}, pm, iss
		}
	}
	if len(iss) > 0 {
		return VariantsSchema{}, pm, iss
	}
	return vs, pm, nil
}

func assembleDefaultPriorities(p PathRef, raw any, pm PresenceMap, opt ParseOpt) (DefaultPriorities, Issues) {
	m, iss := asObject(p, raw)
	if len(iss) > 0 {
		return DefaultPriorities{}, iss
	}
	iss = AppendIssues(iss, checkUnknown(p, m, knownKeySet(KeyNamespace, KeyFeature, KeyProperty), opt)...)
	if opt.FailFast && len(iss) > 0 {
		return DefaultPriorities{}, iss
	}

	var dp DefaultPriorities
	nsPath := p.Field(KeyNamespace)
	if raw, ok := m[KeyNamespace]; !ok || raw == nil {
		if ok {
			markSeen(pm, nsPath, true)
			iss = AppendIssues(iss, nsPath.Issue(CodeInvalidType, "expected array of strings", "got", "null"))
		} else {
			iss = AppendIssues(iss, nsPath.Issue(CodeRequired, "required property missing"))
		}
	} else {
		markSeen(pm, nsPath, false)
		ns, i2 := asStringList(nsPath, raw)
		iss = AppendIssues(iss, i2...)
		dp.Namespace = ns
	}
	if opt.FailFast && len(iss) > 0 {
		return DefaultPriorities{}, iss
	}

	featPath := p.Field(KeyFeature)
	if raw, ok := m[KeyFeature]; ok {
		markSeen(pm, featPath, raw == nil)
		if raw != nil {
			fm, i2 := asObject(featPath, raw)
			iss = AppendIssues(iss, i2...)
			if len(i2) == 0 {
				out := make(map[string][]string, len(fm))
				for _, ns := range sortedKeys(fm) {
					lst, i3 := asStringList(featPath.Field(ns), fm[ns])
					if len(i3) > 0 {
						iss = AppendIssues(iss, i3...)
						if opt.FailFast {
							return DefaultPriorities{}, iss
						}
						continue
					}
					out[ns] = lst
				}
				dp.Feature = out
			}
		}
	}
	if opt.FailFast && len(iss) > 0 {
		return DefaultPriorities{}, iss
	}

	propPath := p.Field(KeyProperty)
	if raw, ok := m[KeyProperty]; ok {
		markSeen(pm, propPath, raw == nil)
		if raw != nil {
			prop, i2 := asNestedStringLists(propPath, raw, opt)
			iss = AppendIssues(iss, i2...)
			if len(i2) == 0 {
				dp.Property = prop
			}
		}
	}
	if len(iss) > 0 {
		return DefaultPriorities{}, iss
	}
	return dp, nil
}

func assembleProviders(p PathRef, raw any, pm PresenceMap, opt ParseOpt) (map[string]Provider, Issues) {
	m, iss := asObject(p, raw)
	if len(iss) > 0 {
		return nil, iss
	}
	out := make(map[string]Provider, len(m))
	for _, key := range sortedKeys(m) {
		pp := p.Field(key)
		pr, i2 := assembleProvider(pp, m[key], pm, opt)
		if len(i2) > 0 {
			iss = AppendIssues(iss, i2...)
			if opt.FailFast {
				return nil, iss
			}
			continue
		}
		out[key] = pr
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return out, nil
}

func assembleProvider(p PathRef, raw any, pm PresenceMap, opt ParseOpt) (Provider, Issues) {
	m, iss := asObject(p, raw)
	if len(iss) > 0 {
		return Provider{}, iss
	}
	iss = AppendIssues(iss, checkUnknown(p, m,
		knownKeySet(KeyPluginAPI, KeyEnableIf, KeyInstallTime, KeyOptional, KeyRequires), opt)...)
	if opt.FailFast && len(iss) > 0 {
		return Provider{}, iss
	}

	var pr Provider

	apiPath := p.Field(KeyPluginAPI)
	if raw, ok, i2 := fetchAliased(m, p, KeyPluginAPI); len(i2) > 0 {
		iss = AppendIssues(iss, i2...)
	} else if ok {
		markSeen(pm, apiPath, raw == nil)
		if raw != nil {
			s, i3 := asString(apiPath, raw)
			iss = AppendIssues(iss, i3...)
			if len(i3) == 0 && s == "" {
				// Non-empty strings are pattern-checked later; an explicit empty
				// string would otherwise be indistinguishable from absence.
				iss = AppendIssues(iss, apiPath.Issue(CodePattern,
					"plugin-api '' must match "+PatternPluginAPI, "pattern", PatternPluginAPI, "got", ""))
			}
			pr.PluginAPI = s
		}
	}
	if opt.FailFast && len(iss) > 0 {
		return Provider{}, iss
	}

	enablePath := p.Field(KeyEnableIf)
	if raw, ok, i2 := fetchAliased(m, p, KeyEnableIf); len(i2) > 0 {
		iss = AppendIssues(iss, i2...)
	} else if ok {
		markSeen(pm, enablePath, raw == nil)
		if raw != nil {
			s, i3 := asString(enablePath, raw)
			iss = AppendIssues(iss, i3...)
			if len(i3) == 0 && len(s) < 1 {
				iss = AppendIssues(iss, enablePath.Issue(CodeTooShort,
					"enable-if must have minimum length 1", "minLength", 1))
			}
			pr.EnableIf = s
		}
	}
	if opt.FailFast && len(iss) > 0 {
		return Provider{}, iss
	}

	itPath := p.Field(KeyInstallTime)
	if raw, ok, i2 := fetchAliased(m, p, KeyInstallTime); len(i2) > 0 {
		iss = AppendIssues(iss, i2...)
	} else if !ok {
		pr.InstallTime = true
		markDefault(pm, itPath)
	} else {
		markSeen(pm, itPath, raw == nil)
		b, i3 := asBool(itPath, raw)
		iss = AppendIssues(iss, i3...)
		pr.InstallTime = b
	}
	if opt.FailFast && len(iss) > 0 {
		return Provider{}, iss
	}

	optPath := p.Field(KeyOptional)
	if raw, ok := m[KeyOptional]; !ok {
		markDefault(pm, optPath)
	} else {
		markSeen(pm, optPath, raw == nil)
		b, i3 := asBool(optPath, raw)
		iss = AppendIssues(iss, i3...)
		pr.Optional = b
	}
	if opt.FailFast && len(iss) > 0 {
		return Provider{}, iss
	}

	reqPath := p.Field(KeyRequires)
	if raw, ok := m[KeyRequires]; ok {
		markSeen(pm, reqPath, raw == nil)
		if raw != nil {
			lst, i3 := asStringList(reqPath, raw)
			iss = AppendIssues(iss, i3...)
			if len(i3) == 0 {
				pr.Requires = lst
			}
		}
	}
	if len(iss) > 0 {
		return Provider{}, iss
	}
	return pr, nil
}

func assembleVariants(p PathRef, raw any, opt ParseOpt) (map[string]map[string]map[string][]string, Issues) {
	m, iss := asObject(p, raw)
	if len(iss) > 0 {
		return nil, iss
	}
	out := make(map[string]map[string]map[string][]string, len(m))
	for _, label := range sortedKeys(m) {
		nested, i2 := asNestedStringLists(p.Field(label), m[label], opt)
		if len(i2) > 0 {
			iss = AppendIssues(iss, i2...)
			if opt.FailFast {
				return nil, iss
			}
			continue
		}
		out[label] = nested
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return out, nil
}

// asNestedStringLists coerces a two-level mapping of string lists
// (namespace -> feature -> values), the shape shared by static-properties,
// default-priorities.property, and each variant entry.
func asNestedStringLists(p PathRef, raw any, opt ParseOpt) (map[string]map[string][]string, Issues) {
	m, iss := asObject(p, raw)
	if len(iss) > 0 {
		return nil, iss
	}
	out := make(map[string]map[string][]string, len(m))
	for _, ns := range sortedKeys(m) {
		np := p.Field(ns)
		fm, i2 := asObject(np, m[ns])
		if len(i2) > 0 {
			iss = AppendIssues(iss, i2...)
			if opt.FailFast {
				return nil, iss
			}
			continue
		}
		inner := make(map[string][]string, len(fm))
		for _, feat := range sortedKeys(fm) {
			lst, i3 := asStringList(np.Field(feat), fm[feat])
			if len(i3) > 0 {
				iss = AppendIssues(iss, i3...)
				if opt.FailFast {
					return nil, iss
				}
				continue
			}
			inner[feat] = lst
		}
		out[ns] = inner
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return out, nil
}

// checkUnknown reports keys outside the known set, in key-sorted order.
func checkUnknown(p PathRef, m map[string]any, known map[string]struct{}, opt ParseOpt) Issues {
	if opt.Unknown == UnknownStrip {
		return nil
	}
	var iss Issues
	for _, k := range sortedKeys(m) {
		if _, ok := known[k]; !ok {
			iss = AppendIssues(iss, p.Field(k).Issue(CodeUnknownKey, "unknown key", "key", k))
			if opt.FailFast {
				return iss
			}
		}
	}
	return iss
}
