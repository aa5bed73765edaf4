package variantschema

// Presence is the bit flag collected by WithMeta APIs.
type Presence uint8

const (
	PresenceSeen           Presence = 1 << iota // Field appeared in the input.
	PresenceWasNull                             // Field value was null.
	PresenceDefaultApplied                      // Default value was applied.
)

// PresenceMap maps JSON Pointers (canonical hyphenated keys) to Presence flags.
type PresenceMap map[string]Presence

// Decoded carries the parsed value along with presence metadata.
type Decoded[T any] struct {
	Value    T
	Presence PresenceMap
}

func markSeen(pm PresenceMap, p PathRef, wasNull bool) {
	if pm == nil {
		return
	}
	pm[p.Pointer()] |= PresenceSeen
	if wasNull {
		pm[p.Pointer()] |= PresenceWasNull
	}
}

func markDefault(pm PresenceMap, p PathRef) {
	if pm == nil {
		return
	}
	pm[p.Pointer()] |= PresenceDefaultApplied
}
