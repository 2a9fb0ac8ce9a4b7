package domain

// TriState represents a partially-known boolean record field. Upstream data
// frequently omits compliance attributes, and "not supplied" must stay
// distinguishable from "confirmed false" because the two drive different
// recommendations.
type TriState string

const (
	Unknown    TriState = "unknown"
	KnownFalse TriState = "false"
	KnownTrue  TriState = "true"
)

// Known reports whether the field was actually supplied. The zero value
// behaves as Unknown so an absent input field never reads as a denial.
func (t TriState) Known() bool { return t == KnownTrue || t == KnownFalse }

// True reports whether the field was supplied and affirmative.
func (t TriState) True() bool { return t == KnownTrue }

// TriStateFromPtr converts an optional boolean from an input file into a TriState.
func TriStateFromPtr(b *bool) TriState {
	switch {
	case b == nil:
		return Unknown
	case *b:
		return KnownTrue
	default:
		return KnownFalse
	}
}

// ConservativeTrue resolves a partially-known field under the
// higher-liability reading: an unknown value is treated as true. Callers
// surface a recommendation whenever the value was unknown.
func (t TriState) ConservativeTrue() bool { return t != KnownFalse }

// UnmarshalYAML accepts booleans, the tri-state strings, and null.
func (t *TriState) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var b bool
	if err := unmarshal(&b); err == nil {
		*t = TriStateFromPtr(&b)
		return nil
	}
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	switch TriState(s) {
	case KnownTrue, KnownFalse:
		*t = TriState(s)
	default:
		*t = Unknown
	}
	return nil
}

// MarshalJSON renders any non-known state as "unknown".
func (t TriState) MarshalJSON() ([]byte, error) {
	v := t
	if !v.Known() {
		v = Unknown
	}
	return []byte(`"` + string(v) + `"`), nil
}
