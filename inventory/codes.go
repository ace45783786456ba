// inventory/codes.go
package inventory

import (
	"encoding/json"
	"strings"
)

// CodeSet is an ordered, deduplicated set of serialized codes (DPS or
// Bond). Business logic works on CodeSet values; the comma-joined string
// form exists only at the persistence boundary.
type CodeSet struct {
	codes []string
	index map[string]struct{}
}

// ParseCodeSet splits a comma-joined stored value into a set. Codes are
// trimmed and empties dropped; first occurrence wins on duplicates.
func ParseCodeSet(joined string) CodeSet {
	return NewCodeSet(strings.Split(joined, ","))
}

// NewCodeSet builds a set from raw code values, trimming and
// deduplicating.
func NewCodeSet(codes []string) CodeSet {
	s := CodeSet{index: make(map[string]struct{}, len(codes))}
	for _, c := range codes {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if _, ok := s.index[c]; ok {
			continue
		}
		s.index[c] = struct{}{}
		s.codes = append(s.codes, c)
	}
	return s
}

// Join serializes the set to its comma-joined persistence form.
func (s CodeSet) Join() string {
	return strings.Join(s.codes, ",")
}

func (s CodeSet) Len() int { return len(s.codes) }

func (s CodeSet) IsEmpty() bool { return len(s.codes) == 0 }

// Codes returns the members in insertion order. The returned slice is a
// copy.
func (s CodeSet) Codes() []string {
	out := make([]string, len(s.codes))
	copy(out, s.codes)
	return out
}

func (s CodeSet) Contains(code string) bool {
	_, ok := s.index[code]
	return ok
}

// Union returns a new set with the members of both sets, keeping this
// set's order first.
func (s CodeSet) Union(other CodeSet) CodeSet {
	merged := make([]string, 0, len(s.codes)+len(other.codes))
	merged = append(merged, s.codes...)
	merged = append(merged, other.codes...)
	return NewCodeSet(merged)
}

// Diff returns the members of this set not present in other.
func (s CodeSet) Diff(other CodeSet) CodeSet {
	var out []string
	for _, c := range s.codes {
		if !other.Contains(c) {
			out = append(out, c)
		}
	}
	return NewCodeSet(out)
}

// Intersect returns the members present in both sets.
func (s CodeSet) Intersect(other CodeSet) CodeSet {
	var out []string
	for _, c := range s.codes {
		if other.Contains(c) {
			out = append(out, c)
		}
	}
	return NewCodeSet(out)
}

// Equal reports whether both sets hold the same members, order ignored.
func (s CodeSet) Equal(other CodeSet) bool {
	if len(s.codes) != len(other.codes) {
		return false
	}
	for _, c := range s.codes {
		if !other.Contains(c) {
			return false
		}
	}
	return true
}

// FlexStrings accepts either a JSON string ("D1,D2") or a JSON array
// (["D1","D2"]) for the dps/bond request fields.
type FlexStrings []string

func (f *FlexStrings) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*f = strings.Split(single, ",")
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*f = many
	return nil
}

// Set normalizes the raw request value into a CodeSet.
func (f FlexStrings) Set() CodeSet {
	return NewCodeSet(f)
}
