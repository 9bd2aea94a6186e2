package tracker

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/sandeepkv93/habitgrid/internal/grid"
)

var ErrMalformedMarks = errors.New("tracker: malformed stored marks")

// MarkSet is the set of canonical date keys marked complete for one habit.
type MarkSet struct {
	keys map[string]struct{}
}

func NewMarkSet(keys ...string) MarkSet {
	s := MarkSet{keys: make(map[string]struct{}, len(keys))}
	for _, k := range keys {
		s.keys[k] = struct{}{}
	}
	return s
}

func (s MarkSet) Has(key string) bool {
	_, ok := s.keys[key]
	return ok
}

// Toggle flips membership of key and reports the new membership.
func (s *MarkSet) Toggle(key string) bool {
	if s.keys == nil {
		s.keys = make(map[string]struct{})
	}
	if _, ok := s.keys[key]; ok {
		delete(s.keys, key)
		return false
	}
	s.keys[key] = struct{}{}
	return true
}

func (s MarkSet) Len() int {
	return len(s.keys)
}

func (s MarkSet) Keys() []string {
	out := make([]string, 0, len(s.keys))
	for k := range s.keys {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Encode serializes the complete set as a sorted JSON array.
func (s MarkSet) Encode() string {
	payload, err := json.Marshal(s.Keys())
	if err != nil {
		return "[]"
	}
	return string(payload)
}

// DecodeMarkSet parses a stored set. Anything that is not a JSON array of
// canonical keys yields an empty set and ErrMalformedMarks.
func DecodeMarkSet(raw string) (MarkSet, error) {
	if strings.TrimSpace(raw) == "" {
		return NewMarkSet(), nil
	}
	var keys []string
	if err := json.Unmarshal([]byte(raw), &keys); err != nil {
		return NewMarkSet(), fmt.Errorf("%w: %v", ErrMalformedMarks, err)
	}
	for _, k := range keys {
		if _, err := grid.ParseKey(k); err != nil {
			return NewMarkSet(), fmt.Errorf("%w: %v", ErrMalformedMarks, err)
		}
	}
	return NewMarkSet(keys...), nil
}
