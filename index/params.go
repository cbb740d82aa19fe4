package index

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Params holds backend construction parameters as parsed from the command
// line or a suite file, e.g. {"M": "32", "efSearch": "32"}.
type Params map[string]string

// ParseParams parses "key=value" pairs.
func ParseParams(pairs []string) (Params, error) {
	p := Params{}
	for _, pair := range pairs {
		if err := p.Set(pair); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Set parses a single "key=value" pair into p.
func (p Params) Set(pair string) error {
	key, value, ok := strings.Cut(pair, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return fmt.Errorf("index: invalid parameter %q, want key=value", pair)
	}
	p[key] = strings.TrimSpace(value)
	return nil
}

// String returns the value of key or def when unset.
func (p Params) String(key, def string) string {
	if v, ok := p[key]; ok && v != "" {
		return v
	}
	return def
}

// Int returns key parsed as an int or def when unset.
func (p Params) Int(key string, def int) (int, error) {
	v, ok := p[key]
	if !ok || v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("index: parameter %s=%q: %w", key, v, err)
	}
	return n, nil
}

// Float returns key parsed as a float64 or def when unset.
func (p Params) Float(key string, def float64) (float64, error) {
	v, ok := p[key]
	if !ok || v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("index: parameter %s=%q: %w", key, v, err)
	}
	return f, nil
}

// Keys returns the parameter names in sorted order.
func (p Params) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a copy of p.
func (p Params) Clone() Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}
