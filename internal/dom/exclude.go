package dom

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/net/html"
	"gopkg.in/yaml.v3"
)

// Predicate reports whether a container and its whole subtree must be skipped.
type Predicate func(n *html.Node) bool

// WidgetID is the id of the find bar's own control surface.
const WidgetID = "findBar"

// Rules describes excluded containers by tag name, id or class.
type Rules struct {
	Tags    []string `yaml:"tags"`
	IDs     []string `yaml:"ids"`
	Classes []string `yaml:"classes"`
}

// DefaultRules excludes non-content containers and the find bar itself.
func DefaultRules() Rules {
	return Rules{
		Tags: []string{"script", "style", "noscript", "template"},
		IDs:  []string{WidgetID},
	}
}

// Merge returns r extended with the entries of other, without duplicates.
func (r Rules) Merge(other Rules) Rules {
	return Rules{
		Tags:    mergeUnique(r.Tags, other.Tags),
		IDs:     mergeUnique(r.IDs, other.IDs),
		Classes: mergeUnique(r.Classes, other.Classes),
	}
}

// Predicate compiles the rules. Tag names compare case-insensitively.
func (r Rules) Predicate() Predicate {
	tags := make(map[string]bool, len(r.Tags))
	for _, t := range r.Tags {
		tags[strings.ToLower(t)] = true
	}
	ids := make(map[string]bool, len(r.IDs))
	for _, id := range r.IDs {
		ids[id] = true
	}
	classes := make(map[string]bool, len(r.Classes))
	for _, c := range r.Classes {
		classes[c] = true
	}

	return func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return false
		}
		if tags[strings.ToLower(n.Data)] {
			return true
		}
		if len(ids) > 0 {
			if id, ok := AttrValue(n, "id"); ok && ids[id] {
				return true
			}
		}
		if len(classes) > 0 {
			for _, c := range Classes(n) {
				if classes[c] {
					return true
				}
			}
		}
		return false
	}
}

// Validate returns one message per malformed entry.
func (r Rules) Validate() []string {
	var errs []string
	check := func(field string, vals []string) {
		for i, v := range vals {
			if strings.TrimSpace(v) == "" {
				errs = append(errs, fmt.Sprintf("%s[%d] is empty", field, i))
			} else if strings.ContainsAny(v, " \t\n") {
				errs = append(errs, fmt.Sprintf("%s[%d] %q contains whitespace", field, i, v))
			}
		}
	}
	check("tags", r.Tags)
	check("ids", r.IDs)
	check("classes", r.Classes)
	return errs
}

// LoadRules reads exclusion rules from a YAML file.
func LoadRules(path string) (Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("read rules file %q: %w", path, err)
	}
	return ParseRules(data, path)
}

func ParseRules(data []byte, source string) (Rules, error) {
	var r Rules

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&r); err != nil && !errors.Is(err, io.EOF) {
		return r, fmt.Errorf("parse YAML in %q: %w", source, err)
	}

	if errs := r.Validate(); len(errs) > 0 {
		return r, fmt.Errorf("invalid rules in %q: %s", source, strings.Join(errs, "; "))
	}
	return r, nil
}

func mergeUnique(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	var out []string
	for _, list := range [][]string{a, b} {
		for _, v := range list {
			if seen[v] {
				continue
			}
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
