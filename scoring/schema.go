package scoring

import (
	"fmt"
	"sort"
)

// Kind classifies what a schema entry refers to
type Kind string

const (
	// KindTabular is a reference to a tabular dataset (CSV-like file)
	KindTabular Kind = "tabular"
	// KindFile is a reference to an opaque file, e.g. a model artifact
	KindFile Kind = "file"
	// KindPrimitive is an inline scalar value
	KindPrimitive Kind = "primitive"
)

// Entry declares a single named input, output or parameter
type Entry struct {
	Name      string `json:"name"`
	Kind      Kind   `json:"kind"`
	HasHeader bool   `json:"has_header,omitempty"`
}

// Schema declares every name a scoring function accepts, split into the
// three namespaces. Entries are fixed at registration time.
type Schema struct {
	Inputs  []Entry `json:"inputs"`
	Outputs []Entry `json:"outputs"`
	Params  []Entry `json:"params"`
}

// Validate checks that every entry has a name and a known kind, and that
// names are unique across all three namespaces. A function receives one
// flat argument map, so a name can only ever bind to a single entry.
func (s Schema) Validate() error {
	seen := make(map[string]string)
	for _, ns := range []struct {
		label   string
		entries []Entry
	}{
		{"input", s.Inputs},
		{"output", s.Outputs},
		{"param", s.Params},
	} {
		for _, e := range ns.entries {
			if e.Name == "" {
				return fmt.Errorf("%s entry with empty name", ns.label)
			}
			switch e.Kind {
			case KindTabular, KindFile, KindPrimitive:
			default:
				return fmt.Errorf("%s %q: unknown kind %q", ns.label, e.Name, e.Kind)
			}
			if prev, ok := seen[e.Name]; ok {
				if prev == ns.label {
					return fmt.Errorf("duplicate %s name %q", ns.label, e.Name)
				}
				return fmt.Errorf("name %q declared as both %s and %s", e.Name, prev, ns.label)
			}
			seen[e.Name] = ns.label
		}
	}
	return nil
}

// Names returns the union of all declared names across the three
// namespaces, sorted.
func (s Schema) Names() []string {
	names := make([]string, 0, len(s.Inputs)+len(s.Outputs)+len(s.Params))
	for _, e := range s.Inputs {
		names = append(names, e.Name)
	}
	for _, e := range s.Outputs {
		names = append(names, e.Name)
	}
	for _, e := range s.Params {
		names = append(names, e.Name)
	}
	sort.Strings(names)
	return names
}

func (s Schema) input(name string) (Entry, bool) {
	for _, e := range s.Inputs {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}

func (s Schema) output(name string) (Entry, bool) {
	for _, e := range s.Outputs {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}

func (s Schema) param(name string) (Entry, bool) {
	for _, e := range s.Params {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}
