// Package synonym holds the term expansion table used by relevance
// scoring. Catalog tags are free text and spelled inconsistently, so a
// canonical term maps to the spellings that actually occur in tag data.
// The table is data: it is loaded from YAML and never hardcoded in the
// scorer.
package synonym

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/scgursel/kakule-katalog/internal/domain/search/text"
)

// Entry is a canonical term with its spelling variants.
type Entry struct {
	Term     string
	Variants []string

	normTerm     string
	normVariants []string
	lowVariants  []string
}

// Table is an ordered synonym table. The zero value is an empty table.
type Table struct {
	entries []Entry
}

// New builds a table from entries, keeping their order. Blank terms are
// skipped; a term without variants is its own single variant.
func New(entries ...Entry) *Table {
	t := &Table{}
	for _, e := range entries {
		t.add(e.Term, e.Variants)
	}
	return t
}

// FromMap builds a table from a plain map. Terms are sorted so the result
// is deterministic.
func FromMap(m map[string][]string) *Table {
	terms := make([]string, 0, len(m))
	for k := range m {
		terms = append(terms, k)
	}
	sort.Strings(terms)

	t := &Table{}
	for _, term := range terms {
		t.add(term, m[term])
	}
	return t
}

func (t *Table) add(term string, variants []string) {
	term = strings.TrimSpace(term)
	if term == "" {
		return
	}
	if len(variants) == 0 {
		variants = []string{term}
	}

	e := Entry{Term: term}
	for _, v := range variants {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		e.Variants = append(e.Variants, v)
		e.lowVariants = append(e.lowVariants, text.Lower(v))
		e.normVariants = append(e.normVariants, text.Normalize(v))
	}
	if len(e.Variants) == 0 {
		return
	}
	e.normTerm = text.Normalize(term)
	t.entries = append(t.entries, e)
}

// Len returns the number of canonical terms.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Entries returns the table entries in order.
func (t *Table) Entries() []Entry {
	if t == nil {
		return nil
	}
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Related returns the entries whose term equals the token, contains it, or
// is contained in it. Comparison uses folded forms.
func (t *Table) Related(token string) []Entry {
	if t == nil || token == "" {
		return nil
	}
	nt := text.Normalize(token)
	if nt == "" {
		return nil
	}

	var out []Entry
	for _, e := range t.entries {
		if strings.Contains(e.normTerm, nt) || strings.Contains(nt, e.normTerm) {
			out = append(out, e)
		}
	}
	return out
}

// MatchesTag reports whether the tag contains any of the entry's variants,
// comparing raw lowercase and folded forms.
func (e *Entry) MatchesTag(tag string) bool {
	return e.MatchesFolded(text.Lower(tag), text.Normalize(tag))
}

// MatchesFolded is MatchesTag for a tag already lowered and normalized.
func (e *Entry) MatchesFolded(lowTag, normTag string) bool {
	if lowTag == "" && normTag == "" {
		return false
	}
	for i := range e.Variants {
		if strings.Contains(lowTag, e.lowVariants[i]) || strings.Contains(normTag, e.normVariants[i]) {
			return true
		}
	}
	return false
}

// UnmarshalYAML decodes a mapping of term to variant list, keeping the
// document order of the terms.
func (t *Table) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode && value.Tag == "!!null" {
		*t = Table{}
		return nil
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("synonyms: expected mapping at line %d", value.Line)
	}

	parsed := Table{}
	for i := 0; i+1 < len(value.Content); i += 2 {
		keyNode, valNode := value.Content[i], value.Content[i+1]

		var variants []string
		switch valNode.Kind {
		case yaml.SequenceNode:
			if err := valNode.Decode(&variants); err != nil {
				return fmt.Errorf("synonyms: term %q: %w", keyNode.Value, err)
			}
		case yaml.ScalarNode:
			if valNode.Value != "" {
				variants = []string{valNode.Value}
			}
		default:
			return fmt.Errorf("synonyms: term %q: expected list of variants at line %d", keyNode.Value, valNode.Line)
		}
		parsed.add(keyNode.Value, variants)
	}

	*t = parsed
	return nil
}

// Parse decodes a YAML synonym document.
func Parse(data []byte) (*Table, error) {
	t := &Table{}
	if err := yaml.Unmarshal(data, t); err != nil {
		return nil, fmt.Errorf("parse synonyms: %w", err)
	}
	return t, nil
}

// LoadFile reads a YAML synonym file.
func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read synonyms %s: %w", path, err)
	}
	return Parse(data)
}
