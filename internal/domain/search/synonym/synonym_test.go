package synonym

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleYAML = `
ceviz:
  - ceviz
  - cevız
  - ceviz-rengi
yeşil: [yesil, yeşil, "fıstık yeşili"]
beyaz: kırık beyaz
`

func TestParse_KeepsDocumentOrder(t *testing.T) {
	tbl, err := Parse([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	entries := tbl.Entries()
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	want := []string{"ceviz", "yeşil", "beyaz"}
	for i, term := range want {
		if entries[i].Term != term {
			t.Errorf("entry[%d] = %q, want %q", i, entries[i].Term, term)
		}
	}
	if len(entries[0].Variants) != 3 {
		t.Errorf("ceviz variants = %v", entries[0].Variants)
	}
	if len(entries[2].Variants) != 1 || entries[2].Variants[0] != "kırık beyaz" {
		t.Errorf("scalar variant not parsed: %v", entries[2].Variants)
	}
}

func TestParse_Invalid(t *testing.T) {
	if _, err := Parse([]byte("- a\n- b\n")); err == nil {
		t.Fatal("expected error for sequence document")
	}
	if _, err := Parse([]byte("ceviz: {a: b}\n")); err == nil {
		t.Fatal("expected error for nested mapping")
	}
}

func TestParse_Empty(t *testing.T) {
	tbl, err := Parse(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tbl.Len() != 0 {
		t.Fatalf("expected empty table, got %d", tbl.Len())
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "synonyms.yaml")
	if err := os.WriteFile(path, []byte(sampleYAML), 0o600); err != nil {
		t.Fatal(err)
	}
	tbl, err := LoadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tbl.Len() != 3 {
		t.Fatalf("expected 3 entries, got %d", tbl.Len())
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestNew_SkipsBlankAndDefaultsVariants(t *testing.T) {
	tbl := New(
		Entry{Term: "  "},
		Entry{Term: "mat"},
		Entry{Term: "siyah", Variants: []string{"", " "}},
	)
	entries := tbl.Entries()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Variants[0] != "mat" {
		t.Errorf("term should be its own variant, got %v", entries[0].Variants)
	}
}

func TestFromMap_Sorted(t *testing.T) {
	tbl := FromMap(map[string][]string{"yesil": {"yeşil"}, "ceviz": {"ceviz"}})
	entries := tbl.Entries()
	if entries[0].Term != "ceviz" || entries[1].Term != "yesil" {
		t.Fatalf("unexpected order: %q, %q", entries[0].Term, entries[1].Term)
	}
}

func TestRelated(t *testing.T) {
	tbl := New(
		Entry{Term: "ceviz", Variants: []string{"ceviz"}},
		Entry{Term: "yeşil", Variants: []string{"yesil"}},
	)

	tests := []struct {
		token string
		want  []string
	}{
		{"ceviz", []string{"ceviz"}},
		{"cev", []string{"ceviz"}},
		{"cevizli", []string{"ceviz"}},
		{"YEŞİL", []string{"yeşil"}},
		{"yesil", []string{"yeşil"}},
		{"beyaz", nil},
		{"", nil},
	}
	for _, tc := range tests {
		got := tbl.Related(tc.token)
		if len(got) != len(tc.want) {
			t.Errorf("Related(%q) = %d entries, want %d", tc.token, len(got), len(tc.want))
			continue
		}
		for i := range got {
			if got[i].Term != tc.want[i] {
				t.Errorf("Related(%q)[%d] = %q, want %q", tc.token, i, got[i].Term, tc.want[i])
			}
		}
	}
}

func TestRelated_NilTable(t *testing.T) {
	var tbl *Table
	if got := tbl.Related("ceviz"); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
	if tbl.Len() != 0 {
		t.Fatal("nil table must be empty")
	}
}

func TestMatchesTag(t *testing.T) {
	tbl := New(Entry{Term: "ceviz", Variants: []string{"cevız", "ceviz-rengi"}})
	e := tbl.Entries()[0]

	tests := []struct {
		tag  string
		want bool
	}{
		{"cevız", true},
		{"CEVİZ", true},
		{"koyu ceviz-rengi", true},
		{"meşe", false},
		{"", false},
	}
	for _, tc := range tests {
		if got := e.MatchesTag(tc.tag); got != tc.want {
			t.Errorf("MatchesTag(%q) = %v, want %v", tc.tag, got, tc.want)
		}
	}
}
