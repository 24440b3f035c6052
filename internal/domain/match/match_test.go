package match

import (
	"slices"
	"testing"
)

func TestNew(t *testing.T) {
	meta := map[string]string{KeyFirstName: "Ada", KeyCompany: "Acme"}
	m := New("doc-1", "Ada at Acme", meta, 0.25)

	if m.Key() != "doc-1" || m.Document() != "Ada at Acme" || m.Distance() != 0.25 {
		t.Errorf("unexpected match %+v", m)
	}
	if v, ok := m.Field(KeyFirstName); !ok || v != "Ada" {
		t.Errorf("Field(first_name) = %q, %v", v, ok)
	}
	if _, ok := m.Field(KeyEmail); ok {
		t.Error("email should be absent")
	}
}

func TestMissingKeys(t *testing.T) {
	full := map[string]string{
		KeyFirstName: "", KeyLastName: "", KeyCompany: "", KeyPosition: "",
	}
	if got := New("k", "", full, 0).MissingKeys(); len(got) != 0 {
		t.Errorf("empty values must count as present, missing %v", got)
	}

	partial := map[string]string{KeyFirstName: "Ada", KeyPosition: "CTO"}
	got := New("k", "", partial, 0).MissingKeys()
	if !slices.Equal(got, []string{KeyLastName, KeyCompany}) {
		t.Errorf("MissingKeys() = %v", got)
	}
}
