// ABOUTME: Tests for the built-in model catalog
// ABOUTME: Validates the default model, lookups and ID ordering

package ai

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFindModel(t *testing.T) {
	t.Parallel()

	m := FindModel(DefaultModelID)
	if m == nil {
		t.Fatal("default model missing from catalog")
	}
	if m.Api != ApiAnthropic || m.Name != "Claude 3 Haiku" {
		t.Errorf("default model = %+v", m)
	}
	if FindModel("claude-2") != nil {
		t.Error("unknown model should not resolve")
	}
}

func TestModelIDs(t *testing.T) {
	t.Parallel()

	want := []string{
		"claude-3-haiku-20240307",
		"claude-3-sonnet-20240229",
		"claude-3-opus-20240229",
		"gemini-2.0-flash",
	}
	if diff := cmp.Diff(want, ModelIDs()); diff != "" {
		t.Errorf("ModelIDs mismatch (-want +got):\n%s", diff)
	}
}
