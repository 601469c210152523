// ABOUTME: Tests for environment variable expansion in config
// ABOUTME: Validates ${VAR} replacement for set, unset, and mixed patterns

package config

import (
	"testing"
)

func TestExpandEnv_Set(t *testing.T) {
	t.Setenv("TEST_PATTERN", `\bshould i\b`)
	result := expandEnv("${TEST_PATTERN}")
	if result != `\bshould i\b` {
		t.Errorf("expandEnv = %q; want %q", result, `\bshould i\b`)
	}
}

func TestExpandEnv_Unset(t *testing.T) {
	result := expandEnv("${DEFINITELY_NOT_SET_12345}")
	if result != "" {
		t.Errorf("expandEnv = %q; want empty for unset var", result)
	}
}

func TestExpandEnv_Mixed(t *testing.T) {
	t.Setenv("MY_MESSAGE", "context")
	result := expandEnv("Thanks for the ${MY_MESSAGE}.")
	if result != "Thanks for the context." {
		t.Errorf("expandEnv = %q; want %q", result, "Thanks for the context.")
	}
}

func TestExpandEnv_LeavesRegexAnchors(t *testing.T) {
	in := `^(hi|hello)$`
	if got := expandEnv(in); got != in {
		t.Errorf("expandEnv = %q; want unchanged", got)
	}
}

func TestExpandEnv_Empty(t *testing.T) {
	if result := expandEnv(""); result != "" {
		t.Errorf("expandEnv = %q; want empty", result)
	}
}
