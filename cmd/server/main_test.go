package main

import (
	"testing"
	"time"
)

func TestEnvHelpers_Fallbacks(t *testing.T) {
	t.Setenv("VAULTOWN_TEST_STR", "")
	if got := envStr("VAULTOWN_TEST_STR", "default"); got != "default" {
		t.Fatalf("envStr fallback: got %q", got)
	}
	t.Setenv("VAULTOWN_TEST_INT", "nope")
	if got := envInt("VAULTOWN_TEST_INT", 7); got != 7 {
		t.Fatalf("envInt fallback: got %d", got)
	}
	t.Setenv("VAULTOWN_TEST_FLOAT", "bad")
	if got := envFloat("VAULTOWN_TEST_FLOAT", 0.1); got != 0.1 {
		t.Fatalf("envFloat fallback: got %v", got)
	}
	t.Setenv("VAULTOWN_TEST_DUR", "soon")
	if got := durationEnv("VAULTOWN_TEST_DUR", time.Minute); got != time.Minute {
		t.Fatalf("durationEnv fallback: got %v", got)
	}
}

func TestEnvHelpers_Parse(t *testing.T) {
	t.Setenv("VAULTOWN_TEST_INT", "42")
	if got := envInt("VAULTOWN_TEST_INT", 7); got != 42 {
		t.Fatalf("envInt: got %d", got)
	}
	t.Setenv("VAULTOWN_TEST_FLOAT", "0.25")
	if got := envFloat("VAULTOWN_TEST_FLOAT", 0.1); got != 0.25 {
		t.Fatalf("envFloat: got %v", got)
	}
	t.Setenv("VAULTOWN_TEST_DUR", "90s")
	if got := durationEnv("VAULTOWN_TEST_DUR", time.Minute); got != 90*time.Second {
		t.Fatalf("durationEnv: got %v", got)
	}
}
