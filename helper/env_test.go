package helper

import (
	"os"
	"testing"
)

func TestFlagNameToEnvVar(t *testing.T) {
	expected := "HP_CLICKHOUSE_URL"
	if got := FlagNameToEnvVar("clickhouse-url"); got != expected {
		t.Fatalf("expected %q; got %q", expected, got)
	}
}

func TestEnvWithOverride(t *testing.T) {
	base := []string{"PATH=/bin", "PGPASSWORD=old", "HOME=/root"}
	got := EnvWithOverride(base, "PGPASSWORD", "secret")
	count := 0
	for _, kv := range got {
		if kv == "PGPASSWORD=old" {
			t.Fatal("expected the old value to be replaced")
		}
		if kv == "PGPASSWORD=secret" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected exactly one PGPASSWORD entry; got %v", count)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 entries; got %v", len(got))
	}
}

func TestReadValueFromEnvWithDefault(t *testing.T) {
	_ = os.Unsetenv("HP_TEST_READ_VALUE")
	if got := ReadValueFromEnvWithDefault("HP_TEST_READ_VALUE", "dflt"); got != "dflt" {
		t.Fatalf("expected default; got %q", got)
	}
	_ = os.Setenv("HP_TEST_READ_VALUE", "set")
	defer os.Unsetenv("HP_TEST_READ_VALUE")
	if got := ReadValueFromEnvWithDefault("HP_TEST_READ_VALUE", "dflt"); got != "set" {
		t.Fatalf("expected env value; got %q", got)
	}
}
