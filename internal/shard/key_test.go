package shard

import "testing"

func TestKeyFilename(t *testing.T) {
	k := Resolve("42", 2024)
	if got := k.Filename(); got != "tenant_42_2024.db" {
		t.Fatalf("Filename() = %q", got)
	}
}

func TestParseFilename(t *testing.T) {
	cases := []struct {
		name   string
		tenant string
		year   int
		ok     bool
	}{
		{"tenant_42_2024.db", "42", 2024, true},
		{"tenant_acme_corp_2023.db", "acme_corp", 2023, true},
		{"tenant_42_2024_backup_20240315T103000.000000000.db", "", 0, false},
		{"users.db", "", 0, false},
		{"tenant_42_24.db", "", 0, false},
		{"tenant_42_abcd.db", "", 0, false},
		{"tenant_2024.db", "", 0, false},
	}
	for _, tc := range cases {
		k, ok := ParseFilename(tc.name)
		if ok != tc.ok {
			t.Fatalf("ParseFilename(%q) ok = %v, want %v", tc.name, ok, tc.ok)
		}
		if ok && (k.Tenant != tc.tenant || k.Year != tc.year) {
			t.Fatalf("ParseFilename(%q) = %+v", tc.name, k)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	k := Resolve("user_7", 2025)
	parsed, ok := ParseFilename(k.Filename())
	if !ok || parsed != k {
		t.Fatalf("round trip failed: %+v -> %+v (ok=%v)", k, parsed, ok)
	}
}
