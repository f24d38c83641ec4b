package normalize

import "testing"

func TestKey(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"Service Name", "servicename"},
		{"  owner_email ", "owneremail"},
		{"CMDB-CI-Name", "cmdbciname"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := Key(tc.in); got != tc.want {
			t.Fatalf("Key(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestEqualFoldTrimmed(t *testing.T) {
	t.Parallel()

	if !EqualFoldTrimmed(" Payments ", "payments") {
		t.Fatal("expected fold-trimmed equality")
	}
	if EqualFoldTrimmed("payments", "billing") {
		t.Fatal("expected inequality")
	}
}
