package bot

import "testing"

func TestParsePrice(t *testing.T) {
	cases := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"2500000", 2500000, false},
		{"2,500,000", 2500000, false},
		{" 1250000 ", 1250000, false},
		{"0", 0, false},
		{"-5", 0, true},
		{"", 0, true},
		{"free", 0, true},
		{"12.5", 0, true},
	}
	for _, tc := range cases {
		got, err := parsePrice(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("parsePrice(%q): expected error, got %d", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("parsePrice(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("parsePrice(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestRequirePrice(t *testing.T) {
	if err := requirePrice("1,250,000"); err != nil {
		t.Fatalf("separators should be accepted: %v", err)
	}
	if err := requirePrice("cheap"); err == nil {
		t.Fatal("expected rejection of non-numeric price")
	}
}

func TestDashEmpty(t *testing.T) {
	if got := dashEmpty(" - "); got != "" {
		t.Fatalf("skip marker should map to empty, got %q", got)
	}
	if got := dashEmpty(" Room 12 "); got != "Room 12" {
		t.Fatalf("values should only be trimmed, got %q", got)
	}
}

func TestFlowByName(t *testing.T) {
	if f := flowByName(flowCourseForm); f == nil || f.name != flowCourseForm {
		t.Fatal("course form should be resolvable by name")
	}
	if f := flowByName("no-such-flow"); f != nil {
		t.Fatal("unknown name should yield nil")
	}
}
