package x12

import "testing"

func TestParseDate(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"20240115", "2024-01-15"},
		{"2024-01-15", "2024-01-15"}, // idempotent on formatted input
		{"202401", "202401"},         // wrong length passes through
		{"2024011A", "2024011A"},     // non-digit passes through
		{"", ""},
	}
	for _, c := range cases {
		if got := ParseDate(c.in); got != c.want {
			t.Errorf("ParseDate(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestParseTime(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"1430", "14:30"},
		{"143059", "14:30"},
		{"93", "93"},
		{"", ""},
	}
	for _, c := range cases {
		if got := ParseTime(c.in); got != c.want {
			t.Errorf("ParseTime(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestCleanValue(t *testing.T) {
	if got := CleanValue("  ABC~ "); got != "ABC" {
		t.Errorf("CleanValue = %q, want ABC", got)
	}
	if got := CleanValue(""); got != "" {
		t.Errorf("CleanValue(empty) = %q, want empty", got)
	}
}

func TestCleanCode(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"ABK:K0230", "K0230"},
		{"K0231", "K0231"},
		{"A:B:C", "C"}, // after the last delimiter
		{" ABK:K0230~", "K0230"},
		{"", ""},
	}
	for _, c := range cases {
		if got := CleanCode(c.in); got != c.want {
			t.Errorf("CleanCode(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestSafeInt(t *testing.T) {
	cases := []struct {
		in   string
		def  int
		want int
	}{
		{"42", 0, 42},
		{"42~", 0, 42},
		{" 7 ", 0, 7},
		{"", 5, 5},
		{"abc", -1, -1},
		{"3.5", 9, 9},
	}
	for _, c := range cases {
		if got := SafeInt(c.in, c.def); got != c.want {
			t.Errorf("SafeInt(%q, %d) = %d, want %d", c.in, c.def, got, c.want)
		}
	}
}

func TestSafeFloat(t *testing.T) {
	cases := []struct {
		in   string
		def  float64
		want float64
	}{
		{"125.50", 0, 125.50},
		{"125.50~", 0, 125.50},
		{"", 1.5, 1.5},
		{"not-a-number", 0, 0},
	}
	for _, c := range cases {
		if got := SafeFloat(c.in, c.def); got != c.want {
			t.Errorf("SafeFloat(%q, %f) = %f, want %f", c.in, c.def, got, c.want)
		}
	}
}
