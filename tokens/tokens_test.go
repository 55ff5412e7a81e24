package tokens

import "testing"

func TestCountEmpty(t *testing.T) {
	if got := Count(""); got != 0 {
		t.Fatalf("Count(\"\") = %d, want 0", got)
	}
}

func TestCountKnownText(t *testing.T) {
	// cl100k_base encodes "hello world" as two tokens.
	if got := Count("hello world"); got != 2 {
		t.Fatalf("Count(%q) = %d, want 2", "hello world", got)
	}
}

func TestCountGrowsWithText(t *testing.T) {
	short := Count("one two")
	long := Count("one two three four five six seven")
	if long <= short {
		t.Fatalf("Count(long) = %d, want more than Count(short) = %d", long, short)
	}
}

func TestEstimate(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"a", 1},
		{"abcd", 1},
		{"abcde", 2},
		{"日本語です", 2},
	}
	for _, tt := range tests {
		if got := Estimate(tt.in); got != tt.want {
			t.Fatalf("Estimate(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
