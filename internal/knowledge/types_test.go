package knowledge

import (
	"strings"
	"testing"
)

func TestNewFragment(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		source   string
		maxChars int
		wantOK   bool
	}{
		{"valid", "Sales Invoice lets you bill customers", "Documentation: Sales Invoice", 500, true},
		{"empty content", "", "Documentation: X", 500, false},
		{"whitespace content", "   \n\t ", "Documentation: X", 500, false},
		{"empty source", "some content", "", 500, false},
		{"no limit", "some content", "Schema: Customer", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, ok := NewFragment(tt.content, tt.source, CategoryDocumentation, tt.maxChars)
			if ok != tt.wantOK {
				t.Fatalf("NewFragment() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && (f.Content == "" || f.Source == "") {
				t.Error("valid fragment has empty content or source")
			}
		})
	}
}

func TestNewFragmentTruncates(t *testing.T) {
	long := strings.Repeat("x", 1000)
	f, ok := NewFragment(long, "Code: big.go", CategoryCode, 100)
	if !ok {
		t.Fatal("NewFragment() rejected valid fragment")
	}
	if len([]rune(f.Content)) != 103 { // 100 runes + "..."
		t.Errorf("truncated content length = %d runes, want 103", len([]rune(f.Content)))
	}
	if !strings.HasSuffix(f.Content, "...") {
		t.Error("truncated content missing ellipsis")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		maxChars int
		want     string
	}{
		{"under limit", "short", 10, "short"},
		{"at limit", "exact", 5, "exact"},
		{"over limit", "overflowing", 4, "over..."},
		{"no limit", "anything", 0, "anything"},
		{"multibyte runes", "日本語のテキスト", 3, "日本語..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truncate(tt.in, tt.maxChars); got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.maxChars, got, tt.want)
			}
		})
	}
}
