package cmd

import (
	"bytes"
	"strings"
	"testing"
)

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("version command error: %v", err)
	}
	if !strings.Contains(out.String(), "gschat") {
		t.Errorf("version output = %q, want gschat banner", out.String())
	}
}

func TestSubcommandsRegistered(t *testing.T) {
	want := map[string]bool{
		"query":   false,
		"refresh": false,
		"status":  false,
		"record":  false,
		"version": false,
	}
	for _, c := range rootCmd.Commands() {
		if _, ok := want[c.Name()]; ok {
			want[c.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestParseModeFlag(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"", "", false},
		{"vector", "vector", false},
		{"keyword", "keyword", false},
		{"turbo", "", true},
	}
	for _, tt := range tests {
		flagMode = tt.in
		mode, err := parseModeFlag()
		if (err != nil) != tt.wantErr {
			t.Errorf("parseModeFlag(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if string(mode) != tt.want {
			t.Errorf("parseModeFlag(%q) = %q, want %q", tt.in, mode, tt.want)
		}
	}
	flagMode = ""
}
