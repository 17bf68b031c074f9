package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewRootCmd(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "attackharvest" {
			t.Errorf("unexpected Use: got %q", cmd.Use)
		}
	})

	t.Run("registers all subcommands", func(t *testing.T) {
		t.Parallel()

		want := map[string]bool{
			"techniques":  false,
			"mitigations": false,
			"harvest":     false,
			"history":     false,
			"version":     false,
		}
		for _, sub := range cmd.Commands() {
			name := strings.Fields(sub.Use)[0]
			if _, ok := want[name]; ok {
				want[name] = true
			}
		}
		for name, found := range want {
			if !found {
				t.Errorf("expected subcommand %q to be registered", name)
			}
		}
	})

	t.Run("has persistent verbose flag", func(t *testing.T) {
		t.Parallel()

		f := cmd.PersistentFlags().Lookup("verbose")
		if f == nil {
			t.Fatal("expected persistent verbose flag to exist")
		}
		if f.Shorthand != "v" {
			t.Errorf("expected shorthand 'v', got %q", f.Shorthand)
		}
	})

	t.Run("silences usage and errors", func(t *testing.T) {
		t.Parallel()
		if !cmd.SilenceUsage || !cmd.SilenceErrors {
			t.Error("expected SilenceUsage and SilenceErrors to be true")
		}
	})
}

func TestRootCmdHelp(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"--help"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.Contains(buf.String(), "attackharvest") {
		t.Errorf("expected help output to mention attackharvest, got:\n%s", buf.String())
	}
}

func TestUnknownSubcommand(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"nonexistent"})

	if err := cmd.Execute(); err == nil {
		t.Error("expected error for unknown subcommand, got nil")
	}
}
