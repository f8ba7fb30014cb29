package main

import (
	"io"
	"os"
	"testing"
)

func TestCommandAliasResolution(t *testing.T) {
	cases := map[string]string{"r": "run", "i": "repl", "e": "eval", "w": "workspaces"}
	for alias, want := range cases {
		got, ok := commandAliases[alias]
		if !ok || got != want {
			t.Fatalf("alias %q = %q, want %q", alias, got, want)
		}
	}
}

func TestSuggestCommand(t *testing.T) {
	if got := suggestCommand("rn"); got != "run" {
		t.Fatalf("suggestCommand(rn) = %q, want run", got)
	}
	if got := suggestCommand("xyzzy123"); got != "" {
		t.Fatalf("suggestCommand(xyzzy123) = %q, want no suggestion", got)
	}
}

func TestParseSystemCommand(t *testing.T) {
	cmd, ok := parseSystemCommand("  )VARS  ")
	if !ok {
		t.Fatalf("expected )VARS to parse as a system command")
	}
	if cmd.name != "VARS" || len(cmd.args) != 0 {
		t.Fatalf("cmd = %+v, want name=VARS no args", cmd)
	}

	cmd, ok = parseSystemCommand(")SAVE MYWS")
	if !ok || cmd.name != "SAVE" || len(cmd.args) != 1 || cmd.args[0] != "MYWS" {
		t.Fatalf("cmd = %+v, want SAVE [MYWS]", cmd)
	}

	if _, ok := parseSystemCommand("2+2"); ok {
		t.Fatalf("plain source should not parse as a system command")
	}
}

func TestSessionEvalAndVars(t *testing.T) {
	s := newSession()
	defer s.close()

	if _, err := s.evalLine("X←2+3"); err != nil {
		t.Fatalf("assign: %v", err)
	}
	results, err := s.evalLine("X×2")
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	if len(results) != 1 || results[0].Value.At(0).Float() != 10 {
		t.Fatalf("X×2 = %v, want 10", results)
	}

	found := false
	for _, name := range s.ws.Symbols().VariableNames() {
		if name == "X" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected X to be a bound variable")
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	oldwd, _ := os.Getwd()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	defer os.Chdir(oldwd)

	s := newSession()
	defer s.close()
	if _, err := s.evalLine("Y←10 20 30"); err != nil {
		t.Fatalf("assign: %v", err)
	}
	if err := s.runSystemCommand(io.Discard, systemCommand{name: "SAVE", args: []string{"ROUNDTRIP"}}); err != nil {
		t.Fatalf("save: %v", err)
	}

	s2 := newSession()
	defer s2.close()
	if err := s2.runSystemCommand(io.Discard, systemCommand{name: "LOAD", args: []string{"ROUNDTRIP"}}); err != nil {
		t.Fatalf("load: %v", err)
	}
	v, ok := s2.ws.Get("Y")
	if !ok {
		t.Fatalf("expected Y to be restored after load")
	}
	if v.ElementCount() != 3 || v.At(1).Float() != 20 {
		t.Fatalf("Y = %v, want 10 20 30", v)
	}
}
