package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"

	"goapl/internal/aplerr"
)

// runFile executes src line by line against the session's workspace,
// stopping at the first error (spec.md has no multi-line ∇-defined
// function bodies in this build, so a file is just a sequence of
// independent immediate-execution lines, same as typing them at a REPL).
func (s *session) runFile(path string) *aplerr.Error {
	f, err := os.Open(path)
	if err != nil {
		return aplerr.Wrap(aplerr.VALUE, err, "cannot open %s", path)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(strings.TrimSpace(line), "⍝") {
			continue
		}
		if cmd, ok := parseSystemCommand(line); ok {
			if err := s.runSystemCommand(os.Stdout, cmd); err != nil {
				return err
			}
			continue
		}
		results, rerr := s.evalLine(line)
		if rerr != nil {
			rerr.Loc.Line = lineNo
			return rerr
		}
		for _, r := range results {
			printResult(os.Stdout, r.Value, r.Assigned)
		}
	}
	if err := scanner.Err(); err != nil {
		return aplerr.Wrap(aplerr.VALUE, err, "reading %s", path)
	}
	return nil
}

func runFile(s *session, path string) {
	defer s.close()
	if err := s.runFile(path); err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}

func runEval(s *session, expr string) {
	defer s.close()
	results, err := s.evalLine(expr)
	if err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
	for _, r := range results {
		printResult(os.Stdout, r.Value, r.Assigned)
	}
}

func listWorkspaces(s *session) {
	defer s.close()
	if s.catalog == nil {
		fmt.Fprintln(os.Stderr, "goapl: no workspace catalog available")
		os.Exit(1)
	}
	entries, err := s.catalog.List()
	if err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
	if len(entries) == 0 {
		fmt.Println("no workspaces saved")
		return
	}
	for _, e := range entries {
		fmt.Printf("%-24s %-40s saved %s\n", e.WSID, e.Path, humanize.Time(e.SavedAt))
	}
}
