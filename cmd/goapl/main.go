// Command goapl is the interpreter's command-line entrypoint: the thin
// collaborator spec.md §5 deliberately leaves outside the evaluation
// engine (the REPL/line editor, the `)` command parser, the native-plugin
// loader wiring). It drives internal/parser and internal/exec against an
// internal/workspace.Workspace, persisting through internal/serialize and
// internal/wslib.
package main

import (
	"fmt"
	"os"
	"strings"
)

// version is stamped at release time the way the teacher's build embeds
// VERSION/BuildDate/GitCommit; this build carries no release pipeline, so
// it stays a literal.
const version = "0.1.0"

// commandAliases lets a one-letter shorthand stand for a full command name,
// mirroring the teacher's cmd/sentra alias map but over goapl's own surface:
// running a file, a REPL session, and one-shot evaluation of an expression.
var commandAliases = map[string]string{
	"r": "run",
	"i": "repl",
	"e": "eval",
	"w": "workspaces",
}

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		runRepl(newSession())
		return
	}

	cmd := args[0]
	if full, ok := commandAliases[cmd]; ok {
		cmd = full
	}

	switch cmd {
	case "--help", "-h", "help":
		showUsage()
		return
	case "--version", "-v", "version":
		showVersion()
		return
	}

	switch cmd {
	case "run":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "usage: goapl run <file>")
			os.Exit(2)
		}
		runFile(newSession(), args[1])
	case "repl":
		runRepl(newSession())
	case "eval":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "usage: goapl eval <expression>")
			os.Exit(2)
		}
		runEval(newSession(), strings.Join(args[1:], " "))
	case "workspaces":
		listWorkspaces(newSession())
	default:
		fmt.Fprintf(os.Stderr, "goapl: unknown command %q\n", args[0])
		if s := suggestCommand(cmd); s != "" {
			fmt.Fprintf(os.Stderr, "did you mean %q?\n", s)
		}
		showUsage()
		os.Exit(2)
	}
}

func showUsage() {
	fmt.Println(`goapl - an array-language interpreter

usage:
  goapl                 start a REPL session
  goapl run <file>      execute an APL source file line by line
  goapl eval <expr>     evaluate a single expression and print the result
  goapl repl            start a REPL session explicitly
  goapl workspaces      list the )SAVE'd workspaces known to the catalog
  goapl --version       print the interpreter version
  goapl --help          print this message

environment:
  GOAPL_LIB_PATH   colon-separated workspace search-library directories
  GOAPL_INIT       path to a source file run before a REPL/eval session starts
  GOAPL_WS_CATALOG workspace catalog DSN (default: private in-memory sqlite)`)
}

func showVersion() {
	fmt.Printf("goapl %s\n", version)
}

// suggestCommand finds the closest known command name to an unrecognised
// one, the way the teacher's suggestCommand/findSimilarCommands does,
// narrowed to goapl's small command set.
func suggestCommand(cmd string) string {
	known := []string{"run", "repl", "eval", "workspaces", "help", "version"}
	best, bestDist := "", 1<<30
	for _, k := range known {
		d := levenshtein(cmd, k)
		if d < bestDist {
			best, bestDist = k, d
		}
	}
	if bestDist > 3 {
		return ""
	}
	return best
}

func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		cur := make([]int, len(rb)+1)
		cur[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			cur[j] = min3(cur[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev = cur
	}
	return prev[len(rb)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
