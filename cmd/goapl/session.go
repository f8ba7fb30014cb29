package main

import (
	"log"
	"os"
	"strings"

	"goapl/internal/aplerr"
	"goapl/internal/exec"
	"goapl/internal/parser"
	"goapl/internal/workspace"
	"goapl/internal/wslib"
)

// session bundles everything one goapl invocation evaluates against: the
// workspace (symbol table + system variables), the evaluator that drives
// it, and the workspace catalog )SAVE/)LOAD resolve through.
type session struct {
	ws      *workspace.Workspace
	ev      *exec.Evaluator
	catalog *wslib.Catalog
}

// newSession builds a fresh workspace, opens the workspace catalog named by
// GOAPL_WS_CATALOG (a private in-memory catalog by default), registers
// every GOAPL_LIB_PATH directory as a search-library entry, and — if
// GOAPL_INIT names a file — runs it before handing control to the caller.
func newSession() *session {
	ws := workspace.New()
	s := &session{ws: ws, ev: exec.NewEvaluator(ws)}

	cat, err := wslib.Open(os.Getenv("GOAPL_WS_CATALOG"))
	if err != nil {
		log.Printf("goapl: workspace catalog unavailable: %v", err)
	} else {
		s.catalog = cat
		for _, dir := range libPathDirs() {
			if aerr := cat.AddSearchDir(dir); aerr != nil {
				log.Printf("goapl: cannot add search directory %s: %v", dir, aerr)
			}
		}
	}

	if init := os.Getenv("GOAPL_INIT"); init != "" {
		if err := s.runFile(init); err != nil {
			log.Printf("goapl: init script %s: %v", init, err)
		}
	}
	return s
}

func libPathDirs() []string {
	raw := os.Getenv("GOAPL_LIB_PATH")
	if raw == "" {
		return nil
	}
	var dirs []string
	for _, d := range strings.Split(raw, ":") {
		if d != "" {
			dirs = append(dirs, d)
		}
	}
	return dirs
}

// evalLine parses and runs one line of source against the session's
// workspace, returning every statement result in order.
func (s *session) evalLine(src string) ([]exec.Result, *aplerr.Error) {
	ex, perr := parser.Parse(src)
	if perr != nil {
		return nil, perr.WithSource(src)
	}
	fr := exec.NewFrame(ex, s.ws, nil)
	results, rerr := s.ev.Run(fr)
	if rerr != nil {
		return results, rerr.WithSource(src)
	}
	return results, nil
}

func (s *session) close() {
	if s.catalog != nil {
		s.catalog.Close()
	}
}
