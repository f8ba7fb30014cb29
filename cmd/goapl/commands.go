package main

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"goapl/internal/aplerr"
	"goapl/internal/array"
	"goapl/internal/serialize"
)

// systemCommand is one parsed `)` command line: spec.md §6 lists the
// vocabulary ()SAVE, )LOAD, )COPY, )PCOPY, )DUMP, )IN, )OUT, )WSID, )CLEAR,
// )ERASE, )FNS, )VARS, )OPS, )SI, )SIS, )SIC, )OFF) but treats the parser
// for it as a collaborator outside the evaluation engine; this is that
// collaborator.
type systemCommand struct {
	name string
	args []string
}

// parseSystemCommand recognises a `)NAME arg...` line. A line not starting
// with `)` is ordinary APL source and is left to the evaluator.
func parseSystemCommand(line string) (systemCommand, bool) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, ")") {
		return systemCommand{}, false
	}
	fields := strings.Fields(trimmed[1:])
	if len(fields) == 0 {
		return systemCommand{}, false
	}
	return systemCommand{name: strings.ToUpper(fields[0]), args: fields[1:]}, true
}

// runSystemCommand executes cmd against the session, writing any listing
// output to w.
func (s *session) runSystemCommand(w io.Writer, cmd systemCommand) *aplerr.Error {
	switch cmd.name {
	case "WSID":
		if len(cmd.args) > 0 {
			s.ws.WSID = cmd.args[0]
		}
		fmt.Fprintln(w, s.ws.WSID)
	case "CLEAR":
		s.ws.Clear()
		fmt.Fprintln(w, "CLEAR WS")
	case "VARS":
		for _, name := range s.ws.Symbols().VariableNames() {
			fmt.Fprintln(w, name)
		}
	case "DUMP":
		fmt.Fprint(w, s.ws.Dump())
	case "ERASE":
		for _, name := range cmd.args {
			s.ws.Unbind(name)
		}
	case "SI", "SIS", "SIC":
		// a suspended-call stack belongs to the ∇-defined function
		// machinery this build does not implement; an immediate-execution
		// session is never suspended, so the listing is always empty.
	case "SAVE":
		return s.cmdSave(w, cmd.args)
	case "LOAD":
		return s.cmdLoad(w, cmd.args)
	case "OFF":
		s.close()
		os.Exit(0)
	default:
		return aplerr.New(aplerr.SYNTAX, "unrecognised system command )%s", cmd.name)
	}
	return nil
}

// cmdSave implements `)SAVE [wsid]`: build an XML archive of every bound
// variable, write it next to the catalog entry, and record the save.
func (s *session) cmdSave(w io.Writer, args []string) *aplerr.Error {
	wsid := s.ws.WSID
	if len(args) > 0 {
		wsid = args[0]
	}
	vars := map[string]*array.Value{}
	for _, name := range s.ws.Symbols().VariableNames() {
		if v, ok := s.ws.Get(name); ok {
			vars[name] = v
		}
	}
	when := time.Now()
	meta := serialize.ArchiveMeta{Timestamp: when.UTC().Format(time.RFC3339), ToolRevision: version}
	archive, err := serialize.BuildArchive(wsid, vars, meta)
	if err != nil {
		return err
	}
	body, merr := serialize.Marshal(archive)
	if merr != nil {
		return aplerr.Wrap(aplerr.DOMAIN, merr, "cannot marshal workspace archive")
	}
	path := wsid + ".xml"
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return aplerr.Wrap(aplerr.DOMAIN, err, "cannot write workspace archive %s", path)
	}
	s.ws.WSID = wsid
	if s.catalog != nil {
		if err := s.catalog.RecordSave(wsid, path, version, when); err != nil {
			return err
		}
	}
	fmt.Fprintf(w, "SAVED %s (%s)\n", wsid, humanize.Bytes(uint64(len(body))))
	return nil
}

// cmdLoad implements `)LOAD wsid`: resolve wsid to an archive file (via the
// catalog, or treat the argument as a literal path if the catalog can't
// place it), replace the workspace wholesale with its contents.
func (s *session) cmdLoad(w io.Writer, args []string) *aplerr.Error {
	if len(args) == 0 {
		return aplerr.New(aplerr.SYNTAX, ")LOAD requires a workspace name")
	}
	wsid := args[0]
	path := wsid
	if candidate := wsid + ".xml"; fileExists(candidate) {
		path = candidate
	}
	if s.catalog != nil {
		if resolved, rerr := s.catalog.Resolve(wsid); rerr == nil {
			path = resolved
		}
	}
	body, rerr := os.ReadFile(path)
	if rerr != nil {
		return aplerr.Wrap(aplerr.VALUE, rerr, "cannot load workspace %s", wsid)
	}
	var archive serialize.Archive
	if uerr := xml.Unmarshal(body, &archive); uerr != nil {
		return aplerr.Wrap(aplerr.DOMAIN, uerr, "cannot parse workspace archive %s", path)
	}
	vars, lerr := serialize.LoadArchive(&archive)
	if lerr != nil {
		return lerr
	}
	s.ws.Clear()
	s.ws.WSID = archive.Name
	for name, v := range vars {
		if serr := s.ws.Set(name, v); serr != nil {
			return serr
		}
	}
	fmt.Fprintf(w, "LOADED %s\n", s.ws.WSID)
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
