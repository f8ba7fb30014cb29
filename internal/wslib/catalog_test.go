package wslib

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestRecordAndLookupWorkspace(t *testing.T) {
	c, err := Open("")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer c.Close()

	when := time.Date(2026, 7, 31, 12, 0, 0, 0, time.UTC)
	if err := c.RecordSave("MYWS", "/tmp/myws.xml", "rev1", when); err != nil {
		t.Fatalf("record save: %v", err)
	}

	e, ok, err := c.Lookup("MYWS")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if !ok {
		t.Fatalf("expected MYWS to be catalogued")
	}
	if e.Path != "/tmp/myws.xml" || e.Revision != "rev1" {
		t.Fatalf("entry = %+v, unexpected", e)
	}
}

func TestLookupMissingWorkspace(t *testing.T) {
	c, err := Open("")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer c.Close()

	_, ok, err := c.Lookup("NOSUCH")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if ok {
		t.Fatalf("expected no entry for NOSUCH")
	}
}

func TestRecordSaveOverwritesPreviousEntry(t *testing.T) {
	c, err := Open("")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer c.Close()

	now := time.Now()
	c.RecordSave("MYWS", "/tmp/old.xml", "rev1", now)
	c.RecordSave("MYWS", "/tmp/new.xml", "rev2", now)

	e, ok, err := c.Lookup("MYWS")
	if err != nil || !ok {
		t.Fatalf("lookup: ok=%v err=%v", ok, err)
	}
	if e.Path != "/tmp/new.xml" || e.Revision != "rev2" {
		t.Fatalf("entry = %+v, want overwritten to new.xml/rev2", e)
	}
}

func TestSearchPathAddAndList(t *testing.T) {
	c, err := Open("")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer c.Close()

	if err := c.AddSearchDir("/lib/a"); err != nil {
		t.Fatalf("add a: %v", err)
	}
	if err := c.AddSearchDir("/lib/b"); err != nil {
		t.Fatalf("add b: %v", err)
	}
	if err := c.AddSearchDir("/lib/a"); err != nil {
		t.Fatalf("duplicate add should be ignored, got: %v", err)
	}

	dirs, err := c.SearchPath()
	if err != nil {
		t.Fatalf("search path: %v", err)
	}
	if len(dirs) != 2 || dirs[0] != "/lib/a" || dirs[1] != "/lib/b" {
		t.Fatalf("search path = %v, want [/lib/a /lib/b]", dirs)
	}
}

func TestResolveViaSearchPath(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "LIBWS.xml")
	if err := os.WriteFile(archive, []byte("<Workspace/>"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	c, err := Open("")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer c.Close()

	if err := c.AddSearchDir(dir); err != nil {
		t.Fatalf("add search dir: %v", err)
	}

	path, rerr := c.Resolve("LIBWS")
	if rerr != nil {
		t.Fatalf("resolve: %v", rerr)
	}
	if path != archive {
		t.Fatalf("resolved path = %s, want %s", path, archive)
	}
}

func TestResolveNotFound(t *testing.T) {
	c, err := Open("")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer c.Close()

	if _, rerr := c.Resolve("NOWHERE"); rerr == nil {
		t.Fatalf("expected resolve to fail for an uncatalogued, unfound workspace")
	}
}
