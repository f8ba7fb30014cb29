package serialize

import (
	"testing"

	"goapl/internal/array"
	"goapl/internal/cell"
)

func TestCDRRoundTripInt(t *testing.T) {
	v := array.NewVector([]cell.Cell{cell.NewInt(1), cell.NewInt(2), cell.NewInt(3)})
	enc, err := EncodeCDR(v)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	dec, derr := DecodeCDR(enc)
	if derr != nil {
		t.Fatalf("decode: %v", derr)
	}
	if dec.ElementCount() != 3 {
		t.Fatalf("element count = %d, want 3", dec.ElementCount())
	}
	for i := 0; i < 3; i++ {
		if dec.At(i).Int() != int64(i+1) {
			t.Fatalf("element %d = %v, want %d", i, dec.At(i), i+1)
		}
	}
}

func TestCDRRoundTripFloat(t *testing.T) {
	v := array.NewVector([]cell.Cell{cell.NewFloat(1.5), cell.NewFloat(-2.25)})
	enc, err := EncodeCDR(v)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	dec, derr := DecodeCDR(enc)
	if derr != nil {
		t.Fatalf("decode: %v", derr)
	}
	if dec.At(0).Float() != 1.5 || dec.At(1).Float() != -2.25 {
		t.Fatalf("got %v %v, want 1.5 -2.25", dec.At(0).Float(), dec.At(1).Float())
	}
}

func TestCDRRoundTripChar(t *testing.T) {
	v := array.NewVector([]cell.Cell{cell.NewChar('A'), cell.NewChar('B'), cell.NewChar('C')})
	enc, err := EncodeCDR(v)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	dec, derr := DecodeCDR(enc)
	if derr != nil {
		t.Fatalf("decode: %v", derr)
	}
	for i, want := range []rune{'A', 'B', 'C'} {
		if dec.At(i).Rune() != want {
			t.Fatalf("char %d = %c, want %c", i, dec.At(i).Rune(), want)
		}
	}
}

func TestCDRRoundTripNested(t *testing.T) {
	inner := array.NewVector([]cell.Cell{cell.NewInt(7), cell.NewInt(8)})
	outer := array.NewVector([]cell.Cell{cell.NewPointer(inner), cell.NewInt(9)})
	enc, err := EncodeCDR(outer)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	dec, derr := DecodeCDR(enc)
	if derr != nil {
		t.Fatalf("decode: %v", derr)
	}
	sub, ok := dec.At(0).Pointer().(*array.Value)
	if !ok {
		t.Fatalf("element 0 should be a nested array")
	}
	if sub.At(0).Int() != 7 || sub.At(1).Int() != 8 {
		t.Fatalf("nested elements = %v %v, want 7 8", sub.At(0), sub.At(1))
	}
	if dec.At(1).Int() != 9 {
		t.Fatalf("outer element 1 = %v, want 9", dec.At(1))
	}
}

func TestXMLArchiveRoundTrip(t *testing.T) {
	vars := map[string]*array.Value{
		"X": array.NewScalar(cell.NewInt(42)),
		"V": array.NewVector([]cell.Cell{cell.NewInt(1), cell.NewInt(2)}),
	}
	a, err := BuildArchive("TESTWS", vars, ArchiveMeta{Timestamp: "2026-07-31T00:00:00Z", ToolRevision: "test"})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	bytes, merr := Marshal(a)
	if merr != nil {
		t.Fatalf("marshal: %v", merr)
	}
	if len(bytes) == 0 {
		t.Fatalf("marshal produced no output")
	}

	loaded, lerr := LoadArchive(a)
	if lerr != nil {
		t.Fatalf("load: %v", lerr)
	}
	if loaded["X"].At(0).Int() != 42 {
		t.Fatalf("X = %v, want 42", loaded["X"].At(0))
	}
	if loaded["V"].At(0).Int() != 1 || loaded["V"].At(1).Int() != 2 {
		t.Fatalf("V = %v, want 1 2", loaded["V"].Ravel())
	}
}

func TestXMLArchiveRejectsCycles(t *testing.T) {
	outer, err := array.New(array.Shape{1})
	if err != nil {
		t.Fatal(err)
	}
	outer.Set(0, cell.NewPointer(outer))
	_, berr := BuildArchive("CYCLIC", map[string]*array.Value{"X": outer}, ArchiveMeta{})
	if berr == nil {
		t.Fatalf("cyclic value should be rejected")
	}
}

func TestTransferBinary(t *testing.T) {
	vars := map[string]*array.Value{"X": array.NewScalar(cell.NewInt(5))}
	out, err := TransferBinary(vars)
	if err != nil {
		t.Fatalf("transfer: %v", err)
	}
	if len(out) < 16 {
		t.Fatalf("CDR output too short: %d bytes", len(out))
	}
}
