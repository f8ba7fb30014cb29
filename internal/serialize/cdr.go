// Package serialize implements C11 of spec.md §4.12: the XML archive
// (`)SAVE`/`)LOAD`) and CDR binary (`3 ⎕TF`) wire formats. Both are
// bespoke formats defined byte-for-byte by the spec rather than generic
// document formats, so both are built on stdlib encoding/xml and
// encoding/binary — there is no third-party library in the pack for a
// format nobody but this interpreter produces or consumes (see DESIGN.md).
package serialize

import (
	"bytes"
	"encoding/binary"
	"math"

	"goapl/internal/aplerr"
	"goapl/internal/array"
	"goapl/internal/cell"
)

// CDRType is the CDR header's 1-byte type discriminant (spec.md §4.12).
type CDRType byte

const (
	CDRBits CDRType = iota
	CDRInt32
	CDRFloat64
	CDRComplex
	CDRChar
	CDRUnicode
	CDRAPV
	CDRNested
)

// classify picks the narrowest CDR type that losslessly represents every
// cell of v, the way the original chooses a packed representation rather
// than always falling back to nested.
func classify(v *array.Value) CDRType {
	allBool, allInt, allFloat, allChar, allComplex := true, true, true, true, true
	for _, c := range v.Ravel() {
		switch c.Tag() {
		case cell.Int:
			allChar = false
			if c.Int() != 0 && c.Int() != 1 {
				allBool = false
			}
			if c.Int() < math.MinInt32 || c.Int() > math.MaxInt32 {
				allInt = false
			}
		case cell.Float:
			allBool, allInt, allChar = false, false, false
		case cell.Char:
			allBool, allInt, allFloat, allComplex = false, false, false, false
			if c.Rune() > 0xFF {
				// still representable as CDRUnicode below; CDRChar needs
				// a single byte per element.
			}
		case cell.Complex:
			allBool, allInt, allFloat, allChar = false, false, false, false
		default:
			return CDRNested
		}
	}
	switch {
	case allBool:
		return CDRBits
	case allChar:
		for _, c := range v.Ravel() {
			if c.Rune() > 0xFF {
				return CDRUnicode
			}
		}
		return CDRChar
	case allInt:
		return CDRInt32
	case allFloat:
		return CDRFloat64
	case allComplex:
		return CDRComplex
	}
	return CDRNested
}

// EncodeCDR implements 3 ⎕TF's binary form for a single Value: 16-byte
// header (pointer-alignment marker, byte length, element count, type,
// rank, 2 reserved bytes), rank big-endian 4-byte shape dimensions, then
// the type-specific body (spec.md §4.12).
func EncodeCDR(v *array.Value) ([]byte, *aplerr.Error) {
	if err := v.CheckValue(); err != nil {
		return nil, err
	}
	t := classify(v)
	var body bytes.Buffer
	if err := encodeBody(&body, v, t); err != nil {
		return nil, err
	}
	rank := v.Rank()
	if rank > 255 {
		return nil, aplerr.New(aplerr.LENGTH, "rank %d exceeds CDR rank byte", rank)
	}

	var out bytes.Buffer
	out.Write([]byte{0xC0, 0xDE, 0xC0, 0xDE}) // pointer-alignment marker
	binary.Write(&out, binary.BigEndian, uint32(0))
	binary.Write(&out, binary.BigEndian, uint32(v.ElementCount()))
	out.WriteByte(byte(t))
	out.WriteByte(byte(rank))
	out.Write([]byte{0, 0}) // reserved

	for _, d := range v.Shape() {
		binary.Write(&out, binary.BigEndian, uint32(d))
	}
	out.Write(body.Bytes())

	buf := out.Bytes()
	binary.BigEndian.PutUint32(buf[4:8], uint32(len(buf)))
	return buf, nil
}

func encodeBody(w *bytes.Buffer, v *array.Value, t CDRType) *aplerr.Error {
	ravel := v.Ravel()
	switch t {
	case CDRBits:
		var cur byte
		var nbits int
		for _, c := range ravel {
			cur <<= 1
			if c.Int() != 0 {
				cur |= 1
			}
			nbits++
			if nbits == 8 {
				w.WriteByte(cur)
				cur, nbits = 0, 0
			}
		}
		if nbits > 0 {
			cur <<= uint(8 - nbits)
			w.WriteByte(cur)
		}
	case CDRInt32:
		for _, c := range ravel {
			binary.Write(w, binary.LittleEndian, int32(c.Int()))
		}
	case CDRFloat64:
		for _, c := range ravel {
			binary.Write(w, binary.LittleEndian, c.Float())
		}
	case CDRComplex:
		for _, c := range ravel {
			z := c.Complex()
			binary.Write(w, binary.LittleEndian, real(z))
			binary.Write(w, binary.LittleEndian, imag(z))
		}
	case CDRChar:
		for _, c := range ravel {
			w.WriteByte(byte(c.Rune()))
		}
	case CDRUnicode:
		for _, c := range ravel {
			binary.Write(w, binary.BigEndian, uint32(c.Rune()))
		}
	case CDRNested:
		offsets := make([]uint32, len(ravel))
		var subBody bytes.Buffer
		for i, c := range ravel {
			offsets[i] = uint32(subBody.Len())
			sub, ok := c.Pointer().(*array.Value)
			if c.IsNumeric() || c.IsChar() {
				// a simple cell in a nested ravel travels as a rank-0 sub-record
				sub, ok = array.NewScalar(c), true
			}
			if !ok {
				return aplerr.New(aplerr.DOMAIN, "cannot encode non-array nested cell")
			}
			enc, err := EncodeCDR(sub)
			if err != nil {
				return err
			}
			subBody.Write(enc)
		}
		for _, off := range offsets {
			binary.Write(w, binary.BigEndian, off)
		}
		w.Write(subBody.Bytes())
		pad := (16 - w.Len()%16) % 16
		w.Write(make([]byte, pad))
	}
	return nil
}

// DecodeCDR parses a single top-level CDR record back into a Value.
func DecodeCDR(data []byte) (*array.Value, *aplerr.Error) {
	if len(data) < 16 {
		return nil, aplerr.New(aplerr.SYNTAX, "CDR record too short")
	}
	count := binary.BigEndian.Uint32(data[8:12])
	t := CDRType(data[12])
	rank := int(data[13])
	pos := 16
	shape := make(array.Shape, rank)
	for i := 0; i < rank; i++ {
		if pos+4 > len(data) {
			return nil, aplerr.New(aplerr.SYNTAX, "CDR shape truncated")
		}
		shape[i] = int(binary.BigEndian.Uint32(data[pos : pos+4]))
		pos += 4
	}
	v, err := array.New(shape)
	if err != nil {
		return nil, err
	}
	return decodeBody(v, data[pos:], t, int(count))
}

func decodeBody(v *array.Value, body []byte, t CDRType, count int) (*array.Value, *aplerr.Error) {
	switch t {
	case CDRBits:
		for i := 0; i < count; i++ {
			byteIdx, bitIdx := i/8, 7-i%8
			if byteIdx >= len(body) {
				return nil, aplerr.New(aplerr.SYNTAX, "CDR bits truncated")
			}
			bit := (body[byteIdx] >> uint(bitIdx)) & 1
			v.Set(i, cell.NewInt(int64(bit)))
		}
	case CDRInt32:
		for i := 0; i < count; i++ {
			off := i * 4
			if off+4 > len(body) {
				return nil, aplerr.New(aplerr.SYNTAX, "CDR int32 truncated")
			}
			n := int32(binary.LittleEndian.Uint32(body[off : off+4]))
			v.Set(i, cell.NewInt(int64(n)))
		}
	case CDRFloat64:
		for i := 0; i < count; i++ {
			off := i * 8
			if off+8 > len(body) {
				return nil, aplerr.New(aplerr.SYNTAX, "CDR float64 truncated")
			}
			bits := binary.LittleEndian.Uint64(body[off : off+8])
			v.Set(i, cell.NewFloat(math.Float64frombits(bits)))
		}
	case CDRComplex:
		for i := 0; i < count; i++ {
			off := i * 16
			if off+16 > len(body) {
				return nil, aplerr.New(aplerr.SYNTAX, "CDR complex truncated")
			}
			re := math.Float64frombits(binary.LittleEndian.Uint64(body[off : off+8]))
			im := math.Float64frombits(binary.LittleEndian.Uint64(body[off+8 : off+16]))
			v.Set(i, cell.NewComplex(complex(re, im)))
		}
	case CDRChar:
		for i := 0; i < count; i++ {
			if i >= len(body) {
				return nil, aplerr.New(aplerr.SYNTAX, "CDR char truncated")
			}
			v.Set(i, cell.NewChar(rune(body[i])))
		}
	case CDRUnicode:
		for i := 0; i < count; i++ {
			off := i * 4
			if off+4 > len(body) {
				return nil, aplerr.New(aplerr.SYNTAX, "CDR unicode truncated")
			}
			v.Set(i, cell.NewChar(rune(binary.BigEndian.Uint32(body[off : off+4]))))
		}
	case CDRNested:
		for i := 0; i < count; i++ {
			off := i * 4
			if off+4 > len(body) {
				return nil, aplerr.New(aplerr.SYNTAX, "CDR nested offsets truncated")
			}
			subOff := binary.BigEndian.Uint32(body[off : off+4])
			subStart := count*4 + int(subOff)
			if subStart >= len(body) {
				return nil, aplerr.New(aplerr.SYNTAX, "CDR nested sub-value out of range")
			}
			sub, err := DecodeCDR(body[subStart:])
			if err != nil {
				return nil, err
			}
			if sub.Rank() == 0 && !sub.At(0).IsNested() {
				v.Set(i, sub.At(0))
				continue
			}
			v.Set(i, cell.NewPointer(sub))
		}
	default:
		return nil, aplerr.New(aplerr.DOMAIN, "unknown CDR type %d", t)
	}
	return v, nil
}
