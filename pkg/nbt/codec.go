package nbt

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/arthur-debert/endfix/pkg/errors"
)

const (
	// MaxDepth bounds compound/list nesting
	MaxDepth = 512

	// MaxUncompressedSize bounds how much a compressed stream may inflate to
	MaxUncompressedSize = 64 << 20
)

// ReadCompressed decodes a gzip-compressed tree whose root is a compound.
func ReadCompressed(r io.Reader) (string, *Compound, error) {
	zr, err := gzip.NewReader(r)
	if err != nil {
		return "", nil, errors.Wrap(err, errors.ErrNBTDecode, "not a gzip stream")
	}
	defer func() { _ = zr.Close() }()

	data, err := io.ReadAll(io.LimitReader(zr, MaxUncompressedSize+1))
	if err != nil {
		return "", nil, errors.Wrap(err, errors.ErrNBTDecode, "failed to inflate")
	}
	if len(data) > MaxUncompressedSize {
		return "", nil, errors.Newf(errors.ErrNBTDecode, "inflated size exceeds %d bytes", MaxUncompressedSize)
	}
	return Decode(data)
}

// WriteCompressed gzip-compresses and writes a tree rooted at root
func WriteCompressed(w io.Writer, name string, root *Compound) error {
	zw := gzip.NewWriter(w)
	if err := Write(zw, name, root); err != nil {
		_ = zw.Close()
		return err
	}
	if err := zw.Close(); err != nil {
		return errors.Wrap(err, errors.ErrNBTEncode, "failed to finish gzip stream")
	}
	return nil
}

// Decode parses an uncompressed tree whose root is a compound.
// Trailing bytes after the root are ignored.
func Decode(data []byte) (string, *Compound, error) {
	d := &decoder{buf: data}

	t, err := d.u8()
	if err != nil {
		return "", nil, d.fail(err)
	}
	if TagType(t) != TagCompound {
		return "", nil, errors.Newf(errors.ErrNBTDecode, "root tag is %s, want %s", TagType(t), TagCompound)
	}
	name, err := d.str()
	if err != nil {
		return "", nil, d.fail(err)
	}
	root, err := d.compound()
	if err != nil {
		return "", nil, d.fail(err)
	}
	return name, root, nil
}

// Encode serialises a tree without compression
func Encode(name string, root *Compound) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, name, root); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write serialises a tree without compression
func Write(w io.Writer, name string, root *Compound) error {
	if root == nil {
		return errors.New(errors.ErrNBTEncode, "nil root compound")
	}
	bw := bufio.NewWriter(w)
	e := &encoder{w: bw}
	e.u8(byte(TagCompound))
	e.str(name)
	e.compound(root, 0)
	if e.err != nil {
		return errors.Wrap(e.err, errors.ErrNBTEncode, "failed to encode tree")
	}
	if err := bw.Flush(); err != nil {
		return errors.Wrap(err, errors.ErrNBTEncode, "failed to flush tree")
	}
	return nil
}

type decoder struct {
	buf   []byte
	off   int
	depth int
}

func (d *decoder) fail(err error) error {
	return errors.Wrapf(err, errors.ErrNBTDecode, "malformed tree at offset %d", d.off)
}

func (d *decoder) take(n int) ([]byte, error) {
	if n < 0 || n > len(d.buf)-d.off {
		return nil, io.ErrUnexpectedEOF
	}
	b := d.buf[d.off : d.off+n]
	d.off += n
	return b, nil
}

// room rejects a count of fixed-size elements that cannot fit in what is left
func (d *decoder) room(count int32, size int) error {
	if count < 0 {
		return fmt.Errorf("negative length %d", count)
	}
	if int64(count)*int64(size) > int64(len(d.buf)-d.off) {
		return fmt.Errorf("length %d exceeds remaining input", count)
	}
	return nil
}

func (d *decoder) u8() (byte, error) {
	b, err := d.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (d *decoder) u16() (uint16, error) {
	b, err := d.take(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

func (d *decoder) u32() (uint32, error) {
	b, err := d.take(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

func (d *decoder) u64() (uint64, error) {
	b, err := d.take(8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b), nil
}

// str reads a length-prefixed string. The bytes are kept as-is, so modified
// UTF-8 sequences survive a round trip untouched.
func (d *decoder) str() (string, error) {
	n, err := d.u16()
	if err != nil {
		return "", err
	}
	b, err := d.take(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (d *decoder) enter() error {
	d.depth++
	if d.depth > MaxDepth {
		return fmt.Errorf("nesting deeper than %d", MaxDepth)
	}
	return nil
}

func (d *decoder) compound() (*Compound, error) {
	if err := d.enter(); err != nil {
		return nil, err
	}
	defer func() { d.depth-- }()

	c := NewCompound()
	for {
		t, err := d.u8()
		if err != nil {
			return nil, err
		}
		tt := TagType(t)
		if tt == TagEnd {
			return c, nil
		}
		if !tt.Valid() {
			return nil, fmt.Errorf("unknown tag type %d", t)
		}
		name, err := d.str()
		if err != nil {
			return nil, err
		}
		tag, err := d.payload(tt)
		if err != nil {
			return nil, fmt.Errorf("%s %q: %w", tt, name, err)
		}
		c.Put(name, tag)
	}
}

func (d *decoder) list() (*List, error) {
	if err := d.enter(); err != nil {
		return nil, err
	}
	defer func() { d.depth-- }()

	t, err := d.u8()
	if err != nil {
		return nil, err
	}
	elem := TagType(t)
	if !elem.Valid() {
		return nil, fmt.Errorf("unknown list element type %d", t)
	}
	n, err := d.u32()
	if err != nil {
		return nil, err
	}
	count := int32(n)
	if err := d.room(count, minPayloadSize(elem)); err != nil {
		return nil, err
	}
	if elem == TagEnd && count > 0 {
		return nil, fmt.Errorf("list of %d elements has no element type", count)
	}

	l := &List{ElemType: elem, Items: make([]Tag, 0, count)}
	for i := int32(0); i < count; i++ {
		tag, err := d.payload(elem)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		l.Items = append(l.Items, tag)
	}
	return l, nil
}

func (d *decoder) payload(t TagType) (Tag, error) {
	switch t {
	case TagByte:
		v, err := d.u8()
		return Byte(int8(v)), err
	case TagShort:
		v, err := d.u16()
		return Short(int16(v)), err
	case TagInt:
		v, err := d.u32()
		return Int(int32(v)), err
	case TagLong:
		v, err := d.u64()
		return Long(int64(v)), err
	case TagFloat:
		v, err := d.u32()
		return Float(math.Float32frombits(v)), err
	case TagDouble:
		v, err := d.u64()
		return Double(math.Float64frombits(v)), err
	case TagString:
		v, err := d.str()
		return String(v), err
	case TagByteArray:
		n, err := d.u32()
		if err != nil {
			return nil, err
		}
		if err := d.room(int32(n), 1); err != nil {
			return nil, err
		}
		b, _ := d.take(int(int32(n)))
		out := make(ByteArray, len(b))
		copy(out, b)
		return out, nil
	case TagIntArray:
		n, err := d.u32()
		if err != nil {
			return nil, err
		}
		if err := d.room(int32(n), 4); err != nil {
			return nil, err
		}
		out := make(IntArray, int32(n))
		for i := range out {
			v, _ := d.u32()
			out[i] = int32(v)
		}
		return out, nil
	case TagLongArray:
		n, err := d.u32()
		if err != nil {
			return nil, err
		}
		if err := d.room(int32(n), 8); err != nil {
			return nil, err
		}
		out := make(LongArray, int32(n))
		for i := range out {
			v, _ := d.u64()
			out[i] = int64(v)
		}
		return out, nil
	case TagList:
		return d.list()
	case TagCompound:
		return d.compound()
	default:
		return nil, fmt.Errorf("unexpected tag type %s", t)
	}
}

// minPayloadSize is the smallest encoding of one payload of type t
func minPayloadSize(t TagType) int {
	switch t {
	case TagByte, TagCompound:
		return 1
	case TagShort, TagString:
		return 2
	case TagInt, TagFloat, TagByteArray, TagIntArray, TagLongArray:
		return 4
	case TagList:
		return 5
	case TagLong, TagDouble:
		return 8
	default:
		return 0
	}
}

type encoder struct {
	w   *bufio.Writer
	err error
}

func (e *encoder) write(b []byte) {
	if e.err != nil {
		return
	}
	_, e.err = e.w.Write(b)
}

func (e *encoder) u8(v byte) {
	if e.err != nil {
		return
	}
	e.err = e.w.WriteByte(v)
}

func (e *encoder) u16(v uint16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	e.write(b[:])
}

func (e *encoder) u32(v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	e.write(b[:])
}

func (e *encoder) u64(v uint64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	e.write(b[:])
}

func (e *encoder) str(s string) {
	if len(s) > math.MaxUint16 {
		e.setErr(fmt.Errorf("string of %d bytes exceeds %d", len(s), math.MaxUint16))
		return
	}
	e.u16(uint16(len(s)))
	e.write([]byte(s))
}

func (e *encoder) setErr(err error) {
	if e.err == nil {
		e.err = err
	}
}

func (e *encoder) compound(c *Compound, depth int) {
	if depth >= MaxDepth {
		e.setErr(fmt.Errorf("nesting deeper than %d", MaxDepth))
		return
	}
	for _, en := range c.entries {
		if en.tag == nil {
			e.setErr(fmt.Errorf("entry %q has no value", en.name))
			return
		}
		e.u8(byte(en.tag.Type()))
		e.str(en.name)
		e.payload(en.tag, depth+1)
	}
	e.u8(byte(TagEnd))
}

func (e *encoder) payload(tag Tag, depth int) {
	switch v := tag.(type) {
	case Byte:
		e.u8(byte(v))
	case Short:
		e.u16(uint16(v))
	case Int:
		e.u32(uint32(v))
	case Long:
		e.u64(uint64(v))
	case Float:
		e.u32(math.Float32bits(float32(v)))
	case Double:
		e.u64(math.Float64bits(float64(v)))
	case String:
		e.str(string(v))
	case ByteArray:
		e.u32(uint32(len(v)))
		e.write(v)
	case IntArray:
		e.u32(uint32(len(v)))
		for _, x := range v {
			e.u32(uint32(x))
		}
	case LongArray:
		e.u32(uint32(len(v)))
		for _, x := range v {
			e.u64(uint64(x))
		}
	case *List:
		if depth >= MaxDepth {
			e.setErr(fmt.Errorf("nesting deeper than %d", MaxDepth))
			return
		}
		if v.ElemType == TagEnd && len(v.Items) > 0 {
			e.setErr(fmt.Errorf("list of %d elements has no element type", len(v.Items)))
			return
		}
		e.u8(byte(v.ElemType))
		e.u32(uint32(len(v.Items)))
		for i, item := range v.Items {
			if item == nil || item.Type() != v.ElemType {
				e.setErr(fmt.Errorf("list element %d is not %s", i, v.ElemType))
				return
			}
			e.payload(item, depth+1)
		}
	case *Compound:
		e.compound(v, depth)
	default:
		e.setErr(fmt.Errorf("unsupported tag %T", tag))
	}
}
