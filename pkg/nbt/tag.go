package nbt

import (
	"fmt"
	"strconv"
	"strings"
)

// TagType is the one-byte kind identifier that precedes every named tag.
type TagType byte

const (
	TagEnd TagType = iota
	TagByte
	TagShort
	TagInt
	TagLong
	TagFloat
	TagDouble
	TagByteArray
	TagString
	TagList
	TagCompound
	TagIntArray
	TagLongArray
)

var tagNames = map[TagType]string{
	TagEnd:       "TAG_End",
	TagByte:      "TAG_Byte",
	TagShort:     "TAG_Short",
	TagInt:       "TAG_Int",
	TagLong:      "TAG_Long",
	TagFloat:     "TAG_Float",
	TagDouble:    "TAG_Double",
	TagByteArray: "TAG_Byte_Array",
	TagString:    "TAG_String",
	TagList:      "TAG_List",
	TagCompound:  "TAG_Compound",
	TagIntArray:  "TAG_Int_Array",
	TagLongArray: "TAG_Long_Array",
}

func (t TagType) String() string {
	if name, ok := tagNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TAG_Unknown(%d)", byte(t))
}

// Valid reports whether t is a known tag kind
func (t TagType) Valid() bool {
	return t <= TagLongArray
}

// Tag is any value that can appear in a tree.
type Tag interface {
	Type() TagType
}

type (
	Byte      int8
	Short     int16
	Int       int32
	Long      int64
	Float     float32
	Double    float64
	ByteArray []byte
	String    string
	IntArray  []int32
	LongArray []int64
)

func (Byte) Type() TagType      { return TagByte }
func (Short) Type() TagType     { return TagShort }
func (Int) Type() TagType       { return TagInt }
func (Long) Type() TagType      { return TagLong }
func (Float) Type() TagType     { return TagFloat }
func (Double) Type() TagType    { return TagDouble }
func (ByteArray) Type() TagType { return TagByteArray }
func (String) Type() TagType    { return TagString }
func (IntArray) Type() TagType  { return TagIntArray }
func (LongArray) Type() TagType { return TagLongArray }

// List is a homogeneous sequence. An empty list may carry TagEnd as its
// element type; the encoder preserves whatever ElemType holds.
type List struct {
	ElemType TagType
	Items    []Tag
}

func (*List) Type() TagType { return TagList }

// NewList creates an empty list of the given element type
func NewList(elem TagType) *List {
	return &List{ElemType: elem}
}

// Append adds a tag, rejecting one of the wrong kind
func (l *List) Append(tag Tag) error {
	if l.ElemType == TagEnd && len(l.Items) == 0 {
		l.ElemType = tag.Type()
	}
	if tag.Type() != l.ElemType {
		return fmt.Errorf("cannot append %s to list of %s", tag.Type(), l.ElemType)
	}
	l.Items = append(l.Items, tag)
	return nil
}

type entry struct {
	name string
	tag  Tag
}

// Compound is a named mapping that keeps its on-disk entry order, so a
// decode followed by an encode reproduces the original bytes.
type Compound struct {
	entries []entry
	index   map[string]int
}

func (*Compound) Type() TagType { return TagCompound }

// NewCompound creates an empty compound
func NewCompound() *Compound {
	return &Compound{index: map[string]int{}}
}

// Len returns the number of entries
func (c *Compound) Len() int {
	return len(c.entries)
}

// IsEmpty reports whether the compound has no entries
func (c *Compound) IsEmpty() bool {
	return len(c.entries) == 0
}

// Keys returns entry names in stored order
func (c *Compound) Keys() []string {
	keys := make([]string, len(c.entries))
	for i, e := range c.entries {
		keys[i] = e.name
	}
	return keys
}

// Has reports whether name is present
func (c *Compound) Has(name string) bool {
	_, ok := c.index[name]
	return ok
}

// Get returns the tag stored under name
func (c *Compound) Get(name string) (Tag, bool) {
	i, ok := c.index[name]
	if !ok {
		return nil, false
	}
	return c.entries[i].tag, true
}

// GetCompound returns name only if it is present and is a compound
func (c *Compound) GetCompound(name string) (*Compound, bool) {
	tag, ok := c.Get(name)
	if !ok {
		return nil, false
	}
	sub, ok := tag.(*Compound)
	return sub, ok
}

// GetString returns name only if it is present and is a string
func (c *Compound) GetString(name string) (string, bool) {
	tag, ok := c.Get(name)
	if !ok {
		return "", false
	}
	s, ok := tag.(String)
	return string(s), ok
}

// Lookup follows a chain of compound names from c
func (c *Compound) Lookup(path ...string) (*Compound, bool) {
	cur := c
	for _, name := range path {
		next, ok := cur.GetCompound(name)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

// Put stores tag under name. An existing entry keeps its position.
func (c *Compound) Put(name string, tag Tag) {
	if c.index == nil {
		c.index = map[string]int{}
	}
	if i, ok := c.index[name]; ok {
		c.entries[i].tag = tag
		return
	}
	c.index[name] = len(c.entries)
	c.entries = append(c.entries, entry{name: name, tag: tag})
}

// PutString stores a string under name
func (c *Compound) PutString(name, value string) {
	c.Put(name, String(value))
}

// Delete removes name, reporting whether it was present
func (c *Compound) Delete(name string) bool {
	i, ok := c.index[name]
	if !ok {
		return false
	}
	c.entries = append(c.entries[:i], c.entries[i+1:]...)
	delete(c.index, name)
	for j := i; j < len(c.entries); j++ {
		c.index[c.entries[j].name] = j
	}
	return true
}

// Each calls fn for every entry in stored order
func (c *Compound) Each(fn func(name string, tag Tag)) {
	for _, e := range c.entries {
		fn(e.name, e.tag)
	}
}

// String renders the compound in a compact SNBT-like form for logs
func (c *Compound) String() string {
	var b strings.Builder
	writeSNBT(&b, c)
	return b.String()
}

func writeSNBT(b *strings.Builder, tag Tag) {
	switch v := tag.(type) {
	case *Compound:
		b.WriteByte('{')
		for i, e := range v.entries {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(quoteKey(e.name))
			b.WriteByte(':')
			writeSNBT(b, e.tag)
		}
		b.WriteByte('}')
	case *List:
		b.WriteByte('[')
		for i, item := range v.Items {
			if i > 0 {
				b.WriteByte(',')
			}
			writeSNBT(b, item)
		}
		b.WriteByte(']')
	case String:
		b.WriteString(strconv.Quote(string(v)))
	case Byte:
		fmt.Fprintf(b, "%db", v)
	case Short:
		fmt.Fprintf(b, "%ds", v)
	case Int:
		fmt.Fprintf(b, "%d", v)
	case Long:
		fmt.Fprintf(b, "%dL", v)
	case Float:
		fmt.Fprintf(b, "%gf", v)
	case Double:
		fmt.Fprintf(b, "%gd", v)
	case ByteArray:
		fmt.Fprintf(b, "[B;%d bytes]", len(v))
	case IntArray:
		fmt.Fprintf(b, "[I;%d ints]", len(v))
	case LongArray:
		fmt.Fprintf(b, "[L;%d longs]", len(v))
	}
}

func quoteKey(name string) string {
	for _, r := range name {
		if !(r == '_' || r == '-' || r == '.' || r == '+' ||
			(r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')) {
			return strconv.Quote(name)
		}
	}
	if name == "" {
		return `""`
	}
	return name
}
