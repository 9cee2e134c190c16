package classfile

import "encoding/binary"

// byteWriter builds raw big-endian class file bytes for tests.
type byteWriter struct {
	b []byte
}

func (w *byteWriter) u1(v uint8) {
	w.b = append(w.b, v)
}

func (w *byteWriter) u2(v uint16) {
	w.b = binary.BigEndian.AppendUint16(w.b, v)
}

func (w *byteWriter) u4(v uint32) {
	w.b = binary.BigEndian.AppendUint32(w.b, v)
}

func (w *byteWriter) raw(p []byte) {
	w.b = append(w.b, p...)
}

// attr appends a name_index + length-prefixed attribute record.
func (w *byteWriter) attr(nameIndex uint16, info []byte) {
	w.u2(nameIndex)
	w.u4(uint32(len(info)))
	w.raw(info)
}

// cpBuilder assembles constant pool entries and hands out their 1-based
// indices, accounting for the two slots a Long or Double occupies.
type cpBuilder struct {
	w    byteWriter
	next uint16
}

func newCpBuilder() *cpBuilder {
	return &cpBuilder{next: 1}
}

// count returns the value of the constant_pool_count field.
func (b *cpBuilder) count() uint16 {
	return b.next
}

func (b *cpBuilder) take(slots uint16) uint16 {
	idx := b.next
	b.next += slots
	return idx
}

func (b *cpBuilder) utf8(s string) uint16 {
	b.w.u1(TagUtf8)
	b.w.u2(uint16(len(s)))
	b.w.raw([]byte(s))
	return b.take(1)
}

func (b *cpBuilder) utf8Raw(raw []byte) uint16 {
	b.w.u1(TagUtf8)
	b.w.u2(uint16(len(raw)))
	b.w.raw(raw)
	return b.take(1)
}

func (b *cpBuilder) integer(v int32) uint16 {
	b.w.u1(TagInteger)
	b.w.u4(uint32(v))
	return b.take(1)
}

func (b *cpBuilder) long(v int64) uint16 {
	b.w.u1(TagLong)
	b.w.u4(uint32(uint64(v) >> 32))
	b.w.u4(uint32(uint64(v)))
	return b.take(2)
}

func (b *cpBuilder) double(bits uint64) uint16 {
	b.w.u1(TagDouble)
	b.w.u4(uint32(bits >> 32))
	b.w.u4(uint32(bits))
	return b.take(2)
}

func (b *cpBuilder) class(nameIndex uint16) uint16 {
	b.w.u1(TagClass)
	b.w.u2(nameIndex)
	return b.take(1)
}

func (b *cpBuilder) str(stringIndex uint16) uint16 {
	b.w.u1(TagString)
	b.w.u2(stringIndex)
	return b.take(1)
}

func (b *cpBuilder) ref(tag uint8, classIndex, natIndex uint16) uint16 {
	b.w.u1(tag)
	b.w.u2(classIndex)
	b.w.u2(natIndex)
	return b.take(1)
}

func (b *cpBuilder) nameAndType(nameIndex, descriptorIndex uint16) uint16 {
	b.w.u1(TagNameAndType)
	b.w.u2(nameIndex)
	b.w.u2(descriptorIndex)
	return b.take(1)
}

func (b *cpBuilder) methodHandle(kind uint8, refIndex uint16) uint16 {
	b.w.u1(TagMethodHandle)
	b.w.u1(kind)
	b.w.u2(refIndex)
	return b.take(1)
}

func (b *cpBuilder) methodType(descriptorIndex uint16) uint16 {
	b.w.u1(TagMethodType)
	b.w.u2(descriptorIndex)
	return b.take(1)
}

func (b *cpBuilder) dynamic(tag uint8, bsmIndex, natIndex uint16) uint16 {
	b.w.u1(tag)
	b.w.u2(bsmIndex)
	b.w.u2(natIndex)
	return b.take(1)
}

func (b *cpBuilder) module(nameIndex uint16) uint16 {
	b.w.u1(TagModule)
	b.w.u2(nameIndex)
	return b.take(1)
}

func (b *cpBuilder) pkg(nameIndex uint16) uint16 {
	b.w.u1(TagPackage)
	b.w.u2(nameIndex)
	return b.take(1)
}

// poolBytes returns the constant_pool_count field followed by the entries.
func (b *cpBuilder) poolBytes() []byte {
	var w byteWriter
	w.u2(b.count())
	w.raw(b.w.b)
	return w.b
}

// minimalClassBytes builds the smallest well-formed class: a pool holding
// only the names and Class entries for this_class/super_class, and zero
// interfaces, fields, methods and attributes.
func minimalClassBytes() []byte {
	cp := newCpBuilder()
	utfTest := cp.utf8("Test")
	utfObject := cp.utf8("java/lang/Object")
	classTest := cp.class(utfTest)
	classObject := cp.class(utfObject)

	var w byteWriter
	w.u4(classMagic)
	w.u2(0)  // minor
	w.u2(52) // major (Java 8)
	w.raw(cp.poolBytes())
	w.u2(0x0021)
	w.u2(classTest)
	w.u2(classObject)
	w.u2(0) // interfaces
	w.u2(0) // fields
	w.u2(0) // methods
	w.u2(0) // attributes
	return w.b
}
