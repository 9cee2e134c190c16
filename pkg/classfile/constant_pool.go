package classfile

import (
	"fmt"
	"math"
	"unicode/utf8"
)

// Constant pool tags.
const (
	TagUtf8               = 1
	TagInteger            = 3
	TagFloat              = 4
	TagLong               = 5
	TagDouble             = 6
	TagClass              = 7
	TagString             = 8
	TagFieldref           = 9
	TagMethodref          = 10
	TagInterfaceMethodref = 11
	TagNameAndType        = 12
	TagMethodHandle       = 15
	TagMethodType         = 16
	TagDynamic            = 17
	TagInvokeDynamic      = 18
	TagModule             = 19
	TagPackage            = 20
)

// ConstantPoolEntry is implemented by all constant pool entry types.
type ConstantPoolEntry interface {
	Tag() uint8
}

type ConstantUtf8 struct {
	Value string
}

func (*ConstantUtf8) Tag() uint8 { return TagUtf8 }

type ConstantInteger struct {
	Value int32
}

func (*ConstantInteger) Tag() uint8 { return TagInteger }

type ConstantFloat struct {
	Value float32
}

func (*ConstantFloat) Tag() uint8 { return TagFloat }

type ConstantLong struct {
	Value int64
}

func (*ConstantLong) Tag() uint8 { return TagLong }

type ConstantDouble struct {
	Value float64
}

func (*ConstantDouble) Tag() uint8 { return TagDouble }

type ConstantClass struct {
	NameIndex uint16
}

func (*ConstantClass) Tag() uint8 { return TagClass }

type ConstantString struct {
	StringIndex uint16
}

func (*ConstantString) Tag() uint8 { return TagString }

type ConstantFieldref struct {
	ClassIndex       uint16
	NameAndTypeIndex uint16
}

func (*ConstantFieldref) Tag() uint8 { return TagFieldref }

type ConstantMethodref struct {
	ClassIndex       uint16
	NameAndTypeIndex uint16
}

func (*ConstantMethodref) Tag() uint8 { return TagMethodref }

type ConstantInterfaceMethodref struct {
	ClassIndex       uint16
	NameAndTypeIndex uint16
}

func (*ConstantInterfaceMethodref) Tag() uint8 { return TagInterfaceMethodref }

type ConstantNameAndType struct {
	NameIndex       uint16
	DescriptorIndex uint16
}

func (*ConstantNameAndType) Tag() uint8 { return TagNameAndType }

type ConstantMethodHandle struct {
	ReferenceKind  uint8
	ReferenceIndex uint16
}

func (*ConstantMethodHandle) Tag() uint8 { return TagMethodHandle }

type ConstantMethodType struct {
	DescriptorIndex uint16
}

func (*ConstantMethodType) Tag() uint8 { return TagMethodType }

type ConstantDynamic struct {
	BootstrapMethodAttrIndex uint16
	NameAndTypeIndex         uint16
}

func (*ConstantDynamic) Tag() uint8 { return TagDynamic }

type ConstantInvokeDynamic struct {
	BootstrapMethodAttrIndex uint16
	NameAndTypeIndex         uint16
}

func (*ConstantInvokeDynamic) Tag() uint8 { return TagInvokeDynamic }

type ConstantModule struct {
	NameIndex uint16
}

func (*ConstantModule) Tag() uint8 { return TagModule }

type ConstantPackage struct {
	NameIndex uint16
}

func (*ConstantPackage) Tag() uint8 { return TagPackage }

// ConstantPool is the 1-indexed constant table of a class file. Index 0 is
// permanently unused, and the slot after a Long or Double entry is a
// reserved hole: lookups there fail the same way out-of-range lookups do,
// and never resolve to a value.
type ConstantPool struct {
	entries []ConstantPoolEntry
}

// Entries returns the raw 1-indexed entry slice. Slot 0 and the hole after
// each Long or Double are nil.
func (cp *ConstantPool) Entries() []ConstantPoolEntry {
	return cp.entries
}

// Get returns the entry at the given index, failing on index 0,
// out-of-range indices and double-slot holes.
func (cp *ConstantPool) Get(index uint16) (ConstantPoolEntry, error) {
	if index == 0 || int(index) >= len(cp.entries) || cp.entries[index] == nil {
		return nil, fmt.Errorf("%w: %d", ErrInvalidConstantPoolIndex, index)
	}
	return cp.entries[index], nil
}

// GetUtf8 returns the Utf8 string at the given index, failing if the entry
// is missing or is not a Utf8 constant.
func (cp *ConstantPool) GetUtf8(index uint16) (string, error) {
	entry, err := cp.Get(index)
	if err != nil {
		return "", err
	}
	u, ok := entry.(*ConstantUtf8)
	if !ok {
		return "", fmt.Errorf("%w: %d is not Utf8 (tag=%d)", ErrInvalidConstantPoolIndex, index, entry.Tag())
	}
	return u.Value, nil
}

// GetClassName resolves a Class entry to its name string.
func (cp *ConstantPool) GetClassName(index uint16) (string, error) {
	entry, err := cp.Get(index)
	if err != nil {
		return "", err
	}
	class, ok := entry.(*ConstantClass)
	if !ok {
		return "", fmt.Errorf("%w: %d is not Class (tag=%d)", ErrInvalidConstantPoolIndex, index, entry.Tag())
	}
	return cp.GetUtf8(class.NameIndex)
}

// parseConstantPool reads the count-prefixed constant pool. The count field
// is one more than the number of usable slots, matching the one-based
// indexing convention.
func parseConstantPool(c *cursor, strictUTF8 bool) (ConstantPool, error) {
	count, err := c.u2()
	if err != nil {
		return ConstantPool{}, err
	}

	entries := make([]ConstantPoolEntry, count)

	for i := uint16(1); i < count; i++ {
		tag, err := c.u1()
		if err != nil {
			return ConstantPool{}, fmt.Errorf("reading tag at index %d: %w", i, err)
		}

		var entry ConstantPoolEntry
		switch tag {
		case TagUtf8:
			length, err := c.u2()
			if err != nil {
				return ConstantPool{}, fmt.Errorf("reading Utf8 length at index %d: %w", i, err)
			}
			raw, err := c.bytes(int(length))
			if err != nil {
				return ConstantPool{}, fmt.Errorf("reading Utf8 bytes at index %d: %w", i, err)
			}
			// Lenient by default: malformed sequences (including the JVM's
			// modified UTF-8 encodings) are kept verbatim in the string.
			if strictUTF8 && !utf8.Valid(raw) {
				return ConstantPool{}, fmt.Errorf("%w: at index %d", ErrInvalidUTF8, i)
			}
			entry = &ConstantUtf8{Value: string(raw)}

		case TagInteger:
			bits, err := c.u4()
			if err != nil {
				return ConstantPool{}, fmt.Errorf("reading Integer at index %d: %w", i, err)
			}
			entry = &ConstantInteger{Value: int32(bits)}

		case TagFloat:
			bits, err := c.u4()
			if err != nil {
				return ConstantPool{}, fmt.Errorf("reading Float at index %d: %w", i, err)
			}
			entry = &ConstantFloat{Value: math.Float32frombits(bits)}

		case TagLong, TagDouble:
			high, err := c.u4()
			if err != nil {
				return ConstantPool{}, fmt.Errorf("reading 8-byte constant at index %d: %w", i, err)
			}
			low, err := c.u4()
			if err != nil {
				return ConstantPool{}, fmt.Errorf("reading 8-byte constant at index %d: %w", i, err)
			}
			bits := uint64(high)<<32 | uint64(low)
			if tag == TagLong {
				entries[i] = &ConstantLong{Value: int64(bits)}
			} else {
				entries[i] = &ConstantDouble{Value: math.Float64frombits(bits)}
			}
			// 8-byte constants take two slots; the second stays nil.
			i++
			continue

		case TagClass:
			nameIndex, err := c.u2()
			if err != nil {
				return ConstantPool{}, fmt.Errorf("reading Class at index %d: %w", i, err)
			}
			entry = &ConstantClass{NameIndex: nameIndex}

		case TagString:
			stringIndex, err := c.u2()
			if err != nil {
				return ConstantPool{}, fmt.Errorf("reading String at index %d: %w", i, err)
			}
			entry = &ConstantString{StringIndex: stringIndex}

		case TagFieldref, TagMethodref, TagInterfaceMethodref:
			classIndex, err := c.u2()
			if err != nil {
				return ConstantPool{}, fmt.Errorf("reading member ref at index %d: %w", i, err)
			}
			natIndex, err := c.u2()
			if err != nil {
				return ConstantPool{}, fmt.Errorf("reading member ref at index %d: %w", i, err)
			}
			switch tag {
			case TagFieldref:
				entry = &ConstantFieldref{ClassIndex: classIndex, NameAndTypeIndex: natIndex}
			case TagMethodref:
				entry = &ConstantMethodref{ClassIndex: classIndex, NameAndTypeIndex: natIndex}
			default:
				entry = &ConstantInterfaceMethodref{ClassIndex: classIndex, NameAndTypeIndex: natIndex}
			}

		case TagNameAndType:
			nameIndex, err := c.u2()
			if err != nil {
				return ConstantPool{}, fmt.Errorf("reading NameAndType at index %d: %w", i, err)
			}
			descIndex, err := c.u2()
			if err != nil {
				return ConstantPool{}, fmt.Errorf("reading NameAndType at index %d: %w", i, err)
			}
			entry = &ConstantNameAndType{NameIndex: nameIndex, DescriptorIndex: descIndex}

		case TagMethodHandle:
			kind, err := c.u1()
			if err != nil {
				return ConstantPool{}, fmt.Errorf("reading MethodHandle at index %d: %w", i, err)
			}
			refIndex, err := c.u2()
			if err != nil {
				return ConstantPool{}, fmt.Errorf("reading MethodHandle at index %d: %w", i, err)
			}
			entry = &ConstantMethodHandle{ReferenceKind: kind, ReferenceIndex: refIndex}

		case TagMethodType:
			descIndex, err := c.u2()
			if err != nil {
				return ConstantPool{}, fmt.Errorf("reading MethodType at index %d: %w", i, err)
			}
			entry = &ConstantMethodType{DescriptorIndex: descIndex}

		case TagDynamic, TagInvokeDynamic:
			bsmIndex, err := c.u2()
			if err != nil {
				return ConstantPool{}, fmt.Errorf("reading dynamic constant at index %d: %w", i, err)
			}
			natIndex, err := c.u2()
			if err != nil {
				return ConstantPool{}, fmt.Errorf("reading dynamic constant at index %d: %w", i, err)
			}
			if tag == TagDynamic {
				entry = &ConstantDynamic{BootstrapMethodAttrIndex: bsmIndex, NameAndTypeIndex: natIndex}
			} else {
				entry = &ConstantInvokeDynamic{BootstrapMethodAttrIndex: bsmIndex, NameAndTypeIndex: natIndex}
			}

		case TagModule:
			nameIndex, err := c.u2()
			if err != nil {
				return ConstantPool{}, fmt.Errorf("reading Module at index %d: %w", i, err)
			}
			entry = &ConstantModule{NameIndex: nameIndex}

		case TagPackage:
			nameIndex, err := c.u2()
			if err != nil {
				return ConstantPool{}, fmt.Errorf("reading Package at index %d: %w", i, err)
			}
			entry = &ConstantPackage{NameIndex: nameIndex}

		default:
			return ConstantPool{}, fmt.Errorf("%w: %d at index %d", ErrInvalidConstantPoolTag, tag, i)
		}

		entries[i] = entry
	}

	return ConstantPool{entries: entries}, nil
}
