// Package classfile decodes the Java class file binary format into a
// structured, strongly typed tree. It covers the constant pool and the
// full attribute vocabulary of Java SE 8 through 27.
//
// Decoding is a pure function over an immutable byte buffer: no I/O, no
// shared state, safe to call concurrently on independent inputs. The
// instruction stream inside a Code attribute is deliberately kept as an
// opaque byte slice; this package does not verify or execute bytecode,
// and it does not write class files.
package classfile

import (
	"fmt"
	"io"
	"os"
)

const classMagic = 0xCAFEBABE

// Decoder holds decode policy. The zero value is the default decoder.
type Decoder struct {
	// StrictUTF8 rejects malformed UTF-8 in Utf8 constants with
	// ErrInvalidUTF8. The default keeps such bytes verbatim, which
	// tolerates the JVM's modified UTF-8 encoding.
	StrictUTF8 bool
}

// Parse decodes a complete class file from a byte buffer.
func Parse(data []byte) (*ClassFile, error) {
	return Decoder{}.Decode(data)
}

// ParseReader reads a class file to the end of the reader and decodes it.
func ParseReader(r io.Reader) (*ClassFile, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading class file: %w", err)
	}
	return Parse(data)
}

// ParseFile opens and decodes a .class file from the given path.
func ParseFile(path string) (*ClassFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Decode decodes a complete class file from a byte buffer. It returns
// either the fully populated tree or the first error encountered, never a
// partial result.
func (d Decoder) Decode(data []byte) (*ClassFile, error) {
	c := newCursor(data)
	cf := &ClassFile{}

	magic, err := c.u4()
	if err != nil {
		return nil, fmt.Errorf("reading magic number: %w", err)
	}
	if magic != classMagic {
		return nil, fmt.Errorf("%w: %#08x", ErrInvalidMagic, magic)
	}

	// Versions are read but not range-checked: newer and older class files
	// than this package knows about still decode.
	if cf.MinorVersion, err = c.u2(); err != nil {
		return nil, fmt.Errorf("reading minor version: %w", err)
	}
	if cf.MajorVersion, err = c.u2(); err != nil {
		return nil, fmt.Errorf("reading major version: %w", err)
	}

	if cf.ConstantPool, err = parseConstantPool(c, d.StrictUTF8); err != nil {
		return nil, fmt.Errorf("parsing constant pool: %w", err)
	}

	if cf.AccessFlags, err = c.u2(); err != nil {
		return nil, fmt.Errorf("reading access flags: %w", err)
	}
	if cf.ThisClass, err = c.u2(); err != nil {
		return nil, fmt.Errorf("reading this_class: %w", err)
	}
	if cf.SuperClass, err = c.u2(); err != nil {
		return nil, fmt.Errorf("reading super_class: %w", err)
	}

	interfacesCount, err := c.u2()
	if err != nil {
		return nil, fmt.Errorf("reading interfaces count: %w", err)
	}
	cf.Interfaces = make([]uint16, interfacesCount)
	for i := range cf.Interfaces {
		if cf.Interfaces[i], err = c.u2(); err != nil {
			return nil, fmt.Errorf("reading interface %d: %w", i, err)
		}
	}

	fieldsCount, err := c.u2()
	if err != nil {
		return nil, fmt.Errorf("reading fields count: %w", err)
	}
	cf.Fields = make([]FieldInfo, fieldsCount)
	for i := range cf.Fields {
		if cf.Fields[i], err = parseField(c, &cf.ConstantPool); err != nil {
			return nil, fmt.Errorf("parsing field %d: %w", i, err)
		}
	}

	methodsCount, err := c.u2()
	if err != nil {
		return nil, fmt.Errorf("reading methods count: %w", err)
	}
	cf.Methods = make([]MethodInfo, methodsCount)
	for i := range cf.Methods {
		if cf.Methods[i], err = parseMethod(c, &cf.ConstantPool); err != nil {
			return nil, fmt.Errorf("parsing method %d: %w", i, err)
		}
	}

	if cf.Attributes, err = parseAttributes(c, &cf.ConstantPool, 0); err != nil {
		return nil, fmt.Errorf("parsing class attributes: %w", err)
	}

	return cf, nil
}

func parseField(c *cursor, cp *ConstantPool) (FieldInfo, error) {
	var f FieldInfo
	if err := readU2s(c, &f.AccessFlags, &f.NameIndex, &f.DescriptorIndex); err != nil {
		return FieldInfo{}, err
	}
	attrs, err := parseAttributes(c, cp, 0)
	if err != nil {
		return FieldInfo{}, err
	}
	f.Attributes = attrs
	return f, nil
}

func parseMethod(c *cursor, cp *ConstantPool) (MethodInfo, error) {
	var m MethodInfo
	if err := readU2s(c, &m.AccessFlags, &m.NameIndex, &m.DescriptorIndex); err != nil {
		return MethodInfo{}, err
	}
	attrs, err := parseAttributes(c, cp, 0)
	if err != nil {
		return MethodInfo{}, err
	}
	m.Attributes = attrs
	return m, nil
}
