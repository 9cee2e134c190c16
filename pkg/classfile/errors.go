package classfile

import "errors"

// Decode errors. Every failure mode reachable from untrusted bytes maps to
// one of these sentinels, wrapped with position or name context so callers
// can match with errors.Is. Decoding is fail-fast: the first error aborts
// the whole decode and no partial ClassFile is returned.
var (
	// ErrUnexpectedEOF means a read ran past the end of the buffer.
	ErrUnexpectedEOF = errors.New("unexpected end of class file")

	// ErrInvalidMagic means the file does not start with 0xCAFEBABE.
	ErrInvalidMagic = errors.New("invalid magic number")

	// ErrInvalidConstantPoolIndex means a constant pool lookup hit index 0,
	// an out-of-range index, or the reserved hole after a Long or Double.
	ErrInvalidConstantPoolIndex = errors.New("invalid constant pool index")

	// ErrInvalidConstantPoolTag means an unrecognized constant kind.
	ErrInvalidConstantPoolTag = errors.New("invalid constant pool tag")

	// ErrInvalidUTF8 means a Utf8 constant held malformed UTF-8. Only the
	// strict decode path reports this; the default decode is lenient.
	ErrInvalidUTF8 = errors.New("invalid UTF-8 in constant pool")

	// ErrInvalidAttribute means an attribute body did not end exactly where
	// its declared length said it would, or an internal tag was unrecognized.
	ErrInvalidAttribute = errors.New("invalid attribute")
)
