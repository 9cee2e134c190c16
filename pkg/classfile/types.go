package classfile

// Class, field and method access flags.
const (
	AccPublic       = 0x0001
	AccPrivate      = 0x0002
	AccProtected    = 0x0004
	AccStatic       = 0x0008
	AccFinal        = 0x0010
	AccSuper        = 0x0020 // AccSynchronized on methods
	AccVolatile     = 0x0040 // AccBridge on methods
	AccTransient    = 0x0080 // AccVarargs on methods
	AccNative       = 0x0100
	AccInterface    = 0x0200
	AccAbstract     = 0x0400
	AccStrict       = 0x0800
	AccSynthetic    = 0x1000
	AccAnnotation   = 0x2000
	AccEnum         = 0x4000
	AccModuleMarker = 0x8000
)

var accessFlagNames = []struct {
	flag uint16
	name string
}{
	{AccPublic, "public"},
	{AccPrivate, "private"},
	{AccProtected, "protected"},
	{AccStatic, "static"},
	{AccFinal, "final"},
	{AccSuper, "super"},
	{AccVolatile, "volatile"},
	{AccTransient, "transient"},
	{AccNative, "native"},
	{AccInterface, "interface"},
	{AccAbstract, "abstract"},
	{AccStrict, "strictfp"},
	{AccSynthetic, "synthetic"},
	{AccAnnotation, "annotation"},
	{AccEnum, "enum"},
	{AccModuleMarker, "module"},
}

// FlagNames translates an access_flags word into its set-bit names.
func FlagNames(flags uint16) []string {
	var names []string
	for _, f := range accessFlagNames {
		if flags&f.flag != 0 {
			names = append(names, f.name)
		}
	}
	return names
}

// ClassFile is the fully decoded representation of a .class file.
// It is an owned tree: no cycles, no shared mutable state, immutable
// after decode.
type ClassFile struct {
	MinorVersion uint16
	MajorVersion uint16
	ConstantPool ConstantPool
	AccessFlags  uint16
	ThisClass    uint16
	SuperClass   uint16
	Interfaces   []uint16
	Fields       []FieldInfo
	Methods      []MethodInfo
	Attributes   []Attribute
}

// ClassName returns the fully qualified name of this class.
func (cf *ClassFile) ClassName() (string, error) {
	return cf.ConstantPool.GetClassName(cf.ThisClass)
}

// SuperClassName returns the fully qualified name of the super class.
// Returns "" if this is java/lang/Object (SuperClass == 0).
func (cf *ClassFile) SuperClassName() string {
	if cf.SuperClass == 0 {
		return ""
	}
	name, err := cf.ConstantPool.GetClassName(cf.SuperClass)
	if err != nil {
		return ""
	}
	return name
}

// FindMethod finds a method by name and descriptor.
func (cf *ClassFile) FindMethod(name, descriptor string) *MethodInfo {
	for i := range cf.Methods {
		m := &cf.Methods[i]
		n, err := cf.ConstantPool.GetUtf8(m.NameIndex)
		if err != nil || n != name {
			continue
		}
		d, err := cf.ConstantPool.GetUtf8(m.DescriptorIndex)
		if err == nil && d == descriptor {
			return m
		}
	}
	return nil
}

// FindMethodByName finds a method by name only (first match).
func (cf *ClassFile) FindMethodByName(name string) *MethodInfo {
	for i := range cf.Methods {
		n, err := cf.ConstantPool.GetUtf8(cf.Methods[i].NameIndex)
		if err == nil && n == name {
			return &cf.Methods[i]
		}
	}
	return nil
}

// FieldInfo represents a field in a class file. Name and descriptor stay
// as constant pool indices; whether they resolve to Utf8 entries is the
// consumer's concern.
type FieldInfo struct {
	AccessFlags     uint16
	NameIndex       uint16
	DescriptorIndex uint16
	Attributes      []Attribute
}

// MethodInfo represents a method in a class file.
type MethodInfo struct {
	AccessFlags     uint16
	NameIndex       uint16
	DescriptorIndex uint16
	Attributes      []Attribute
}

// Code returns the method's Code attribute, or nil if it has none.
func (m *MethodInfo) Code() *CodeAttribute {
	for _, attr := range m.Attributes {
		if code, ok := attr.(*CodeAttribute); ok {
			return code
		}
	}
	return nil
}

// Attribute is implemented by every decoded attribute shape. AttributeName
// returns the attribute's name as it appears in the class file, which makes
// the implementations a closed set over the known attribute taxonomy plus
// UnknownAttribute.
type Attribute interface {
	AttributeName() string
}

type ConstantValueAttribute struct {
	ConstantValueIndex uint16
}

func (*ConstantValueAttribute) AttributeName() string { return "ConstantValue" }

// CodeAttribute carries a method body. The instruction stream itself is kept
// as an opaque byte slice; only the surrounding tables and the nested
// attribute list are decoded.
type CodeAttribute struct {
	MaxStack       uint16
	MaxLocals      uint16
	Code           []byte
	ExceptionTable []ExceptionHandler
	Attributes     []Attribute
}

func (*CodeAttribute) AttributeName() string { return "Code" }

// ExceptionHandler is an entry in a Code attribute's exception table.
type ExceptionHandler struct {
	StartPC   uint16
	EndPC     uint16
	HandlerPC uint16
	CatchType uint16
}

type StackMapTableAttribute struct {
	Entries []StackMapFrame
}

func (*StackMapTableAttribute) AttributeName() string { return "StackMapTable" }

type ExceptionsAttribute struct {
	ExceptionIndexTable []uint16
}

func (*ExceptionsAttribute) AttributeName() string { return "Exceptions" }

type InnerClassesAttribute struct {
	Classes []InnerClassInfo
}

func (*InnerClassesAttribute) AttributeName() string { return "InnerClasses" }

type InnerClassInfo struct {
	InnerClassInfoIndex   uint16
	OuterClassInfoIndex   uint16
	InnerNameIndex        uint16
	InnerClassAccessFlags uint16
}

type EnclosingMethodAttribute struct {
	ClassIndex  uint16
	MethodIndex uint16
}

func (*EnclosingMethodAttribute) AttributeName() string { return "EnclosingMethod" }

// SyntheticAttribute has no payload; presence alone is the signal.
type SyntheticAttribute struct{}

func (*SyntheticAttribute) AttributeName() string { return "Synthetic" }

type SignatureAttribute struct {
	SignatureIndex uint16
}

func (*SignatureAttribute) AttributeName() string { return "Signature" }

type SourceFileAttribute struct {
	SourceFileIndex uint16
}

func (*SourceFileAttribute) AttributeName() string { return "SourceFile" }

type SourceDebugExtensionAttribute struct {
	DebugExtension []byte
}

func (*SourceDebugExtensionAttribute) AttributeName() string { return "SourceDebugExtension" }

type LineNumberTableAttribute struct {
	Entries []LineNumberEntry
}

func (*LineNumberTableAttribute) AttributeName() string { return "LineNumberTable" }

type LineNumberEntry struct {
	StartPC    uint16
	LineNumber uint16
}

type LocalVariableTableAttribute struct {
	Entries []LocalVariableEntry
}

func (*LocalVariableTableAttribute) AttributeName() string { return "LocalVariableTable" }

type LocalVariableEntry struct {
	StartPC         uint16
	Length          uint16
	NameIndex       uint16
	DescriptorIndex uint16
	Index           uint16
}

type LocalVariableTypeTableAttribute struct {
	Entries []LocalVariableTypeEntry
}

func (*LocalVariableTypeTableAttribute) AttributeName() string { return "LocalVariableTypeTable" }

type LocalVariableTypeEntry struct {
	StartPC        uint16
	Length         uint16
	NameIndex      uint16
	SignatureIndex uint16
	Index          uint16
}

// DeprecatedAttribute has no payload; presence alone is the signal.
type DeprecatedAttribute struct{}

func (*DeprecatedAttribute) AttributeName() string { return "Deprecated" }

type RuntimeVisibleAnnotationsAttribute struct {
	Annotations []Annotation
}

func (*RuntimeVisibleAnnotationsAttribute) AttributeName() string {
	return "RuntimeVisibleAnnotations"
}

type RuntimeInvisibleAnnotationsAttribute struct {
	Annotations []Annotation
}

func (*RuntimeInvisibleAnnotationsAttribute) AttributeName() string {
	return "RuntimeInvisibleAnnotations"
}

type RuntimeVisibleParameterAnnotationsAttribute struct {
	ParameterAnnotations [][]Annotation
}

func (*RuntimeVisibleParameterAnnotationsAttribute) AttributeName() string {
	return "RuntimeVisibleParameterAnnotations"
}

type RuntimeInvisibleParameterAnnotationsAttribute struct {
	ParameterAnnotations [][]Annotation
}

func (*RuntimeInvisibleParameterAnnotationsAttribute) AttributeName() string {
	return "RuntimeInvisibleParameterAnnotations"
}

type RuntimeVisibleTypeAnnotationsAttribute struct {
	Annotations []TypeAnnotation
}

func (*RuntimeVisibleTypeAnnotationsAttribute) AttributeName() string {
	return "RuntimeVisibleTypeAnnotations"
}

type RuntimeInvisibleTypeAnnotationsAttribute struct {
	Annotations []TypeAnnotation
}

func (*RuntimeInvisibleTypeAnnotationsAttribute) AttributeName() string {
	return "RuntimeInvisibleTypeAnnotations"
}

type AnnotationDefaultAttribute struct {
	DefaultValue ElementValue
}

func (*AnnotationDefaultAttribute) AttributeName() string { return "AnnotationDefault" }

type BootstrapMethodsAttribute struct {
	Methods []BootstrapMethod
}

func (*BootstrapMethodsAttribute) AttributeName() string { return "BootstrapMethods" }

type BootstrapMethod struct {
	MethodRef          uint16
	BootstrapArguments []uint16
}

type MethodParametersAttribute struct {
	Parameters []MethodParameter
}

func (*MethodParametersAttribute) AttributeName() string { return "MethodParameters" }

type MethodParameter struct {
	NameIndex   uint16
	AccessFlags uint16
}

type ModuleAttribute struct {
	ModuleNameIndex    uint16
	ModuleFlags        uint16
	ModuleVersionIndex uint16
	Requires           []ModuleRequires
	Exports            []ModuleExports
	Opens              []ModuleOpens
	Uses               []uint16
	Provides           []ModuleProvides
}

func (*ModuleAttribute) AttributeName() string { return "Module" }

type ModuleRequires struct {
	RequiresIndex        uint16
	RequiresFlags        uint16
	RequiresVersionIndex uint16
}

type ModuleExports struct {
	ExportsIndex uint16
	ExportsFlags uint16
	ExportsTo    []uint16
}

type ModuleOpens struct {
	OpensIndex uint16
	OpensFlags uint16
	OpensTo    []uint16
}

type ModuleProvides struct {
	ProvidesIndex uint16
	ProvidesWith  []uint16
}

type ModulePackagesAttribute struct {
	Packages []uint16
}

func (*ModulePackagesAttribute) AttributeName() string { return "ModulePackages" }

type ModuleMainClassAttribute struct {
	MainClassIndex uint16
}

func (*ModuleMainClassAttribute) AttributeName() string { return "ModuleMainClass" }

type ModuleHashesAttribute struct {
	AlgorithmIndex uint16
	Modules        []ModuleHash
}

func (*ModuleHashesAttribute) AttributeName() string { return "ModuleHashes" }

type ModuleHash struct {
	ModuleNameIndex uint16
	Hash            []byte
}

type ModuleTargetAttribute struct {
	TargetPlatformIndex uint16
}

func (*ModuleTargetAttribute) AttributeName() string { return "ModuleTarget" }

type ModuleResolutionAttribute struct {
	ResolutionFlags uint16
}

func (*ModuleResolutionAttribute) AttributeName() string { return "ModuleResolution" }

type NestHostAttribute struct {
	HostClassIndex uint16
}

func (*NestHostAttribute) AttributeName() string { return "NestHost" }

type NestMembersAttribute struct {
	Classes []uint16
}

func (*NestMembersAttribute) AttributeName() string { return "NestMembers" }

// RecordAttribute lists the components of a record class. Each component
// owns its own attribute list, which is the recursive point in the data
// model alongside Code.
type RecordAttribute struct {
	Components []RecordComponent
}

func (*RecordAttribute) AttributeName() string { return "Record" }

type RecordComponent struct {
	NameIndex       uint16
	DescriptorIndex uint16
	Attributes      []Attribute
}

type PermittedSubclassesAttribute struct {
	Classes []uint16
}

func (*PermittedSubclassesAttribute) AttributeName() string { return "PermittedSubclasses" }

// UnknownAttribute preserves the raw payload of attributes whose name is
// not in the known taxonomy.
type UnknownAttribute struct {
	Name string
	Info []byte
}

func (u *UnknownAttribute) AttributeName() string { return u.Name }

// StackMapFrame is one of the seven frame shapes selected by the
// frame_type byte ranges of a StackMapTable attribute.
type StackMapFrame interface {
	isStackMapFrame()
}

type SameFrame struct {
	OffsetDelta uint16
}

type SameLocals1StackItemFrame struct {
	OffsetDelta uint16
	Stack       VerificationTypeInfo
}

type SameLocals1StackItemExtendedFrame struct {
	OffsetDelta uint16
	Stack       VerificationTypeInfo
}

type ChopFrame struct {
	OffsetDelta uint16
	K           uint8
}

type SameExtendedFrame struct {
	OffsetDelta uint16
}

type AppendFrame struct {
	OffsetDelta uint16
	Locals      []VerificationTypeInfo
}

type FullFrame struct {
	OffsetDelta uint16
	Locals      []VerificationTypeInfo
	Stack       []VerificationTypeInfo
}

func (*SameFrame) isStackMapFrame()                         {}
func (*SameLocals1StackItemFrame) isStackMapFrame()         {}
func (*SameLocals1StackItemExtendedFrame) isStackMapFrame() {}
func (*ChopFrame) isStackMapFrame()                         {}
func (*SameExtendedFrame) isStackMapFrame()                 {}
func (*AppendFrame) isStackMapFrame()                       {}
func (*FullFrame) isStackMapFrame()                         {}

// VerificationTypeInfo is the tag-dispatched verifier type of one local or
// stack slot inside a stack map frame.
type VerificationTypeInfo interface {
	isVerificationType()
}

type TopVariable struct{}
type IntegerVariable struct{}
type FloatVariable struct{}
type DoubleVariable struct{}
type LongVariable struct{}
type NullVariable struct{}
type UninitializedThisVariable struct{}

type ObjectVariable struct {
	CpoolIndex uint16
}

type UninitializedVariable struct {
	Offset uint16
}

func (TopVariable) isVerificationType()               {}
func (IntegerVariable) isVerificationType()           {}
func (FloatVariable) isVerificationType()             {}
func (DoubleVariable) isVerificationType()            {}
func (LongVariable) isVerificationType()              {}
func (NullVariable) isVerificationType()              {}
func (UninitializedThisVariable) isVerificationType() {}
func (ObjectVariable) isVerificationType()            {}
func (UninitializedVariable) isVerificationType()     {}

// Annotation is the runtime annotation structure shared by the four
// Runtime*Annotations attributes, AnnotationDefault and type annotations.
type Annotation struct {
	TypeIndex         uint16
	ElementValuePairs []ElementValuePair
}

type ElementValuePair struct {
	ElementNameIndex uint16
	Value            ElementValue
}

// ElementValue is an annotation element value. Values can nest: an element
// value may itself be an annotation or an array of element values.
type ElementValue interface {
	isElementValue()
}

// ConstElementValue covers the primitive and string tags BCDFIJSZs.
type ConstElementValue struct {
	Tag             uint8
	ConstValueIndex uint16
}

type EnumElementValue struct {
	TypeNameIndex  uint16
	ConstNameIndex uint16
}

type ClassElementValue struct {
	ClassInfoIndex uint16
}

type AnnotationElementValue struct {
	Annotation Annotation
}

type ArrayElementValue struct {
	Values []ElementValue
}

func (*ConstElementValue) isElementValue()      {}
func (*EnumElementValue) isElementValue()       {}
func (*ClassElementValue) isElementValue()      {}
func (*AnnotationElementValue) isElementValue() {}
func (*ArrayElementValue) isElementValue()      {}

// TypeAnnotation is one entry of a Runtime*TypeAnnotations attribute.
type TypeAnnotation struct {
	TargetType        uint8
	TargetInfo        TargetInfo
	TargetPath        []TypePathEntry
	TypeIndex         uint16
	ElementValuePairs []ElementValuePair
}

// TargetInfo identifies what a type annotation applies to, dispatched on
// the target_type byte ranges.
type TargetInfo interface {
	isTargetInfo()
}

type TypeParameterTarget struct {
	Index uint8
}

type SupertypeTarget struct {
	Index uint16
}

type TypeParameterBoundTarget struct {
	TypeParameterIndex uint8
	BoundIndex         uint8
}

type EmptyTarget struct{}

type FormalParameterTarget struct {
	Index uint8
}

type ThrowsTarget struct {
	Index uint16
}

type LocalvarTarget struct {
	Table []LocalvarTargetEntry
}

type LocalvarTargetEntry struct {
	StartPC uint16
	Length  uint16
	Index   uint16
}

type CatchTarget struct {
	ExceptionTableIndex uint16
}

type OffsetTarget struct {
	Offset uint16
}

type TypeArgumentTarget struct {
	Offset            uint16
	TypeArgumentIndex uint8
}

func (*TypeParameterTarget) isTargetInfo()      {}
func (*SupertypeTarget) isTargetInfo()          {}
func (*TypeParameterBoundTarget) isTargetInfo() {}
func (*EmptyTarget) isTargetInfo()              {}
func (*FormalParameterTarget) isTargetInfo()    {}
func (*ThrowsTarget) isTargetInfo()             {}
func (*LocalvarTarget) isTargetInfo()           {}
func (*CatchTarget) isTargetInfo()              {}
func (*OffsetTarget) isTargetInfo()             {}
func (*TypeArgumentTarget) isTargetInfo()       {}

type TypePathEntry struct {
	TypePathKind      uint8
	TypeArgumentIndex uint8
}
