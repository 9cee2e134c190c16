package classfile

import (
	"errors"
	"fmt"
)

// maxNestingDepth bounds the recursion through Code attributes, Record
// components and annotation element values. The format cannot cycle, but
// an adversarial input can declare nesting far deeper than any compiler
// emits, so depth is capped to keep stack usage proportional to a constant
// rather than to the input.
const maxNestingDepth = 64

// parseAttributes reads a u2-counted attribute list. For each attribute the
// name is resolved through the constant pool, the declared length carves
// out a bounded sub-cursor, and the body is decoded from that sub-cursor
// alone. The sub-cursor must end up exactly consumed: trailing or missing
// bytes mean the declared length and the body disagree, and the whole
// decode fails rather than letting one attribute corrupt the next one's
// boundaries.
func parseAttributes(c *cursor, cp *ConstantPool, depth int) ([]Attribute, error) {
	if depth > maxNestingDepth {
		return nil, fmt.Errorf("%w: attribute nesting exceeds depth %d", ErrInvalidAttribute, maxNestingDepth)
	}

	count, err := c.u2()
	if err != nil {
		return nil, err
	}

	attrs := make([]Attribute, 0, count)
	for i := uint16(0); i < count; i++ {
		nameIndex, err := c.u2()
		if err != nil {
			return nil, err
		}
		name, err := cp.GetUtf8(nameIndex)
		if err != nil {
			return nil, fmt.Errorf("resolving attribute %d name: %w", i, err)
		}
		length, err := c.u4()
		if err != nil {
			return nil, err
		}
		body, err := c.bytes(int(length))
		if err != nil {
			return nil, fmt.Errorf("reading %s body: %w", name, err)
		}

		sub := newCursor(body)
		attr, err := parseAttributeBody(sub, cp, name, body, depth)
		if err != nil {
			// A body that runs dry inside its declared length means the
			// length and the body disagree, same as trailing bytes.
			if errors.Is(err, ErrUnexpectedEOF) {
				return nil, fmt.Errorf("%w: %s: %s", ErrInvalidAttribute, name, err)
			}
			return nil, err
		}
		if sub.remaining() != 0 {
			return nil, fmt.Errorf("%w: %s declared %d bytes but left %d unconsumed",
				ErrInvalidAttribute, name, length, sub.remaining())
		}

		attrs = append(attrs, attr)
	}
	return attrs, nil
}

func parseAttributeBody(sub *cursor, cp *ConstantPool, name string, body []byte, depth int) (Attribute, error) {
	switch name {
	case "ConstantValue":
		index, err := sub.u2()
		if err != nil {
			return nil, err
		}
		return &ConstantValueAttribute{ConstantValueIndex: index}, nil

	case "Code":
		return parseCodeAttribute(sub, cp, depth)

	case "StackMapTable":
		return parseStackMapTable(sub)

	case "Exceptions":
		table, err := readU2Table(sub)
		if err != nil {
			return nil, err
		}
		return &ExceptionsAttribute{ExceptionIndexTable: table}, nil

	case "InnerClasses":
		num, err := sub.u2()
		if err != nil {
			return nil, err
		}
		classes := make([]InnerClassInfo, 0, num)
		for j := uint16(0); j < num; j++ {
			var info InnerClassInfo
			if err := readU2s(sub, &info.InnerClassInfoIndex, &info.OuterClassInfoIndex,
				&info.InnerNameIndex, &info.InnerClassAccessFlags); err != nil {
				return nil, err
			}
			classes = append(classes, info)
		}
		return &InnerClassesAttribute{Classes: classes}, nil

	case "EnclosingMethod":
		var attr EnclosingMethodAttribute
		if err := readU2s(sub, &attr.ClassIndex, &attr.MethodIndex); err != nil {
			return nil, err
		}
		return &attr, nil

	case "Synthetic":
		return &SyntheticAttribute{}, nil

	case "Signature":
		index, err := sub.u2()
		if err != nil {
			return nil, err
		}
		return &SignatureAttribute{SignatureIndex: index}, nil

	case "SourceFile":
		index, err := sub.u2()
		if err != nil {
			return nil, err
		}
		return &SourceFileAttribute{SourceFileIndex: index}, nil

	case "SourceDebugExtension":
		// No inner length prefix: the body is whatever the outer length said.
		data, err := sub.bytes(sub.remaining())
		if err != nil {
			return nil, err
		}
		ext := make([]byte, len(data))
		copy(ext, data)
		return &SourceDebugExtensionAttribute{DebugExtension: ext}, nil

	case "LineNumberTable":
		num, err := sub.u2()
		if err != nil {
			return nil, err
		}
		entries := make([]LineNumberEntry, 0, num)
		for j := uint16(0); j < num; j++ {
			var e LineNumberEntry
			if err := readU2s(sub, &e.StartPC, &e.LineNumber); err != nil {
				return nil, err
			}
			entries = append(entries, e)
		}
		return &LineNumberTableAttribute{Entries: entries}, nil

	case "LocalVariableTable":
		num, err := sub.u2()
		if err != nil {
			return nil, err
		}
		entries := make([]LocalVariableEntry, 0, num)
		for j := uint16(0); j < num; j++ {
			var e LocalVariableEntry
			if err := readU2s(sub, &e.StartPC, &e.Length, &e.NameIndex, &e.DescriptorIndex, &e.Index); err != nil {
				return nil, err
			}
			entries = append(entries, e)
		}
		return &LocalVariableTableAttribute{Entries: entries}, nil

	case "LocalVariableTypeTable":
		num, err := sub.u2()
		if err != nil {
			return nil, err
		}
		entries := make([]LocalVariableTypeEntry, 0, num)
		for j := uint16(0); j < num; j++ {
			var e LocalVariableTypeEntry
			if err := readU2s(sub, &e.StartPC, &e.Length, &e.NameIndex, &e.SignatureIndex, &e.Index); err != nil {
				return nil, err
			}
			entries = append(entries, e)
		}
		return &LocalVariableTypeTableAttribute{Entries: entries}, nil

	case "Deprecated":
		return &DeprecatedAttribute{}, nil

	case "RuntimeVisibleAnnotations":
		annotations, err := parseAnnotations(sub, depth)
		if err != nil {
			return nil, err
		}
		return &RuntimeVisibleAnnotationsAttribute{Annotations: annotations}, nil

	case "RuntimeInvisibleAnnotations":
		annotations, err := parseAnnotations(sub, depth)
		if err != nil {
			return nil, err
		}
		return &RuntimeInvisibleAnnotationsAttribute{Annotations: annotations}, nil

	case "RuntimeVisibleParameterAnnotations":
		params, err := parseParameterAnnotations(sub, depth)
		if err != nil {
			return nil, err
		}
		return &RuntimeVisibleParameterAnnotationsAttribute{ParameterAnnotations: params}, nil

	case "RuntimeInvisibleParameterAnnotations":
		params, err := parseParameterAnnotations(sub, depth)
		if err != nil {
			return nil, err
		}
		return &RuntimeInvisibleParameterAnnotationsAttribute{ParameterAnnotations: params}, nil

	case "RuntimeVisibleTypeAnnotations":
		annotations, err := parseTypeAnnotations(sub, depth)
		if err != nil {
			return nil, err
		}
		return &RuntimeVisibleTypeAnnotationsAttribute{Annotations: annotations}, nil

	case "RuntimeInvisibleTypeAnnotations":
		annotations, err := parseTypeAnnotations(sub, depth)
		if err != nil {
			return nil, err
		}
		return &RuntimeInvisibleTypeAnnotationsAttribute{Annotations: annotations}, nil

	case "AnnotationDefault":
		value, err := parseElementValue(sub, depth)
		if err != nil {
			return nil, err
		}
		return &AnnotationDefaultAttribute{DefaultValue: value}, nil

	case "BootstrapMethods":
		num, err := sub.u2()
		if err != nil {
			return nil, err
		}
		methods := make([]BootstrapMethod, 0, num)
		for j := uint16(0); j < num; j++ {
			methodRef, err := sub.u2()
			if err != nil {
				return nil, err
			}
			args, err := readU2Table(sub)
			if err != nil {
				return nil, err
			}
			methods = append(methods, BootstrapMethod{MethodRef: methodRef, BootstrapArguments: args})
		}
		return &BootstrapMethodsAttribute{Methods: methods}, nil

	case "MethodParameters":
		num, err := sub.u1()
		if err != nil {
			return nil, err
		}
		params := make([]MethodParameter, 0, num)
		for j := uint8(0); j < num; j++ {
			var p MethodParameter
			if err := readU2s(sub, &p.NameIndex, &p.AccessFlags); err != nil {
				return nil, err
			}
			params = append(params, p)
		}
		return &MethodParametersAttribute{Parameters: params}, nil

	case "Module":
		return parseModuleAttribute(sub)

	case "ModulePackages":
		packages, err := readU2Table(sub)
		if err != nil {
			return nil, err
		}
		return &ModulePackagesAttribute{Packages: packages}, nil

	case "ModuleMainClass":
		index, err := sub.u2()
		if err != nil {
			return nil, err
		}
		return &ModuleMainClassAttribute{MainClassIndex: index}, nil

	case "ModuleHashes":
		algorithmIndex, err := sub.u2()
		if err != nil {
			return nil, err
		}
		num, err := sub.u2()
		if err != nil {
			return nil, err
		}
		modules := make([]ModuleHash, 0, num)
		for j := uint16(0); j < num; j++ {
			nameIndex, err := sub.u2()
			if err != nil {
				return nil, err
			}
			hashLen, err := sub.u2()
			if err != nil {
				return nil, err
			}
			raw, err := sub.bytes(int(hashLen))
			if err != nil {
				return nil, err
			}
			hash := make([]byte, len(raw))
			copy(hash, raw)
			modules = append(modules, ModuleHash{ModuleNameIndex: nameIndex, Hash: hash})
		}
		return &ModuleHashesAttribute{AlgorithmIndex: algorithmIndex, Modules: modules}, nil

	case "ModuleTarget":
		index, err := sub.u2()
		if err != nil {
			return nil, err
		}
		return &ModuleTargetAttribute{TargetPlatformIndex: index}, nil

	case "ModuleResolution":
		flags, err := sub.u2()
		if err != nil {
			return nil, err
		}
		return &ModuleResolutionAttribute{ResolutionFlags: flags}, nil

	case "NestHost":
		index, err := sub.u2()
		if err != nil {
			return nil, err
		}
		return &NestHostAttribute{HostClassIndex: index}, nil

	case "NestMembers":
		classes, err := readU2Table(sub)
		if err != nil {
			return nil, err
		}
		return &NestMembersAttribute{Classes: classes}, nil

	case "Record":
		num, err := sub.u2()
		if err != nil {
			return nil, err
		}
		components := make([]RecordComponent, 0, num)
		for j := uint16(0); j < num; j++ {
			nameIndex, err := sub.u2()
			if err != nil {
				return nil, err
			}
			descIndex, err := sub.u2()
			if err != nil {
				return nil, err
			}
			attrs, err := parseAttributes(sub, cp, depth+1)
			if err != nil {
				return nil, err
			}
			components = append(components, RecordComponent{
				NameIndex:       nameIndex,
				DescriptorIndex: descIndex,
				Attributes:      attrs,
			})
		}
		return &RecordAttribute{Components: components}, nil

	case "PermittedSubclasses":
		classes, err := readU2Table(sub)
		if err != nil {
			return nil, err
		}
		return &PermittedSubclassesAttribute{Classes: classes}, nil

	default:
		info := make([]byte, len(body))
		copy(info, body)
		if _, err := sub.bytes(sub.remaining()); err != nil {
			return nil, err
		}
		return &UnknownAttribute{Name: name, Info: info}, nil
	}
}

func parseCodeAttribute(c *cursor, cp *ConstantPool, depth int) (*CodeAttribute, error) {
	maxStack, err := c.u2()
	if err != nil {
		return nil, err
	}
	maxLocals, err := c.u2()
	if err != nil {
		return nil, err
	}
	codeLength, err := c.u4()
	if err != nil {
		return nil, err
	}
	raw, err := c.bytes(int(codeLength))
	if err != nil {
		return nil, err
	}
	code := make([]byte, len(raw))
	copy(code, raw)

	tableLen, err := c.u2()
	if err != nil {
		return nil, err
	}
	table := make([]ExceptionHandler, 0, tableLen)
	for i := uint16(0); i < tableLen; i++ {
		var h ExceptionHandler
		if err := readU2s(c, &h.StartPC, &h.EndPC, &h.HandlerPC, &h.CatchType); err != nil {
			return nil, err
		}
		table = append(table, h)
	}

	attrs, err := parseAttributes(c, cp, depth+1)
	if err != nil {
		return nil, err
	}

	return &CodeAttribute{
		MaxStack:       maxStack,
		MaxLocals:      maxLocals,
		Code:           code,
		ExceptionTable: table,
		Attributes:     attrs,
	}, nil
}

func parseStackMapTable(c *cursor) (*StackMapTableAttribute, error) {
	num, err := c.u2()
	if err != nil {
		return nil, err
	}
	entries := make([]StackMapFrame, 0, num)
	for i := uint16(0); i < num; i++ {
		frameType, err := c.u1()
		if err != nil {
			return nil, err
		}

		var frame StackMapFrame
		switch {
		case frameType <= 63:
			frame = &SameFrame{OffsetDelta: uint16(frameType)}

		case frameType <= 127:
			stack, err := parseVerificationTypeInfo(c)
			if err != nil {
				return nil, err
			}
			frame = &SameLocals1StackItemFrame{OffsetDelta: uint16(frameType - 64), Stack: stack}

		case frameType == 247:
			offsetDelta, err := c.u2()
			if err != nil {
				return nil, err
			}
			stack, err := parseVerificationTypeInfo(c)
			if err != nil {
				return nil, err
			}
			frame = &SameLocals1StackItemExtendedFrame{OffsetDelta: offsetDelta, Stack: stack}

		case frameType >= 248 && frameType <= 250:
			offsetDelta, err := c.u2()
			if err != nil {
				return nil, err
			}
			frame = &ChopFrame{OffsetDelta: offsetDelta, K: 251 - frameType}

		case frameType == 251:
			offsetDelta, err := c.u2()
			if err != nil {
				return nil, err
			}
			frame = &SameExtendedFrame{OffsetDelta: offsetDelta}

		case frameType >= 252 && frameType <= 254:
			offsetDelta, err := c.u2()
			if err != nil {
				return nil, err
			}
			locals := make([]VerificationTypeInfo, 0, frameType-251)
			for j := 0; j < int(frameType-251); j++ {
				v, err := parseVerificationTypeInfo(c)
				if err != nil {
					return nil, err
				}
				locals = append(locals, v)
			}
			frame = &AppendFrame{OffsetDelta: offsetDelta, Locals: locals}

		case frameType == 255:
			offsetDelta, err := c.u2()
			if err != nil {
				return nil, err
			}
			locals, err := parseVerificationTypeList(c)
			if err != nil {
				return nil, err
			}
			stack, err := parseVerificationTypeList(c)
			if err != nil {
				return nil, err
			}
			frame = &FullFrame{OffsetDelta: offsetDelta, Locals: locals, Stack: stack}

		default:
			return nil, fmt.Errorf("%w: StackMapTable frame type %d", ErrInvalidAttribute, frameType)
		}

		entries = append(entries, frame)
	}
	return &StackMapTableAttribute{Entries: entries}, nil
}

func parseVerificationTypeList(c *cursor) ([]VerificationTypeInfo, error) {
	num, err := c.u2()
	if err != nil {
		return nil, err
	}
	list := make([]VerificationTypeInfo, 0, num)
	for i := uint16(0); i < num; i++ {
		v, err := parseVerificationTypeInfo(c)
		if err != nil {
			return nil, err
		}
		list = append(list, v)
	}
	return list, nil
}

func parseVerificationTypeInfo(c *cursor) (VerificationTypeInfo, error) {
	tag, err := c.u1()
	if err != nil {
		return nil, err
	}
	switch tag {
	case 0:
		return TopVariable{}, nil
	case 1:
		return IntegerVariable{}, nil
	case 2:
		return FloatVariable{}, nil
	case 3:
		return DoubleVariable{}, nil
	case 4:
		return LongVariable{}, nil
	case 5:
		return NullVariable{}, nil
	case 6:
		return UninitializedThisVariable{}, nil
	case 7:
		index, err := c.u2()
		if err != nil {
			return nil, err
		}
		return ObjectVariable{CpoolIndex: index}, nil
	case 8:
		offset, err := c.u2()
		if err != nil {
			return nil, err
		}
		return UninitializedVariable{Offset: offset}, nil
	default:
		return nil, fmt.Errorf("%w: verification type tag %d", ErrInvalidAttribute, tag)
	}
}

func parseAnnotations(c *cursor, depth int) ([]Annotation, error) {
	num, err := c.u2()
	if err != nil {
		return nil, err
	}
	annotations := make([]Annotation, 0, num)
	for i := uint16(0); i < num; i++ {
		a, err := parseAnnotation(c, depth)
		if err != nil {
			return nil, err
		}
		annotations = append(annotations, a)
	}
	return annotations, nil
}

func parseParameterAnnotations(c *cursor, depth int) ([][]Annotation, error) {
	numParams, err := c.u1()
	if err != nil {
		return nil, err
	}
	out := make([][]Annotation, 0, numParams)
	for i := uint8(0); i < numParams; i++ {
		annotations, err := parseAnnotations(c, depth)
		if err != nil {
			return nil, err
		}
		out = append(out, annotations)
	}
	return out, nil
}

func parseAnnotation(c *cursor, depth int) (Annotation, error) {
	if depth > maxNestingDepth {
		return Annotation{}, fmt.Errorf("%w: annotation nesting exceeds depth %d", ErrInvalidAttribute, maxNestingDepth)
	}
	typeIndex, err := c.u2()
	if err != nil {
		return Annotation{}, err
	}
	pairs, err := parseElementValuePairs(c, depth)
	if err != nil {
		return Annotation{}, err
	}
	return Annotation{TypeIndex: typeIndex, ElementValuePairs: pairs}, nil
}

func parseElementValuePairs(c *cursor, depth int) ([]ElementValuePair, error) {
	num, err := c.u2()
	if err != nil {
		return nil, err
	}
	pairs := make([]ElementValuePair, 0, num)
	for i := uint16(0); i < num; i++ {
		nameIndex, err := c.u2()
		if err != nil {
			return nil, err
		}
		value, err := parseElementValue(c, depth+1)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, ElementValuePair{ElementNameIndex: nameIndex, Value: value})
	}
	return pairs, nil
}

func parseElementValue(c *cursor, depth int) (ElementValue, error) {
	if depth > maxNestingDepth {
		return nil, fmt.Errorf("%w: element value nesting exceeds depth %d", ErrInvalidAttribute, maxNestingDepth)
	}
	tag, err := c.u1()
	if err != nil {
		return nil, err
	}
	switch tag {
	case 'B', 'C', 'D', 'F', 'I', 'J', 'S', 'Z', 's':
		index, err := c.u2()
		if err != nil {
			return nil, err
		}
		return &ConstElementValue{Tag: tag, ConstValueIndex: index}, nil

	case 'e':
		var v EnumElementValue
		if err := readU2s(c, &v.TypeNameIndex, &v.ConstNameIndex); err != nil {
			return nil, err
		}
		return &v, nil

	case 'c':
		index, err := c.u2()
		if err != nil {
			return nil, err
		}
		return &ClassElementValue{ClassInfoIndex: index}, nil

	case '@':
		annotation, err := parseAnnotation(c, depth+1)
		if err != nil {
			return nil, err
		}
		return &AnnotationElementValue{Annotation: annotation}, nil

	case '[':
		num, err := c.u2()
		if err != nil {
			return nil, err
		}
		values := make([]ElementValue, 0, num)
		for i := uint16(0); i < num; i++ {
			v, err := parseElementValue(c, depth+1)
			if err != nil {
				return nil, err
			}
			values = append(values, v)
		}
		return &ArrayElementValue{Values: values}, nil

	default:
		return nil, fmt.Errorf("%w: element value tag %d", ErrInvalidAttribute, tag)
	}
}

func parseTypeAnnotations(c *cursor, depth int) ([]TypeAnnotation, error) {
	num, err := c.u2()
	if err != nil {
		return nil, err
	}
	annotations := make([]TypeAnnotation, 0, num)
	for i := uint16(0); i < num; i++ {
		targetType, err := c.u1()
		if err != nil {
			return nil, err
		}
		targetInfo, err := parseTargetInfo(c, targetType)
		if err != nil {
			return nil, err
		}
		targetPath, err := parseTypePath(c)
		if err != nil {
			return nil, err
		}
		typeIndex, err := c.u2()
		if err != nil {
			return nil, err
		}
		pairs, err := parseElementValuePairs(c, depth)
		if err != nil {
			return nil, err
		}
		annotations = append(annotations, TypeAnnotation{
			TargetType:        targetType,
			TargetInfo:        targetInfo,
			TargetPath:        targetPath,
			TypeIndex:         typeIndex,
			ElementValuePairs: pairs,
		})
	}
	return annotations, nil
}

func parseTargetInfo(c *cursor, targetType uint8) (TargetInfo, error) {
	switch {
	case targetType <= 0x01:
		index, err := c.u1()
		if err != nil {
			return nil, err
		}
		return &TypeParameterTarget{Index: index}, nil

	case targetType == 0x10:
		index, err := c.u2()
		if err != nil {
			return nil, err
		}
		return &SupertypeTarget{Index: index}, nil

	case targetType == 0x11 || targetType == 0x12:
		paramIndex, err := c.u1()
		if err != nil {
			return nil, err
		}
		boundIndex, err := c.u1()
		if err != nil {
			return nil, err
		}
		return &TypeParameterBoundTarget{TypeParameterIndex: paramIndex, BoundIndex: boundIndex}, nil

	case targetType >= 0x13 && targetType <= 0x15:
		return &EmptyTarget{}, nil

	case targetType == 0x16:
		index, err := c.u1()
		if err != nil {
			return nil, err
		}
		return &FormalParameterTarget{Index: index}, nil

	case targetType == 0x17:
		index, err := c.u2()
		if err != nil {
			return nil, err
		}
		return &ThrowsTarget{Index: index}, nil

	case targetType == 0x40 || targetType == 0x41:
		tableLength, err := c.u2()
		if err != nil {
			return nil, err
		}
		table := make([]LocalvarTargetEntry, 0, tableLength)
		for i := uint16(0); i < tableLength; i++ {
			var e LocalvarTargetEntry
			if err := readU2s(c, &e.StartPC, &e.Length, &e.Index); err != nil {
				return nil, err
			}
			table = append(table, e)
		}
		return &LocalvarTarget{Table: table}, nil

	case targetType == 0x42:
		index, err := c.u2()
		if err != nil {
			return nil, err
		}
		return &CatchTarget{ExceptionTableIndex: index}, nil

	case targetType >= 0x43 && targetType <= 0x46:
		offset, err := c.u2()
		if err != nil {
			return nil, err
		}
		return &OffsetTarget{Offset: offset}, nil

	case targetType >= 0x47 && targetType <= 0x4B:
		offset, err := c.u2()
		if err != nil {
			return nil, err
		}
		argIndex, err := c.u1()
		if err != nil {
			return nil, err
		}
		return &TypeArgumentTarget{Offset: offset, TypeArgumentIndex: argIndex}, nil

	default:
		return nil, fmt.Errorf("%w: type annotation target type 0x%02x", ErrInvalidAttribute, targetType)
	}
}

func parseTypePath(c *cursor) ([]TypePathEntry, error) {
	pathLength, err := c.u1()
	if err != nil {
		return nil, err
	}
	entries := make([]TypePathEntry, 0, pathLength)
	for i := uint8(0); i < pathLength; i++ {
		kind, err := c.u1()
		if err != nil {
			return nil, err
		}
		argIndex, err := c.u1()
		if err != nil {
			return nil, err
		}
		entries = append(entries, TypePathEntry{TypePathKind: kind, TypeArgumentIndex: argIndex})
	}
	return entries, nil
}

func parseModuleAttribute(c *cursor) (*ModuleAttribute, error) {
	var attr ModuleAttribute
	if err := readU2s(c, &attr.ModuleNameIndex, &attr.ModuleFlags, &attr.ModuleVersionIndex); err != nil {
		return nil, err
	}

	requiresCount, err := c.u2()
	if err != nil {
		return nil, err
	}
	attr.Requires = make([]ModuleRequires, 0, requiresCount)
	for i := uint16(0); i < requiresCount; i++ {
		var r ModuleRequires
		if err := readU2s(c, &r.RequiresIndex, &r.RequiresFlags, &r.RequiresVersionIndex); err != nil {
			return nil, err
		}
		attr.Requires = append(attr.Requires, r)
	}

	exportsCount, err := c.u2()
	if err != nil {
		return nil, err
	}
	attr.Exports = make([]ModuleExports, 0, exportsCount)
	for i := uint16(0); i < exportsCount; i++ {
		var e ModuleExports
		if err := readU2s(c, &e.ExportsIndex, &e.ExportsFlags); err != nil {
			return nil, err
		}
		if e.ExportsTo, err = readU2Table(c); err != nil {
			return nil, err
		}
		attr.Exports = append(attr.Exports, e)
	}

	opensCount, err := c.u2()
	if err != nil {
		return nil, err
	}
	attr.Opens = make([]ModuleOpens, 0, opensCount)
	for i := uint16(0); i < opensCount; i++ {
		var o ModuleOpens
		if err := readU2s(c, &o.OpensIndex, &o.OpensFlags); err != nil {
			return nil, err
		}
		if o.OpensTo, err = readU2Table(c); err != nil {
			return nil, err
		}
		attr.Opens = append(attr.Opens, o)
	}

	if attr.Uses, err = readU2Table(c); err != nil {
		return nil, err
	}

	providesCount, err := c.u2()
	if err != nil {
		return nil, err
	}
	attr.Provides = make([]ModuleProvides, 0, providesCount)
	for i := uint16(0); i < providesCount; i++ {
		var p ModuleProvides
		if p.ProvidesIndex, err = c.u2(); err != nil {
			return nil, err
		}
		if p.ProvidesWith, err = readU2Table(c); err != nil {
			return nil, err
		}
		attr.Provides = append(attr.Provides, p)
	}

	return &attr, nil
}

// readU2Table reads a u2-counted list of u2 values.
func readU2Table(c *cursor) ([]uint16, error) {
	count, err := c.u2()
	if err != nil {
		return nil, err
	}
	table := make([]uint16, 0, count)
	for i := uint16(0); i < count; i++ {
		v, err := c.u2()
		if err != nil {
			return nil, err
		}
		table = append(table, v)
	}
	return table, nil
}

// readU2s fills the destinations with consecutive u2 reads.
func readU2s(c *cursor, dst ...*uint16) error {
	for _, d := range dst {
		v, err := c.u2()
		if err != nil {
			return err
		}
		*d = v
	}
	return nil
}
