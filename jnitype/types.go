// Package jnitype maps Java type names onto the JNI C types, env entry
// points, and cast/wrapper rules used by the generated bindings.
package jnitype

import "strings"

// TypeKind classifies a Java type name into the closed set of categories the
// generator distinguishes. Other is the universal fallback and maps to
// jobject.
type TypeKind int

const (
	KindInt TypeKind = iota
	KindByte
	KindChar
	KindShort
	KindBoolean
	KindLong
	KindDouble
	KindFloat
	KindVoid
	KindString
	KindClass
	KindThrowable
	KindPODArray
	KindObjectArray
	KindOther
)

var podTypes = map[string]TypeKind{
	"int":     KindInt,
	"byte":    KindByte,
	"char":    KindChar,
	"short":   KindShort,
	"boolean": KindBoolean,
	"long":    KindLong,
	"double":  KindDouble,
	"float":   KindFloat,
}

// KindOf returns the category for a Java type name, generics already
// stripped.
func KindOf(javaType string) TypeKind {
	if kind, ok := podTypes[javaType]; ok {
		return kind
	}
	switch javaType {
	case "void":
		return KindVoid
	case "String", "java/lang/String":
		return KindString
	case "Class", "java/lang/Class":
		return KindClass
	case "Throwable", "java/lang/Throwable":
		return KindThrowable
	}
	if elem, ok := strings.CutSuffix(javaType, "[]"); ok {
		if _, pod := podTypes[elem]; pod {
			return KindPODArray
		}
		return KindObjectArray
	}
	return KindOther
}

// StripGenerics removes every <...> region from a Java type or parameter
// list, tracking nesting so Map<String, List<Integer>> collapses to Map.
func StripGenerics(value string) string {
	nestLevel := 0
	startIndex := 0
	var out strings.Builder
	for i, c := range value {
		switch c {
		case '<':
			if nestLevel == 0 {
				out.WriteString(value[startIndex:i])
			}
			nestLevel++
		case '>':
			startIndex = i + 1
			nestLevel--
		}
	}
	out.WriteString(value[startIndex:])
	return out.String()
}

// JavaDataTypeToC returns the JNI C datatype for the given Java type.
func JavaDataTypeToC(javaType string) string {
	javaType = StripGenerics(javaType)
	switch kind := KindOf(javaType); kind {
	case KindInt:
		return "jint"
	case KindByte:
		return "jbyte"
	case KindChar:
		return "jchar"
	case KindShort:
		return "jshort"
	case KindBoolean:
		return "jboolean"
	case KindLong:
		return "jlong"
	case KindDouble:
		return "jdouble"
	case KindFloat:
		return "jfloat"
	case KindVoid:
		return "void"
	case KindString:
		return "jstring"
	case KindClass:
		return "jclass"
	case KindThrowable:
		return "jthrowable"
	case KindPODArray:
		return JavaDataTypeToC(strings.TrimSuffix(javaType, "[]")) + "Array"
	case KindObjectArray:
		return "jobjectArray"
	default:
		return "jobject"
	}
}

// JavaReturnValueToC returns a safe C return literal for the given Java
// type: 0/false for PODs, the empty string for void, NULL for references.
func JavaReturnValueToC(javaType string) string {
	switch KindOf(StripGenerics(javaType)) {
	case KindBoolean:
		return "false"
	case KindInt, KindByte, KindChar, KindShort, KindLong, KindDouble, KindFloat:
		return "0"
	case KindVoid:
		return ""
	default:
		return "NULL"
	}
}

// IsScopedJNIType reports whether the JNI C type is a reference kind that
// must travel in a JavaRef wrapper.
func IsScopedJNIType(cType string) bool {
	switch cType {
	case "jobject", "jclass", "jstring", "jthrowable":
		return true
	}
	return strings.HasSuffix(cType, "Array")
}

// WrapCTypeForDeclaration wraps reference kinds in a borrowed-reference
// JavaParamRef for stub declarations; non-reference types pass through.
func WrapCTypeForDeclaration(cType string) string {
	if IsScopedJNIType(cType) {
		return "const base::android::JavaParamRef<" + cType + ">&"
	}
	return cType
}

// JavaDataTypeToCForCalledByNativeParam returns the C parameter type used
// when native code calls into Java. int is widened through JniIntWrapper to
// guard against accidental narrowing.
func JavaDataTypeToCForCalledByNativeParam(javaType string) string {
	if javaType == "int" {
		return "JniIntWrapper"
	}
	cType := JavaDataTypeToC(javaType)
	if IsScopedJNIType(cType) {
		return "const base::android::JavaRef<" + cType + ">&"
	}
	return cType
}

// GetEnvCall selects the JNIEnv entry point for a Java call. Constructors
// always go through NewObject; everything else composes
// Call[Static]<Type>Method from the return type.
func GetEnvCall(isConstructor, isStatic bool, returnType string) string {
	if isConstructor {
		return "NewObject"
	}
	var suffix string
	switch KindOf(returnType) {
	case KindBoolean:
		suffix = "Boolean"
	case KindByte:
		suffix = "Byte"
	case KindChar:
		suffix = "Char"
	case KindShort:
		suffix = "Short"
	case KindInt:
		suffix = "Int"
	case KindLong:
		suffix = "Long"
	case KindFloat:
		suffix = "Float"
	case KindDouble:
		suffix = "Double"
	case KindVoid:
		suffix = "Void"
	default:
		suffix = "Object"
	}
	if isStatic {
		suffix = "Static" + suffix
	}
	return "Call" + suffix + "Method"
}

// GetStaticCastForReturnType returns the explicit cast needed to narrow a
// jobject returned by env->Call*Method, or "" when no cast applies.
func GetStaticCastForReturnType(returnType string) string {
	returnType = StripGenerics(returnType)
	switch KindOf(returnType) {
	case KindString:
		return "jstring"
	case KindClass:
		return "jclass"
	case KindThrowable:
		return "jthrowable"
	case KindPODArray:
		return JavaDataTypeToC(returnType)
	case KindObjectArray:
		return "jobjectArray"
	}
	return ""
}

// JavaTypeToProxyCast collapses any type outside the POD and well-known
// reference sets to Object, preserving array-ness. Proxy methods are
// declared generically, so this is the type the GEN_JNI declaration uses.
func JavaTypeToProxyCast(javaType string) string {
	switch KindOf(javaType) {
	case KindOther:
		return "Object"
	case KindObjectArray:
		elem := strings.TrimSuffix(javaType, "[]")
		switch KindOf(elem) {
		case KindString, KindClass, KindThrowable, KindVoid:
			return javaType
		}
		return "Object[]"
	}
	return javaType
}
