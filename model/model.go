// Package model holds the in-memory records a parsed Java file is reduced
// to before header generation: native method declarations, methods exported
// back to native code, and javap constant fields.
package model

import (
	"strings"

	"jnigen/jnitype"
)

// Param is a single method parameter, owned by its method record.
type Param struct {
	// The parameter name as written in the Java source
	Name string
	// The Java type name, generics already stripped
	Datatype string
}

// JavaClass describes a Java class by its fully-qualified slash-form path.
type JavaClass struct {
	// Fully-qualified name in slash form, e.g. org/chromium/base/Foo
	FullName string
	// The simple class name, e.g. Foo
	Name string
}

// NewJavaClass builds a JavaClass from a slash-form path.
func NewJavaClass(fullName string) JavaClass {
	return JavaClass{
		FullName: fullName,
		Name:     fullName[strings.LastIndex(fullName, "/")+1:],
	}
}

// MethodKind distinguishes native declarations that dispatch through an
// opaque C++ object pointer from free functions.
type MethodKind int

const (
	// KindFunction is a free function implemented as JNI_<Class>_<Name>
	KindFunction MethodKind = iota
	// KindMethod dispatches through params[0], an opaque native pointer
	KindMethod
)

// Suffixes that mark a method as test-only.
var testOnlySuffixes = []string{"ForTesting", "ForTests", "ForTest"}

// NativeMethodSpec carries the raw facts a model builder extracted for one
// native declaration. NewNativeMethod derives everything else.
type NativeMethodSpec struct {
	// Declared name with any "native" prefix already stripped
	Name string
	// Owning inner class from @NativeCall; empty means the enclosing class
	JavaClassName string
	// Java return type
	ReturnType string
	// Ordered parameter list
	Params []Param
	// Whether the declaration carried the static qualifier
	Static bool
	// Whether this came from an @NativeMethods proxy interface
	IsProxy bool
	// Explicit @NativeClassQualifiedName override for the pointer type
	NativeClassName string
	// The Java type used for native pointers, "int" or "long"
	PtrType string
	// Escaped GEN_JNI method name, proxies only
	ProxyName string
	// Hashed GEN_JNI method name, proxies only
	HashedProxyName string
	// Object-coerced return type, proxies only
	ProxyReturnType string
	// Object-coerced parameter list, proxies only
	ProxyParams []Param
}

// NativeMethod describes a C++ method or function that Java calls through a
// generated stub. Built once by NewNativeMethod and never mutated.
type NativeMethod struct {
	Name            string
	CPPName         string
	JavaClassName   string
	ReturnType      string
	Params          []Param
	Static          bool
	IsProxy         bool
	IsTestOnly      bool
	Kind            MethodKind
	P0Type          string
	ProxyName       string
	HashedProxyName string
	ProxyReturnType string
	ProxyParams     []Param
	// Multiplexing switch number; -1 when multiplexing is off
	SwitchNum int
}

// NewNativeMethod classifies the declaration and fills in the derived
// fields. A declaration is a "method" iff its first parameter is an opaque
// native pointer: named native<X> and typed as the configured pointer width.
func NewNativeMethod(spec NativeMethodSpec) NativeMethod {
	// Proxy methods don't have a native prefix, so their declared name is
	// lowerCamel; the C++ declaration still wants UpperCamel.
	cppName := spec.Name
	if spec.IsProxy {
		cppName = capitalize(spec.Name)
	}
	n := NativeMethod{
		Name:            spec.Name,
		CPPName:         cppName,
		JavaClassName:   spec.JavaClassName,
		ReturnType:      spec.ReturnType,
		Params:          spec.Params,
		Static:          spec.Static,
		IsProxy:         spec.IsProxy,
		IsTestOnly:      isTestOnly(spec.Name),
		ProxyName:       spec.ProxyName,
		HashedProxyName: spec.HashedProxyName,
		ProxyReturnType: spec.ProxyReturnType,
		ProxyParams:     spec.ProxyParams,
		SwitchNum:       -1,
	}
	ptrType := spec.PtrType
	if ptrType == "" {
		ptrType = "int"
	}
	if len(spec.Params) > 0 && spec.Params[0].Datatype == ptrType &&
		strings.HasPrefix(spec.Params[0].Name, "native") {
		n.Kind = KindMethod
		n.P0Type = strings.TrimPrefix(spec.Params[0].Name, "native")
		if spec.NativeClassName != "" {
			n.P0Type = spec.NativeClassName
		}
	} else {
		n.Kind = KindFunction
	}
	return n
}

// IsTestOnlyName reports whether a method name carries a test-only suffix.
func IsTestOnlyName(name string) bool {
	return isTestOnly(name)
}

func isTestOnly(name string) bool {
	for _, suffix := range testOnlySuffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}

func capitalize(name string) string {
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

// CalledByNativeSpec carries the raw facts for one @CalledByNative method or
// a javap-derived entry.
type CalledByNativeSpec struct {
	// Owning inner class; empty means the file's enclosing class
	JavaClassName string
	// Method name, or "Constructor"
	Name string
	// Java return type; for constructors, the constructed type
	ReturnType string
	Params     []Param
	Static     bool
	// Skip the CheckException call after invoking
	Unchecked     bool
	IsConstructor bool
	// True only for javap-derived library classes
	SystemClass bool
	// Verbatim JNI signature from the javap constant pool, javap only.
	// Source-derived entries leave this empty and the signature is computed
	// from the params later.
	Signature string
}

// CalledByNative describes a Java method invoked from native code through a
// lazily-bound reverse-call stub. The mangled method-id variable name is not
// stored here; the mangler wraps these records instead.
type CalledByNative struct {
	JavaClassName string
	Name          string
	ReturnType    string
	Params        []Param
	Static        bool
	Unchecked     bool
	IsConstructor bool
	SystemClass   bool
	Signature     string
	// The env->Call* entry point selected by the return type
	EnvCall string
	// Explicit cast for the returned jobject, "" when none applies
	StaticCast string
}

// NewCalledByNative derives the env call and static cast for the record.
func NewCalledByNative(spec CalledByNativeSpec) CalledByNative {
	return CalledByNative{
		JavaClassName: spec.JavaClassName,
		Name:          spec.Name,
		ReturnType:    spec.ReturnType,
		Params:        spec.Params,
		Static:        spec.Static,
		Unchecked:     spec.Unchecked,
		IsConstructor: spec.IsConstructor,
		SystemClass:   spec.SystemClass,
		Signature:     spec.Signature,
		EnvCall:       jnitype.GetEnvCall(spec.IsConstructor, spec.Static, spec.ReturnType),
		StaticCast:    jnitype.GetStaticCastForReturnType(spec.ReturnType),
	}
}

// ConstantField is a public static final int read out of javap output,
// emitted as a parallel native enum value.
type ConstantField struct {
	Name  string
	Value string
}
