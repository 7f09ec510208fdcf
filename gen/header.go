package gen

import (
	"fmt"
	"strings"

	"jnigen/model"
	"jnigen/resolver"
)

// Options are the read-only knobs threaded through header generation.
type Options struct {
	// Name reported in the autogenerated-by banner
	ScriptName string
	// Default C++ namespace when the source has no @JNINamespace
	Namespace string
	// Extra headers to #include after <jni.h>
	Includes []string
	// Use the short hashed GEN_JNI names for proxy stubs
	UseProxyHash bool
	// Multiplexed dispatch; like hashing, switches GEN_JNI to its short form
	EnableJNIMultiplexing bool
	// Package prefix prepended to the GEN_JNI class path
	PackagePrefix string
	// Android dynamic-feature split the classes load from
	SplitName string
	// Emit frame-pointer bookkeeping in every stub
	EnableProfiling bool
	// Open a TRACE_EVENT0 scope in every stub
	EnableTracing bool
	// Mangle every method-id name, not just overloads
	AlwaysMangle bool
}

func (o Options) useShortGenJNI() bool {
	return o.UseProxyHash || o.EnableJNIMultiplexing
}

// ClassList is an insertion-ordered class-name to class-path map. Each
// generated header declares its constants in first-reference order, so a
// plain map will not do.
type ClassList struct {
	names []string
	paths map[string]string
}

// Add records a class under name, keeping the first insertion position but
// updating the path.
func (c *ClassList) Add(name, path string) {
	if c.paths == nil {
		c.paths = make(map[string]string)
	}
	if _, seen := c.paths[name]; !seen {
		c.names = append(c.names, name)
	}
	c.paths[name] = path
}

// Paths returns the class paths in insertion order.
func (c *ClassList) Paths() []string {
	paths := make([]string, len(c.names))
	for i, name := range c.names {
		paths[i] = c.paths[name]
	}
	return paths
}

// HeaderHelper computes the per-class constants and stub symbol names for
// one generated header.
type HeaderHelper struct {
	className           string
	fullyQualifiedClass string
	opts                Options
}

// NewHeaderHelper builds a helper for the file's enclosing class.
func NewHeaderHelper(className, fullyQualifiedClass string, opts Options) *HeaderHelper {
	return &HeaderHelper{
		className:           className,
		fullyQualifiedClass: fullyQualifiedClass,
		opts:                opts,
	}
}

// GenJNIClass returns the synthetic class proxy natives collapse onto.
func (h *HeaderHelper) GenJNIClass() model.JavaClass {
	return resolver.GenJNIClass(h.opts.useShortGenJNI(), h.opts.PackagePrefix)
}

// GetStubName returns the JVM-visible symbol name for a native stub.
// Direct natives keep their declaring class in the symbol; proxy natives go
// through the GEN_JNI class, optionally under the shorter hashed name.
func (h *HeaderHelper) GetStubName(native model.NativeMethod) string {
	if native.IsProxy {
		methodName := native.ProxyName
		if h.opts.UseProxyHash {
			methodName = native.HashedProxyName
		}
		return fmt.Sprintf("Java_%s_%s",
			resolver.EscapeClassName(h.GenJNIClass().FullName),
			resolver.EscapeClassName(methodName))
	}
	javaName := h.fullyQualifiedClass
	if native.JavaClassName != "" {
		javaName += "$" + native.JavaClassName
	}
	return fmt.Sprintf("Java_%s_native%s", resolver.EscapeClassName(javaName), native.Name)
}

// CollectNativeClasses records the classes referenced by native stubs.
// Proxy natives all collapse onto the GEN_JNI class.
func (h *HeaderHelper) CollectNativeClasses(classes *ClassList, natives []model.NativeMethod) {
	genJNI := h.GenJNIClass()
	for _, native := range natives {
		if native.IsProxy {
			classes.Add(genJNI.Name, genJNI.FullName)
			continue
		}
		classes.Add(h.className, h.fullyQualifiedClass)
		if native.JavaClassName != "" {
			classes.Add(native.JavaClassName, h.fullyQualifiedClass+"$"+native.JavaClassName)
		}
	}
}

// CollectCalledByNativeClasses records the classes reverse-call stubs
// resolve. An explicit owner maps to <outer>$<owner>.
func (h *HeaderHelper) CollectCalledByNativeClasses(classes *ClassList, calls []BoundCall) {
	for _, call := range calls {
		classes.Add(h.className, h.fullyQualifiedClass)
		if call.JavaClassName != "" {
			classes.Add(call.JavaClassName, h.fullyQualifiedClass+"$"+call.JavaClassName)
		}
	}
}

// GetClassPathLines renders the kClassPath constants and lazily-initialized
// jclass accessors for every unique class. With declareOnly the constants
// are extern declarations without initializers. The GEN_JNI class's own
// definition is suppressed: every header sharing it would otherwise emit a
// duplicate symbol.
func (h *HeaderHelper) GetClassPathLines(classes *ClassList, declareOnly bool) string {
	var ret strings.Builder
	genJNIPath := h.GenJNIClass().FullName

	for _, path := range classes.Paths() {
		if path == genJNIPath {
			continue
		}
		escaped := resolver.EscapeClassName(path)
		if declareOnly {
			fmt.Fprintf(&ret, "\nextern const char kClassPath_%s[];\n", escaped)
		} else {
			fmt.Fprintf(&ret,
				"\nJNI_REGISTRATION_EXPORT extern const char kClassPath_%s[];\n"+
					"const char kClassPath_%s[] = \"%s\";\n",
				escaped, escaped, path)
		}
	}

	splitArg := ""
	if h.opts.SplitName != "" {
		splitArg = fmt.Sprintf("%q, ", h.opts.SplitName)
	}
	for _, path := range classes.Paths() {
		if path == genJNIPath {
			continue
		}
		escaped := resolver.EscapeClassName(path)
		if declareOnly {
			fmt.Fprintf(&ret, "extern std::atomic<jclass> g_%s_clazz;\n", escaped)
		} else {
			ret.WriteString("// Leaking this jclass as we cannot use LazyInstance from some threads.\n")
			fmt.Fprintf(&ret, "JNI_REGISTRATION_EXPORT std::atomic<jclass> g_%s_clazz(nullptr);\n", escaped)
		}
		fmt.Fprintf(&ret,
			"#ifndef %s_clazz_defined\n"+
				"#define %s_clazz_defined\n"+
				"inline jclass %s_clazz(JNIEnv* env) {\n"+
				"  return base::android::LazyGetClass(env, kClassPath_%s, %s&g_%s_clazz);\n"+
				"}\n"+
				"#endif\n",
			escaped, escaped, escaped, escaped, splitArg, escaped)
	}

	return ret.String()
}
