package parse

import (
	"path/filepath"
	"regexp"
	"strings"

	log "github.com/sirupsen/logrus"

	"jnigen/jnitype"
	"jnigen/model"
	"jnigen/resolver"
)

// Options configures the model builders.
type Options struct {
	// Java type used for native pointers, "int" or "long"
	PtrType string
	// Use the short hashed GEN_JNI names for proxy natives
	UseProxyHash bool
	// Multiplexed dispatch also switches GEN_JNI to its short form
	EnableJNIMultiplexing bool
	// Package prefix prepended to the GEN_JNI class path
	PackagePrefix string
	// Treat javap-derived calls as unchecked (no exception check)
	UncheckedExceptions bool
}

func (o Options) ptrType() string {
	if o.PtrType == "" {
		return "int"
	}
	return o.PtrType
}

func (o Options) useShortGenJNI() bool {
	return o.UseProxyHash || o.EnableJNIMultiplexing
}

// JavaFile is the uniform parse result both model builders produce: one
// Java class reduced to the records the generator needs.
type JavaFile struct {
	// Fully-qualified slash-form name of the file's class
	FullyQualifiedClass string
	// C++ namespace to wrap stubs in, from @JNINamespace or the CLI
	Namespace string
	Resolver  *resolver.TypeResolver
	Natives   []model.NativeMethod
	// Raw records; the mangler binds method-id names in a later pass
	CalledByNatives []model.CalledByNative
	ConstantFields  []model.ConstantField
}

var (
	rePackage      = regexp.MustCompile(`.*?package (.*?);`)
	reJNINamespace = regexp.MustCompile(`.*?@JNINamespace\("(.*?)"\)`)

	reExtractNatives = regexp.MustCompile(
		`(@NativeClassQualifiedName` +
			`\("(?P<native_class_name>.*?)"\)\s+)?` +
			`(@NativeCall(\("(?P<java_class_name>.*?)"\))\s+)?` +
			`(?P<qualifiers>\w+\s\w+|\w+|\s+)\s*native ` +
			`(?P<return_type>\S*) ` +
			`(?P<name>native\w+)\((?P<params>.*?)\);`)

	reCalledByNative = regexp.MustCompile(
		`@CalledByNative(?P<suffix>Unchecked|ForTesting)?(?:\("(?P<annotation>.*)"\))?` +
			`(?:\s+@\w+(?:\(.*\))?)*` + // Ignore any other annotations.
			`\s+(?P<prefix>(` +
			`(private|protected|public|static|abstract|final|default|synchronized)` +
			`\s*)*)` +
			`(?:\s*@\w+)?` + // Ignore annotations in return types.
			`\s*(?P<return_type>\S*?)` +
			`\s*(?P<name>\w+)` +
			`\s*\((?P<params>[^\)]*)\)`)

	reNativeProxyInterface = regexp.MustCompile(
		`@NativeMethods\s*(public|private)*\s*interface\s*` +
			`(?P<interface_name>\w*)\s*(?P<interface_body>{(\s*.*)+?\s*})`)

	// Unlike reExtractNatives this matches plain method declarations: no
	// native qualifier, no name prefix.
	reInterfaceMethod = regexp.MustCompile(
		`(?s)(?P<qualifiers>` +
			`((public|private|static|final|abstract|protected|native)\s*)*)\s+` +
			`(?P<return_type>\S*)\s+` +
			`(?P<name>\w+)\((?P<params>.*?)\);`)
)

// group returns the named submatch of a FindStringSubmatch result.
func group(re *regexp.Regexp, match []string, name string) string {
	for i, n := range re.SubexpNames() {
		if n == name && i < len(match) {
			return match[i]
		}
	}
	return ""
}

// ExtractFullyQualifiedJavaClassName combines the package declaration with
// the file's base name into a slash-form class path.
func ExtractFullyQualifiedJavaClassName(javaFileName, contents string) (string, error) {
	m := rePackage.FindStringSubmatch(contents)
	if m == nil {
		return "", newParseError("unable to find \"package\" line in " + javaFileName)
	}
	classPath := strings.ReplaceAll(m[1], ".", "/")
	base := filepath.Base(javaFileName)
	className := strings.TrimSuffix(base, filepath.Ext(base))
	return classPath + "/" + className, nil
}

// ExtractJNINamespace returns the @JNINamespace annotation value, if any.
func ExtractJNINamespace(contents string) string {
	m := reJNINamespace.FindStringSubmatch(contents)
	if m == nil {
		return ""
	}
	return m[1]
}

// ExtractNatives scans for native method declarations and builds their
// records. ptrType decides whether a leading native<X> parameter marks the
// declaration as an instance method.
func ExtractNatives(contents, ptrType string) []model.NativeMethod {
	contents = strings.ReplaceAll(contents, "\n", "")
	var natives []model.NativeMethod
	for _, m := range reExtractNatives.FindAllStringSubmatch(contents, -1) {
		natives = append(natives, model.NewNativeMethod(model.NativeMethodSpec{
			Name:            strings.TrimPrefix(group(reExtractNatives, m, "name"), "native"),
			JavaClassName:   group(reExtractNatives, m, "java_class_name"),
			ReturnType:      group(reExtractNatives, m, "return_type"),
			Params:          ParseParamList(group(reExtractNatives, m, "params"), false),
			Static:          strings.Contains(group(reExtractNatives, m, "qualifiers"), "static"),
			NativeClassName: group(reExtractNatives, m, "native_class_name"),
			PtrType:         ptrType,
		}))
	}
	return natives
}

// ExtractCalledByNatives parses every @CalledByNative annotated method. An
// absent return-type token is constructor syntax: the captured name is the
// constructed type. After scanning, a residual @CalledByNative token left in
// the stripped text is a fatal parse error.
func ExtractCalledByNatives(contents string, uncheckedByDefault bool) ([]model.CalledByNative, error) {
	var calledByNatives []model.CalledByNative
	for _, m := range reCalledByNative.FindAllStringSubmatch(contents, -1) {
		returnType := group(reCalledByNative, m, "return_type")
		name := group(reCalledByNative, m, "name")
		isConstructor := false
		if returnType == "" {
			isConstructor = true
			returnType = name
			name = "Constructor"
		}
		calledByNatives = append(calledByNatives, model.NewCalledByNative(model.CalledByNativeSpec{
			JavaClassName: group(reCalledByNative, m, "annotation"),
			Name:          name,
			ReturnType:    returnType,
			Params:        ParseParamList(group(reCalledByNative, m, "params"), false),
			Static:        strings.Contains(group(reCalledByNative, m, "prefix"), "static"),
			Unchecked:     uncheckedByDefault || group(reCalledByNative, m, "suffix") == "Unchecked",
			IsConstructor: isConstructor,
		}))
	}

	// Anything that still mentions the annotation did not match the pattern.
	unmatched := strings.Split(reCalledByNative.ReplaceAllString(contents, ""), "\n")
	for i := 0; i+1 < len(unmatched); i++ {
		if strings.Contains(unmatched[i], "@CalledByNative") {
			return nil, newParseError("could not parse @CalledByNative method signature",
				unmatched[i], unmatched[i+1])
		}
	}
	return calledByNatives, nil
}

// ExtractProxyNatives parses @NativeMethods interface bodies into proxy
// native records. Proxy declarations are coerced to Object types and named
// through the GEN_JNI class.
func ExtractProxyNatives(fullyQualifiedClass, contents string, opts Options) []model.NativeMethod {
	genJNI := resolver.GenJNIClass(opts.useShortGenJNI(), opts.PackagePrefix)
	var methods []model.NativeMethod
	for _, iface := range reNativeProxyInterface.FindAllStringSubmatch(contents, -1) {
		body := group(reNativeProxyInterface, iface, "interface_body")
		for _, m := range reInterfaceMethod.FindAllStringSubmatch(body, -1) {
			name := group(reInterfaceMethod, m, "name")
			proxyName, hashedName := resolver.CreateMethodNames(
				model.NewJavaClass(fullyQualifiedClass), name, model.IsTestOnlyName(name))
			methods = append(methods, model.NewNativeMethod(model.NativeMethodSpec{
				Name:            name,
				ReturnType:      group(reInterfaceMethod, m, "return_type"),
				Params:          ParseParamList(group(reInterfaceMethod, m, "params"), false),
				Static:          true,
				IsProxy:         true,
				PtrType:         opts.ptrType(),
				ProxyName:       proxyName,
				HashedProxyName: hashedName,
				ProxyReturnType: jnitype.JavaTypeToProxyCast(group(reInterfaceMethod, m, "return_type")),
				ProxyParams:     ParseParamList(group(reInterfaceMethod, m, "params"), true),
			}))
		}
	}
	if len(methods) > 0 {
		log.WithFields(log.Fields{
			"class":  fullyQualifiedClass,
			"genJNI": genJNI.FullName,
			"count":  len(methods),
		}).Debug("extracted proxy natives")
	}
	return methods
}

// ParseSource builds the complete model for one Java source file.
func ParseSource(javaFileName, contents string, opts Options) (*JavaFile, error) {
	fullyQualifiedClass, err := ExtractFullyQualifiedJavaClassName(javaFileName, contents)
	if err != nil {
		return nil, err
	}
	contents = RemoveComments(contents)

	r := resolver.NewTypeResolver(fullyQualifiedClass)
	if err := r.ExtractImportsAndInnerClasses(contents); err != nil {
		return nil, err
	}

	natives := ExtractNatives(contents, opts.ptrType())
	natives = append(natives, ExtractProxyNatives(fullyQualifiedClass, contents, opts)...)

	calledByNatives, err := ExtractCalledByNatives(contents, false)
	if err != nil {
		return nil, err
	}

	return &JavaFile{
		FullyQualifiedClass: fullyQualifiedClass,
		Namespace:           ExtractJNINamespace(contents),
		Resolver:            r,
		Natives:             natives,
		CalledByNatives:     calledByNatives,
	}, nil
}
