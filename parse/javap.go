package parse

import (
	"regexp"
	"strings"

	"jnigen/model"
	"jnigen/resolver"
)

var (
	reJavaPClass = regexp.MustCompile(
		`.*?(public).*?(class|interface) (?P<class_name>\S+?)(?: |$)`)
	reJavaPMethod = regexp.MustCompile(
		`(?P<prefix>.*?)(?P<return_type>\S+?) (?P<name>\w+?)\((?P<params>.*?)\)`)
	reJavaPConstantField = regexp.MustCompile(
		`.*?public static final int (?P<name>.*?);`)
	reJavaPConstantValue = regexp.MustCompile(
		`.*?Constant(Value| value): int (?P<value>(-*[0-9]+)?)`)
)

// ParseJavaPSignature reads the JNI signature off a javap constant-pool
// comment line. javap already carries an authoritative encoded signature, so
// it is taken verbatim rather than recomputed.
func ParseJavaPSignature(signatureLine string) (string, error) {
	for _, prefix := range []string{"Signature: ", "descriptor: "} {
		if i := strings.Index(signatureLine, prefix); i != -1 {
			return `"` + signatureLine[i+len(prefix):] + `"`, nil
		}
	}
	return "", newParseError("no JNI signature found in javap output", signatureLine)
}

// ParseJavaP builds the model for a class from javap -c -verbose -s output.
// All entries are marked as system-class and carry their verbatim javap
// signature.
func ParseJavaP(contents []string, opts Options) (*JavaFile, error) {
	fullyQualifiedClass := ""
	for _, line := range contents {
		if m := reJavaPClass.FindStringSubmatch(line); m != nil {
			fullyQualifiedClass = group(reJavaPClass, m, "class_name")
			break
		}
	}
	if fullyQualifiedClass == "" {
		return nil, newParseError("could not find class declaration in javap output")
	}
	fullyQualifiedClass = strings.ReplaceAll(fullyQualifiedClass, ".", "/")
	// Java 7's javap includes type parameters in output, like HashSet<T>.
	// Strip the <...> and use the raw class name.
	fullyQualifiedClass = strings.SplitN(fullyQualifiedClass, "<", 2)[0]

	file := &JavaFile{
		FullyQualifiedClass: fullyQualifiedClass,
		Resolver:            resolver.NewTypeResolver(fullyQualifiedClass),
	}

	body := contents[2:]
	for lineno, content := range body {
		m := reJavaPMethod.FindStringSubmatch(content)
		if m == nil {
			continue
		}
		if lineno+3 >= len(contents) {
			continue
		}
		signature, err := ParseJavaPSignature(contents[lineno+3])
		if err != nil {
			return nil, err
		}
		file.CalledByNatives = append(file.CalledByNatives, model.NewCalledByNative(model.CalledByNativeSpec{
			Name:        group(reJavaPMethod, m, "name"),
			ReturnType:  strings.ReplaceAll(group(reJavaPMethod, m, "return_type"), ".", "/"),
			Params:      ParseParamList(strings.ReplaceAll(group(reJavaPMethod, m, "params"), ".", "/"), false),
			Static:      strings.Contains(group(reJavaPMethod, m, "prefix"), "static"),
			Unchecked:   opts.UncheckedExceptions,
			SystemClass: true,
			Signature:   signature,
		}))
	}

	reConstructor := regexp.MustCompile(`(.*?)public ` +
		regexp.QuoteMeta(strings.ReplaceAll(fullyQualifiedClass, "/", ".")) +
		`\((?P<params>.*?)\)`)
	for lineno, content := range body {
		m := reConstructor.FindStringSubmatch(content)
		if m == nil {
			continue
		}
		if lineno+3 >= len(contents) {
			continue
		}
		signature, err := ParseJavaPSignature(contents[lineno+3])
		if err != nil {
			return nil, err
		}
		file.CalledByNatives = append(file.CalledByNatives, model.NewCalledByNative(model.CalledByNativeSpec{
			Name:          "Constructor",
			ReturnType:    fullyQualifiedClass,
			Params:        ParseParamList(strings.ReplaceAll(m[len(m)-1], ".", "/"), false),
			Unchecked:     opts.UncheckedExceptions,
			SystemClass:   true,
			IsConstructor: true,
			Signature:     signature,
		}))
	}

	for lineno, content := range body {
		m := reJavaPConstantField.FindStringSubmatch(content)
		if m == nil {
			continue
		}
		// The constant's value trails the declaration by two or three lines
		// depending on the javap version.
		var value []string
		if lineno+4 < len(contents) {
			value = reJavaPConstantValue.FindStringSubmatch(contents[lineno+4])
		}
		if value == nil && lineno+5 < len(contents) {
			value = reJavaPConstantValue.FindStringSubmatch(contents[lineno+5])
		}
		if value != nil {
			file.ConstantFields = append(file.ConstantFields, model.ConstantField{
				Name:  group(reJavaPConstantField, m, "name"),
				Value: group(reJavaPConstantValue, value, "value"),
			})
		}
	}

	return file, nil
}
