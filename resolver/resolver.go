// Package resolver turns Java type names into JNI signature encodings and
// derives the escaped/hashed identifiers the generated bindings are keyed by.
package resolver

import (
	"fmt"
	"regexp"
	"strings"

	"jnigen/jnitype"
	"jnigen/model"
)

var podSignatures = map[string]string{
	"int":     "I",
	"boolean": "Z",
	"char":    "C",
	"short":   "S",
	"long":    "J",
	"double":  "D",
	"float":   "F",
	"byte":    "B",
	"void":    "V",
}

// Classes the Java compiler imports implicitly. Referencing one of these
// without an explicit import is ambiguous from JNI's point of view, so the
// resolver refuses to guess rather than fall back to the file's package.
var implicitImports = []string{
	"java/lang/Appendable",
	"java/lang/AutoCloseable",
	"java/lang/Character",
	"java/lang/Cloneable",
	"java/lang/Comparable",
	"java/lang/Enum",
	"java/lang/Exception",
	"java/lang/Iterable",
	"java/lang/Math",
	"java/lang/Number",
	"java/lang/Process",
	"java/lang/Runtime",
	"java/lang/RuntimeException",
	"java/lang/StringBuffer",
	"java/lang/StringBuilder",
	"java/lang/System",
	"java/lang/Thread",
	"java/lang/Void",
	"java/util/ArrayList",
	"java/util/Arrays",
	"java/util/Collection",
	"java/util/Collections",
	"java/util/Comparator",
	"java/util/Date",
	"java/util/HashMap",
	"java/util/HashSet",
	"java/util/Iterator",
	"java/util/LinkedList",
	"java/util/List",
	"java/util/Map",
	"java/util/Objects",
	"java/util/Optional",
	"java/util/Queue",
	"java/util/Random",
	"java/util/Set",
	"java/util/TreeMap",
	"java/util/TreeSet",
}

// Well-known classes that may be referenced without an import.
var objectSignatures = []string{
	"Ljava/lang/Boolean",
	"Ljava/lang/Integer",
	"Ljava/lang/Long",
	"Ljava/lang/Object",
	"Ljava/lang/String",
	"Ljava/lang/Class",
	"Ljava/lang/CharSequence",
	"Ljava/lang/Runnable",
	"Ljava/lang/Throwable",
}

// TypeResolver resolves the Java type names that appear in one source file
// against that file's package, imports, and inner classes.
type TypeResolver struct {
	fullyQualifiedClass string
	pkg                 string
	imports             []string
	innerClasses        []string
}

// NewTypeResolver builds a resolver for a slash-form fully-qualified class.
func NewTypeResolver(fullyQualifiedClass string) *TypeResolver {
	pkg := ""
	if i := strings.LastIndex(fullyQualifiedClass, "/"); i >= 0 {
		pkg = fullyQualifiedClass[:i]
	}
	return &TypeResolver{
		fullyQualifiedClass: "L" + fullyQualifiedClass,
		pkg:                 pkg,
	}
}

var (
	reImport            = regexp.MustCompile(`import.*?(?P<class>\S*?);`)
	reInnerClass        = regexp.MustCompile(`(class|interface|enum)\s+?(?P<name>\w+?)\W`)
	reAdditionalImports = regexp.MustCompile(`@JNIAdditionalImport\(\s*{?(?P<class_names>.*?)}?\s*\)`)
)

// ExtractImportsAndInnerClasses scans the source text for import statements,
// inner class declarations, and @JNIAdditionalImport annotations so later
// type lookups can resolve unqualified names.
func (r *TypeResolver) ExtractImportsAndInnerClasses(contents string) error {
	contents = strings.ReplaceAll(contents, "\n", "")
	for _, m := range reImport.FindAllStringSubmatch(contents, -1) {
		r.imports = append(r.imports, "L"+strings.ReplaceAll(m[1], ".", "/"))
	}
	for _, m := range reInnerClass.FindAllStringSubmatch(contents, -1) {
		inner := m[2]
		if !strings.HasSuffix(r.fullyQualifiedClass, inner) {
			r.innerClasses = append(r.innerClasses, r.fullyQualifiedClass+"$"+inner)
		}
	}
	for _, m := range reAdditionalImports.FindAllStringSubmatch(contents, -1) {
		for _, className := range strings.Split(m[1], ",") {
			if err := r.addAdditionalImport(strings.TrimSpace(className)); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *TypeResolver) addAdditionalImport(className string) error {
	rawClassName, ok := strings.CutSuffix(className, ".class")
	if !ok {
		return fmt.Errorf("%s: @JNIAdditionalImport arguments must end in .class", className)
	}
	if strings.Contains(rawClassName, ".") {
		return fmt.Errorf("%s cannot be used in @JNIAdditionalImport, only import unqualified outer classes", className)
	}
	newImport := "L" + r.pkg + "/" + rawClassName
	for _, imp := range r.imports {
		if imp == newImport {
			return fmt.Errorf("do not use @JNIAdditionalImport on an already imported class: %s",
				strings.ReplaceAll(newImport, "/", "."))
		}
	}
	r.imports = append(r.imports, newImport)
	return nil
}

// JavaToJNI converts a Java type name into its JNI signature encoding,
// resolving unqualified reference types through the file's imports and
// inner classes.
func (r *TypeResolver) JavaToJNI(param string) (string, error) {
	prefix := ""
	for strings.HasSuffix(param, "[]") {
		prefix += "["
		param = param[:len(param)-2]
	}
	if i := strings.Index(param, "<"); i >= 0 {
		param = param[:i]
	}
	if sig, ok := podSignatures[param]; ok {
		return prefix + sig, nil
	}
	if strings.Contains(param, "/") {
		// Coming from javap, use the fully qualified param directly.
		return prefix + "L" + param + ";", nil
	}

	candidates := make([]string, 0, len(objectSignatures)+1+len(r.innerClasses))
	candidates = append(candidates, objectSignatures...)
	candidates = append(candidates, r.fullyQualifiedClass)
	candidates = append(candidates, r.innerClasses...)
	for _, qualified := range candidates {
		if strings.HasSuffix(qualified, "/"+param) ||
			strings.HasSuffix(qualified, "$"+strings.ReplaceAll(param, ".", "$")) ||
			qualified == "L"+param {
			return prefix + qualified + ";", nil
		}
	}

	// Referencing Class from import pkg.Class. Importing an inner class
	// directly is not supported.
	for _, qualified := range r.imports {
		if strings.HasSuffix(qualified, "/"+param) {
			components := strings.Split(qualified, "/")
			if len(components) > 2 && isUpper(components[len(components)-2][0]) {
				return "", fmt.Errorf("inner class (%s) can not be imported and used by JNI (%s); "+
					"import the outer class and use Outer.Inner instead", qualified, param)
			}
			return prefix + qualified + ";", nil
		}
	}

	// Referencing Class.Inner from import pkg.Class.
	if strings.Contains(param, ".") {
		components := strings.Split(param, ".")
		outer := strings.Join(components[:len(components)-1], "/")
		inner := components[len(components)-1]
		for _, qualified := range r.imports {
			if strings.HasSuffix(qualified, "/"+outer) {
				return prefix + qualified + "$" + inner + ";", nil
			}
		}
		return "", fmt.Errorf("inner class (%s) can not be used directly by JNI; import the outer class %s.%s",
			param, strings.ReplaceAll(r.pkg, "/", "."), strings.ReplaceAll(outer, "/", "."))
	}

	if err := checkImplicitImports(param); err != nil {
		return "", err
	}

	// Type not found, fall back to the same package as this class.
	return prefix + "L" + r.pkg + "/" + param + ";", nil
}

// checkImplicitImports keeps implicitly imported classes, such as
// java.lang.*, from being treated as being in the same package.
func checkImplicitImports(param string) error {
	for _, implicit := range implicitImports {
		if strings.HasSuffix(implicit, "/"+param) {
			return fmt.Errorf("ambiguous class (%s) can not be used directly by JNI; "+
				"please import it, probably: import %s;",
				param, strings.ReplaceAll(implicit, "/", "."))
		}
	}
	return nil
}

// Signature returns the quoted JNI signature string for a parameter list
// and return type.
func (r *TypeResolver) Signature(params []model.Param, returns string) (string, error) {
	var b strings.Builder
	b.WriteString(`"(`)
	for _, p := range params {
		sig, err := r.JavaToJNI(jnitype.StripGenerics(p.Datatype))
		if err != nil {
			return "", err
		}
		b.WriteString(sig)
	}
	b.WriteString(")")
	sig, err := r.JavaToJNI(returns)
	if err != nil {
		return "", err
	}
	b.WriteString(sig)
	b.WriteString(`"`)
	return b.String(), nil
}

func isUpper(c byte) bool {
	return c >= 'A' && c <= 'Z'
}
