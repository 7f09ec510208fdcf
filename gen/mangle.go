// Package gen renders the parsed model into one formatted C++ JNI binding
// header: mangled method-id names, class-path constants, stubs, and the
// column-wrapped final text.
package gen

import (
	"fmt"
	"regexp"
	"strings"

	"jnigen/model"
	"jnigen/resolver"
)

// BoundCall pairs a raw CalledByNative record with the method-id variable
// name the mangler computed for it. The raw record is never mutated.
type BoundCall struct {
	*model.CalledByNative
	MethodIDVarName string
}

var identifierGrammar = regexp.MustCompile(`^[0-9a-zA-Z_]+$`)

// GetMangledParam compresses a JNI signature encoding into a compact
// identifier fragment. Encodings of length <= 2 only have [ rewritten to A;
// longer encodings keep [ as A, uppercase letters, and the letter after a /
// or L promoted to uppercase.
//
// The rule is deliberately preserved exactly as-is: the output names cache
// variables in every generated header, so any change is an observable
// compatibility break for code keying off them.
func GetMangledParam(datatype string) string {
	if len(datatype) <= 2 {
		return strings.ReplaceAll(datatype, "[", "A")
	}
	var ret strings.Builder
	for i := 1; i < len(datatype); i++ {
		c := datatype[i]
		switch {
		case c == '[':
			ret.WriteByte('A')
		case c >= 'A' && c <= 'Z':
			ret.WriteByte(c)
		case datatype[i-1] == '/' || datatype[i-1] == 'L':
			if c >= 'a' && c <= 'z' {
				c -= 'a' - 'A'
			}
			ret.WriteByte(c)
		}
	}
	return ret.String()
}

// GetMangledMethodName returns a mangled method name for the signature.
// The result is a valid C identifier, unique across all valid overloads of
// the same method.
func GetMangledMethodName(r *resolver.TypeResolver, name string, params []model.Param, returnType string) (string, error) {
	items := make([]string, 0, len(params)+1)
	datatypes := append([]string{returnType}, paramDatatypes(params)...)
	for _, datatype := range datatypes {
		sig, err := r.JavaToJNI(datatype)
		if err != nil {
			return "", err
		}
		items = append(items, GetMangledParam(sig))
	}
	mangled := name + strings.Join(items, "_")
	if !identifierGrammar.MatchString(mangled) {
		// Signatures are generator controlled; this is a generator bug, not
		// bad user input.
		panic(fmt.Sprintf("mangled name %q is not a valid identifier", mangled))
	}
	return mangled, nil
}

// MangleCalledByNatives binds a method-id variable name to every record.
// Overloads sharing (owning class, name) get signature-mangled names;
// singleton groups keep the plain name unless alwaysMangle is set.
func MangleCalledByNatives(r *resolver.TypeResolver, calledByNatives []model.CalledByNative, alwaysMangle bool) ([]BoundCall, error) {
	methodCounts := make(map[string]map[string]int)
	for i := range calledByNatives {
		cbn := &calledByNatives[i]
		if methodCounts[cbn.JavaClassName] == nil {
			methodCounts[cbn.JavaClassName] = make(map[string]int)
		}
		methodCounts[cbn.JavaClassName][cbn.Name]++
	}

	bound := make([]BoundCall, 0, len(calledByNatives))
	for i := range calledByNatives {
		cbn := &calledByNatives[i]
		methodIDVarName := cbn.Name
		if alwaysMangle || methodCounts[cbn.JavaClassName][cbn.Name] > 1 {
			var err error
			methodIDVarName, err = GetMangledMethodName(r, cbn.Name, cbn.Params, cbn.ReturnType)
			if err != nil {
				return nil, err
			}
		}
		bound = append(bound, BoundCall{CalledByNative: cbn, MethodIDVarName: methodIDVarName})
	}
	return bound, nil
}

func paramDatatypes(params []model.Param) []string {
	datatypes := make([]string, len(params))
	for i, p := range params {
		datatypes[i] = p.Datatype
	}
	return datatypes
}
