package parse

import (
	"fmt"
	"regexp"
	"strings"

	"jnigen/jnitype"
	"jnigen/model"
)

// Matches single line comments, multiline comments, character literals, and
// double-quoted strings in one pass so comment markers inside literals
// survive removal.
var reCommentRemover = regexp.MustCompile(
	`(?sm)//.*?$|/\*.*?\*/|'(?:\\.|[^\\'])*'|"(?:\\.|[^\\"])*"`)

// RemoveComments strips // and /* */ comments from Java source while
// leaving string and character literals untouched.
func RemoveComments(contents string) string {
	return reCommentRemover.ReplaceAllStringFunc(contents, func(s string) string {
		if strings.HasPrefix(s, "/") {
			return ""
		}
		return s
	})
}

// ParseParamList splits a Java parameter-list span into Params. Generics
// are stripped first so nested commas don't split a type. Parameter
// annotations and the final qualifier are discarded; unnamed javap params
// get positional p<N> names. With useProxyTypes, each datatype is collapsed
// to its proxy (Object-coerced) form.
func ParseParamList(params string, useProxyTypes bool) []model.Param {
	if strings.TrimSpace(params) == "" {
		return nil
	}
	params = jnitype.StripGenerics(params)
	var ret []model.Param
	for _, p := range strings.Split(params, ",") {
		items := strings.Fields(p)
		for len(items) > 0 && strings.HasPrefix(items[0], "@") {
			items = items[1:]
		}
		if len(items) > 0 && items[0] == "final" {
			items = items[1:]
		}
		if len(items) == 0 {
			continue
		}
		param := model.Param{Datatype: items[0]}
		if len(items) > 1 {
			param.Name = items[1]
		} else {
			param.Name = fmt.Sprintf("p%d", len(ret))
		}
		if useProxyTypes {
			param.Datatype = jnitype.JavaTypeToProxyCast(param.Datatype)
		}
		ret = append(ret, param)
	}
	return ret
}
