package gen

import (
	"regexp"
	"strings"
)

// Use 100 columns rather than 80 because it makes many generated lines more
// readable.
const wrapLineLength = 100

type lineWrapper struct {
	subsequentIndent string
}

// Wrapping is fairly hot; pre-building one wrapper per indent level avoids
// reconstructing the continuation indent for every line.
var wrappersByIndent = func() []lineWrapper {
	wrappers := make([]lineWrapper, 50)
	for indent := range wrappers {
		wrappers[indent] = lineWrapper{subsequentIndent: strings.Repeat(" ", indent+4)}
	}
	return wrappers
}()

// chunks splits a line into alternating runs of spaces and non-space words,
// so interior whitespace survives wrapping byte for byte.
func chunks(s string) []string {
	var out []string
	for i := 0; i < len(s); {
		j := i
		if s[i] == ' ' {
			for j < len(s) && s[j] == ' ' {
				j++
			}
		} else {
			for j < len(s) && s[j] != ' ' {
				j++
			}
		}
		out = append(out, s[i:j])
		i = j
	}
	return out
}

// wrap greedily splits a single overlong line on whitespace runs. The first
// output line keeps the original leading indent; continuation lines are
// indented 4 deeper and drop the whitespace they broke on. Words longer than
// the budget are never broken.
func (w lineWrapper) wrap(line string) []string {
	trimmed := strings.TrimLeft(line, " ")
	indent := line[:len(line)-len(trimmed)]

	var out []string
	current := indent
	empty := true
	parts := chunks(trimmed)
	for i := 0; i < len(parts); i++ {
		sep := ""
		word := parts[i]
		if word[0] == ' ' {
			if i+1 == len(parts) {
				break
			}
			sep = word
			i++
			word = parts[i]
		}
		if !empty && len(current)+len(sep)+len(word) > wrapLineLength {
			out = append(out, current)
			current = w.subsequentIndent
			empty = true
		}
		if !empty {
			current += sep
		}
		current += word
		empty = false
	}
	return append(out, current)
}

// WrapOutput wraps every generated line over the column budget.
// Preprocessor directives and comments pass through unmodified regardless
// of length. A trailing empty line is always appended.
func WrapOutput(output string) string {
	lines := strings.Split(output, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	var ret []string
	for _, line := range lines {
		if len(line) < wrapLineLength || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			ret = append(ret, line)
			continue
		}
		firstLineIndent := len(line) - len(strings.TrimLeft(line, " "))
		if firstLineIndent >= len(wrappersByIndent) {
			firstLineIndent = len(wrappersByIndent) - 1
		}
		ret = append(ret, wrappersByIndent[firstLineIndent].wrap(line)...)
	}
	ret = append(ret, "")
	return strings.Join(ret, "\n")
}

var reIndentedEmptyLine = regexp.MustCompile(`(?m)^(?:  )+\n`)

// RemoveIndentedEmptyLines strips lines consisting solely of doubled-indent
// whitespace, a template-substitution artifact.
func RemoveIndentedEmptyLines(s string) string {
	return reIndentedEmptyLine.ReplaceAllString(s, "")
}
