package gen

import (
	"strings"
	"testing"
)

func TestWrapOutputShortLinesUntouched(t *testing.T) {
	in := "int a = 1;\nint b = 2;\n"
	if got := WrapOutput(in); got != in {
		t.Errorf("Short lines should pass through, got %q", got)
	}
}

func TestWrapOutputWrapsLongLines(t *testing.T) {
	long := "  " + strings.Repeat("word ", 30)
	out := WrapOutput(strings.TrimRight(long, " "))
	lines := strings.Split(out, "\n")
	for _, line := range lines {
		if len(line) > wrapLineLength {
			t.Errorf("Line still over budget: %q", line)
		}
	}
	if len(lines) < 3 {
		t.Fatalf("Expected the line to wrap, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "  word") {
		t.Errorf("First line should keep its indent, got %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "      word") {
		t.Errorf("Continuation should indent 4 deeper, got %q", lines[1])
	}
}

func TestWrapOutputPreservesInteriorWhitespace(t *testing.T) {
	line := strings.Repeat("a", 40) + "  " + strings.Repeat("b", 40) + " " + strings.Repeat("c", 40)
	want := strings.Repeat("a", 40) + "  " + strings.Repeat("b", 40) + "\n" +
		"    " + strings.Repeat("c", 40) + "\n"
	if got := WrapOutput(line); got != want {
		t.Errorf("WrapOutput = %q, want %q", got, want)
	}
}

func TestWrapOutputExemptLines(t *testing.T) {
	directive := "#define " + strings.Repeat("X", 120)
	comment := "// " + strings.Repeat("y", 120)
	for _, line := range []string{directive, comment} {
		out := WrapOutput(line)
		if strings.Count(out, "\n") != 1 {
			t.Errorf("Expected %q to pass through unwrapped, got %q", line[:10], out)
		}
	}
}

func TestWrapOutputNeverBreaksLongWords(t *testing.T) {
	word := strings.Repeat("a", 150)
	out := WrapOutput("    " + word)
	if !strings.Contains(out, word) {
		t.Error("A long word should survive intact")
	}
}

func TestWrapOutputTrailingNewline(t *testing.T) {
	out := WrapOutput("int a;")
	if !strings.HasSuffix(out, "\n") {
		t.Errorf("Expected a trailing newline, got %q", out)
	}
	if strings.HasSuffix(out, "\n\n") {
		t.Errorf("Expected exactly one trailing newline, got %q", out)
	}
}

func TestRemoveIndentedEmptyLines(t *testing.T) {
	in := "foo {\n  \n    \nbar\n \n}\n"
	want := "foo {\nbar\n \n}\n"
	if got := RemoveIndentedEmptyLines(in); got != want {
		t.Errorf("RemoveIndentedEmptyLines = %q, want %q", got, want)
	}
}
