package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunGenerateParseErrorWritesNoOutput(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "Broken.java")
	source := "package org.chromium.example;\n" +
		"public class Broken {\n" +
		"  @CalledByNative\n" +
		"}\n"
	if err := os.WriteFile(input, []byte(source), 0o644); err != nil {
		t.Fatal(err)
	}

	genOutputDir = dir
	genOutputNames = []string{"broken_jni.h"}
	defer func() {
		genOutputDir = ""
		genOutputNames = nil
	}()

	err := runGenerate(generateCmd, []string{input})
	if err == nil {
		t.Fatal("Expected a parse error for a dangling annotation")
	}
	if !strings.Contains(err.Error(), "@CalledByNative") {
		t.Errorf("Expected the error to name the annotation, got %q", err)
	}
	if _, statErr := os.Stat(filepath.Join(dir, "broken_jni.h")); !os.IsNotExist(statErr) {
		t.Error("No output should be written for input that fails to parse")
	}
}

func TestRunGenerateWritesHeader(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "Sample.java")
	source := "package org.chromium.example;\n" +
		"public class Sample {\n" +
		"  private static native int nativeInit();\n" +
		"}\n"
	if err := os.WriteFile(input, []byte(source), 0o644); err != nil {
		t.Fatal(err)
	}

	genOutputDir = dir
	genOutputNames = []string{"sample_jni.h"}
	defer func() {
		genOutputDir = ""
		genOutputNames = nil
	}()

	if err := runGenerate(generateCmd, []string{input}); err != nil {
		t.Fatal(err)
	}
	out, err := os.ReadFile(filepath.Join(dir, "sample_jni.h"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(out), "org_chromium_example_Sample_JNI") {
		t.Errorf("Expected the include guard in the output:\n%s", out)
	}
}
