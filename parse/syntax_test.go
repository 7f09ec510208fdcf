package parse

import (
	"context"
	"testing"
)

func TestVerifySyntaxValidSource(t *testing.T) {
	source := []byte(`
package org.chromium.example;

public class Foo {
  private native void nativeDestroy(long nativeFoo);
}
`)
	if err := VerifySyntax(context.Background(), source); err != nil {
		t.Errorf("Expected valid source to pass, got %v", err)
	}
}

func TestVerifySyntaxBrokenSource(t *testing.T) {
	source := []byte(`
package org.chromium.example;

public class Foo {
  private native void nativeDestroy(long nativeFoo;
`)
	err := VerifySyntax(context.Background(), source)
	if err == nil {
		t.Fatal("Expected a syntax error")
	}
	if _, ok := err.(*ParseError); !ok {
		t.Errorf("Expected *ParseError, got %T", err)
	}
}
