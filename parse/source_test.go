package parse

import (
	"strings"
	"testing"

	"jnigen/model"
)

const sampleSource = `
// Copyright header comment.
package org.chromium.example;

import org.chromium.base.annotations.CalledByNative;

@JNINamespace("example")
public class SampleForTests {
  private native void nativeDestroy(int nativeCppClass);
  private static native int nativeInit(String param);

  @CalledByNative
  void onResult(int code) {}

  @CalledByNative("Inner")
  static String getLabel() { return "x"; }
}
`

func parseSample(t *testing.T) *JavaFile {
	t.Helper()
	file, err := ParseSource("SampleForTests.java", sampleSource, Options{})
	if err != nil {
		t.Fatal(err)
	}
	return file
}

func TestExtractFullyQualifiedJavaClassName(t *testing.T) {
	got, err := ExtractFullyQualifiedJavaClassName("path/to/Foo.java", "package org.chromium.base;\n")
	if err != nil {
		t.Fatal(err)
	}
	if got != "org/chromium/base/Foo" {
		t.Errorf("Unexpected class name %q", got)
	}

	if _, err := ExtractFullyQualifiedJavaClassName("Foo.java", "class Foo {}\n"); err == nil {
		t.Fatal("Expected an error without a package line")
	}
}

func TestExtractJNINamespace(t *testing.T) {
	if got := ExtractJNINamespace(sampleSource); got != "example" {
		t.Errorf("Expected namespace 'example', got %q", got)
	}
	if got := ExtractJNINamespace("class Foo {}"); got != "" {
		t.Errorf("Expected empty namespace, got %q", got)
	}
}

func TestExtractNatives(t *testing.T) {
	file := parseSample(t)
	if len(file.Natives) != 2 {
		t.Fatalf("Expected 2 natives, got %d", len(file.Natives))
	}

	destroy := file.Natives[0]
	if destroy.Name != "Destroy" {
		t.Errorf("Expected name 'Destroy', got %q", destroy.Name)
	}
	if destroy.Kind != model.KindMethod {
		t.Errorf("Expected KindMethod, got %v", destroy.Kind)
	}
	if destroy.P0Type != "CppClass" {
		t.Errorf("Expected P0Type 'CppClass', got %q", destroy.P0Type)
	}
	if destroy.Static {
		t.Error("nativeDestroy is not static")
	}

	initMethod := file.Natives[1]
	if initMethod.Name != "Init" || !initMethod.Static {
		t.Errorf("Expected static Init, got %+v", initMethod)
	}
	if initMethod.Kind != model.KindFunction {
		t.Errorf("Expected KindFunction, got %v", initMethod.Kind)
	}
}

func TestExtractNativesQualifiedName(t *testing.T) {
	source := `
package org.chromium.example;
class Foo {
  @NativeClassQualifiedName("Foo::Inner")
  private native void nativePing(int nativePointer);
}
`
	file, err := ParseSource("Foo.java", source, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(file.Natives) != 1 {
		t.Fatalf("Expected 1 native, got %d", len(file.Natives))
	}
	if file.Natives[0].P0Type != "Foo::Inner" {
		t.Errorf("Expected qualified P0Type, got %q", file.Natives[0].P0Type)
	}
}

func TestExtractCalledByNatives(t *testing.T) {
	file := parseSample(t)
	if len(file.CalledByNatives) != 2 {
		t.Fatalf("Expected 2 called-by-natives, got %d", len(file.CalledByNatives))
	}

	onResult := file.CalledByNatives[0]
	if onResult.Name != "onResult" || onResult.Static {
		t.Errorf("Unexpected record %+v", onResult)
	}
	if onResult.EnvCall != "CallVoidMethod" {
		t.Errorf("Expected CallVoidMethod, got %q", onResult.EnvCall)
	}

	getLabel := file.CalledByNatives[1]
	if getLabel.JavaClassName != "Inner" {
		t.Errorf("Expected owning class 'Inner', got %q", getLabel.JavaClassName)
	}
	if !getLabel.Static {
		t.Error("getLabel should be static")
	}
	if getLabel.StaticCast != "jstring" {
		t.Errorf("Expected jstring cast, got %q", getLabel.StaticCast)
	}
}

func TestExtractCalledByNativesConstructor(t *testing.T) {
	source := `
package org.chromium.example;
class Foo {
  @CalledByNative
  public Foo(int x) {}
}
`
	file, err := ParseSource("Foo.java", source, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(file.CalledByNatives) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(file.CalledByNatives))
	}
	ctor := file.CalledByNatives[0]
	if !ctor.IsConstructor {
		t.Fatal("Expected a constructor record")
	}
	if ctor.Name != "Constructor" {
		t.Errorf("Expected name 'Constructor', got %q", ctor.Name)
	}
	if ctor.ReturnType != "Foo" {
		t.Errorf("Expected return type 'Foo', got %q", ctor.ReturnType)
	}
	if ctor.EnvCall != "NewObject" {
		t.Errorf("Expected NewObject, got %q", ctor.EnvCall)
	}
}

func TestExtractCalledByNativesUnchecked(t *testing.T) {
	source := `
package org.chromium.example;
class Foo {
  @CalledByNativeUnchecked
  void run() {}
}
`
	file, err := ParseSource("Foo.java", source, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !file.CalledByNatives[0].Unchecked {
		t.Error("Expected the Unchecked suffix to mark the record")
	}
}

func TestExtractCalledByNativesResidualIsFatal(t *testing.T) {
	source := `
package org.chromium.example;
class Foo {
  @CalledByNative
  int noBody
}
`
	_, err := ParseSource("Foo.java", source, Options{})
	if err == nil {
		t.Fatal("Expected a parse error for an unmatched annotation")
	}
	perr, ok := err.(*ParseError)
	if !ok {
		t.Fatalf("Expected *ParseError, got %T", err)
	}
	if !strings.Contains(perr.Error(), "@CalledByNative") {
		t.Errorf("Error should carry the offending line, got %q", perr.Error())
	}
}

func TestExtractProxyNatives(t *testing.T) {
	source := `
package org.chromium.example;
class Foo {
  @NativeMethods
  interface Natives {
    void destroy(long nativeFooImpl);
    String getLabel(Profile profile);
  }
}
`
	file, err := ParseSource("Foo.java", source, Options{PtrType: "long"})
	if err != nil {
		t.Fatal(err)
	}
	if len(file.Natives) != 2 {
		t.Fatalf("Expected 2 proxy natives, got %d", len(file.Natives))
	}

	destroy := file.Natives[0]
	if !destroy.IsProxy || !destroy.Static {
		t.Errorf("Proxy natives are static by construction, got %+v", destroy)
	}
	if destroy.Kind != model.KindMethod || destroy.P0Type != "FooImpl" {
		t.Errorf("Expected pointer dispatch through FooImpl, got kind %v p0 %q",
			destroy.Kind, destroy.P0Type)
	}
	if destroy.CPPName != "Destroy" {
		t.Errorf("Expected capitalized CPPName, got %q", destroy.CPPName)
	}
	if destroy.ProxyName != "org_chromium_example_Foo_destroy" {
		t.Errorf("Unexpected proxy name %q", destroy.ProxyName)
	}

	getLabel := file.Natives[1]
	if getLabel.ProxyReturnType != "String" {
		t.Errorf("String passes the proxy cast, got %q", getLabel.ProxyReturnType)
	}
	if len(getLabel.ProxyParams) != 1 || getLabel.ProxyParams[0].Datatype != "Object" {
		t.Errorf("Profile should coerce to Object, got %+v", getLabel.ProxyParams)
	}
	if getLabel.Params[0].Datatype != "Profile" {
		t.Errorf("The declared params keep their types, got %+v", getLabel.Params)
	}
}

func TestRemoveComments(t *testing.T) {
	source := "int a; // trailing\n/* block\ncomment */int b;\nString s = \"// not a comment\";"
	got := RemoveComments(source)
	if strings.Contains(got, "trailing") || strings.Contains(got, "block") {
		t.Errorf("Comments survived removal: %q", got)
	}
	if !strings.Contains(got, `"// not a comment"`) {
		t.Errorf("String literal was damaged: %q", got)
	}
}

func TestParseParamList(t *testing.T) {
	params := ParseParamList("int a, final String b, @Nullable Profile c", false)
	if len(params) != 3 {
		t.Fatalf("Expected 3 params, got %d", len(params))
	}
	if params[1].Datatype != "String" || params[1].Name != "b" {
		t.Errorf("final qualifier should be dropped, got %+v", params[1])
	}
	if params[2].Datatype != "Profile" || params[2].Name != "c" {
		t.Errorf("Annotations should be dropped, got %+v", params[2])
	}
}

func TestParseParamListEmpty(t *testing.T) {
	if params := ParseParamList("  ", false); params != nil {
		t.Errorf("Expected nil for blank params, got %+v", params)
	}
}

func TestParseParamListGenerics(t *testing.T) {
	params := ParseParamList("Map<String, Integer> map, int n", false)
	if len(params) != 2 {
		t.Fatalf("Generic commas must not split params, got %+v", params)
	}
	if params[0].Datatype != "Map" {
		t.Errorf("Expected generics stripped, got %q", params[0].Datatype)
	}
}

func TestParseParamListUnnamed(t *testing.T) {
	params := ParseParamList("int, java/lang/String", false)
	if params[0].Name != "p0" || params[1].Name != "p1" {
		t.Errorf("Expected positional names, got %+v", params)
	}
}

func TestParseParamListProxyTypes(t *testing.T) {
	params := ParseParamList("Profile profile, int n", true)
	if params[0].Datatype != "Object" {
		t.Errorf("Expected Object coercion, got %q", params[0].Datatype)
	}
	if params[1].Datatype != "int" {
		t.Errorf("PODs pass the proxy cast, got %q", params[1].Datatype)
	}
}
