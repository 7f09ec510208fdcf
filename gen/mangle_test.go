package gen

import (
	"testing"

	"jnigen/model"
	"jnigen/resolver"
)

func TestGetMangledParam(t *testing.T) {
	cases := map[string]string{
		"I":                    "I",
		"[I":                   "AI",
		"[Z":                   "AZ",
		"Ljava/lang/String;":   "JLS",
		"[Ljava/lang/String;":  "LJLS",
		"Lorg/chromium/Foo;":   "OCF",
		"[[I":                  "AI",
		"Ljava/lang/Class;":    "JLC",
		"Ljava/lang/Runnable;": "JLR",
	}
	for sig, want := range cases {
		if got := GetMangledParam(sig); got != want {
			t.Errorf("GetMangledParam(%q) = %q, want %q", sig, got, want)
		}
	}
}

func TestGetMangledMethodName(t *testing.T) {
	r := resolver.NewTypeResolver("org/chromium/foo/Bar")
	name, err := GetMangledMethodName(r, "getString", []model.Param{
		{Name: "i", Datatype: "int"},
		{Name: "s", Datatype: "String"},
	}, "String")
	if err != nil {
		t.Fatal(err)
	}
	if name != "getStringJLS_I_JLS" {
		t.Errorf("Unexpected mangled name %q", name)
	}
}

func TestMangleCalledByNativesOverloads(t *testing.T) {
	r := resolver.NewTypeResolver("org/chromium/foo/Bar")
	calls := []model.CalledByNative{
		model.NewCalledByNative(model.CalledByNativeSpec{
			Name: "open", ReturnType: "void",
		}),
		model.NewCalledByNative(model.CalledByNativeSpec{
			Name: "open", ReturnType: "void",
			Params: []model.Param{{Name: "s", Datatype: "String"}},
		}),
		model.NewCalledByNative(model.CalledByNativeSpec{
			Name: "close", ReturnType: "void",
		}),
	}
	bound, err := MangleCalledByNatives(r, calls, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(bound) != 3 {
		t.Fatalf("Expected 3 bound calls, got %d", len(bound))
	}
	if bound[0].MethodIDVarName != "openV" {
		t.Errorf("Expected mangled 'openV', got %q", bound[0].MethodIDVarName)
	}
	if bound[1].MethodIDVarName != "openV_JLS" {
		t.Errorf("Expected mangled 'openV_JLS', got %q", bound[1].MethodIDVarName)
	}
	if bound[2].MethodIDVarName != "close" {
		t.Errorf("Expected unmangled 'close', got %q", bound[2].MethodIDVarName)
	}
}

func TestMangleCalledByNativesAlwaysMangle(t *testing.T) {
	r := resolver.NewTypeResolver("org/chromium/foo/Bar")
	calls := []model.CalledByNative{
		model.NewCalledByNative(model.CalledByNativeSpec{Name: "close", ReturnType: "void"}),
	}
	bound, err := MangleCalledByNatives(r, calls, true)
	if err != nil {
		t.Fatal(err)
	}
	if bound[0].MethodIDVarName != "closeV" {
		t.Errorf("Expected mangled 'closeV', got %q", bound[0].MethodIDVarName)
	}
}

func TestMangleCalledByNativesScopedToOwningClass(t *testing.T) {
	// Same name on different inner classes is not an overload.
	r := resolver.NewTypeResolver("org/chromium/foo/Bar")
	calls := []model.CalledByNative{
		model.NewCalledByNative(model.CalledByNativeSpec{Name: "get", ReturnType: "int"}),
		model.NewCalledByNative(model.CalledByNativeSpec{Name: "get", ReturnType: "int", JavaClassName: "Inner"}),
	}
	bound, err := MangleCalledByNatives(r, calls, false)
	if err != nil {
		t.Fatal(err)
	}
	if bound[0].MethodIDVarName != "get" || bound[1].MethodIDVarName != "get" {
		t.Errorf("Expected both unmangled, got %q and %q",
			bound[0].MethodIDVarName, bound[1].MethodIDVarName)
	}
}
