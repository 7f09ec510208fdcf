package gen

import (
	"os"
	"strings"

	"jnigen/jnitype"
	"jnigen/model"
	"jnigen/resolver"
)

// subst expands ${VAR} references in a stub template, mirroring the shape
// of the generated C++ closely enough to diff against it.
func subst(template string, values map[string]string) string {
	return os.Expand(template, func(key string) string {
		return values[key]
	})
}

func (g *Generator) jniFirstParamType(native model.NativeMethod) string {
	if native.Kind == model.KindFunction && native.Static {
		return "jclass"
	}
	return "jobject"
}

func (g *Generator) jniFirstParam(native model.NativeMethod, forDeclaration bool) string {
	cType := g.jniFirstParamType(native)
	if forDeclaration {
		cType = jnitype.WrapCTypeForDeclaration(cType)
	}
	return cType + " jcaller"
}

// stubParams returns the parameter list a native record is emitted with:
// proxy natives use their Object-coerced types.
func stubParams(native model.NativeMethod) ([]model.Param, string) {
	if native.IsProxy {
		return native.ProxyParams, native.ProxyReturnType
	}
	return native.Params, native.ReturnType
}

// paramsInDeclaration renders the JavaRef-wrapped params for the forward
// declaration of the C++ implementation.
func (g *Generator) paramsInDeclaration(native model.NativeMethod) []string {
	params, _ := stubParams(native)
	var decl []string
	if !native.Static {
		decl = append(decl, g.jniFirstParam(native, true))
	}
	for _, p := range params {
		decl = append(decl, jnitype.WrapCTypeForDeclaration(jnitype.JavaDataTypeToC(p.Datatype))+" "+p.Name)
	}
	return decl
}

// paramsInStub renders the raw JNI params of the stub itself.
func (g *Generator) paramsInStub(native model.NativeMethod) string {
	params, _ := stubParams(native)
	stub := []string{g.jniFirstParam(native, false)}
	for _, p := range params {
		stub = append(stub, jnitype.JavaDataTypeToC(p.Datatype)+" "+p.Name)
	}
	return strings.Join(stub, ",\n    ")
}

func javaParamRefForCall(cType, name string) string {
	return "base::android::JavaParamRef<" + cType + ">(env, " + name + ")"
}

func (g *Generator) implMethodName(native model.NativeMethod) string {
	className := g.className
	if native.JavaClassName != "" {
		// Inner class
		className = native.JavaClassName
	}
	return "JNI_" + className + "_" + native.CPPName
}

const nativeMethodStubTemplate = `JNI_GENERATOR_EXPORT ${RETURN} ${STUB_NAME}(
    JNIEnv* env,
    ${PARAMS_IN_STUB}) {
${PROFILING_ENTERED_NATIVE}${TRACE_EVENT}  ${P0_TYPE}* native = reinterpret_cast<${P0_TYPE}*>(${PARAM0_NAME});
  CHECK_NATIVE_PTR(env, jcaller, native, "${NAME}"${OPTIONAL_ERROR_RETURN});
  return native->${NAME}(${PARAMS_IN_CALL})${POST_CALL};
}
`

const nativeFunctionStubTemplate = `static ${RETURN_DECLARATION} ${IMPL_METHOD_NAME}(JNIEnv* env${PARAMS});

JNI_GENERATOR_EXPORT ${RETURN} ${STUB_NAME}(
    JNIEnv* env,
    ${PARAMS_IN_STUB}) {
${PROFILING_ENTERED_NATIVE}${TRACE_EVENT}  return ${IMPL_METHOD_NAME}(${PARAMS_IN_CALL})${POST_CALL};
}
`

// traceEvent renders the tracing scope line emitted at the top of a stub
// body when tracing is enabled.
func traceEvent(name string) string {
	return `  TRACE_EVENT0("jni", "` + name + "\");\n"
}

func (g *Generator) namespaceQualifier() string {
	if g.namespace == "" {
		return ""
	}
	return g.namespace + "::"
}

// GetNativeStub renders a forward-JNI stub: either a "method" dispatching
// through the record's opaque native pointer, or a "function" forwarding to
// a forward-declared JNI_<Class>_<Name> implementation. Proxy natives
// dispatch like functions, using the proxy casts.
func (g *Generator) GetNativeStub(native model.NativeMethod) string {
	isMethod := native.Kind == model.KindMethod
	params, returnTypeJava := stubParams(native)

	callParams := params
	if isMethod {
		callParams = params[1:]
	}

	paramsInCall := []string{"env"}
	if !native.Static || isMethod {
		paramsInCall = append(paramsInCall, javaParamRefForCall(g.jniFirstParamType(native), "jcaller"))
	}
	for _, p := range callParams {
		cType := jnitype.JavaDataTypeToC(p.Datatype)
		if jnitype.IsScopedJNIType(cType) {
			paramsInCall = append(paramsInCall, javaParamRefForCall(cType, p.Name))
		} else {
			paramsInCall = append(paramsInCall, p.Name)
		}
	}

	returnType := jnitype.JavaDataTypeToC(returnTypeJava)
	returnDeclaration := returnType
	postCall := ""
	if jnitype.IsScopedJNIType(returnType) {
		postCall = ".Release()"
		returnDeclaration = "base::android::ScopedJavaLocalRef<" + returnType + ">"
	}
	profiling := ""
	if g.opts.EnableProfiling {
		profiling = "  JNI_LINK_SAVED_FRAME_POINTER;\n"
	}

	values := map[string]string{
		"RETURN":                   returnType,
		"RETURN_DECLARATION":       returnDeclaration,
		"NAME":                     native.CPPName,
		"IMPL_METHOD_NAME":         g.implMethodName(native),
		"PARAMS":                   strings.Join(g.paramsInDeclaration(native), ",\n    "),
		"PARAMS_IN_STUB":           g.paramsInStub(native),
		"PARAMS_IN_CALL":           strings.Join(paramsInCall, ", "),
		"POST_CALL":                postCall,
		"STUB_NAME":                g.helper.GetStubName(native),
		"PROFILING_ENTERED_NATIVE": profiling,
		"TRACE_EVENT":              "",
	}

	var stub string
	if isMethod {
		optionalErrorReturn := jnitype.JavaReturnValueToC(returnTypeJava)
		if optionalErrorReturn != "" {
			optionalErrorReturn = ", " + optionalErrorReturn
		}
		values["OPTIONAL_ERROR_RETURN"] = optionalErrorReturn
		values["PARAM0_NAME"] = params[0].Name
		values["P0_TYPE"] = native.P0Type
		if g.opts.EnableTracing {
			values["TRACE_EVENT"] = traceEvent(
				g.namespaceQualifier() + native.P0Type + "::" + native.CPPName)
		}
		stub = subst(nativeMethodStubTemplate, values)
	} else {
		if values["PARAMS"] != "" {
			values["PARAMS"] = ", " + values["PARAMS"]
		}
		if g.opts.EnableTracing {
			values["TRACE_EVENT"] = traceEvent(
				g.namespaceQualifier() + g.implMethodName(native))
		}
		stub = subst(nativeFunctionStubTemplate, values)
	}
	return RemoveIndentedEmptyLines(stub)
}

// getArgument coerces one argument for a call from native into Java:
// as_jint guards int narrowing, reference kinds pass their raw jobject.
func getArgument(p model.Param) string {
	if p.Datatype == "int" {
		return "as_jint(" + p.Name + ")"
	}
	if jnitype.IsScopedJNIType(jnitype.JavaDataTypeToC(p.Datatype)) {
		return p.Name + ".obj()"
	}
	return p.Name
}

func (g *Generator) calledByNativeParamsInDeclaration(call BoundCall) string {
	decl := make([]string, len(call.Params))
	for i, p := range call.Params {
		decl[i] = jnitype.JavaDataTypeToCForCalledByNativeParam(p.Datatype) + " " + p.Name
	}
	return strings.Join(decl, ",\n    ")
}

func (g *Generator) calledByNativeValues(call BoundCall) (map[string]string, error) {
	javaClassOnly := call.JavaClassName
	if javaClassOnly == "" {
		javaClassOnly = g.className
	}
	javaClass := g.fullyQualifiedClass
	if call.JavaClassName != "" {
		javaClass += "$" + call.JavaClassName
	}

	firstParamInDeclaration := ", const base::android::JavaRef<jobject>& obj"
	firstParamInCall := "obj.obj()"
	if call.Static || call.IsConstructor {
		firstParamInDeclaration = ""
		firstParamInCall = "clazz"
	}
	paramsInDeclaration := g.calledByNativeParamsInDeclaration(call)
	if paramsInDeclaration != "" {
		paramsInDeclaration = ", " + paramsInDeclaration
	}
	args := make([]string, len(call.Params))
	for i, p := range call.Params {
		args[i] = getArgument(p)
	}
	paramsInCall := strings.Join(args, ", ")
	if paramsInCall != "" {
		paramsInCall = ", " + paramsInCall
	}

	preCall := ""
	postCall := ""
	if call.StaticCast != "" {
		preCall = "static_cast<" + call.StaticCast + ">("
		postCall = ")"
	}
	checkException := "Unchecked"
	methodIDMemberName := "call_context.method_id"
	if !call.Unchecked {
		checkException = "Checked"
		methodIDMemberName = "call_context.base.method_id"
	}

	returnType := jnitype.JavaDataTypeToC(call.ReturnType)
	optionalErrorReturn := jnitype.JavaReturnValueToC(call.ReturnType)
	if optionalErrorReturn != "" {
		optionalErrorReturn = ", " + optionalErrorReturn
	}
	returnDeclaration := ""
	returnClause := ""
	if returnType != "void" {
		preCall = " " + preCall
		returnDeclaration = returnType + " ret ="
		if jnitype.IsScopedJNIType(returnType) {
			returnType = "base::android::ScopedJavaLocalRef<" + returnType + ">"
			returnClause = "return " + returnType + "(env, ret);"
		} else {
			returnClause = "return ret;"
		}
	}

	profiling := ""
	if g.opts.EnableProfiling {
		profiling = "  JNI_SAVE_FRAME_POINTER;\n"
	}

	jniName := call.Name
	jniReturnType := call.ReturnType
	if call.IsConstructor {
		jniName = "<init>"
		jniReturnType = "void"
	}
	jniSignature := call.Signature
	if jniSignature == "" {
		var err error
		jniSignature, err = g.resolver.Signature(call.Params, jniReturnType)
		if err != nil {
			return nil, err
		}
	}

	methodIDType := "INSTANCE"
	if call.Static {
		methodIDType = "STATIC"
	}

	return map[string]string{
		"JAVA_CLASS_ONLY":            javaClassOnly,
		"JAVA_CLASS":                 resolver.EscapeClassName(javaClass),
		"RETURN_TYPE":                returnType,
		"OPTIONAL_ERROR_RETURN":      optionalErrorReturn,
		"RETURN_DECLARATION":         returnDeclaration,
		"RETURN_CLAUSE":              returnClause,
		"FIRST_PARAM_IN_DECLARATION": firstParamInDeclaration,
		"PARAMS_IN_DECLARATION":      paramsInDeclaration,
		"PRE_CALL":                   preCall,
		"POST_CALL":                  postCall,
		"ENV_CALL":                   call.EnvCall,
		"FIRST_PARAM_IN_CALL":        firstParamInCall,
		"PARAMS_IN_CALL":             paramsInCall,
		"CHECK_EXCEPTION":            checkException,
		"PROFILING_LEAVING_NATIVE":   profiling,
		"JNI_NAME":                   jniName,
		"JNI_SIGNATURE":              jniSignature,
		"METHOD_ID_MEMBER_NAME":      methodIDMemberName,
		"METHOD_ID_VAR_NAME":         call.MethodIDVarName,
		"METHOD_ID_TYPE":             methodIDType,
		"JAVA_NAME_FULL":             strings.ReplaceAll(javaClass, "/", ".") + "." + jniName,
	}, nil
}

const calledByNativeStubTemplate = `
static std::atomic<jmethodID> g_${JAVA_CLASS}_${METHOD_ID_VAR_NAME}(nullptr);
${FUNCTION_HEADER}
  jclass clazz = ${JAVA_CLASS}_clazz(env);
  CHECK_CLAZZ(env, ${FIRST_PARAM_IN_CALL},
      ${JAVA_CLASS}_clazz(env)${OPTIONAL_ERROR_RETURN});

  jni_generator::JniJavaCallContext${CHECK_EXCEPTION} call_context;
  call_context.Init<
      base::android::MethodID::TYPE_${METHOD_ID_TYPE}>(
          env,
          clazz,
          "${JNI_NAME}",
          ${JNI_SIGNATURE},
          &g_${JAVA_CLASS}_${METHOD_ID_VAR_NAME});

${TRACE_EVENT}${PROFILING_LEAVING_NATIVE}  ${RETURN_DECLARATION}
     ${PRE_CALL}env->${ENV_CALL}(${FIRST_PARAM_IN_CALL},
          ${METHOD_ID_MEMBER_NAME}${PARAMS_IN_CALL})${POST_CALL};
  ${RETURN_CLAUSE}
}`

const calledByNativeSignatureTemplate = `static ${RETURN_TYPE} ` +
	`Java_${JAVA_CLASS_ONLY}_${METHOD_ID_VAR_NAME}(` +
	`JNIEnv* env${FIRST_PARAM_IN_DECLARATION}${PARAMS_IN_DECLARATION})`

// GetLazyCalledByNativeMethodStub renders a reverse-call stub: one cached
// atomic jmethodID per entry, lazily resolved through the class accessor,
// then invoked through the env entry point the return type selects.
func (g *Generator) GetLazyCalledByNativeMethodStub(call BoundCall) (string, error) {
	values, err := g.calledByNativeValues(call)
	if err != nil {
		return "", err
	}
	signature := subst(calledByNativeSignatureTemplate, values)
	if call.SystemClass {
		// Library-class stubs may go unused in any given translation unit.
		values["FUNCTION_HEADER"] = signature + " __attribute__ ((unused));\n" + signature + " {"
	} else {
		values["FUNCTION_HEADER"] = signature + " {"
	}
	values["TRACE_EVENT"] = ""
	if g.opts.EnableTracing {
		values["TRACE_EVENT"] = traceEvent(values["JAVA_NAME_FULL"])
	}
	return RemoveIndentedEmptyLines(subst(calledByNativeStubTemplate, values)), nil
}
