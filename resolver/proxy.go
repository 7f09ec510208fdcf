package resolver

import (
	"crypto/md5"
	"encoding/base64"
	"strings"

	"jnigen/model"
)

// Proxy natives are registered through one shared generated class instead of
// their declaring class, which collapses the number of distinct JNI entry
// symbols. The hashed mode shortens the per-method symbol further to reduce
// APK method-count pressure.
const (
	proxyClassName   = "GEN_JNI"
	proxyPackageName = "org/chromium/base/natives"

	// Short single-letter forms used when hashing or multiplexing is on
	shortProxyClassName   = "N"
	shortProxyPackageName = "J"

	maxHashedNameLength = 8
)

// GenJNIClass returns the synthetic class all proxy natives collapse onto.
// Hashing and multiplexing both switch to the short J/N form; packagePrefix,
// when set, is prepended in slash form.
func GenJNIClass(useShortName bool, packagePrefix string) model.JavaClass {
	name := proxyClassName
	pkg := proxyPackageName
	if useShortName {
		name = shortProxyClassName
		pkg = shortProxyPackageName
	}
	if packagePrefix != "" {
		pkg = strings.ReplaceAll(packagePrefix, ".", "/") + "/" + pkg
	}
	return model.NewJavaClass(pkg + "/" + name)
}

// EscapeClassName escapes a slash-form class path into a JNI symbol
// fragment: _ doubles to _1, / becomes _, $ becomes _00024.
func EscapeClassName(fullyQualifiedClass string) string {
	escaped := strings.ReplaceAll(fullyQualifiedClass, "_", "_1")
	escaped = strings.ReplaceAll(escaped, "/", "_")
	return strings.ReplaceAll(escaped, "$", "_00024")
}

// hashedAltEncoding is base64 with the +/ alphabet replaced by $_ so the
// output stays a valid Java identifier fragment.
var hashedAltEncoding = base64.NewEncoding(
	"ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789$_")

// hashedProxyName derives the short stable method name for the hashed proxy
// mode: M + base64(md5(escaped descriptor)), truncated.
func hashedProxyName(fullyQualifiedClass, methodName string) string {
	descriptor := EscapeClassName(fullyQualifiedClass + "/" + methodName)
	sum := md5.Sum([]byte(descriptor))
	b64 := hashedAltEncoding.EncodeToString(sum[:])
	hashed := "M" + strings.TrimRight(b64, "=")
	if len(hashed) > maxHashedNameLength {
		hashed = hashed[:maxHashedNameLength]
	}
	return hashed
}

// CreateMethodNames returns the literal and hashed GEN_JNI method names for
// a proxied native. Test-only methods keep a recognizable suffix on the
// hashed form so tooling can strip them from release builds.
func CreateMethodNames(class model.JavaClass, methodName string, isTestOnly bool) (proxyName, hashedName string) {
	proxyName = EscapeClassName(class.FullName + "/" + methodName)
	hashedName = hashedProxyName(class.FullName, methodName)
	if isTestOnly {
		hashedName += "_ForTesting"
	}
	return proxyName, hashedName
}
