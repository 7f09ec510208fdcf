package gen

import (
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"jnigen/model"
	"jnigen/parse"
	"jnigen/resolver"
)

// Generator holds one class's models, bound reverse calls, and options, and
// renders the inline header for it.
type Generator struct {
	namespace           string
	fullyQualifiedClass string
	className           string
	headerGuard         string
	natives             []model.NativeMethod
	calledByNatives     []BoundCall
	constantFields      []model.ConstantField
	resolver            *resolver.TypeResolver
	helper              *HeaderHelper
	opts                Options
}

// NewGenerator binds method-id variable names for the reverse calls and
// prepares a renderer for the file. The file's own @JNINamespace wins over
// the namespace passed in the options.
func NewGenerator(file *parse.JavaFile, opts Options) (*Generator, error) {
	namespace := file.Namespace
	if namespace == "" {
		namespace = opts.Namespace
	}
	bound, err := MangleCalledByNatives(file.Resolver, file.CalledByNatives, opts.AlwaysMangle)
	if err != nil {
		return nil, err
	}
	className := file.FullyQualifiedClass[strings.LastIndex(file.FullyQualifiedClass, "/")+1:]
	return &Generator{
		namespace:           namespace,
		fullyQualifiedClass: file.FullyQualifiedClass,
		className:           className,
		headerGuard:         strings.ReplaceAll(file.FullyQualifiedClass, "/", "_") + "_JNI",
		natives:             file.Natives,
		calledByNatives:     bound,
		constantFields:      file.ConstantFields,
		resolver:            file.Resolver,
		helper:              NewHeaderHelper(className, file.FullyQualifiedClass, opts),
		opts:                opts,
	}, nil
}

const headerTemplate = `// Copyright 2014 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.


// This file is autogenerated by
//     ${SCRIPT_NAME}
// For
//     ${FULLY_QUALIFIED_CLASS}

#ifndef ${HEADER_GUARD}
#define ${HEADER_GUARD}

#include <jni.h>

${INCLUDES}

// Step 1: Forward declarations.
${CLASS_PATH_DEFINITIONS}

// Step 2: Constants (optional).

${CONSTANT_FIELDS}
// Step 3: Method stubs.
${METHOD_STUBS}

#endif  // ${HEADER_GUARD}
`

// Render produces the complete header, wrapped to the output line length.
func (g *Generator) Render() (string, error) {
	stubs, err := g.methodStubs()
	if err != nil {
		return "", err
	}
	values := map[string]string{
		"SCRIPT_NAME":            g.opts.ScriptName,
		"FULLY_QUALIFIED_CLASS":  g.fullyQualifiedClass,
		"CLASS_PATH_DEFINITIONS": g.classPathDefinitions(),
		"CONSTANT_FIELDS":        g.constantFieldsEnum(),
		"METHOD_STUBS":           stubs,
		"HEADER_GUARD":           g.headerGuard,
		"INCLUDES":               g.includeLines(),
	}
	if open := g.openNamespace(); open != "" {
		closing := g.closeNamespace()
		values["METHOD_STUBS"] = strings.Join(
			[]string{open, values["METHOD_STUBS"], closing}, "\n")
		if values["CONSTANT_FIELDS"] != "" {
			values["CONSTANT_FIELDS"] = strings.Join(
				[]string{open, values["CONSTANT_FIELDS"], closing}, "\n")
		}
	}
	log.WithFields(log.Fields{
		"class":           g.fullyQualifiedClass,
		"natives":         len(g.natives),
		"calledByNatives": len(g.calledByNatives),
	}).Debug("rendered header")
	return WrapOutput(subst(headerTemplate, values)), nil
}

func (g *Generator) classPathDefinitions() string {
	classes := &ClassList{}
	g.helper.CollectCalledByNativeClasses(classes, g.calledByNatives)
	g.helper.CollectNativeClasses(classes, g.natives)
	return g.helper.GetClassPathLines(classes, false)
}

func (g *Generator) constantFieldsEnum() string {
	if len(g.constantFields) == 0 {
		return ""
	}
	lines := []string{fmt.Sprintf("enum Java_%s_constant_fields {", g.className)}
	for _, c := range g.constantFields {
		lines = append(lines, fmt.Sprintf("  %s = %s,", c.Name, c.Value))
	}
	lines = append(lines, "};", "")
	return strings.Join(lines, "\n")
}

func (g *Generator) methodStubs() (string, error) {
	var stubs []string
	for _, native := range g.natives {
		stubs = append(stubs, g.GetNativeStub(native))
	}
	for _, call := range g.calledByNatives {
		stub, err := g.GetLazyCalledByNativeMethodStub(call)
		if err != nil {
			return "", err
		}
		stubs = append(stubs, stub)
	}
	return strings.Join(stubs, "\n"), nil
}

func (g *Generator) includeLines() string {
	if len(g.opts.Includes) == 0 {
		return ""
	}
	var lines []string
	for _, inc := range g.opts.Includes {
		lines = append(lines, fmt.Sprintf("#include %q", inc))
	}
	return strings.Join(lines, "\n") + "\n"
}

func (g *Generator) openNamespace() string {
	if g.namespace == "" {
		return ""
	}
	var lines []string
	for _, ns := range strings.Split(g.namespace, "::") {
		lines = append(lines, "namespace "+ns+" {")
	}
	return strings.Join(lines, "\n") + "\n"
}

func (g *Generator) closeNamespace() string {
	if g.namespace == "" {
		return ""
	}
	var lines []string
	for _, ns := range strings.Split(g.namespace, "::") {
		lines = append(lines, "}  // namespace "+ns)
	}
	for i, j := 0, len(lines)-1; i < j; i, j = i+1, j-1 {
		lines[i], lines[j] = lines[j], lines[i]
	}
	return "\n" + strings.Join(lines, "\n")
}
