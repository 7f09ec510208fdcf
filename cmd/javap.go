package cmd

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"jnigen/parse"
)

// parseClassFile disassembles a compiled class with javap and builds the
// model from its output. javap resolves the class by simple name, so it runs
// from the class file's directory.
func parseClassFile(cmd *cobra.Command, classFile string) (*parse.JavaFile, error) {
	className := strings.TrimSuffix(filepath.Base(classFile), filepath.Ext(classFile))
	javap := exec.CommandContext(cmd.Context(), genJavap, "-c", "-verbose", "-s", className)
	javap.Dir = filepath.Dir(classFile)
	out, err := javap.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok && len(exitErr.Stderr) > 0 {
			return nil, fmt.Errorf("javap: %s", strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, fmt.Errorf("javap: %w", err)
	}
	return parse.ParseJavaP(strings.Split(string(out), "\n"), parseOptions())
}
