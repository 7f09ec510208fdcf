package cmd

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"jnigen/gen"
	"jnigen/parse"
)

var (
	genInputFiles      []string
	genJarFile         string
	genOutputDir       string
	genOutputNames     []string
	genNamespace       string
	genScriptName      string
	genIncludes        string
	genPtrType         string
	genJavap           string
	genSplitName       string
	genPackagePrefix   string
	genUseProxyHash    bool
	genMultiplexing    bool
	genUncheckedExc    bool
	genEnableProfiling bool
	genEnableTracing   bool
	genAlwaysMangle    bool
	genCheckSyntax     bool
)

var generateCmd = &cobra.Command{
	Use:   "generate [input files]",
	Short: "Generate JNI binding headers from Java sources or .class files",
	RunE:  runGenerate,
}

func init() {
	f := generateCmd.Flags()
	f.StringArrayVar(&genInputFiles, "input_file", nil,
		"Input file names, or paths within a .jar if --jar_file is used")
	f.StringVarP(&genJarFile, "jar_file", "j", "",
		"Extract the input files from the given jar before processing")
	f.StringVar(&genOutputDir, "output_dir", "", "Directory the output files are written to")
	f.StringArrayVar(&genOutputNames, "output_name", nil,
		"Output file names inside --output_dir, paired with the inputs in order")
	f.StringVarP(&genNamespace, "namespace", "n", "",
		"Namespace for the generated header when the source carries no @JNINamespace")
	f.StringVar(&genScriptName, "script_name", "jnigen",
		"Generator name recorded in the header banner")
	f.StringVar(&genIncludes, "includes", "",
		"Comma-separated list of extra headers to include")
	f.StringVar(&genPtrType, "ptr_type", "int",
		"Java type representing native pointers, int or long")
	f.StringVar(&genJavap, "javap", "javap", "Path to the javap command")
	f.StringVar(&genSplitName, "split_name", "",
		"Android dynamic-feature split the Java classes load from")
	f.StringVar(&genPackagePrefix, "package_prefix", "",
		"Package prefix prepended to the proxy class path")
	f.BoolVar(&genUseProxyHash, "use_proxy_hash", false,
		"Hash the proxy method names and use the short proxy class name")
	f.BoolVar(&genMultiplexing, "enable_jni_multiplexing", false,
		"Assume multiplexed proxy dispatch, switching to the short proxy class name")
	f.BoolVar(&genUncheckedExc, "unchecked_exceptions", false,
		"Skip exception checking for javap-derived calls")
	f.BoolVar(&genEnableProfiling, "enable_profiling", false,
		"Add profiling instrumentation to every stub")
	f.BoolVar(&genEnableTracing, "enable_tracing", false,
		"Add TRACE_EVENTs to generated functions")
	f.BoolVar(&genAlwaysMangle, "always_mangle", false,
		"Mangle every method-id name, not just overloads")
	f.BoolVar(&genCheckSyntax, "check_syntax", false,
		"Parse each Java input and fail on syntax errors before extraction")
	rootCmd.AddCommand(generateCmd)
}

func parseOptions() parse.Options {
	return parse.Options{
		PtrType:               genPtrType,
		UseProxyHash:          genUseProxyHash,
		EnableJNIMultiplexing: genMultiplexing,
		PackagePrefix:         genPackagePrefix,
		UncheckedExceptions:   genUncheckedExc,
	}
}

func genOptions(namespace string) gen.Options {
	var includes []string
	if genIncludes != "" {
		includes = strings.Split(genIncludes, ",")
	}
	return gen.Options{
		ScriptName:            genScriptName,
		Namespace:             namespace,
		Includes:              includes,
		UseProxyHash:          genUseProxyHash,
		EnableJNIMultiplexing: genMultiplexing,
		PackagePrefix:         genPackagePrefix,
		SplitName:             genSplitName,
		EnableProfiling:       genEnableProfiling,
		EnableTracing:         genEnableTracing,
		AlwaysMangle:          genAlwaysMangle,
	}
}

func runGenerate(cmd *cobra.Command, args []string) error {
	inputs := append(append([]string{}, args...), genInputFiles...)
	if len(inputs) == 0 {
		return fmt.Errorf("no input files given")
	}
	if len(genOutputNames) > 0 && len(genOutputNames) != len(inputs) {
		return fmt.Errorf("got %d output names for %d inputs", len(genOutputNames), len(inputs))
	}

	if genJarFile != "" {
		tempDir, err := os.MkdirTemp("", "jnigen")
		if err != nil {
			return err
		}
		defer os.RemoveAll(tempDir)
		inputs, err = extractFromJar(genJarFile, inputs, tempDir)
		if err != nil {
			return fmt.Errorf("extracting from %s: %w", genJarFile, err)
		}
	}

	for i, input := range inputs {
		content, err := generateHeader(cmd, input)
		if err != nil {
			return fmt.Errorf("%s: %w", input, err)
		}
		if len(genOutputNames) == 0 {
			fmt.Fprint(cmd.OutOrStdout(), content)
			continue
		}
		outPath := filepath.Join(genOutputDir, genOutputNames[i])
		if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(outPath, []byte(content), 0o644); err != nil {
			return err
		}
		log.WithFields(log.Fields{"input": input, "output": outPath}).Debug("wrote header")
	}
	return nil
}

// generateHeader runs the full pipeline for one input, returning the
// rendered header. Nothing is written until rendering succeeds.
func generateHeader(cmd *cobra.Command, input string) (string, error) {
	var (
		file *parse.JavaFile
		err  error
	)
	namespace := genNamespace
	if filepath.Ext(input) == ".class" {
		file, err = parseClassFile(cmd, input)
		if err != nil {
			return "", err
		}
		if namespace == "" {
			className := file.FullyQualifiedClass[strings.LastIndex(file.FullyQualifiedClass, "/")+1:]
			namespace = "JNI_" + className
		}
	} else {
		contents, readErr := os.ReadFile(input)
		if readErr != nil {
			return "", readErr
		}
		if genCheckSyntax {
			if err := parse.VerifySyntax(cmd.Context(), contents); err != nil {
				return "", err
			}
		}
		file, err = parse.ParseSource(input, string(contents), parseOptions())
		if err != nil {
			return "", err
		}
		if len(file.Natives) == 0 && len(file.CalledByNatives) == 0 {
			return "", fmt.Errorf("unable to find any JNI methods for %s", file.FullyQualifiedClass)
		}
	}

	generator, err := gen.NewGenerator(file, genOptions(namespace))
	if err != nil {
		return "", err
	}
	return generator.Render()
}

// extractFromJar copies the named jar members into destDir, preserving their
// archive paths, and returns the extracted file paths in input order.
func extractFromJar(jarPath string, members []string, destDir string) ([]string, error) {
	reader, err := zip.OpenReader(jarPath)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	extracted := make([]string, 0, len(members))
	for _, member := range members {
		entry, err := reader.Open(member)
		if err != nil {
			return nil, fmt.Errorf("member %s: %w", member, err)
		}
		outPath := filepath.Join(destDir, filepath.FromSlash(member))
		if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
			entry.Close()
			return nil, err
		}
		out, err := os.Create(outPath)
		if err != nil {
			entry.Close()
			return nil, err
		}
		_, err = io.Copy(out, entry)
		entry.Close()
		if closeErr := out.Close(); err == nil {
			err = closeErr
		}
		if err != nil {
			return nil, err
		}
		extracted = append(extracted, outPath)
	}
	return extracted, nil
}
