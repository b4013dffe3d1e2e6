package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/wugaoyin/idlc/internal/compiler"
	"github.com/wugaoyin/idlc/internal/diagnostics"
	"github.com/wugaoyin/idlc/internal/generator"
	"github.com/wugaoyin/idlc/internal/parser"
	"github.com/wugaoyin/idlc/internal/report"
	"github.com/wugaoyin/idlc/internal/source"
)

const usage = `usage: idlc -o OUTPUT_PATH -f FILE [FILE...] [--report-dir DIR] [--no-color] [-v|--verbose]

-f begins a source group: every filename up to the next flag belongs to it.
Only one -f group is supported. Every file in the group is parsed, so every
file's errors are reported, but only the last file's declarations compile
and are emitted.`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	groups, rest := splitFileGroups(args)

	var output, reportDir string
	var noColor, verbose bool

	root := &cobra.Command{
		Use:           "idlc",
		Short:         "Compile IDL source files into the compiled-declaration JSON artifact",
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE:          func(*cobra.Command, []string) error { return nil },
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.Flags().StringVarP(&output, "output", "o", "", "output JSON path (required)")
	root.Flags().StringVar(&reportDir, "report-dir", "", "directory for optional compile report artifacts")
	root.Flags().BoolVar(&noColor, "no-color", false, "disable ANSI-colored diagnostic output")
	root.Flags().BoolVarP(&verbose, "verbose", "v", false, "log each parsed file's token count at debug level")
	root.SetArgs(rest)
	root.SetUsageTemplate(usage + "\n")
	root.SetHelpTemplate(usage + "\n")

	if err := root.Execute(); err != nil {
		_, _ = fmt.Fprintln(stderr, err.Error())
		_, _ = fmt.Fprintln(stderr, usage)
		return 1
	}
	if help, _ := root.Flags().GetBool("help"); help {
		return 0
	}

	if output == "" {
		_, _ = fmt.Fprintln(stderr, "idlc: -o is required")
		_, _ = fmt.Fprintln(stderr, usage)
		return 1
	}
	if len(groups) == 0 {
		_, _ = fmt.Fprintln(stderr, "idlc: at least one -f group is required")
		_, _ = fmt.Fprintln(stderr, usage)
		return 1
	}
	if len(groups) > 1 {
		_, _ = fmt.Fprintln(stderr, "idlc: multiple -f groups are not supported; combine files into a single -f group")
		_, _ = fmt.Fprintln(stderr, usage)
		return 1
	}
	if len(groups[0]) == 0 {
		_, _ = fmt.Fprintln(stderr, "idlc: -f requires at least one file")
		_, _ = fmt.Fprintln(stderr, usage)
		return 1
	}

	logger := newLogger(stderr, verbose)
	return compileAndWrite(groups[0], output, reportDir, noColor, logger, stderr)
}

func newLogger(w io.Writer, verbose bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.WarnLevel)
	}
	return logger
}

// splitFileGroups pulls the -f groups (a flag followed by any number of
// bare filenames, repeatable) out of args before the rest is handed to
// cobra/pflag, which has no way to parse that shape natively.
func splitFileGroups(args []string) (groups [][]string, rest []string) {
	valueFlags := map[string]bool{"-o": true, "--output": true, "--report-dir": true}
	i := 0
	for i < len(args) {
		a := args[i]
		switch {
		case a == "-f":
			i++
			var group []string
			for i < len(args) && !strings.HasPrefix(args[i], "-") {
				group = append(group, args[i])
				i++
			}
			groups = append(groups, group)
		case valueFlags[a]:
			rest = append(rest, a)
			i++
			if i < len(args) {
				rest = append(rest, args[i])
				i++
			}
		default:
			rest = append(rest, a)
			i++
		}
	}
	return groups, rest
}

// compileAndWrite parses every file in the group — so an earlier file's
// errors still surface, unlike the original, which abandoned the whole
// group on the first file that failed to parse — compiles only the last
// file, and writes the JSON artifact only if the whole group is clean.
func compileAndWrite(files []string, output, reportDir string, noColor bool, logger *logrus.Logger, stderr io.Writer) int {
	var results []report.FileResult
	var allDiags []diagnostics.Diagnostic
	var lastCompiled *compiler.CompiledAST

	for i, path := range files {
		raw, err := os.ReadFile(path)
		if err != nil {
			logger.WithError(err).Errorf("could not read source file %s", path)
			_, _ = fmt.Fprintf(stderr, "idlc: cannot read %s: %v\n", path, err)
			return 1
		}

		src := source.NewFile(path, raw)
		file, lexErrs, parseErrs := parser.Parse(src)

		var fileDiags []diagnostics.Diagnostic
		for _, e := range lexErrs {
			fileDiags = append(fileDiags, diagnostics.FromSpan(e.Code, e.Span, "%s", e.Message))
		}
		for _, e := range parseErrs {
			fileDiags = append(fileDiags, diagnostics.FromSpan(e.Code, e.Span, "%s", e.Message))
		}

		var compiled *compiler.CompiledAST
		isLast := i == len(files)-1
		if isLast && len(fileDiags) == 0 {
			var compileDiags []diagnostics.Diagnostic
			compiled, compileDiags = compiler.Compile(file)
			fileDiags = append(fileDiags, compileDiags...)
		}
		if isLast {
			lastCompiled = compiled
		}

		logger.WithFields(logrus.Fields{"file": path, "tokens": len(file.Tokens)}).Debug("parsed source file")

		results = append(results, report.FileResult{Filename: path, Compiled: compiled, Diagnostics: fileDiags})
		allDiags = append(allDiags, fileDiags...)
	}

	allDiags = diagnostics.SortAndDedupe(allDiags)
	printDiagnostics(stderr, allDiags, noColor)

	if reportDir != "" {
		model := report.Build(results)
		if err := report.WriteJSONFile(filepath.Join(reportDir, "report.json"), model); err != nil {
			logger.WithError(err).Error("failed to write report.json")
			_, _ = fmt.Fprintf(stderr, "idlc: %v\n", err)
			return 1
		}
		if err := report.WriteJUnitFile(filepath.Join(reportDir, "report.junit.xml"), model); err != nil {
			logger.WithError(err).Error("failed to write report.junit.xml")
			_, _ = fmt.Fprintf(stderr, "idlc: %v\n", err)
			return 1
		}
	}

	if len(allDiags) > 0 || lastCompiled == nil {
		return 1
	}

	text, err := generator.Generate(lastCompiled)
	if err != nil {
		logger.WithError(err).Error("json generation failed")
		_, _ = fmt.Fprintf(stderr, "idlc: %v\n", err)
		return 1
	}

	if err := writeIfDifferent(output, []byte(text)); err != nil {
		logger.WithError(err).Error("failed to write output artifact")
		_, _ = fmt.Fprintf(stderr, "idlc: %v\n", err)
		return 1
	}

	return 0
}

// writeIfDifferent skips the write when the destination already holds
// byte-identical content, and otherwise creates parent directories first.
func writeIfDifferent(path string, contents []byte) error {
	if existing, err := os.ReadFile(path); err == nil && bytes.Equal(existing, contents) {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create parent directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, contents, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func printDiagnostics(w io.Writer, diags []diagnostics.Diagnostic, noColor bool) {
	errorLabel := color.New(color.FgRed, color.Bold)
	if noColor || os.Getenv("NO_COLOR") != "" || !isatty.IsTerminal(os.Stderr.Fd()) {
		errorLabel.DisableColor()
	}
	for _, d := range diags {
		_, _ = fmt.Fprintf(w, "%s %s %s:%d:%d %s\n", errorLabel.Sprint("ERROR"), d.Code, d.File, d.Line, d.Column, d.Message)
		if d.Related != nil {
			_, _ = fmt.Fprintf(w, "  related: %s:%d:%d %s\n", d.Related.File, d.Related.Line, d.Related.Column, d.Related.Message)
		}
	}
}
