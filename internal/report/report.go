// Package report builds the optional --report-dir artifacts: a JSON and a
// JUnit XML summary of a compilation run, one suite per source file. It
// replaces the teacher's HTTP-flow test report with a compile-diagnostics
// report built directly against internal/compiler and internal/diagnostics'
// exported shapes, rather than the teacher's own report model (which
// referenced a compiler.PlanFlow field that did not exist).
package report

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"

	"github.com/wugaoyin/idlc/internal/ast"
	"github.com/wugaoyin/idlc/internal/compiler"
	"github.com/wugaoyin/idlc/internal/diagnostics"
)

// Model is the report model used for both JSON and JUnit output.
type Model struct {
	Suites  []Suite `json:"suites"`
	Summary Summary `json:"summary"`
}

type Summary struct {
	Tests    int `json:"tests"`
	Failures int `json:"failures"`
	Errors   int `json:"errors"`
}

// Suite summarizes one compiled source file. DeclarationCount and
// Categories are only populated when the file compiled cleanly.
type Suite struct {
	Name             string         `json:"name"`
	DeclarationCount int            `json:"declaration_count,omitempty"`
	Categories       map[string]int `json:"categories,omitempty"`
	Testcases        []Testcase     `json:"testcases"`
	Summary          Summary        `json:"summary"`
}

type Testcase struct {
	Name    string `json:"name"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// FileResult is one source file's outcome. Compiled is set only for a file
// that was compiled without diagnostics; it is nil when Diagnostics is
// non-empty, and also for a file that was parsed but not compiled, in which
// case Diagnostics may be empty too.
type FileResult struct {
	Filename    string
	Compiled    *compiler.CompiledAST
	Diagnostics []diagnostics.Diagnostic
}

// Build assembles the report model from one FileResult per compiled file.
func Build(results []FileResult) Model {
	model := Model{}
	for _, r := range results {
		suite := buildSuite(r)
		model.Suites = append(model.Suites, suite)
	}
	model.Summary = summarizeSuites(model.Suites)
	return model
}

func buildSuite(r FileResult) Suite {
	suite := Suite{Name: r.Filename}

	if len(r.Diagnostics) == 0 {
		suite.Testcases = append(suite.Testcases, Testcase{Name: "compile", Status: "passed"})
		if r.Compiled != nil {
			suite.DeclarationCount = len(r.Compiled.Order)
			suite.Categories = tallyCategories(r.Compiled.Order)
		}
		suite.Summary = summarize(suite.Testcases)
		return suite
	}

	for i, d := range r.Diagnostics {
		suite.Testcases = append(suite.Testcases, Testcase{
			Name:    fmt.Sprintf("%d %s", i+1, d.Code),
			Status:  statusForSeverity(d.Severity),
			Message: diagMessage(d),
		})
	}
	suite.Summary = summarize(suite.Testcases)
	return suite
}

func tallyCategories(order []ast.Declaration) map[string]int {
	tally := map[string]int{}
	for _, d := range order {
		tally[ast.DeclarationCategory(d)]++
	}
	return tally
}

func statusForSeverity(sev diagnostics.Severity) string {
	if sev == diagnostics.SeverityWarning {
		return "failure"
	}
	return "error"
}

func diagMessage(d diagnostics.Diagnostic) string {
	return fmt.Sprintf("%s @ %s:%d:%d", d.Message, d.File, d.Line, d.Column)
}

func summarize(cases []Testcase) Summary {
	s := Summary{Tests: len(cases)}
	for _, tc := range cases {
		switch tc.Status {
		case "failure":
			s.Failures++
		case "error":
			s.Errors++
		}
	}
	return s
}

func summarizeSuites(suites []Suite) Summary {
	s := Summary{}
	for _, suite := range suites {
		s.Tests += suite.Summary.Tests
		s.Failures += suite.Summary.Failures
		s.Errors += suite.Summary.Errors
	}
	return s
}

func WriteJSONFile(path string, model Model) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(model)
}

func WriteJUnitFile(path string, model Model) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	top := junitSuites{Suites: make([]junitSuite, 0, len(model.Suites))}
	for _, s := range model.Suites {
		js := junitSuite{Name: s.Name, Tests: s.Summary.Tests, Failures: s.Summary.Failures, Errors: s.Summary.Errors}
		for _, tc := range s.Testcases {
			jtc := junitCase{Name: tc.Name}
			if tc.Status == "failure" {
				jtc.Failure = &junitFailure{Message: tc.Message}
			}
			if tc.Status == "error" {
				jtc.Error = &junitError{Message: tc.Message}
			}
			js.Cases = append(js.Cases, jtc)
		}
		top.Suites = append(top.Suites, js)
	}
	enc := xml.NewEncoder(f)
	enc.Indent("", "  ")
	if _, err := f.WriteString(xml.Header); err != nil {
		return err
	}
	return enc.Encode(top)
}

type junitSuites struct {
	XMLName xml.Name     `xml:"testsuites"`
	Suites  []junitSuite `xml:"testsuite"`
}

type junitSuite struct {
	Name     string      `xml:"name,attr"`
	Tests    int         `xml:"tests,attr"`
	Failures int         `xml:"failures,attr"`
	Errors   int         `xml:"errors,attr"`
	Cases    []junitCase `xml:"testcase"`
}

type junitCase struct {
	Name    string        `xml:"name,attr"`
	Failure *junitFailure `xml:"failure,omitempty"`
	Error   *junitError   `xml:"error,omitempty"`
}

type junitFailure struct {
	Message string `xml:"message,attr"`
}

type junitError struct {
	Message string `xml:"message,attr"`
}
