package driver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hopsage/TigerC/pkg/interpreter"
	"github.com/hopsage/TigerC/pkg/runtime"
)

// FixtureSuite is a YAML file of end-to-end program cases.
type FixtureSuite struct {
	Path  string        `yaml:"-"`
	Name  string        `yaml:"suite"`
	Cases []FixtureCase `yaml:"cases"`
}

// FixtureCase describes one program and what running it must produce. Unset
// expectations are not compared.
type FixtureCase struct {
	Name   string  `yaml:"name"`
	Source string  `yaml:"source"`
	Stdin  string  `yaml:"stdin"`
	Stdout *string `yaml:"stdout"`
	Result *string `yaml:"result"`
	Exit   *int    `yaml:"exit"`
	// Error is a substring of the expected parse or runtime error.
	Error string `yaml:"error"`
	// Diagnostics lists the expected checker messages in order.
	Diagnostics []string `yaml:"diagnostics"`
	// Jasmin lists substrings the generated class must contain.
	Jasmin []string `yaml:"jasmin"`
}

// FixtureResult collects the mismatches found running one case.
type FixtureResult struct {
	Name       string
	Mismatches []string
}

// Passed reports whether the case met every expectation.
func (r FixtureResult) Passed() bool {
	return len(r.Mismatches) == 0
}

func (r *FixtureResult) mismatchf(format string, args ...any) {
	r.Mismatches = append(r.Mismatches, fmt.Sprintf(format, args...))
}

// LoadFixtures parses and validates a fixture suite.
func LoadFixtures(path string) (*FixtureSuite, error) {
	if path == "" {
		return nil, fmt.Errorf("fixtures: empty path")
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("fixtures: open %s: %w", path, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	var suite FixtureSuite
	if err := decoder.Decode(&suite); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("fixtures: %s is empty", path)
		}
		return nil, fmt.Errorf("fixtures: parse %s: %w", path, err)
	}
	suite.Path = path
	if suite.Name == "" {
		suite.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if err := suite.validate(); err != nil {
		return nil, err
	}
	return &suite, nil
}

func (s *FixtureSuite) validate() error {
	var issues []string
	seen := make(map[string]bool, len(s.Cases))
	for i, c := range s.Cases {
		switch {
		case c.Name == "":
			issues = append(issues, fmt.Sprintf("case %d has no name", i+1))
		case seen[c.Name]:
			issues = append(issues, fmt.Sprintf("case %q is listed twice", c.Name))
		}
		seen[c.Name] = true
		if strings.TrimSpace(c.Source) == "" {
			issues = append(issues, fmt.Sprintf("case %d has no source", i+1))
		}
	}
	if len(issues) == 0 {
		return nil
	}
	return fmt.Errorf("fixtures: %s is invalid:\n- %s", s.Path, strings.Join(issues, "\n- "))
}

// RunFixtures runs every case of the suite in order.
func RunFixtures(ctx context.Context, suite *FixtureSuite) []FixtureResult {
	results := make([]FixtureResult, 0, len(suite.Cases))
	for _, c := range suite.Cases {
		results = append(results, RunFixture(ctx, c))
	}
	return results
}

// RunFixture parses, checks and interprets one case, then compiles it when
// Jasmin expectations are present.
func RunFixture(ctx context.Context, c FixtureCase) FixtureResult {
	result := FixtureResult{Name: c.Name}
	var stdout bytes.Buffer
	pipe := &Pipeline{Stdin: strings.NewReader(c.Stdin), Stdout: &stdout}

	prog, err := pipe.LoadSource(c.Name+".tig", c.Source)
	if err != nil {
		result.expectError(c, DescribeParseError(err))
		return result
	}

	checkErr := pipe.Check(prog)
	got := make([]string, 0, len(prog.Diagnostics))
	for _, d := range prog.Diagnostics {
		got = append(got, d.Message)
	}
	if !equalStrings(got, c.Diagnostics) {
		result.mismatchf("diagnostics = %q, want %q", got, c.Diagnostics)
	}
	if checkErr != nil {
		return result
	}

	value, err := pipe.Interpret(ctx, prog)
	if code, ok := interpreter.ExitCodeFromError(err); ok {
		if c.Exit == nil {
			result.mismatchf("unexpected exit(%d)", code)
		} else if code != *c.Exit {
			result.mismatchf("exit code = %d, want %d", code, *c.Exit)
		}
	} else if err != nil {
		result.expectError(c, DescribeRuntimeError(prog.Path, err))
	} else {
		if c.Error != "" {
			result.mismatchf("expected an error mentioning %q", c.Error)
		}
		if c.Exit != nil {
			result.mismatchf("program finished without exit(%d)", *c.Exit)
		}
		if c.Result != nil {
			if formatted := runtime.Format(value); formatted != *c.Result {
				result.mismatchf("result = %q, want %q", formatted, *c.Result)
			}
		}
	}
	if c.Stdout != nil && stdout.String() != *c.Stdout {
		result.mismatchf("stdout = %q, want %q", stdout.String(), *c.Stdout)
	}

	if len(c.Jasmin) > 0 {
		compiled, err := pipe.Compile(prog, "")
		if err != nil {
			result.mismatchf("compile: %v", err)
			return result
		}
		text := string(compiled.Text)
		for _, want := range c.Jasmin {
			if !strings.Contains(text, want) {
				result.mismatchf("generated class lacks %q", want)
			}
		}
	}
	return result
}

func (r *FixtureResult) expectError(c FixtureCase, message string) {
	if c.Error == "" {
		r.mismatchf("unexpected error: %s", message)
		return
	}
	if !strings.Contains(message, c.Error) {
		r.mismatchf("error %q does not mention %q", message, c.Error)
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
