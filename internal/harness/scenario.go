package harness

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"
)

// Scenario is a spec written as a document instead of Go code.
// The top level describes the root group; Groups nest recursively.
type Scenario struct {
	// Name uniquely identifies this scenario within a suite.
	Name string `yaml:"name" json:"name"`

	// Description explains what this scenario exercises.
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// Vars declares the integer variables steps operate on, with their
	// initial values. Every replay starts from these values.
	Vars map[string]int `yaml:"vars,omitempty" json:"vars,omitempty"`

	Describe   string     `yaml:"describe" json:"describe"`
	Mode       string     `yaml:"mode,omitempty" json:"mode,omitempty"`
	BeforeAll  []Step     `yaml:"before_all,omitempty" json:"before_all,omitempty"`
	BeforeEach []Step     `yaml:"before_each,omitempty" json:"before_each,omitempty"`
	AfterEach  []Step     `yaml:"after_each,omitempty" json:"after_each,omitempty"`
	AfterAll   []Step     `yaml:"after_all,omitempty" json:"after_all,omitempty"`
	Tests      []TestDoc  `yaml:"tests,omitempty" json:"tests,omitempty"`
	Groups     []GroupDoc `yaml:"groups,omitempty" json:"groups,omitempty"`
}

// GroupDoc is a nested group.
type GroupDoc struct {
	Describe   string     `yaml:"describe" json:"describe"`
	Mode       string     `yaml:"mode,omitempty" json:"mode,omitempty"`
	BeforeAll  []Step     `yaml:"before_all,omitempty" json:"before_all,omitempty"`
	BeforeEach []Step     `yaml:"before_each,omitempty" json:"before_each,omitempty"`
	AfterEach  []Step     `yaml:"after_each,omitempty" json:"after_each,omitempty"`
	AfterAll   []Step     `yaml:"after_all,omitempty" json:"after_all,omitempty"`
	Tests      []TestDoc  `yaml:"tests,omitempty" json:"tests,omitempty"`
	Groups     []GroupDoc `yaml:"groups,omitempty" json:"groups,omitempty"`
}

// TestDoc is one test. With Throws set the test passes only when its
// steps fail with the described error.
type TestDoc struct {
	Should string     `yaml:"should" json:"should"`
	Mode   string     `yaml:"mode,omitempty" json:"mode,omitempty"`
	Steps  []Step     `yaml:"steps,omitempty" json:"steps,omitempty"`
	Throws *ThrowsDoc `yaml:"throws,omitempty" json:"throws,omitempty"`
}

// ThrowsDoc describes the error an expected-failure test must produce.
type ThrowsDoc struct {
	Kind    string `yaml:"kind" json:"kind"`
	Message string `yaml:"message,omitempty" json:"message,omitempty"`
	NoCause bool   `yaml:"no_cause,omitempty" json:"no_cause,omitempty"`
}

// Root returns the top-level group of the scenario.
func (s *Scenario) Root() GroupDoc {
	return GroupDoc{
		Describe:   s.Describe,
		Mode:       s.Mode,
		BeforeAll:  s.BeforeAll,
		BeforeEach: s.BeforeEach,
		AfterEach:  s.AfterEach,
		AfterAll:   s.AfterAll,
		Tests:      s.Tests,
		Groups:     s.Groups,
	}
}

// Scenario error codes.
const (
	ErrCodeReadFailed   = "S001" // File could not be read
	ErrCodeParseFailed  = "S002" // YAML, CUE or JSON syntax error
	ErrCodeUnsupported  = "S003" // Unknown file extension
	ErrCodeMissingField = "S004" // Required field absent
	ErrCodeUnknownOp    = "S005" // Step op not recognized
	ErrCodeUnknownKind  = "S006" // Throws kind not recognized
	ErrCodeUnknownMode  = "S007" // Mode not recognized
	ErrCodeUndeclared   = "S008" // Step uses a variable absent from vars
	ErrCodeDuplicate    = "S009" // Scenario name used twice in a suite
)

// ScenarioError reports a malformed scenario document.
type ScenarioError struct {
	Code    string
	Message string

	// File is the document path, empty for in-memory documents.
	File string

	// Field locates the offending element, e.g. "groups[0].tests[1].steps[0]".
	Field string
}

func (e *ScenarioError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Field != "" {
		msg = fmt.Sprintf("%s: %s", e.Field, msg)
	}
	if e.File != "" {
		msg = fmt.Sprintf("%s: %s", e.File, msg)
	}
	return msg
}

// LoadFile loads a scenario, choosing the decoder by extension:
// .yaml and .yml for YAML, .cue for CUE.
func LoadFile(path string) (*Scenario, error) {
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		return LoadScenario(path)
	case ".cue":
		return LoadScenarioCUE(path)
	default:
		return nil, &ScenarioError{Code: ErrCodeUnsupported, Message: "expected a .yaml, .yml or .cue file", File: path}
	}
}

// LoadScenario reads and parses a scenario YAML file.
// Unknown fields are rejected so typos surface as errors.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ScenarioError{Code: ErrCodeReadFailed, Message: err.Error(), File: path}
	}
	s, err := ParseScenario(data)
	return s, withFile(err, path)
}

// ParseScenario parses and validates a YAML scenario document.
func ParseScenario(data []byte) (*Scenario, error) {
	var s Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&s); err != nil {
		return nil, &ScenarioError{Code: ErrCodeParseFailed, Message: fmt.Sprintf("parse YAML: %v", err)}
	}
	if err := validateScenario(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadScenarioCUE reads a scenario written in CUE. The file must evaluate
// to a concrete value with the same shape as the YAML form.
func LoadScenarioCUE(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ScenarioError{Code: ErrCodeReadFailed, Message: err.Error(), File: path}
	}
	s, err := ParseScenarioCUE(data, path)
	return s, withFile(err, path)
}

// ParseScenarioCUE compiles and validates a CUE scenario document.
// filename is used only in CUE position information.
func ParseScenarioCUE(data []byte, filename string) (*Scenario, error) {
	ctx := cuecontext.New()
	value := ctx.CompileBytes(data, cue.Filename(filename))
	if err := value.Err(); err != nil {
		return nil, &ScenarioError{Code: ErrCodeParseFailed, Message: fmt.Sprintf("compile CUE: %v", err)}
	}
	if err := value.Validate(cue.Concrete(true)); err != nil {
		return nil, &ScenarioError{Code: ErrCodeParseFailed, Message: fmt.Sprintf("CUE value is not concrete: %v", err)}
	}

	// Round-trip through JSON so unknown fields are rejected like in YAML.
	raw, err := value.MarshalJSON()
	if err != nil {
		return nil, &ScenarioError{Code: ErrCodeParseFailed, Message: fmt.Sprintf("export CUE: %v", err)}
	}
	var s Scenario
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&s); err != nil {
		return nil, &ScenarioError{Code: ErrCodeParseFailed, Message: fmt.Sprintf("decode CUE: %v", err)}
	}
	if err := validateScenario(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

func withFile(err error, path string) error {
	if se, ok := err.(*ScenarioError); ok && se.File == "" {
		se.File = path
	}
	return err
}

// FindScenarioFiles walks dir and returns every scenario file, sorted.
func FindScenarioFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		switch filepath.Ext(path) {
		case ".yaml", ".yml", ".cue":
			files = append(files, path)
		}
		return nil
	})
	sort.Strings(files)
	return files, err
}

// validateScenario checks required fields and every step, throws clause
// and mode in the document. It returns the first problem found.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return &ScenarioError{Code: ErrCodeMissingField, Message: "name is required", Field: "name"}
	}
	return validateGroup(s.Root(), "", s.Vars)
}

func validateGroup(g GroupDoc, field string, vars map[string]int) error {
	at := func(name string) string {
		if field == "" {
			return name
		}
		return field + "." + name
	}

	if g.Describe == "" {
		return &ScenarioError{Code: ErrCodeMissingField, Message: "describe is required", Field: at("describe")}
	}
	if _, err := parseMode(g.Mode); err != nil {
		return &ScenarioError{Code: ErrCodeUnknownMode, Message: err.Error(), Field: at("mode")}
	}

	hooks := []struct {
		name  string
		steps []Step
	}{
		{"before_all", g.BeforeAll},
		{"before_each", g.BeforeEach},
		{"after_each", g.AfterEach},
		{"after_all", g.AfterAll},
	}
	for _, h := range hooks {
		if err := validateSteps(h.steps, at(h.name), vars); err != nil {
			return err
		}
	}

	for i, tc := range g.Tests {
		tf := at(fmt.Sprintf("tests[%d]", i))
		if tc.Should == "" {
			return &ScenarioError{Code: ErrCodeMissingField, Message: "should is required", Field: tf + ".should"}
		}
		if _, err := parseMode(tc.Mode); err != nil {
			return &ScenarioError{Code: ErrCodeUnknownMode, Message: err.Error(), Field: tf + ".mode"}
		}
		if err := validateSteps(tc.Steps, tf+".steps", vars); err != nil {
			return err
		}
		if tc.Throws != nil {
			if _, ok := throwsKinds[tc.Throws.Kind]; !ok {
				return &ScenarioError{
					Code:    ErrCodeUnknownKind,
					Message: fmt.Sprintf("unknown kind %q", tc.Throws.Kind),
					Field:   tf + ".throws.kind",
				}
			}
		}
	}

	for i, child := range g.Groups {
		if err := validateGroup(child, at(fmt.Sprintf("groups[%d]", i)), vars); err != nil {
			return err
		}
	}
	return nil
}

func validateSteps(steps []Step, field string, vars map[string]int) error {
	for i, step := range steps {
		sf := fmt.Sprintf("%s[%d]", field, i)
		switch step.Op {
		case OpSet, OpAdd, OpDiv, OpExpect:
			if step.Var == "" {
				return &ScenarioError{Code: ErrCodeMissingField, Message: fmt.Sprintf("%s needs var", step.Op), Field: sf + ".var"}
			}
			if _, ok := vars[step.Var]; !ok {
				return &ScenarioError{Code: ErrCodeUndeclared, Message: fmt.Sprintf("variable %q is not declared in vars", step.Var), Field: sf + ".var"}
			}
		case OpFail:
			if step.Message == "" {
				return &ScenarioError{Code: ErrCodeMissingField, Message: "fail needs message", Field: sf + ".message"}
			}
		case "":
			return &ScenarioError{Code: ErrCodeMissingField, Message: "op is required", Field: sf + ".op"}
		default:
			return &ScenarioError{Code: ErrCodeUnknownOp, Message: fmt.Sprintf("unknown op %q", step.Op), Field: sf + ".op"}
		}
	}
	return nil
}
