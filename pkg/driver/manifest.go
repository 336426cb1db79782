package driver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hopsage/TigerC/pkg/compiler"
)

// ManifestFile is the project file name looked up by FindManifest.
const ManifestFile = "tiger.yml"

// Backend selects what `tiger build` does with the entry program.
type Backend string

const (
	BackendInterp Backend = "interp"
	BackendJVM    Backend = "jvm"
)

// IsValid reports whether the backend is recognised.
func (b Backend) IsValid() bool {
	switch b {
	case BackendInterp, BackendJVM:
		return true
	default:
		return false
	}
}

// Manifest represents the parsed contents of tiger.yml.
type Manifest struct {
	Path     string
	Name     string
	Entry    string
	Class    string
	Output   string
	Backend  Backend
	MaxStack int
}

type manifestFile struct {
	Name     string `yaml:"name"`
	Entry    string `yaml:"entry"`
	Class    string `yaml:"class"`
	Output   string `yaml:"output"`
	Backend  string `yaml:"backend"`
	MaxStack int    `yaml:"max_stack"`
}

// ValidationError aggregates manifest validation failures.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "manifest: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("manifest validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// ErrNoManifest is returned by FindManifest when no directory up to the
// filesystem root holds a tiger.yml.
var ErrNoManifest = errors.New("manifest: no " + ManifestFile + " found")

// LoadManifest parses tiger.yml from disk, returning a validated manifest.
func LoadManifest(path string) (*Manifest, error) {
	if path == "" {
		return nil, fmt.Errorf("manifest: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("manifest: open %s: %w", absPath, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	var raw manifestFile
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("manifest: %s is empty", absPath)
		}
		return nil, fmt.Errorf("manifest: parse %s: %w", absPath, err)
	}

	manifest := raw.toManifest(absPath)
	if err := manifest.validate(); err != nil {
		return nil, err
	}
	return manifest, nil
}

// FindManifest walks from dir towards the root and returns the path of the
// first tiger.yml.
func FindManifest(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("manifest: resolve %s: %w", dir, err)
	}
	for {
		candidate := filepath.Join(abs, ManifestFile)
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, nil
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("manifest: stat %s: %w", candidate, err)
		}
		parent := filepath.Dir(abs)
		if parent == abs {
			return "", ErrNoManifest
		}
		abs = parent
	}
}

func (raw manifestFile) toManifest(path string) *Manifest {
	backend := Backend(strings.TrimSpace(raw.Backend))
	if backend == "" {
		backend = BackendInterp
	}
	return &Manifest{
		Path:     path,
		Name:     strings.TrimSpace(raw.Name),
		Entry:    strings.TrimSpace(raw.Entry),
		Class:    strings.TrimSpace(raw.Class),
		Output:   strings.TrimSpace(raw.Output),
		Backend:  backend,
		MaxStack: raw.MaxStack,
	}
}

var classNamePattern = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

func (m *Manifest) validate() error {
	var errs ValidationError
	if m.Name == "" {
		errs.Issues = append(errs.Issues, "name must be provided")
	}
	if m.Entry == "" {
		errs.Issues = append(errs.Issues, "entry must be provided")
	} else if filepath.Ext(m.Entry) != ".tig" {
		errs.Issues = append(errs.Issues, fmt.Sprintf("entry %q must be a .tig file", m.Entry))
	}
	if !m.Backend.IsValid() {
		errs.Issues = append(errs.Issues, fmt.Sprintf("backend %q is not one of interp, jvm", m.Backend))
	}
	if m.Class != "" && !classNamePattern.MatchString(m.Class) {
		errs.Issues = append(errs.Issues, fmt.Sprintf("class %q is not a valid JVM class name", m.Class))
	}
	if m.MaxStack < 0 {
		errs.Issues = append(errs.Issues, "max_stack must not be negative")
	}
	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

func (m *Manifest) dir() string {
	return filepath.Dir(m.Path)
}

// EntryPath resolves the entry program relative to the manifest.
func (m *Manifest) EntryPath() string {
	if filepath.IsAbs(m.Entry) {
		return m.Entry
	}
	return filepath.Join(m.dir(), m.Entry)
}

// OutputDir resolves the directory generated classes are written to; it
// defaults to the manifest's directory.
func (m *Manifest) OutputDir() string {
	if m.Output == "" {
		return m.dir()
	}
	if filepath.IsAbs(m.Output) {
		return m.Output
	}
	return filepath.Join(m.dir(), m.Output)
}

// ClassName is the configured class or one derived from the entry name.
func (m *Manifest) ClassName() string {
	if m.Class != "" {
		return m.Class
	}
	return compiler.ClassNameFor(m.Entry)
}
