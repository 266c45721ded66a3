package plan

import (
	"bytes"
	stderrors "errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/kbukum/seqkit/errors"
)

// Loader loads plan definitions by name.
type Loader interface {
	Load(name string) (*Plan, error)
}

// FileLoader loads plans from YAML or JSON files on disk.
type FileLoader struct {
	dirs []string
}

// NewFileLoader creates a loader that searches the given directories for plan files.
func NewFileLoader(dirs ...string) *FileLoader {
	return &FileLoader{dirs: dirs}
}

var planExtensions = []string{".yaml", ".yml", ".json"}

// Load searches each directory for {name}.yaml, {name}.yml or {name}.json,
// then one level of subdirectories.
func (l *FileLoader) Load(name string) (*Plan, error) {
	for _, dir := range l.dirs {
		for _, ext := range planExtensions {
			path := filepath.Join(dir, name+ext)
			p, err := LoadFile(path)
			if err == nil {
				return p, nil
			}
			if !stderrors.Is(err, fs.ErrNotExist) {
				return nil, err
			}

			matches, _ := filepath.Glob(filepath.Join(dir, "*", name+ext))
			for _, match := range matches {
				if p, err := LoadFile(match); err == nil {
					return p, nil
				}
			}
		}
	}
	return nil, errors.InvalidInput("plan", "plan "+name+" not found").
		WithDetail("dirs", l.dirs)
}

// LoadFile reads and parses a plan file. The path "-" reads standard input.
func LoadFile(path string) (*Plan, error) {
	var (
		data []byte
		err  error
	)
	if path == StdinFile {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, errors.InvalidInput("plan", "cannot read "+path).WithCause(err)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, errors.Wrap(err).WithDetail("path", path)
	}
	if p.Name == "" && path != StdinFile {
		p.Name = planName(path)
	}
	return p, nil
}

// Parse decodes a YAML or JSON plan. Unknown fields are rejected.
func Parse(data []byte) (*Plan, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var p Plan
	if err := dec.Decode(&p); err != nil {
		if stderrors.Is(err, io.EOF) {
			return nil, errors.InvalidInput("plan", "plan is empty")
		}
		return nil, errors.InvalidInput("plan", "cannot parse plan").WithCause(err)
	}
	return &p, nil
}

func planName(path string) string {
	base := filepath.Base(path)
	return base[:len(base)-len(filepath.Ext(base))]
}
