// Package workspace maps questions to component files in a learner's project.
package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"

	"codebrush/internal/question"
)

var (
	// ErrUnknownQuestion reports a question with no registered component.
	ErrUnknownQuestion = errors.New("no component registered for question")
	// ErrExists reports a scaffold that would overwrite an existing file.
	ErrExists = errors.New("component file already exists")
)

// ComponentDir is the directory, relative to the workspace root, holding components.
const ComponentDir = "src/components"

// Component names the React component a question's tests render.
type Component struct {
	QuestionID string
	Name       string
}

// File returns the component path relative to the workspace root.
func (c Component) File() string {
	return filepath.Join(filepath.FromSlash(ComponentDir), c.Name+".tsx")
}

var registry = []Component{
	{QuestionID: "q1", Name: "Counter"},
	{QuestionID: "q2", Name: "Toggle"},
	{QuestionID: "q3", Name: "UserList"},
	{QuestionID: "q4", Name: "CallbackExample"},
	{QuestionID: "q5", Name: "Calculator"},
}

// Components returns the registered components in question order.
func Components() []Component {
	return append([]Component(nil), registry...)
}

// Lookup returns the component registered for questionID.
func Lookup(questionID string) (Component, bool) {
	for _, c := range registry {
		if c.QuestionID == questionID {
			return c, true
		}
	}
	return Component{}, false
}

// Workspace is a project directory holding component files.
type Workspace struct {
	root string
}

// New resolves root, expanding a leading "~", to an absolute directory.
func New(root string) (*Workspace, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		root = "."
	}
	expanded, err := homedir.Expand(root)
	if err != nil {
		return nil, fmt.Errorf("expand workspace path: %w", err)
	}
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return nil, fmt.Errorf("resolve workspace path: %w", err)
	}
	return &Workspace{root: abs}, nil
}

// Root returns the absolute workspace directory.
func (w *Workspace) Root() string {
	return w.root
}

// Path returns the absolute component file for questionID.
func (w *Workspace) Path(questionID string) (string, error) {
	c, ok := Lookup(questionID)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownQuestion, questionID)
	}
	return filepath.Join(w.root, c.File()), nil
}

// Scaffold writes the question's starter code; an existing file is kept unless force is set.
func (w *Workspace) Scaffold(q question.Question, force bool) (string, error) {
	path, err := w.Path(q.ID)
	if err != nil {
		return "", err
	}
	if !force {
		if _, err := os.Stat(path); err == nil {
			return path, fmt.Errorf("%w: %s", ErrExists, path)
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("stat component: %w", err)
		}
	}
	if err := writeFile(path, q.StarterCode); err != nil {
		return "", err
	}
	return path, nil
}

// WriteSolution replaces the component file with the reference solution.
func (w *Workspace) WriteSolution(q question.Question) (string, error) {
	path, err := w.Path(q.ID)
	if err != nil {
		return "", err
	}
	if err := writeFile(path, q.Solution); err != nil {
		return "", err
	}
	return path, nil
}

// Read returns the current component source for questionID.
func (w *Workspace) Read(questionID string) (string, error) {
	path, err := w.Path(questionID)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read component: %w", err)
	}
	return string(data), nil
}

func writeFile(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create component directory: %w", err)
	}
	if !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write component: %w", err)
	}
	return nil
}
