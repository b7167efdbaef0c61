/*
Copyright 2026.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package workspace manages the ephemeral per-operation directory that
// holds a shallow clone and, optionally, installed node dependencies. A
// workspace from New is owned exclusively by the operation that created it,
// which removes it on every exit path, success or failure. The ForStack
// workspace of the deploy state machine is not removed when the deploy
// sequence ends; it stays in place until the next Cloning step resets it.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
)

// Workspace is a single ephemeral directory rooted under os.TempDir().
type Workspace struct {
	dir string
}

// New creates a fresh workspace directory named
// cdk-{kind}-{resource}-{unique}. kind names the operation (e.g. "destroy",
// "drift", "gitsync"); resource identifies the object (callers pass
// "namespace-name").
func New(kind, resource string) (*Workspace, error) {
	pattern := fmt.Sprintf("cdk-%s-%s-*", sanitize(kind), sanitize(resource))
	dir, err := os.MkdirTemp("", pattern)
	if err != nil {
		return nil, fmt.Errorf("creating workspace for %s/%s: %w", kind, resource, err)
	}
	return &Workspace{dir: dir}, nil
}

// ForStack returns the deterministic workspace used by the deploy state
// machine for one resource. Unlike New, this path is stable across the
// separate Modified events that drive Cloning, Installing, and Deploying,
// so the clone and installed dependencies survive between phase steps.
func ForStack(namespace, name string) *Workspace {
	dir := filepath.Join(os.TempDir(), fmt.Sprintf("cdk-stack-%s-%s", sanitize(namespace), sanitize(name)))
	return &Workspace{dir: dir}
}

// Reset removes any prior contents of the workspace and recreates an empty
// directory in its place. Used at the start of the Cloning phase step.
func (w *Workspace) Reset() error {
	if err := os.RemoveAll(w.dir); err != nil {
		return err
	}
	return os.MkdirAll(w.dir, 0o755)
}

// Dir returns the workspace root.
func (w *Workspace) Dir() string { return w.dir }

// ProjectDir joins the workspace root with the CDK project's relative path
// within the cloned repository.
func (w *Workspace) ProjectDir(relPath string) string {
	return filepath.Join(w.dir, relPath)
}

// Remove deletes the workspace and everything under it. It is safe to call
// more than once and safe to call on a nil Workspace.
func (w *Workspace) Remove() error {
	if w == nil || w.dir == "" {
		return nil
	}
	return os.RemoveAll(w.dir)
}

// sanitize keeps workspace directory names filesystem-safe even if a
// resource name contains characters Kubernetes allows but a shell
// invocation further down the pipeline might not expect.
func sanitize(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			out = append(out, r)
		default:
			out = append(out, '_')
		}
	}
	if len(out) == 0 {
		return "x"
	}
	return string(out)
}
