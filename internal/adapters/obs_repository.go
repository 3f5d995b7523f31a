package adapters

import (
	"bufio"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"ros-specgen/internal/ports"
)

// OBSRepositoryAdapter drives an Open Build Service project through the
// osc command line client.
type OBSRepositoryAdapter struct {
	cmd     toolCommand
	APIURL  string
	Project string
}

func NewOBSRepositoryAdapter(command string, apiURL string, project string, timeout time.Duration) (OBSRepositoryAdapter, error) {
	cmd, err := newToolCommand(command, timeout)
	if err != nil {
		return OBSRepositoryAdapter{}, err
	}
	return OBSRepositoryAdapter{cmd: cmd, APIURL: strings.TrimSpace(apiURL), Project: strings.TrimSpace(project)}, nil
}

// List returns the package names of the project.
func (a OBSRepositoryAdapter) List(ctx context.Context) ([]string, error) {
	if err := a.requireProject(); err != nil {
		return nil, err
	}
	output, err := a.runOutput(ctx, "", "ls", a.Project)
	if err != nil {
		return nil, err
	}
	var packages []string
	scanner := bufio.NewScanner(bytes.NewReader(output))
	for scanner.Scan() {
		if name := strings.TrimSpace(scanner.Text()); name != "" {
			packages = append(packages, name)
		}
	}
	return packages, nil
}

// Create registers pkg in the project.
func (a OBSRepositoryAdapter) Create(ctx context.Context, pkg string, title string, description string) error {
	if err := a.requireProject(); err != nil {
		return err
	}
	meta, err := os.CreateTemp("", "ros-specgen-meta-")
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create package meta file").
			WithCause(err)
	}
	defer os.Remove(meta.Name())
	content := packageMeta(a.Project, pkg, title, description)
	if _, err := meta.Write(content); err != nil {
		meta.Close()
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write package meta file").
			WithCause(err)
	}
	meta.Close()
	return a.run(ctx, "", "meta", "pkg", a.Project, pkg, "-F", meta.Name())
}

// Checkout checks pkg out into dir, or updates an existing checkout.
func (a OBSRepositoryAdapter) Checkout(ctx context.Context, pkg string, dir string) error {
	if err := a.requireProject(); err != nil {
		return err
	}
	if info, err := os.Stat(filepath.Join(dir, ".osc")); err == nil && info.IsDir() {
		return a.run(ctx, dir, "update")
	}
	return a.run(ctx, "", "checkout", a.Project, pkg, "--output-dir", dir)
}

// Commit records added and removed files in dir and commits them.
func (a OBSRepositoryAdapter) Commit(ctx context.Context, dir string, message string) error {
	if err := a.run(ctx, dir, "addremove"); err != nil {
		return err
	}
	return a.run(ctx, dir, "commit", "-m", message)
}

func (a OBSRepositoryAdapter) requireProject() error {
	if a.Project == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("build service project is empty")
	}
	return nil
}

func (a OBSRepositoryAdapter) run(ctx context.Context, dir string, args ...string) error {
	_, err := a.runOutput(ctx, dir, args...)
	return err
}

func (a OBSRepositoryAdapter) runOutput(ctx context.Context, dir string, args ...string) ([]byte, error) {
	if a.APIURL != "" {
		args = append([]string{"-A", a.APIURL}, args...)
	}
	output, err := a.cmd.run(ctx, dir, args...)
	if err != nil {
		if isExitError(err) {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("osc command failed: " + strings.Join(args, " ")).
				WithCause(err)
		}
		return nil, err
	}
	return output, nil
}

func packageMeta(project string, pkg string, title string, description string) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "<package name=%q project=%q>\n", pkg, project)
	buf.WriteString("  <title>")
	_ = xml.EscapeText(&buf, []byte(title))
	buf.WriteString("</title>\n  <description>")
	_ = xml.EscapeText(&buf, []byte(description))
	buf.WriteString("</description>\n</package>\n")
	return buf.Bytes()
}

var _ ports.PackageRepositoryPort = OBSRepositoryAdapter{}
