package adapters

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"ros-specgen/internal/ports"
)

// DescriptorFileAdapter writes each package's artifacts into
// <Dir>/<package>/.
type DescriptorFileAdapter struct {
	Dir string
}

func NewDescriptorFileAdapter(dir string) DescriptorFileAdapter {
	return DescriptorFileAdapter{Dir: dir}
}

func (a DescriptorFileAdapter) PackageDir(pkg string) string {
	return filepath.Join(a.Dir, pkg)
}

func (a DescriptorFileAdapter) WriteFile(pkg string, filename string, content []byte) error {
	path, err := a.ensurePath(pkg, filename)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write " + filename).
			WithCause(err)
	}
	return nil
}

func (a DescriptorFileAdapter) ensurePath(pkg string, filename string) (string, error) {
	if a.Dir == "" {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("output directory is empty")
	}
	if strings.ContainsRune(pkg, filepath.Separator) || strings.ContainsRune(filename, filepath.Separator) {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("artifact path contains path separator")
	}
	dir := a.PackageDir(pkg)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create output directory").
			WithCause(err)
	}
	return filepath.Join(dir, filename), nil
}

var _ ports.DescriptorWriterPort = DescriptorFileAdapter{}
