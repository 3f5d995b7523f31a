package adapters

import (
	"archive/tar"
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/klauspost/compress/gzip"
	"github.com/rs/zerolog/log"

	"ros-specgen/internal/ports"
	"ros-specgen/internal/types"
)

// BundleArchiveAdapter packs a component checkout into a gzip'd tarball
// named after the model's synthesized source. Entries carry a fixed
// timestamp so repeated bundles of the same tree are identical.
type BundleArchiveAdapter struct{}

func NewBundleArchiveAdapter() BundleArchiveAdapter {
	return BundleArchiveAdapter{}
}

var bundleEpoch = time.Unix(0, 0).UTC()

func (a BundleArchiveAdapter) Bundle(ctx context.Context, component types.ComponentModel, destination string) (string, error) {
	if component.Dir == "" {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("component directory is empty")
	}
	if err := os.MkdirAll(destination, 0755); err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create bundle directory").
			WithCause(err)
	}
	path := filepath.Join(destination, component.Source.URI)
	if err := writeBundle(ctx, path, component.Dir, component.Source.URI); err != nil {
		_ = os.Remove(path)
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to bundle " + component.Name).
			WithCause(err)
	}
	log.Ctx(ctx).Info().Str("component", component.Name).Str("bundle", path).Msg("checkout bundled")
	return path, nil
}

// writeBundle writes the whole archive; on error the caller removes
// the partial file.
func writeBundle(ctx context.Context, path string, root string, prefix string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	gz := gzip.NewWriter(file)
	tw := tar.NewWriter(gz)
	if err := writeTree(ctx, tw, root, prefix); err != nil {
		file.Close()
		return err
	}
	if err := tw.Close(); err != nil {
		file.Close()
		return err
	}
	if err := gz.Close(); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// writeTree adds root below prefix/. WalkDir visits entries in lexical
// order, which keeps the archive stable.
func writeTree(ctx context.Context, tw *tar.Writer, root string, prefix string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() && path != root && shouldSkipWorkspaceDir(d.Name()) {
			return filepath.SkipDir
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if !info.Mode().IsRegular() && !info.IsDir() {
			return nil
		}
		header, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		header.Name = filepath.ToSlash(filepath.Join(prefix, rel))
		if info.IsDir() {
			header.Name += "/"
		}
		header.ModTime = bundleEpoch
		header.AccessTime = time.Time{}
		header.ChangeTime = time.Time{}
		header.Uid, header.Gid = 0, 0
		header.Uname, header.Gname = "", ""
		if err := tw.WriteHeader(header); err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		src, err := os.Open(path)
		if err != nil {
			return err
		}
		defer src.Close()
		_, err = io.Copy(tw, src)
		return err
	})
}

var _ ports.BundlePort = BundleArchiveAdapter{}
