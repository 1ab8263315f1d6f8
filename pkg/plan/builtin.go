package plan

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ormasoftchile/shipit/pkg/schema"
)

// CopyFile returns a builtin that copies src to dst, keeping src's mode bits.
func CopyFile(src, dst string) schema.BuiltinFunc {
	return func(ctx context.Context, out io.Writer) error {
		in, err := os.Open(src)
		if err != nil {
			return fmt.Errorf("open source: %w", err)
		}
		defer in.Close()

		info, err := in.Stat()
		if err != nil {
			return fmt.Errorf("stat source: %w", err)
		}
		if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
			return fmt.Errorf("create destination directory: %w", err)
		}

		tmp := dst + ".tmp"
		f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
		if err != nil {
			return fmt.Errorf("create destination: %w", err)
		}
		n, err := io.Copy(f, in)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			os.Remove(tmp)
			return fmt.Errorf("copy: %w", err)
		}
		if err := os.Rename(tmp, dst); err != nil {
			os.Remove(tmp)
			return fmt.Errorf("move into place: %w", err)
		}
		fmt.Fprintf(out, "copied %s -> %s (%d bytes)\n", src, dst, n)
		return nil
	}
}

// RemoveDirs returns a builtin that removes each directory tree. Directories
// that do not exist are reported and left alone.
func RemoveDirs(dirs ...string) schema.BuiltinFunc {
	return func(ctx context.Context, out io.Writer) error {
		for _, dir := range dirs {
			if err := ctx.Err(); err != nil {
				return err
			}
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				fmt.Fprintf(out, "%s does not exist, nothing to remove\n", dir)
				continue
			}
			if err := os.RemoveAll(dir); err != nil {
				return fmt.Errorf("remove %s: %w", dir, err)
			}
			fmt.Fprintf(out, "removed %s\n", dir)
		}
		return nil
	}
}
