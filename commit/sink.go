package commit

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexballas/xsorter/config"
	"github.com/alexballas/xsorter/sequence"
)

// Sink receives committed files.
type Sink interface {
	// Exists reports whether name is already present in the target.
	Exists(ctx context.Context, name string) (bool, error)
	// Put stores size bytes from r under name, replacing any previous content.
	Put(ctx context.Context, name string, r io.Reader, size int64) error
	String() string
}

// DirSink writes into an existing local directory.
type DirSink struct {
	Dir string
}

// NewDirSink checks that dir is an existing directory.
func NewDirSink(dir string) (*DirSink, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, &sequence.DirectoryError{Path: dir, Err: err}
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, &sequence.DirectoryError{Path: abs, Err: err}
	}
	if !info.IsDir() {
		return nil, &sequence.DirectoryError{Path: abs, Err: errors.New("not a directory")}
	}
	return &DirSink{Dir: abs}, nil
}

func (s *DirSink) String() string {
	return s.Dir
}

func (s *DirSink) Exists(_ context.Context, name string) (bool, error) {
	_, err := os.Lstat(filepath.Join(s.Dir, name))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// Put copies through a temporary file and renames it into place.
func (s *DirSink) Put(ctx context.Context, name string, r io.Reader, _ int64) error {
	tmp, err := os.CreateTemp(s.Dir, ".xsorter-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, &ctxReader{ctx: ctx, r: r}); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), filepath.Join(s.Dir, name))
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

// OpenSink picks the sink for target: "s3://bucket/prefix" goes to S3 with the settings in cfg,
// anything else is a local directory.
func OpenSink(ctx context.Context, target string, cfg config.S3Config) (Sink, error) {
	if rest, ok := strings.CutPrefix(target, "s3://"); ok {
		bucket, prefix, _ := strings.Cut(rest, "/")
		if bucket == "" {
			return nil, fmt.Errorf("invalid S3 target %q: missing bucket", target)
		}
		return NewS3Sink(ctx, bucket, prefix, cfg)
	}
	return NewDirSink(target)
}
