package printer

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// FileOutput writes the logs command output to a file. Paths ending in .zst
// are zstd-compressed. Data goes to a temporary file that replaces path on
// Close, so an interrupted run never leaves a truncated export behind.
type FileOutput struct {
	path string
	tmp  string
	file *os.File
	zw   *zstd.Encoder
	w    io.Writer
}

func OpenOutput(path string) (*FileOutput, error) {
	tmp := path + ".tmp"
	file, err := os.Create(tmp)
	if err != nil {
		return nil, fmt.Errorf("unable to create output %s: %w", path, err)
	}

	out := &FileOutput{path: path, tmp: tmp, file: file, w: file}
	if strings.HasSuffix(path, ".zst") {
		zw, err := zstd.NewWriter(file)
		if err != nil {
			_ = file.Close()
			_ = os.Remove(tmp)
			return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
		}
		out.zw = zw
		out.w = zw
	}
	return out, nil
}

func (o *FileOutput) Write(p []byte) (int, error) {
	return o.w.Write(p)
}

func (o *FileOutput) Close() error {
	if o.zw != nil {
		if err := o.zw.Close(); err != nil {
			_ = o.file.Close()
			return err
		}
	}
	if err := o.file.Sync(); err != nil {
		_ = o.file.Close()
		return err
	}
	if err := o.file.Close(); err != nil {
		return err
	}
	return os.Rename(o.tmp, o.path)
}
