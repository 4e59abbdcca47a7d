package output

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Writer is a destination for a rendered document.
type Writer interface {
	// Write replaces the destination's content with data.
	Write(data []byte) error
}

// WriterFactory returns the Writer that replaces the document at path.
type WriterFactory func(path string) Writer

// StdoutWriter hands a document sorted from stdin back to the caller.
type StdoutWriter struct {
	out io.Writer
}

// NewStdoutWriter creates a writer that sends output to w.
// If w is nil, os.Stdout is used.
func NewStdoutWriter(w io.Writer) *StdoutWriter {
	if w == nil {
		w = os.Stdout
	}

	return &StdoutWriter{out: w}
}

// Write sends data to the underlying writer.
func (sw *StdoutWriter) Write(data []byte) error {
	if _, err := sw.out.Write(data); err != nil {
		return fmt.Errorf("writing sorted document: %w", err)
	}

	return nil
}

// FileWriter writes a sorted document back over the file it was read from.
// The file is truncated and rewritten in place, so it keeps its permission
// bits. It is never created: a file removed since it was read is an error.
// The write is not atomic and a failure midway can leave a partial file.
type FileWriter struct {
	path   string
	logger *slog.Logger
}

// FileWriterOption configures a FileWriter.
type FileWriterOption func(*FileWriter)

// WithLogger sets a logger for the FileWriter.
func WithLogger(logger *slog.Logger) FileWriterOption {
	return func(fw *FileWriter) {
		fw.logger = logger
	}
}

// NewFileWriter creates a writer for the document at path.
func NewFileWriter(path string, opts ...FileWriterOption) *FileWriter {
	fw := &FileWriter{
		path:   path,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(fw)
	}

	return fw
}

// Write replaces the file's content with data.
func (fw *FileWriter) Write(data []byte) (err error) {
	f, err := os.OpenFile(fw.path, os.O_WRONLY|os.O_TRUNC, 0) //nolint:gosec // paths come from the resolver
	if err != nil {
		return fmt.Errorf("opening %s for write-back: %w", fw.path, err)
	}

	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", fw.path, closeErr)
		}
	}()

	n, err := f.Write(data)
	if err != nil {
		return fmt.Errorf("writing %s: %w", fw.path, err)
	}

	fw.logger.Debug("wrote sorted document", slog.String("path", fw.path), slog.Int("bytes", n))

	return nil
}
