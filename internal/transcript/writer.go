package transcript

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"persona_fetcher/internal/domain"
)

const (
	fileTimeLayout = "20060102_150405"
	dateLayout     = "2006-01-02 15:04:05"
	separator      = "=================================================="
)

// Writer stores the raw fetched activity as a human-readable text file,
// one file per run.
type Writer struct {
	dir      string
	platform string
	location *time.Location
	now      func() time.Time
	logger   *slog.Logger
}

func NewWriter(dir, platform string, logger *slog.Logger) *Writer {
	return &Writer{
		dir:      dir,
		platform: platform,
		location: time.Local,
		now:      time.Now,
		logger:   logger,
	}
}

// WithLocation sets the zone dates are printed in.
func (w *Writer) WithLocation(loc *time.Location) *Writer {
	w.location = loc
	return w
}

// Write persists result to <dir>/<handle>_raw_<timestamp>.txt and returns
// the path. Posts come first, then comments, each in fetch order.
func (w *Writer) Write(ctx context.Context, handle string, result domain.FetchResult) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	name := fmt.Sprintf("%s_raw_%s.txt", sanitize(handle), w.now().In(w.location).Format(fileTimeLayout))
	path := filepath.Join(w.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create transcript: %w", err)
	}
	defer f.Close()

	buf := bufio.NewWriter(f)
	if err := w.render(buf, handle, result); err != nil {
		return "", fmt.Errorf("write transcript: %w", err)
	}
	if err := buf.Flush(); err != nil {
		return "", fmt.Errorf("flush transcript: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close transcript: %w", err)
	}

	w.logger.Debug("wrote transcript",
		"path", path,
		"posts", len(result.Posts),
		"comments", len(result.Comments),
	)

	return path, nil
}

func (w *Writer) render(out io.Writer, handle string, result domain.FetchResult) error {
	ew := &errWriter{w: out}

	ew.printf("%s Data for u/%s\n%s\n\n", w.platform, handle, separator)

	ew.printf("POSTS:\n")
	for _, p := range result.Posts {
		ew.printf("[%s] %s\n", p.ID, p.Title)
		w.entryBody(ew, p)
	}

	ew.printf("\nCOMMENTS:\n")
	for _, c := range result.Comments {
		ew.printf("[%s]\n", c.ID)
		w.entryBody(ew, c)
	}

	return ew.err
}

func (w *Writer) entryBody(ew *errWriter, r domain.ActivityRecord) {
	ew.printf("URL: %s\n", r.URL)
	ew.printf("Date: %s\n", r.CreatedAt.In(w.location).Format(dateLayout))
	ew.printf("Content:\n%s\n\n", r.Content)
}

// sanitize keeps handles from escaping the output directory.
func sanitize(handle string) string {
	return strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == os.PathSeparator {
			return '_'
		}
		return r
	}, handle)
}

type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}
