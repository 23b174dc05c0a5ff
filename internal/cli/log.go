package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger returns the command logger. At debug level each line also
// reports its caller so pipeline messages can be traced to their stage.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		ReportCaller:    level <= log.DebugLevel,
		TimeFormat:      time.TimeOnly,
		Level:           level,
	})
}

// renderTimer times one render command from loading the input to writing
// the last artifact.
type renderTimer struct {
	logger *log.Logger
	input  string
	start  time.Time
}

func startRender(l *log.Logger, input string) *renderTimer {
	return &renderTimer{logger: l, input: input, start: time.Now()}
}

// rendered logs "Rendered resume.docx (12ms)" with the written formats and
// whether every artifact was served from the cache.
func (t *renderTimer) rendered(formats []string, cached bool) {
	elapsed := time.Since(t.start).Round(time.Millisecond)
	t.logger.Info(fmt.Sprintf("Rendered %s (%s)", filepath.Base(t.input), elapsed),
		"formats", strings.Join(formats, ","),
		"cached", cached)
}

type loggerKey struct{}

func contextWithLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// commandLogger returns the logger attached by the root command, or
// log.Default() when a command runs outside it (as in tests).
func commandLogger(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
