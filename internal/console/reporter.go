package console

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"github.com/oshokin/atom-check-updates/internal/domain/release"
	"github.com/oshokin/atom-check-updates/internal/service/download"
	"github.com/oshokin/atom-check-updates/internal/version"
)

const (
	// barWidth is the widest bar, narrow terminals get half their width.
	barWidth = 40
	// defaultThrottle limits how often the bar is redrawn.
	defaultThrottle = 65 * time.Millisecond
	// spinnerType is drawn while the package size is unknown.
	spinnerType = 14
)

// Reporter writes status lines, colored when the output is a terminal.
type Reporter struct {
	out      io.Writer
	color    bool
	width    int
	throttle time.Duration

	title   *color.Color
	accent  *color.Color
	bold    *color.Color
	warning *color.Color
	success *color.Color
	failure *color.Color

	mu   sync.Mutex
	bar  *progressbar.ProgressBar
	file string
}

// ReporterOption configures a Reporter.
type ReporterOption func(*Reporter)

// WithColor forces colors on or off.
func WithColor(enabled bool) ReporterOption {
	return func(r *Reporter) {
		r.color = enabled
	}
}

// WithThrottle sets the minimum interval between progress bar redraws.
func WithThrottle(interval time.Duration) ReporterOption {
	return func(r *Reporter) {
		r.throttle = interval
	}
}

// NewReporter creates a Reporter writing to out.
func NewReporter(out io.Writer, opts ...ReporterOption) *Reporter {
	r := &Reporter{
		out:      out,
		color:    IsTerminal(out) && !color.NoColor,
		width:    min(barWidth, Width(out)/2),
		throttle: defaultThrottle,
	}

	for _, opt := range opts {
		opt(r)
	}

	r.title = r.newColor(color.Bold, color.FgCyan)
	r.accent = r.newColor(color.FgCyan)
	r.bold = r.newColor(color.Bold)
	r.warning = r.newColor(color.FgYellow)
	r.success = r.newColor(color.Bold, color.FgGreen)
	r.failure = r.newColor(color.Bold, color.FgRed)

	return r
}

// Banner prints the program name and version.
func (r *Reporter) Banner(ver string) {
	r.line(r.title.Sprintf("%s v%s", version.Name, ver))
	r.line("")
}

// Info prints a step description.
func (r *Reporter) Info(message string) {
	r.line(r.accent.Sprint("> ") + message)
}

// Headline prints a bold title followed by indented lines.
func (r *Reporter) Headline(title string, lines ...string) {
	r.line(r.bold.Sprint(title))

	for _, l := range lines {
		r.line("  " + l)
	}
}

// Warning prints a highlighted line.
func (r *Reporter) Warning(message string) {
	r.line(r.warning.Sprint(message))
}

// Result prints the closing line, green on success and red otherwise.
func (r *Reporter) Result(outcome release.Outcome, message string) {
	if outcome.Succeeded() {
		r.line(r.success.Sprint(message))
		return
	}

	r.line(r.failure.Sprint(message))
}

// Progress redraws the download bar in place. A bar with a known size
// ends its line once the last byte arrives.
func (r *Reporter) Progress(event download.ProgressEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.bar == nil || r.file != event.File {
		r.closeBar()
		r.bar = r.newBar(event)
		r.file = event.File
	}

	_ = r.bar.Set64(event.BytesDone)

	if r.bar.IsFinished() {
		r.bar = nil
	}
}

func (r *Reporter) newBar(event download.ProgressEvent) *progressbar.ProgressBar {
	total := event.BytesTotal
	if total <= 0 {
		total = -1
	}

	return progressbar.NewOptions64(total,
		progressbar.OptionSetWriter(r.out),
		progressbar.OptionSetDescription(event.File),
		progressbar.OptionSetWidth(r.width),
		progressbar.OptionShowBytes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionThrottle(r.throttle),
		progressbar.OptionSpinnerType(spinnerType),
		progressbar.OptionSetSpinnerChangeInterval(0),
		progressbar.OptionEnableColorCodes(r.color),
		progressbar.OptionOnCompletion(func() {
			_, _ = fmt.Fprintln(r.out)
		}),
	)
}

// closeBar stops a bar that never completed, its completion hook ends the line.
func (r *Reporter) closeBar() {
	if r.bar == nil {
		return
	}

	_ = r.bar.Exit()

	r.bar = nil
}

func (r *Reporter) line(s string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.closeBar()

	_, _ = fmt.Fprintln(r.out, s)
}

func (r *Reporter) newColor(attributes ...color.Attribute) *color.Color {
	c := color.New(attributes...)
	if r.color {
		c.EnableColor()
	} else {
		c.DisableColor()
	}

	return c
}
