package sdcpp

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/creack/pty"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/petervdpas/sdcpp-webui/internal/metrics"
	"github.com/petervdpas/sdcpp-webui/internal/progress"
	"github.com/petervdpas/sdcpp-webui/internal/util"
)

// CommandFactory builds the *exec.Cmd for one run. Tests inject a factory
// that re-executes the test binary as a fake sd.
type CommandFactory func(ctx context.Context, binary string, args ...string) *exec.Cmd

func defaultCommandFactory(ctx context.Context, binary string, args ...string) *exec.Cmd {
	return exec.CommandContext(ctx, binary, args...)
}

// Job is a fully built invocation of the binary.
type Job struct {
	Mode    Mode
	Args    []string
	Outputs []string // files the run is expected to write
}

// Result is what a run hands back to the UI. Err carries a user-visible
// message; it is never returned as a Go error from the handlers.
type Result struct {
	RunID    string
	Outputs  []string
	ExitCode int
	Duration time.Duration
	Killed   bool
	Err      error
}

// Message is the text shown next to the Generate/Convert button.
func (r Result) Message() string {
	switch {
	case r.Killed:
		return "Generation stopped."
	case r.Err != nil:
		return r.Err.Error()
	case len(r.Outputs) == 0:
		return "Finished, but no output files were found."
	}
	return fmt.Sprintf("Finished in %s.", r.Duration.Round(100*time.Millisecond))
}

// Runner launches sd and tracks the single current process so it can be
// killed from another request.
type Runner struct {
	binary  string
	dirs    func() Dirs
	factory CommandFactory
	usePTY  bool
	sink    progress.Sink
	tracer  oteltrace.Tracer

	mu     sync.Mutex
	busy   bool
	cmd    *exec.Cmd
	runID  string
	killed bool
}

type Option func(*Runner)

// WithCommandFactory injects a custom command factory (used in tests).
func WithCommandFactory(f CommandFactory) Option {
	return func(r *Runner) { r.factory = f }
}

// WithPTY runs sd under a pseudo terminal so its progress bar is flushed
// line by line. Unsupported platforms fall back to pipes.
func WithPTY(on bool) Option {
	return func(r *Runner) { r.usePTY = on }
}

func WithSink(s progress.Sink) Option {
	return func(r *Runner) {
		if s != nil {
			r.sink = s
		}
	}
}

func WithTracer(t oteltrace.Tracer) Option {
	return func(r *Runner) { r.tracer = t }
}

// NewRunner returns a runner for binary. dirs is consulted on every run so
// folder changes from the Options tab apply without a restart.
func NewRunner(binary string, dirs func() Dirs, opts ...Option) *Runner {
	r := &Runner{
		binary:  binary,
		dirs:    dirs,
		factory: defaultCommandFactory,
		usePTY:  runtime.GOOS != "windows",
		sink:    progress.Multi{},
		tracer:  otel.Tracer("github.com/petervdpas/sdcpp-webui/internal/sdcpp"),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// SetBinary changes the executable used by subsequent runs.
func (r *Runner) SetBinary(binary string) {
	r.mu.Lock()
	r.binary = binary
	r.mu.Unlock()
}

// Active reports the id of the running job, if any.
func (r *Runner) Active() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.runID, r.busy
}

// Kill terminates the current process. It is a no-op when nothing runs.
func (r *Runner) Kill() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.busy {
		return false
	}
	r.killed = true
	if r.cmd != nil && r.cmd.Process != nil {
		if err := terminate(r.cmd.Process); err != nil {
			log.Printf("SDCPP: kill %s: %v", r.runID, err)
		}
	}
	log.Printf("SDCPP: stop requested for run %s", r.runID)
	return true
}

func terminate(p *os.Process) error {
	if runtime.GOOS == "windows" {
		return p.Kill()
	}
	return p.Signal(syscall.SIGTERM)
}

// Txt2Img validates req, picks the output file and runs sd.
func (r *Runner) Txt2Img(ctx context.Context, req Txt2ImgRequest) Result {
	if err := Validate(req); err != nil {
		return Result{Err: err}
	}
	d := r.dirs()
	out, err := NextOutputPath(d.Txt2ImgOut, req.Output)
	if err != nil {
		return Result{Err: fmt.Errorf("output name: %w", err)}
	}
	if err := os.MkdirAll(d.Txt2ImgOut, 0o755); err != nil {
		return Result{Err: fmt.Errorf("create output folder: %w", err)}
	}
	return r.Run(ctx, Job{
		Mode:    ModeTxt2Img,
		Args:    BuildTxt2ImgArgs(req, d, out),
		Outputs: BatchOutputs(out, req.BatchCount),
	})
}

// Img2Img validates req, picks the output file and runs sd.
func (r *Runner) Img2Img(ctx context.Context, req Img2ImgRequest) Result {
	if err := Validate(req); err != nil {
		return Result{Err: err}
	}
	d := r.dirs()
	out, err := NextOutputPath(d.Img2ImgOut, req.Output)
	if err != nil {
		return Result{Err: fmt.Errorf("output name: %w", err)}
	}
	if err := os.MkdirAll(d.Img2ImgOut, 0o755); err != nil {
		return Result{Err: fmt.Errorf("create output folder: %w", err)}
	}
	return r.Run(ctx, Job{
		Mode:    ModeImg2Img,
		Args:    BuildImg2ImgArgs(req, d, out),
		Outputs: BatchOutputs(out, req.BatchCount),
	})
}

// Convert quantizes a checkpoint to gguf.
func (r *Runner) Convert(ctx context.Context, req ConvertRequest) Result {
	if err := Validate(req); err != nil {
		return Result{Err: err}
	}
	d := r.dirs()
	out, err := ConvertOutput(req, d)
	if err != nil {
		return Result{Err: err}
	}
	return r.Run(ctx, Job{
		Mode:    ModeConvert,
		Args:    BuildConvertArgs(req, d, out),
		Outputs: []string{out},
	})
}

// Run executes job and blocks until the process exits.
func (r *Runner) Run(ctx context.Context, job Job) Result {
	runID := uuid.NewString()
	res := Result{RunID: runID}

	r.mu.Lock()
	if r.busy {
		r.mu.Unlock()
		res.Err = ErrBusy
		return res
	}
	r.busy, r.runID, r.killed, r.cmd = true, runID, false, nil
	binary := r.binary
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		r.busy, r.runID, r.cmd = false, "", nil
		r.mu.Unlock()
	}()

	ctx, span := r.tracer.Start(ctx, "sdcpp."+string(job.Mode), oteltrace.WithAttributes(
		attribute.String("sdcpp.run.id", runID),
		attribute.String("sdcpp.binary", binary),
		attribute.Int("sdcpp.outputs.expected", len(job.Outputs)),
	))
	defer span.End()

	mode := string(job.Mode)
	r.sink.Publish(progress.Event{RunID: runID, Mode: mode, Status: progress.StatusStarted, Timestamp: time.Now()})
	log.Printf("SDCPP: run %s: %s %s", runID, binary, strings.Join(job.Args, " "))

	metrics.SetActiveRuns(1)
	defer metrics.SetActiveRuns(0)

	start := time.Now()
	tail := util.NewRingBuffer[string](20)
	exitCode, waitErr := r.execute(ctx, binary, job, runID, tail)
	res.Duration = time.Since(start)
	res.ExitCode = exitCode

	r.mu.Lock()
	res.Killed = r.killed
	r.mu.Unlock()

	res.Outputs = existing(job.Outputs)
	final := progress.Event{RunID: runID, Mode: mode, Outputs: res.Outputs, Timestamp: time.Now()}

	switch {
	case res.Killed:
		final.Status = progress.StatusKilled
		metrics.IncRun(mode, "killed")
		span.SetStatus(codes.Error, "killed")
		log.Printf("SDCPP: run %s stopped after %s", runID, res.Duration.Round(time.Millisecond))
	case waitErr != nil:
		res.Err = waitErr
		final.Status = progress.StatusFailed
		final.Error = waitErr.Error()
		metrics.IncRun(mode, "failed")
		metrics.IncError("sdcpp", "exit")
		span.RecordError(waitErr)
		span.SetStatus(codes.Error, waitErr.Error())
		log.Printf("SDCPP: run %s failed: %v", runID, waitErr)
	default:
		final.Status = progress.StatusDone
		metrics.IncRun(mode, "ok")
		log.Printf("SDCPP: run %s finished in %s, %d file(s)", runID, res.Duration.Round(time.Millisecond), len(res.Outputs))
	}
	metrics.ObserveRunDuration(mode, res.Duration)
	span.SetAttributes(
		attribute.Int("sdcpp.exit_code", res.ExitCode),
		attribute.Int("sdcpp.outputs.found", len(res.Outputs)),
	)
	r.sink.Publish(final)
	return res
}

// execute starts the process, streams its output and waits for it.
// The returned error is already phrased for the user.
func (r *Runner) execute(ctx context.Context, binary string, job Job, runID string, tail *util.RingBuffer[string]) (int, error) {
	cmd := r.factory(ctx, binary, job.Args...)

	var (
		stream io.ReadCloser
		pw     *io.PipeWriter
	)
	if r.usePTY {
		f, err := pty.Start(cmd)
		if err == nil {
			stream = f
		} else if !errors.Is(err, pty.ErrUnsupported) {
			metrics.IncError("sdcpp", "launch")
			return -1, fmt.Errorf("failed to launch %s: %w", binary, err)
		} else {
			// Cmd is untouched when the platform has no pty support.
			cmd = r.factory(ctx, binary, job.Args...)
		}
	}
	if stream == nil {
		pr, w := io.Pipe()
		cmd.Stdout = w
		cmd.Stderr = w
		if err := cmd.Start(); err != nil {
			w.Close()
			metrics.IncError("sdcpp", "launch")
			return -1, fmt.Errorf("failed to launch %s: %w", binary, err)
		}
		stream, pw = pr, w
	}

	r.mu.Lock()
	r.cmd = cmd
	if r.killed {
		_ = terminate(cmd.Process)
	}
	r.mu.Unlock()

	scanned := make(chan struct{})
	go func() {
		defer close(scanned)
		r.scan(stream, job.Mode, runID, tail)
	}()

	err := cmd.Wait()
	if pw != nil {
		pw.Close()
	}
	<-scanned
	stream.Close()

	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := exitErr.ExitCode()
		msg := fmt.Sprintf("sd exited with code %d", code)
		if last := strings.Join(tail.Snapshot(), "\n"); last != "" {
			msg += ":\n" + last
		}
		return code, errors.New(msg)
	}
	return -1, fmt.Errorf("sd failed: %w", err)
}

// maxLine is where an unbroken run of output is cut into a line of its own.
const maxLine = 64 << 10

// scan splits output on \r and \n, logs ordinary lines and turns progress
// bars into events. The stream is always read to the end so sd never blocks
// on a full pipe.
func (r *Runner) scan(rd io.Reader, mode Mode, runID string, tail *util.RingBuffer[string]) {
	sc := bufio.NewScanner(rd)
	sc.Buffer(make([]byte, 0, 64*1024), 2*maxLine)
	sc.Split(scanLinesCR)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if step, total, ok := progress.ParseStep(line); ok {
			r.sink.Publish(progress.Event{
				RunID:     runID,
				Mode:      string(mode),
				Status:    progress.StatusRunning,
				Step:      step,
				Total:     total,
				Line:      line,
				Timestamp: time.Now(),
			})
			continue
		}
		line = clip(line, 512)
		tail.Push(line)
		log.Printf("SDCPP: %s", line)
	}
	// A pty master reports EIO once the child is gone; that is EOF here.
	if err := sc.Err(); err != nil {
		log.Printf("SDCPP: run %s: output: %v", runID, err)
		_, _ = io.Copy(io.Discard, rd)
	}
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// scanLinesCR is bufio.ScanLines that also breaks on a bare carriage return.
func scanLinesCR(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	if len(data) >= maxLine {
		return maxLine, data[:maxLine], nil
	}
	return 0, nil, nil
}
