package ocr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/joseph-ayodele/card-scanner/internal/common"
)

// Runner lets us stub external commands in tests.
type Runner interface {
	Run(ctx context.Context, name string, logger *slog.Logger, args ...string) (stdout, stderr []byte, err error)
}

// ExecError is a failed external command (tesseract or a HEIC converter).
// It unwraps to common.ErrOCR.
type ExecError struct {
	Cmd      string
	ExitCode int // -1 when the command never ran or was killed
	Stderr   string
	Err      error
}

func (e *ExecError) Error() string {
	msg := fmt.Sprintf("%s failed", e.Cmd)
	if e.ExitCode >= 0 {
		msg += fmt.Sprintf(" (exit %d)", e.ExitCode)
	}
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	} else if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ExecError) Unwrap() []error { return []error{e.Err, common.ErrOCR} }

// execRunner runs commands on the host, each bounded by timeout when set.
type execRunner struct {
	timeout time.Duration
}

func (r execRunner) Run(ctx context.Context, name string, logger *slog.Logger, args ...string) ([]byte, []byte, error) {
	if _, err := exec.LookPath(name); err != nil {
		logger.Error("exec.missing", "cmd", name, "error", err)
		return nil, nil, &ExecError{Cmd: name, ExitCode: -1, Err: err}
	}
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	start := time.Now()
	logger.Debug("exec.start", "cmd_line", strings.Join(append([]string{name}, args...), " "))

	cmd := exec.CommandContext(ctx, name, args...)
	var out, errb bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errb

	err := cmd.Run()
	dur := time.Since(start)
	if err != nil {
		ee := &ExecError{Cmd: name, ExitCode: -1, Stderr: tail(errb.String(), 512), Err: err}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			ee.ExitCode = exitErr.ExitCode()
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			ee.Err = ctxErr
		}
		logger.Error("exec.failed",
			"cmd", name,
			"duration_ms", dur.Milliseconds(),
			"exit_code", ee.ExitCode,
			"error", err,
			"stderr", ee.Stderr,
		)
		return out.Bytes(), errb.Bytes(), ee
	}
	logger.Debug("exec.ok",
		"cmd", name,
		"duration_ms", dur.Milliseconds(),
		"stdout_bytes", out.Len(),
		"stderr_bytes", errb.Len(),
	)
	return out.Bytes(), errb.Bytes(), nil
}

// tail keeps the last max bytes of trimmed command output.
func tail(s string, max int) string {
	s = strings.TrimSpace(s)
	if len(s) <= max {
		return s
	}
	return "..." + s[len(s)-max:]
}
