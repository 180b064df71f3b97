// Package ocr reads seven segment digits from price images with the external ssocr tool.
package ocr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/andygrunwald/fuelprices-dk/internal/models"
)

const (
	// DefaultBinary is the seven segment OCR executable.
	DefaultBinary = "ssocr"
	// DefaultTimeout bounds a single OCR invocation.
	DefaultTimeout = 10 * time.Second
)

// Engine recognizes the digits inside a crop of an image.
type Engine interface {
	// Available reports whether recognition is possible on this system.
	Available() bool
	// Recognize returns the trimmed text found in crop. An empty string means nothing
	// was recognized.
	Recognize(ctx context.Context, imagePath string, crop models.Crop) (string, error)
}

// Runner is the Engine backed by the ssocr executable.
type Runner struct {
	binary  string
	timeout time.Duration
	logger  zerolog.Logger

	lookPath func(file string) (string, error)
	run      func(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

// NewRunner creates a Runner. Empty binary or zero timeout use the defaults.
func NewRunner(binary string, timeout time.Duration, logger zerolog.Logger) *Runner {
	if binary == "" {
		binary = DefaultBinary
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Runner{
		binary:   binary,
		timeout:  timeout,
		logger:   logger.With().Str("component", "ocr").Logger(),
		lookPath: exec.LookPath,
		run:      runCommand,
	}
}

// Available reports whether the executable can be found.
func (r *Runner) Available() bool {
	path, err := r.lookPath(r.binary)
	if err != nil {
		r.logger.Debug().Err(err).Str("binary", r.binary).Msg("OCR binary not found")
		return false
	}
	r.logger.Debug().Str("path", path).Msg("OCR binary found")
	return true
}

// Recognize runs the executable on one crop of imagePath.
func (r *Runner) Recognize(ctx context.Context, imagePath string, crop models.Crop) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	args := Args(imagePath, crop)
	stdout, stderr, err := r.run(ctx, r.binary, args...)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("running %s: %w", r.binary, ctx.Err())
		}
		return "", fmt.Errorf("running %s: %w: %s", r.binary, err, strings.TrimSpace(string(stderr)))
	}

	text := strings.TrimSpace(string(stdout))
	r.logger.Debug().
		Strs("args", args).
		Str("text", text).
		Msg("recognized crop")
	return text, nil
}

// Args builds the ssocr arguments: threshold, mono conversion, inversion and crop.
func Args(imagePath string, crop models.Crop) []string {
	return []string{
		"-d5",
		"-t20",
		"make_mono", "invert", "-D",
		"crop",
		strconv.Itoa(crop.X),
		strconv.Itoa(crop.Y),
		strconv.Itoa(crop.Width),
		strconv.Itoa(crop.Height),
		imagePath,
	}
}

func runCommand(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}
