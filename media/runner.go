package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// EngineError is a failed engine invocation: non-zero exit, or an output
// the engine claimed to write but did not.
type EngineError struct {
	Stderr string
	Err    error
}

func (e *EngineError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("engine failure: %v: %s", e.Err, e.Stderr)
	}
	return fmt.Sprintf("engine failure: %v", e.Err)
}

func (e *EngineError) Unwrap() error {
	return e.Err
}

// Metadata is the probed shape of a finished output file.
type Metadata struct {
	Duration float64
	Size     int64
	Codecs   []string
}

// Runner invokes the external engine as blocking subprocesses.
type Runner struct {
	ffmpegBin  string
	ffprobeBin string
}

func NewRunner(ffmpegBin, ffprobeBin string) *Runner {
	return &Runner{ffmpegBin: ffmpegBin, ffprobeBin: ffprobeBin}
}

// Run executes one ffmpeg invocation and blocks until it exits. A non-zero
// exit is returned as an EngineError carrying the captured stderr.
func (r *Runner) Run(ctx context.Context, args []string) error {
	zerolog.Ctx(ctx).Debug().Str("bin", r.ffmpegBin).Strs("args", args).Msg("running engine")

	cmd := exec.CommandContext(ctx, r.ffmpegBin, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return &EngineError{Stderr: strings.TrimSpace(stderr.String()), Err: err}
	}
	return nil
}

type probeFormat struct {
	Duration string `json:"duration"`
	Size     string `json:"size"`
}

type probeStream struct {
	CodecType string `json:"codec_type"`
	CodecName string `json:"codec_name"`
}

type probeOutput struct {
	Format  probeFormat   `json:"format"`
	Streams []probeStream `json:"streams"`
}

// Probe reads duration, size and stream codec names from the engine's
// metadata facility.
func (r *Runner) Probe(ctx context.Context, path string) (*Metadata, error) {
	cmd := exec.CommandContext(ctx, r.ffprobeBin,
		"-v", "error",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	)
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ffprobe: %w", err)
	}
	return parseProbeOutput(output)
}

func parseProbeOutput(raw []byte) (*Metadata, error) {
	var probed probeOutput
	if err := json.Unmarshal(raw, &probed); err != nil {
		return nil, fmt.Errorf("parse probe output: %w", err)
	}

	meta := &Metadata{}
	if probed.Format.Duration != "" {
		duration, err := strconv.ParseFloat(probed.Format.Duration, 64)
		if err != nil {
			return nil, fmt.Errorf("parse duration: %w", err)
		}
		meta.Duration = duration
	}
	if probed.Format.Size != "" {
		size, err := strconv.ParseInt(probed.Format.Size, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse size: %w", err)
		}
		meta.Size = size
	}
	for _, stream := range probed.Streams {
		meta.Codecs = append(meta.Codecs, stream.CodecType)
	}

	return meta, nil
}
