package media

import (
	"fmt"
	"strconv"
	"strings"

	"video-edit-worker/entities"
)

// BuildTrimArgs cuts [start, start+duration) out of the input. Video and
// audio are re-encoded with fixed codecs; rate control is left to the
// tool's defaults.
func BuildTrimArgs(inputPath, outputPath string, start, duration float64) []string {
	return []string{
		"-i", inputPath,
		"-ss", formatSeconds(start),
		"-t", formatSeconds(duration),
		"-c:v", "libx264",
		"-c:a", "aac",
		"-strict", "experimental",
		"-y",
		outputPath,
	}
}

// BuildTextOverlayArgs burns the spec's text into the video. With
// EndTime <= 0 the text spans the whole output; otherwise a between()
// predicate gates it to [StartTime, EndTime].
func BuildTextOverlayArgs(inputPath, outputPath string, spec *entities.OverlaySpec) []string {
	var filter strings.Builder
	filter.WriteString(fmt.Sprintf("drawtext=text='%s':x=%d:y=%d:fontsize=%d:fontcolor=%s",
		escapeDrawtext(spec.Content), spec.X, spec.Y, spec.FontSize, spec.FontColor))
	if spec.EndTime > 0 {
		filter.WriteString(timeGate(spec.StartTime, spec.EndTime))
	}

	return []string{
		"-i", inputPath,
		"-vf", filter.String(),
		"-c:a", "copy",
		"-y",
		outputPath,
	}
}

// BuildImageOverlayArgs composites a scaled image onto the video: the
// auxiliary input is scaled to (Width, Height) into a labeled intermediate,
// then overlaid at (X, Y) with the same optional time gate as text.
// Opacity is carried in the spec but not applied to the graph.
func BuildImageOverlayArgs(inputPath, auxPath, outputPath string, spec *entities.OverlaySpec) []string {
	return buildCompositeArgs(inputPath, auxPath, outputPath, spec)
}

// BuildVideoOverlayArgs is the image-overlay graph with a video stream as
// the auxiliary input.
func BuildVideoOverlayArgs(inputPath, auxPath, outputPath string, spec *entities.OverlaySpec) []string {
	return buildCompositeArgs(inputPath, auxPath, outputPath, spec)
}

func buildCompositeArgs(inputPath, auxPath, outputPath string, spec *entities.OverlaySpec) []string {
	var graph strings.Builder
	graph.WriteString(fmt.Sprintf("[1:v]scale=%d:%d[ovr];[0:v][ovr]overlay=%d:%d",
		spec.Width, spec.Height, spec.X, spec.Y))
	if spec.EndTime > 0 {
		graph.WriteString(timeGate(spec.StartTime, spec.EndTime))
	}

	return []string{
		"-i", inputPath,
		"-i", auxPath,
		"-filter_complex", graph.String(),
		"-y",
		outputPath,
	}
}

// BuildQualityArgs re-encodes at the preset's resolution and video bitrate
// with the fixed audio bitrate.
func BuildQualityArgs(inputPath, outputPath string, preset QualityPreset) []string {
	return []string{
		"-i", inputPath,
		"-vf", fmt.Sprintf("scale=%d:%d", preset.Width, preset.Height),
		"-c:v", "libx264",
		"-b:v", preset.VideoBitrate,
		"-c:a", "aac",
		"-b:a", qualityAudioBitrate,
		"-y",
		outputPath,
	}
}

func timeGate(start, end float64) string {
	return fmt.Sprintf(":enable='between(t,%s,%s)'", formatSeconds(start), formatSeconds(end))
}

// escapeDrawtext keeps literal single quotes from terminating the quoted
// text value inside the filter expression.
func escapeDrawtext(text string) string {
	return strings.ReplaceAll(text, "'", `\'`)
}

func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
