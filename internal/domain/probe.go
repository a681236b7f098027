package domain

import (
	"fmt"
	"strconv"
)

type ProbeFormat struct {
	FormatName string `json:"format_name"`
	Duration   string `json:"duration"`
	BitRate    string `json:"bit_rate"`
	NbStreams  int    `json:"nb_streams"`
}

type ProbeStream struct {
	Index        int    `json:"index"`
	CodecType    string `json:"codec_type"`
	CodecName    string `json:"codec_name"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	PixFmt       string `json:"pix_fmt"`
	RFrameRate   string `json:"r_frame_rate"`
	AvgFrameRate string `json:"avg_frame_rate"`
	Duration     string `json:"duration"`
	NbFrames     string `json:"nb_frames"`
}

type ProbeResult struct {
	Format  ProbeFormat   `json:"format"`
	Streams []ProbeStream `json:"streams"`
	RawJSON string        `json:"-"`
}

// DefaultFrameRate is assumed when a container reports no usable rate.
const DefaultFrameRate = 30.0

func (p *ProbeResult) VideoStream() *ProbeStream {
	for i := range p.Streams {
		if p.Streams[i].CodecType == "video" {
			return &p.Streams[i]
		}
	}
	return nil
}

func (p *ProbeResult) Dimensions() (width, height int) {
	vs := p.VideoStream()
	if vs != nil {
		return vs.Width, vs.Height
	}
	return 0, 0
}

// FrameRate returns the video frame rate, falling back to DefaultFrameRate.
func (p *ProbeResult) FrameRate() float64 {
	vs := p.VideoStream()
	if vs == nil {
		return DefaultFrameRate
	}
	if fps := ParseFrameRate(vs.AvgFrameRate); fps > 0 {
		return fps
	}
	if fps := ParseFrameRate(vs.RFrameRate); fps > 0 {
		return fps
	}
	return DefaultFrameRate
}

// FrameCount returns the number of video frames, or 0 when unknown.
// Streams without nb_frames (live or fragmented sources) estimate it from
// the duration.
func (p *ProbeResult) FrameCount() int {
	vs := p.VideoStream()
	if vs == nil {
		return 0
	}
	if n, err := strconv.Atoi(vs.NbFrames); err == nil && n > 0 {
		return n
	}
	duration := ParseDuration(vs.Duration)
	if duration == 0 {
		duration = ParseDuration(p.Format.Duration)
	}
	return int(duration * p.FrameRate())
}

// SeekTarget converts an offset in seconds into a frame index clamped to
// the last frame, and the timestamp of that frame.
func (p *ProbeResult) SeekTarget(offsetSeconds float64) (frame int, seconds float64) {
	fps := p.FrameRate()
	frame = int(offsetSeconds * fps)
	if total := p.FrameCount(); total > 0 && frame > total-1 {
		frame = total - 1
	}
	if frame < 0 {
		frame = 0
	}
	return frame, float64(frame) / fps
}

func ParseFrameRate(fraction string) float64 {
	if fraction == "" || fraction == "0/0" {
		return 0
	}
	var num, den int
	if _, err := fmt.Sscanf(fraction, "%d/%d", &num, &den); err == nil && den > 0 {
		return float64(num) / float64(den)
	}
	return 0
}

func ParseDuration(durationStr string) float64 {
	if durationStr == "" || durationStr == "N/A" {
		return 0
	}
	duration, err := strconv.ParseFloat(durationStr, 64)
	if err != nil {
		return 0
	}
	return duration
}

func FormatDuration(seconds float64) string {
	if seconds <= 0 {
		return "00:00"
	}
	hours := int(seconds) / 3600
	minutes := (int(seconds) % 3600) / 60
	secs := int(seconds) % 60
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%d:%02d", minutes, secs)
}
