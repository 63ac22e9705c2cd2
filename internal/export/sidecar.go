package export

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// SidecarInfo is the human-readable description accompanying a raw PCM
// file; the headerless format carries no metadata of its own.
type SidecarInfo struct {
	Source     string
	Output     string
	Format     PCMFormat
	SampleRate float64 // Hz; the estimated or declared rate
	Count      int
	ByteSize   int
	MinValue   int64
	MaxValue   int64
	WrittenAt  time.Time
}

// Duration returns the capture length implied by count and rate.
func (i SidecarInfo) Duration() float64 {
	if i.SampleRate <= 0 {
		return 0
	}
	return float64(i.Count) / i.SampleRate
}

// WriteSidecar writes the description in the plain key/value layout.
func WriteSidecar(w io.Writer, info SidecarInfo) error {
	lines := []string{
		"PCM file info",
		"=============",
		fmt.Sprintf("source: %s", info.Source),
		fmt.Sprintf("output: %s", info.Output),
		fmt.Sprintf("format: %s, little endian", info.Format),
		fmt.Sprintf("sample rate: %.2f Hz", info.SampleRate),
		fmt.Sprintf("samples: %d", info.Count),
		fmt.Sprintf("duration: %.3f s", info.Duration()),
		fmt.Sprintf("value range: %d to %d", info.MinValue, info.MaxValue),
		fmt.Sprintf("file size: %d bytes", info.ByteSize),
		fmt.Sprintf("written: %s", info.WrittenAt.Format(time.RFC3339)),
	}
	_, err := io.WriteString(w, strings.Join(lines, "\n")+"\n")
	if err != nil {
		return fmt.Errorf("writing sidecar: %w", err)
	}
	return nil
}

// SidecarPath derives the sidecar filename from the PCM output path.
func SidecarPath(pcmPath string) string {
	return strings.TrimSuffix(pcmPath, ".pcm") + "_info.txt"
}

// WriteSidecarFile writes the description next to the PCM file.
func WriteSidecarFile(path string, info SidecarInfo) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := WriteSidecar(f, info); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
