package detector

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// recordedFrame is one line of a landmark recording.
type recordedFrame struct {
	TimestampMs int64           `json:"t_ms"`
	Hands       []HandLandmarks `json:"hands"`
}

// Recorder writes detector frames as JSON lines so a drawing session can be
// replayed without a camera.
type Recorder struct {
	enc *json.Encoder
}

// NewRecorder creates a Recorder writing to w.
func NewRecorder(w io.Writer) *Recorder {
	return &Recorder{enc: json.NewEncoder(w)}
}

// Write appends one frame to the recording.
func (r *Recorder) Write(f Frame) error {
	rec := recordedFrame{
		TimestampMs: f.Timestamp.UnixMilli(),
		Hands:       f.Hands,
	}
	if err := r.enc.Encode(rec); err != nil {
		return fmt.Errorf("write frame %d: %w", f.Seq, err)
	}
	return nil
}

// ReadRecording parses a JSON-lines landmark recording. Malformed hands are
// dropped per frame exactly as they would be from a live detector.
func ReadRecording(r io.Reader) ([]Frame, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var frames []Frame
	line := 0
	for scanner.Scan() {
		line++
		data := scanner.Bytes()
		if len(data) == 0 {
			continue
		}

		var rec recordedFrame
		if err := json.Unmarshal(data, &rec); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		f, _ := NewFrame(rec.Hands, time.UnixMilli(rec.TimestampMs))
		f.Seq = uint64(len(frames) + 1)
		frames = append(frames, f)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read recording: %w", err)
	}
	return frames, nil
}
