package reorder

import "github.com/user/pagecast/pkg/pipeline"

// AssignDurations returns a copy of frames with Duration set to the gap to the
// next frame, and for the last frame the gap to chunkEndTime. The durations sum
// to chunkEndTime minus the first timestamp.
func AssignDurations(frames []pipeline.Frame, chunkEndTime float64) []pipeline.Frame {
	out := make([]pipeline.Frame, len(frames))
	for i, f := range frames {
		end := chunkEndTime
		if i < len(frames)-1 {
			end = frames[i+1].Timestamp
		}
		f.Duration = end - f.Timestamp
		out[i] = f
	}
	return out
}
