// Package pipeline holds the stage contract and the values passed between
// the record and probe stages of a pagecast run.
package pipeline

import "context"

// Stage is one step of a run. Implementations must honor ctx cancellation
// only where the step can stop early without losing output.
type Stage[In, Out any] interface {
	Execute(ctx context.Context, input In) (Out, error)
}

// RecordStage drives the browser and the encoder for one page.
type RecordStage = Stage[RecordInput, RecordResult]

// ProbeStage inspects the finished video file.
type ProbeStage = Stage[ProbeInput, ProbeResult]

// StageFunc lets a plain function serve as a Stage.
type StageFunc[In, Out any] func(ctx context.Context, input In) (Out, error)

// Execute calls f.
func (f StageFunc[In, Out]) Execute(ctx context.Context, input In) (Out, error) {
	return f(ctx, input)
}
