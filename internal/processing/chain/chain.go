package chain

import (
	"errors"
	"fmt"

	"dungeon-art-studio/internal/models"
)

// ProcessingStep is one optional stage of a chain.
type ProcessingStep interface {
	Apply(input *models.PixelBuffer, params models.ProcessingParameters) (*models.PixelBuffer, error)
	Name() string
	ShouldExecute(params models.ProcessingParameters) bool
}

// ProcessingChain runs its steps in order. A failing step never aborts the
// chain: its input is handed on to the next step unchanged.
type ProcessingChain struct {
	steps []ProcessingStep
}

func NewProcessingChain(steps ...ProcessingStep) *ProcessingChain {
	return &ProcessingChain{
		steps: steps,
	}
}

// Execute always returns a usable buffer. The error, if any, joins every
// ProcessingError absorbed along the way.
func (pc *ProcessingChain) Execute(input *models.PixelBuffer, params models.ProcessingParameters) (*models.PixelBuffer, error) {
	current := input
	var failures []error

	for _, step := range pc.steps {
		if !step.ShouldExecute(params) {
			continue
		}

		result, err := Run(step.Name(), current, func(in *models.PixelBuffer) (*models.PixelBuffer, error) {
			return step.Apply(in, params)
		})
		if err != nil {
			failures = append(failures, err)
		}
		current = result
	}

	return current, errors.Join(failures...)
}

// Run executes fn on input and converts an error, a nil result or a panic
// into a ProcessingError. On failure input itself is returned.
func Run(stage string, input *models.PixelBuffer, fn func(*models.PixelBuffer) (*models.PixelBuffer, error)) (out *models.PixelBuffer, err error) {
	defer func() {
		if r := recover(); r != nil {
			out = input
			err = models.NewProcessingError(stage, fmt.Errorf("panic: %v", r))
		}
	}()

	result, err := fn(input)
	if err != nil {
		var procErr *models.ProcessingError
		if errors.As(err, &procErr) {
			return input, err
		}
		return input, models.NewProcessingError(stage, err)
	}
	if result == nil {
		return input, models.NewProcessingError(stage, errors.New("stage returned no image"))
	}

	return result, nil
}

func (pc *ProcessingChain) AddStep(step ProcessingStep) {
	pc.steps = append(pc.steps, step)
}

func (pc *ProcessingChain) StepCount() int {
	return len(pc.steps)
}

func (pc *ProcessingChain) GetStepNames() []string {
	names := make([]string, len(pc.steps))
	for i, step := range pc.steps {
		names[i] = step.Name()
	}
	return names
}
