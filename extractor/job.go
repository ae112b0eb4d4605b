package extractor

import (
	"context"
	"errors"
	"fmt"

	"ean-price-extractor/internal/types"
	"ean-price-extractor/utils"
)

// Outcome tells how a job ended
type Outcome int

const (
	// OutcomeCompleted means the batch ran and its results were written
	OutcomeCompleted Outcome = iota
	// OutcomeBootstrapped means a template key file was created instead
	OutcomeBootstrapped
	// OutcomeEmptyInput means the key file held no keys
	OutcomeEmptyInput
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCompleted:
		return "completed"
	case OutcomeBootstrapped:
		return "bootstrapped"
	case OutcomeEmptyInput:
		return "empty_input"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// JobReport summarizes a job
type JobReport struct {
	Outcome    Outcome
	Batch      *types.BatchResult
	OutputFile string
}

// Job reads the key file, runs the batch and writes the CSV
type Job struct {
	config *types.Config
	logger types.Logger
	runner *BatchRunner
}

// NewJob creates a new job
func NewJob(config *types.Config, logger types.Logger, runner *BatchRunner) *Job {
	return &Job{
		config: config,
		logger: logger,
		runner: runner,
	}
}

// Run executes the job. When the sink fails the report still carries the
// batch and the returned error wraps types.ErrSinkWrite.
func (j *Job) Run(ctx context.Context) (*JobReport, error) {
	keys, err := utils.LoadKeys(j.config.InputFile)
	switch {
	case errors.Is(err, types.ErrInputMissing):
		j.logger.Warnf("Input file '%s' not found", j.config.InputFile)
		if err := utils.WriteKeyTemplate(j.config.InputFile); err != nil {
			return nil, fmt.Errorf("failed to create example key file: %w", err)
		}
		j.logger.Infof("An example file '%s' was created. Add one EAN per line and run again.", j.config.InputFile)
		return &JobReport{Outcome: OutcomeBootstrapped}, nil
	case errors.Is(err, types.ErrInputEmpty):
		j.logger.Warnf("The file '%s' is empty. Add barcodes (EANs) to continue.", j.config.InputFile)
		return &JobReport{Outcome: OutcomeEmptyInput}, nil
	case err != nil:
		return nil, err
	}

	batch, err := j.runner.Run(ctx, keys)
	if err != nil {
		return nil, err
	}

	report := &JobReport{
		Outcome:    OutcomeCompleted,
		Batch:      batch,
		OutputFile: j.config.OutputFile,
	}

	j.logger.Infof("Writing %d row(s) to '%s'", len(batch.Results), j.config.OutputFile)
	if err := utils.WriteCSVFile(j.config.OutputFile, batch); err != nil {
		return report, err
	}
	j.logger.Info("Results saved successfully")
	return report, nil
}
