package convert

import (
	"fmt"
	"path/filepath"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/stlgltf/internal/config"
	"github.com/Faultbox/stlgltf/internal/logger"
	"github.com/Faultbox/stlgltf/pkg/gltf"
)

// Job is one resolved batch record.
type Job struct {
	Input   string
	Output  string
	Options Options
}

// BatchReport summarizes a batch run.
type BatchReport struct {
	Results []*Result
	Failed  int
	// Err combines every job failure; nil when all jobs succeeded.
	Err error
}

// JobsFromConfig resolves config jobs against the output defaults. Two
// jobs writing the same output path are rejected up front, since the second
// would silently replace the first.
func JobsFromConfig(cfg *config.Config) ([]Job, error) {
	defaults, err := OptionsFromConfig(cfg.Output)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]int, len(cfg.Jobs))
	jobs := make([]Job, 0, len(cfg.Jobs))
	for i, cj := range cfg.Jobs {
		opts := defaults
		if cj.Format != "" {
			f, err := gltf.ParseFormat(cj.Format)
			if err != nil {
				return nil, fmt.Errorf("job %d: %w", i, err)
			}
			opts.Format = f
		}
		if cj.Color != "" {
			c, err := gltf.ParseColor(cj.Color)
			if err != nil {
				return nil, fmt.Errorf("job %d: %w", i, err)
			}
			opts.Color = &c
		}

		out := cj.Output
		if out == "" {
			format := opts.Format
			if format == gltf.FormatAuto {
				format = gltf.FormatGLB
			}
			out = OutputPath(cj.Input, cfg.Output.Dir, format)
		}

		key, err := filepath.Abs(out)
		if err != nil {
			return nil, fmt.Errorf("job %d: resolving %s: %w", i, out, err)
		}
		if prev, ok := seen[key]; ok {
			return nil, fmt.Errorf("jobs %d and %d both write %s", prev, i, out)
		}
		seen[key] = i

		jobs = append(jobs, Job{Input: cj.Input, Output: out, Options: opts})
	}
	return jobs, nil
}

// OptionsFromConfig builds conversion defaults from the output section.
func OptionsFromConfig(out config.OutputConfig) (Options, error) {
	format, err := gltf.ParseFormat(out.Format)
	if err != nil {
		return Options{}, err
	}
	opts := Options{Format: format, Generator: out.Generator}
	if out.Color != "" {
		c, err := gltf.ParseColor(out.Color)
		if err != nil {
			return Options{}, err
		}
		opts.Color = &c
	}
	return opts, nil
}

// RunBatch converts jobs one after another. A failing job is logged and
// recorded; the remaining jobs still run.
func RunBatch(jobs []Job) *BatchReport {
	report := &BatchReport{}

	for i, job := range jobs {
		logger.Info("processing", zap.Int("job", i), zap.String("input", job.Input))

		res, err := Convert(job.Input, job.Output, job.Options)
		if err != nil {
			logger.Error("conversion failed",
				zap.Int("job", i),
				zap.String("input", job.Input),
				zap.String("kind", KindOf(err)),
				zap.Error(err))
			report.Failed++
			report.Err = multierr.Append(report.Err, fmt.Errorf("job %d (%s): %w", i, job.Input, err))
			continue
		}
		report.Results = append(report.Results, res)
	}

	logger.Info("batch finished",
		zap.Int("succeeded", len(report.Results)),
		zap.Int("failed", report.Failed))

	return report
}
