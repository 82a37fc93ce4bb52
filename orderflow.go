package orderflow

import (
	"context"

	"github.com/MasterOfBinary/orderflow/config"
	"github.com/MasterOfBinary/orderflow/pipeline"
)

// Run creates a Coordinator for cfg and runs one pipeline with it. See
// pipeline.Coordinator.Run.
func Run(ctx context.Context, cfg config.Config, opts ...pipeline.Option) (pipeline.Report, error) {
	c, err := pipeline.New(cfg, opts...)
	if err != nil {
		return pipeline.Report{}, err
	}
	return c.Run(ctx)
}

// RunDefault runs a pipeline with config.Default, the full restaurant
// timings. It takes several minutes.
func RunDefault(ctx context.Context, opts ...pipeline.Option) (pipeline.Report, error) {
	return Run(ctx, config.Default(), opts...)
}
