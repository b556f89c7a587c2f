// Package operations runs the preprocessing pipeline as an ordered list of
// steps sharing one RunState.
//
// The standard pipeline is:
//
//	validate -> load_prices -> load_sentiments -> dedup -> join -> export
//
// Each step runs in its own span and reports its duration to the pipeline
// metrics. The first failing step ends the run and every later step is
// marked skipped, so nothing is exported after a failed load.
//
// Example usage:
//
//	opts := operations.NewOptions(cfg)
//	opts.Logger = logger
//	opts.Metrics = metrics
//	run, err := operations.NewPipeline(opts).Run(ctx)
package operations
