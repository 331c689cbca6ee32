// Package sim implements LatencyLab's discrete-event simulation core: the
// distribution sampler, the run scheduler (event queue, context capacity,
// delayed wiring), the critical-path analyzer, the executor strategy that
// fans independent runs out across seeds, and the aggregator that collapses
// many RunResults into percentile summaries.
//
// The package never imports encoding/json — it consumes an already-parsed
// and validated *model.Model and produces plain data (RunResult, Summary)
// for the modelio package to serialize.
package sim
