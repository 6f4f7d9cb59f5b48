// Package planner implements the capacity planning engine for the fab.
//
// The engine turns equipment and operations telemetry plus a demand
// forecast into bottleneck diagnostics, stochastic shortfall risk,
// an optimal capital investment portfolio, deterministic what-if
// scenarios, and MTBF reliability metrics.
//
// Architecture:
//
// Model owns the shared capacity baseline and exposes one method per
// analysis:
//
//	TheoreticalCapacity -> per-tool-type capacity baseline
//	Bottlenecks         -> Theory-of-Constraints ranking against a target
//	SimulateRisk        -> Monte Carlo shortfall distribution and metrics
//	OptimizePortfolio   -> LP allocation of a CapEx budget
//	Scenarios           -> deterministic growth/yield projections
//
// ReliabilityModel is independent of the capacity baseline and only needs
// the equipment and operations tables.
//
// All analyses are pure functions over the immutable input dataset: the
// baseline is recomputed per call rather than cached, so each analysis is
// independently callable and safe to run concurrently. Missing tables and
// zero denominators surface as DataError and NumericError rather than
// being coerced to zero; a misleading figure in an executive report is
// worse than a loud failure. Portfolio infeasibility is a normal business
// outcome and is reported as a structured result, not an error.
package planner
