// Package config holds the tunable parameters of the planning engine.
//
// PlanningConfig is an explicit, immutable-by-convention configuration value
// passed into the engine constructors. It carries the process-step weighting
// table used by the bottleneck analyzer, the named what-if scenario table,
// the Monte Carlo distribution parameters, and the portfolio risk weights.
// Keeping these in configuration rather than package-level state makes the
// weighting schemes swappable and testable in isolation.
//
// Defaults match the fab's standard planning assumptions; operators override
// them with a YAML document (see Load).
package config
