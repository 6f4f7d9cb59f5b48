// Package dataset defines the immutable input tables for a capacity
// planning run.
//
// The package contains the four reference tables consumed by the planning
// engine:
//
//   - EquipmentRecord: one row per installed tool (master data)
//   - OperationRecord: one row per tool per day (telemetry time series)
//   - ForecastRecord: one row per quarter per product (demand outlook)
//   - CapExProjectRecord: one row per candidate capital project
//
// All tables are read-only once loaded. The engine never mutates a record;
// derived figures are constructed as new values per analysis run. Loading
// the tables from external sources is the responsibility of callers (see
// the loader package).
package dataset
