// Package loader reads the planning input tables from CSV exports.
//
// The planner engine itself never touches files; loading is a caller-side
// concern and lives here. Each loader reads a headered CSV stream, maps
// columns by name so exports carrying extra columns still parse, and
// returns typed dataset records. LoadDataset reads the four canonical
// exports from a data directory in one call.
package loader
