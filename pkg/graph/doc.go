// Package graph defines the design graph types for Kerf.
// The design graph is an immutable DAG of parts, joins, transforms,
// groups and boolean combinations that represents a woodworking design.
// Node IDs are BLAKE2b digests of source paths, so re-evaluating the same
// program yields the same graph.
package graph
