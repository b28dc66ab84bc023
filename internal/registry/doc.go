// Package registry handles fetching, validation, and dependency resolution
// for registry items. It retrieves items by name, URL, or local path, checks
// them against the registry item schema, builds dependency trees with cycle
// detection, and computes dependency-first installation orders.
package registry
