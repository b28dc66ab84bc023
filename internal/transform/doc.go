// Package transform maps registry virtual paths onto a consuming project's
// layout. It resolves "registry/<platform>/<role>/..." file paths to on-disk
// targets through the project's alias table, and rewrites import statements
// inside file content to the project's alias-based import paths.
package transform
