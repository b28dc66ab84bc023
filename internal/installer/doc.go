// Package installer materializes registry items into a consuming project.
// It stages every file of an item in memory first, classifies each staged
// file as new, identical, or conflicting against what is already on disk,
// asks for confirmation at most once per item when conflicts exist, and
// only then writes the batch. It also shells out to npm for an item's
// package dependencies and appends declared CSS variables to the project
// stylesheet.
package installer
