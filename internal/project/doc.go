// Package project loads the consuming project's components.json configuration.
// The file maps directory roles (components, ui, lib, hooks, blocks) to import
// aliases and names the global stylesheet. A missing file is not an error —
// documented defaults apply. Present files are validated against an embedded
// JSON Schema before use.
package project
