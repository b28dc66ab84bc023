// Package config manages user-level settings stored at ~/.stencil/config.yaml.
// It provides functions to load, read, and write configuration keys such as
// the default registry base URL used when no --registry flag is given.
package config
