// Package config loads, validates, and exposes subshift's run configuration.
//
// Precedence, lowest to highest: the embedded default asset, an optional
// user TOML file, environment variables, and finally CLI flags applied by
// the caller on top of the resolved Config. Always obtain settings through
// this package so downstream code sees validated, consistent values.
package config
