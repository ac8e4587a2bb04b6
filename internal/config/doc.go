// Package config loads run settings from YAML and checks them against an
// embedded CUE schema before they reach the engine.
package config
