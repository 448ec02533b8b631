// Package config loads, normalizes, and validates mudra configuration.
//
// It supplies defaults for the recognizer constants, expands user paths
// (including tilde shortcuts) and reads a TOML file. Validation rejects
// recognizer settings that would break the classifier contract, such as a
// zero-length window or an export width wider than the feature vector.
package config
