// Package lint validates registry YAML files against the project formatting
// conventions: trailing whitespace, two-space indentation, bracketed package
// lists, alphabetical key order, and whitespace-free scalar values.
//
// Violations are accumulated and reported through a Reporter so every problem
// in a file surfaces in a single pass.
package lint
