// Package cleanup rewrites registry YAML files into the canonical layout the
// lint checks expect: sorted keys, two-space indentation, inline bracketed
// lists, and literal blocks for multi-line strings.
package cleanup
