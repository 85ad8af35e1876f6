// Package ui formats command lifecycle events for human-readable console
// output and bridges them into the execshell observer contract.
package ui
