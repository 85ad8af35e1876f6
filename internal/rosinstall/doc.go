// Package rosinstall converts repository registry YAML files into the
// install-list format consumed by workspace provisioning tools.
package rosinstall
