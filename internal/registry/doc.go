// Package registry edits repository registry YAML files in place: sorting
// their sequences and inserting source and release repository entries under
// the legacy and distribution-file formats.
package registry
