package lint

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	indentAtomConstant                   = "  "
	indentAtomWidthConstant              = len(indentAtomConstant)
	unscannableLineErrorTemplateConstant = "unable to scan line %d: %q"
)

var (
	commentLinePattern     = regexp.MustCompile(`^\s*#`)
	stringBlockOpenPattern = regexp.MustCompile(`\|$|\?$|^\s*\?`)
)

// LineContext carries the indentation measurements supplied to line visitors.
type LineContext struct {
	// Column is the zero-based column of the first content character.
	Column int
	// Level is the indentation level, Column divided by the indent atom width.
	Level int
}

// lineVisitor inspects one structural line and reports whether it satisfies a
// convention. The boolean result marks the line clean or dirty; a non-nil
// error aborts the scan immediately.
type lineVisitor func(lineNumber int, lineText string, lineContext LineContext) (bool, error)

// scanLines drives a visitor across every structural line of the buffer.
//
// Blank lines and full-line comments are skipped entirely. Lines inside a
// string block (following a literal block scalar or mapping key marker, while
// indented deeper than the marker) are treated as opaque content and skipped.
// The returned boolean is the logical AND of every visitor result; scanning
// continues past dirty lines so all violations are collected.
func scanLines(buffer string, visitor lineVisitor) (bool, error) {
	insideStringBlock := false
	stringBlockLevel := 0
	clean := true

	for lineIndex, lineText := range strings.Split(buffer, "\n") {
		if len(lineText) == 0 {
			continue
		}
		if commentLinePattern.MatchString(lineText) {
			continue
		}

		contentColumn := strings.IndexFunc(lineText, func(character rune) bool {
			return character != ' ' && character != '\t'
		})
		if contentColumn < 0 {
			return false, fmt.Errorf(unscannableLineErrorTemplateConstant, lineIndex+1, lineText)
		}

		indentationLevel := contentColumn / indentAtomWidthConstant
		if insideStringBlock {
			if indentationLevel > stringBlockLevel {
				continue
			}
			insideStringBlock = false
		}

		lineClean, visitError := visitor(lineIndex, lineText, LineContext{Column: contentColumn, Level: indentationLevel})
		if visitError != nil {
			return false, visitError
		}
		if !lineClean {
			clean = false
		}

		if stringBlockOpenPattern.MatchString(lineText) {
			insideStringBlock = true
			stringBlockLevel = indentationLevel
		}
	}

	return clean, nil
}
