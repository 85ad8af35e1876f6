package lint

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	trailingSpaceViolationTemplateConstant      = "trailing space line %d"
	invalidIndentationViolationTemplate         = "invalid indentation level line %d: %d"
	excessiveIndentationViolationTemplate       = "too much indentation line %d"
	unbracketedListViolationTemplateConstant    = "list not in square brackets line %d"
	orderingViolationTemplateConstant           = "list out of alphabetical order line %d.  '%v' should come before '%v'"
	valueWhitespaceViolationTemplateConstant    = "value '%s' must not contain whitespaces"
	documentParseFailureTemplateConstant        = "could not build the dict: %s"
	keyDecodeFailureTemplateConstant            = "unable to decode key on line %d: %w"
	keyParseFailureTemplateConstant             = "unable to parse key on line %d: %q"
	trailingSpaceCheckDescriptionConstant       = "checking for trailing spaces..."
	indentationCheckDescriptionConstant         = "checking for incorrect indentation..."
	bracketCheckDescriptionConstant             = "checking for non-bracket package lists..."
	orderingCheckDescriptionConstant            = "checking for item order..."
	documentBuildCheckDescriptionConstant       = "building yaml dict..."
	emptyDocumentSkipDescriptionConstant        = "skipping file with empty dict contents..."
	nullScalarLiteralConstant                   = "null"
	emptyKeySentinelConstant                    = ""
	trailingSpaceSuffixConstant                 = " "
	initialNamestackCapacityConstant            = 8
	levelIncrementAllowanceConstant             = 1
)

var (
	keyValueLinePattern     = regexp.MustCompile(`^(?:` + indentAtomConstant + `)*([^:]*):\s*(\w.*)$`)
	keyLinePattern          = regexp.MustCompile(`^(?:` + indentAtomConstant + `)*([^:]*):.*$`)
	mappingKeyMarkerPattern = regexp.MustCompile(`^\s*\?`)
	whitespacePattern       = regexp.MustCompile(`\s`)
)

// bracketExemptKeys lists scalar-valued fields allowed to hold bare text.
var bracketExemptKeys = map[string]struct{}{
	"uri":    {},
	"md5sum": {},
}

// valueWhitespaceExemptions lists known multi-word literal values accepted by
// the whitespace audit.
var valueWhitespaceExemptions = map[string]struct{}{
	"el capitan":    {},
	"mountain lion": {},
}

// Checker validates a registry YAML buffer against the formatting conventions.
// Each instance owns its reporter; a Checker carries no cross-invocation state.
type Checker struct {
	reporter Reporter
}

// NewChecker constructs a Checker reporting through the supplied reporter. A
// nil reporter silences diagnostics.
func NewChecker(reporter Reporter) *Checker {
	if reporter == nil {
		reporter = noopReporter{}
	}
	return &Checker{reporter: reporter}
}

// Check runs every convention check over the buffer and reports all
// accumulated violations. It returns true only when the buffer is fully clean
// and the document parses. A non-nil error signals a defective line the
// scanner could not classify, not an ordinary validation failure.
func (checker *Checker) Check(buffer string) (bool, error) {
	clean := true

	var decodedDocument any
	parseError := yaml.Unmarshal([]byte(buffer), &decodedDocument)

	if parseError == nil && isEmptyMapping(decodedDocument) {
		checker.reporter.CheckStarted(emptyDocumentSkipDescriptionConstant)
	} else {
		checker.reporter.CheckStarted(trailingSpaceCheckDescriptionConstant)
		if !checker.NoTrailingSpaces(buffer) {
			clean = false
		}

		checker.reporter.CheckStarted(indentationCheckDescriptionConstant)
		indentClean, indentError := checker.CorrectIndent(buffer)
		if indentError != nil {
			return false, indentError
		}
		if !indentClean {
			clean = false
		}

		checker.reporter.CheckStarted(bracketCheckDescriptionConstant)
		bracketClean, bracketError := checker.CheckBrackets(buffer)
		if bracketError != nil {
			return false, bracketError
		}
		if !bracketClean {
			clean = false
		}

		checker.reporter.CheckStarted(orderingCheckDescriptionConstant)
		orderClean, orderError := checker.CheckOrder(buffer)
		if orderError != nil {
			return false, orderError
		}
		if !orderClean {
			clean = false
		}

		checker.reporter.CheckStarted(documentBuildCheckDescriptionConstant)
	}

	if !checker.AuditValueWhitespace(buffer) {
		clean = false
	}

	return clean, nil
}

// NoTrailingSpaces flags every line ending in a space character. All lines
// participate, including comments and blank-by-whitespace lines.
func (checker *Checker) NoTrailingSpaces(buffer string) bool {
	clean := true
	for lineIndex, lineText := range strings.Split(buffer, "\n") {
		if strings.HasSuffix(lineText, trailingSpaceSuffixConstant) {
			checker.reporter.ViolationFound(fmt.Sprintf(trailingSpaceViolationTemplateConstant, lineIndex+1))
			clean = false
		}
	}
	return clean
}

// CorrectIndent verifies that every structural line sits on a clean multiple
// of the indent atom and never skips more than one indentation level.
func (checker *Checker) CorrectIndent(buffer string) (bool, error) {
	previousLevel := 0
	return scanLines(buffer, func(lineNumber int, lineText string, lineContext LineContext) (bool, error) {
		observedLevel := lineContext.Level
		priorLevel := previousLevel
		previousLevel = observedLevel

		if lineContext.Column%indentAtomWidthConstant > 0 {
			checker.reporter.ViolationFound(fmt.Sprintf(invalidIndentationViolationTemplate, lineNumber+1, lineContext.Column))
			return false, nil
		}
		if observedLevel > priorLevel+levelIncrementAllowanceConstant {
			checker.reporter.ViolationFound(fmt.Sprintf(excessiveIndentationViolationTemplate, lineNumber+1))
			return false, nil
		}
		return true, nil
	})
}

// CheckBrackets flags key/value lines whose value begins with a bare token.
// List-valued fields must render as inline bracketed lists; only exempt keys
// and the null literal may hold unbracketed text.
func (checker *Checker) CheckBrackets(buffer string) (bool, error) {
	return scanLines(buffer, func(lineNumber int, lineText string, lineContext LineContext) (bool, error) {
		lineMatch := keyValueLinePattern.FindStringSubmatch(lineText)
		if lineMatch == nil {
			return true, nil
		}
		if _, keyExempt := bracketExemptKeys[lineMatch[1]]; keyExempt {
			return true, nil
		}
		if lineMatch[2] == nullScalarLiteralConstant {
			return true, nil
		}
		checker.reporter.ViolationFound(fmt.Sprintf(unbracketedListViolationTemplateConstant, lineNumber+1))
		return false, nil
	})
}

// CheckOrder verifies that sibling keys at each indentation level appear in
// ascending order of their decoded scalar values. Mapping key marker lines
// are exempt from ordering but still advance the level bookkeeping. A
// structural line carrying no key at all is a hard failure naming the line.
// The last-seen key is updated even on failure so one misplaced key reports
// a single violation rather than a cascade.
func (checker *Checker) CheckOrder(buffer string) (bool, error) {
	namestack := make([]any, 1, initialNamestackCapacityConstant)
	namestack[0] = emptyKeySentinelConstant

	return scanLines(buffer, func(lineNumber int, lineText string, lineContext LineContext) (bool, error) {
		level := lineContext.Level
		for len(namestack) > level+1 {
			namestack = namestack[:len(namestack)-1]
		}
		for len(namestack) < level+1 {
			namestack = append(namestack, emptyKeySentinelConstant)
		}

		if mappingKeyMarkerPattern.MatchString(lineText) {
			return true, nil
		}

		lineMatch := keyLinePattern.FindStringSubmatch(lineText)
		if lineMatch == nil {
			return false, fmt.Errorf(keyParseFailureTemplateConstant, lineNumber+1, lineText)
		}

		decodedKey, decodeError := decodeScalar(lineMatch[1])
		if decodeError != nil {
			return false, fmt.Errorf(keyDecodeFailureTemplateConstant, lineNumber+1, decodeError)
		}

		previousKey := namestack[level]
		namestack[level] = decodedKey
		if compareScalars(decodedKey, previousKey) < 0 {
			checker.reporter.ViolationFound(fmt.Sprintf(orderingViolationTemplateConstant, lineNumber+1, decodedKey, previousKey))
			return false, nil
		}
		return true, nil
	})
}

// AuditValueWhitespace decodes the full document and reports every string
// containing whitespace, descending through mapping keys, mapping values, and
// sequence entries. Mappings are visited in sorted key order so repeated runs
// report violations identically. A document that cannot be decoded is itself
// a violation.
func (checker *Checker) AuditValueWhitespace(buffer string) bool {
	var decodedDocument any
	if parseError := yaml.Unmarshal([]byte(buffer), &decodedDocument); parseError != nil {
		checker.reporter.ViolationFound(fmt.Sprintf(documentParseFailureTemplateConstant, parseError))
		return false
	}

	clean := true
	checker.walkDocument(decodedDocument, &clean)
	return clean
}

func (checker *Checker) walkDocument(node any, clean *bool) {
	switch typedNode := node.(type) {
	case map[string]any:
		sortedKeys := make([]string, 0, len(typedNode))
		for mappingKey := range typedNode {
			sortedKeys = append(sortedKeys, mappingKey)
		}
		sort.Strings(sortedKeys)
		for _, mappingKey := range sortedKeys {
			checker.walkDocument(mappingKey, clean)
			checker.walkDocument(typedNode[mappingKey], clean)
		}
	case map[any]any:
		// Mappings carrying non-string keys, such as bare numeric
		// OS-version keys, decode to this shape.
		sortedKeys := make([]any, 0, len(typedNode))
		for mappingKey := range typedNode {
			sortedKeys = append(sortedKeys, mappingKey)
		}
		sort.Slice(sortedKeys, func(firstIndex int, secondIndex int) bool {
			return compareScalars(sortedKeys[firstIndex], sortedKeys[secondIndex]) < 0
		})
		for _, mappingKey := range sortedKeys {
			checker.walkDocument(mappingKey, clean)
			checker.walkDocument(typedNode[mappingKey], clean)
		}
	case []any:
		for _, sequenceEntry := range typedNode {
			checker.walkDocument(sequenceEntry, clean)
		}
	case string:
		if !whitespacePattern.MatchString(typedNode) {
			return
		}
		if _, valueExempt := valueWhitespaceExemptions[typedNode]; valueExempt {
			return
		}
		checker.reporter.ViolationFound(fmt.Sprintf(valueWhitespaceViolationTemplateConstant, typedNode))
		*clean = false
	}
}

func isEmptyMapping(decodedDocument any) bool {
	mapping, isMapping := decodedDocument.(map[string]any)
	return isMapping && len(mapping) == 0
}
