package cleanup

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	indentAtomConstant                 = "  "
	wildcardKeyLiteralConstant         = "*"
	quotedWildcardKeyLiteralConstant   = "'*'"
	quotedNumericKeyTemplateConstant   = "'%d'"
	inlineListEntryTemplateConstant    = "%s%s: [%s]\n"
	bareScalarEntryTemplateConstant    = "%s%s: %s\n"
	nullEntryTemplateConstant          = "%s%s:\n"
	literalBlockEntryTemplateConstant  = "%s%s: |\n%s"
	paddedLineTemplateConstant         = "%s%s\n"
	inlineListJoinSeparatorConstant    = ", "
	scalarProbeKeyConstant             = "a"
	scalarProbePrefixConstant          = "a: "
	documentDecodeErrorTemplate        = "unable to decode document: %w"
	scalarEncodeErrorTemplateConstant  = "unable to encode scalar %v: %w"
	unexpectedScalarProbeTemplateConst = "unexpected scalar encoding for %v: %q"
)

// scalarBareKeys lists fields whose single-line string values stay scalar
// instead of being split into a bracketed token list.
var scalarBareKeys = map[string]struct{}{
	"uri":    {},
	"md5sum": {},
}

// Clean decodes the supplied YAML document and renders it canonically.
func Clean(documentContents []byte) (string, error) {
	var decodedDocument map[string]any
	if decodeError := yaml.Unmarshal(documentContents, &decodedDocument); decodeError != nil {
		return "", fmt.Errorf(documentDecodeErrorTemplate, decodeError)
	}

	var renderedDocument strings.Builder
	for _, topLevelKey := range sortedKeys(decodedDocument) {
		renderedEntry, renderError := renderNode(decodedDocument[topLevelKey], topLevelKey, 0)
		if renderError != nil {
			return "", renderError
		}
		renderedDocument.WriteString(renderedEntry)
	}
	return renderedDocument.String(), nil
}

// renderNode renders one key/value entry at the given indentation level,
// recursing into nested mappings with keys sorted alphabetically.
func renderNode(node any, entryName string, indentationLevel int) (string, error) {
	renderedName := renderEntryName(entryName)
	indentationPadding := strings.Repeat(indentAtomConstant, indentationLevel)

	switch typedNode := node.(type) {
	case nil:
		return fmt.Sprintf(nullEntryTemplateConstant, indentationPadding, renderedName), nil
	case []any:
		quotedEntries, quoteError := quoteEntries(typedNode)
		if quoteError != nil {
			return "", quoteError
		}
		return fmt.Sprintf(inlineListEntryTemplateConstant, indentationPadding, renderedName, strings.Join(quotedEntries, inlineListJoinSeparatorConstant)), nil
	case string:
		if strings.Contains(typedNode, "\n") {
			return fmt.Sprintf(literalBlockEntryTemplateConstant, indentationPadding, renderedName, padLines(typedNode, indentationLevel+1)), nil
		}
		if _, keepScalar := scalarBareKeys[entryName]; keepScalar {
			quotedValue, quoteError := quoteIfNecessary(typedNode)
			if quoteError != nil {
				return "", quoteError
			}
			return fmt.Sprintf(bareScalarEntryTemplateConstant, indentationPadding, renderedName, quotedValue), nil
		}
		quotedTokens, quoteError := quoteStrings(strings.Fields(typedNode))
		if quoteError != nil {
			return "", quoteError
		}
		return fmt.Sprintf(inlineListEntryTemplateConstant, indentationPadding, renderedName, strings.Join(quotedTokens, inlineListJoinSeparatorConstant)), nil
	case map[string]any:
		var renderedMapping strings.Builder
		renderedMapping.WriteString(fmt.Sprintf(nullEntryTemplateConstant, indentationPadding, renderedName))
		for _, nestedKey := range sortedKeys(typedNode) {
			renderedEntry, renderError := renderNode(typedNode[nestedKey], nestedKey, indentationLevel+1)
			if renderError != nil {
				return "", renderError
			}
			renderedMapping.WriteString(renderedEntry)
		}
		return renderedMapping.String(), nil
	default:
		quotedValue, quoteError := quoteIfNecessary(typedNode)
		if quoteError != nil {
			return "", quoteError
		}
		return fmt.Sprintf(inlineListEntryTemplateConstant, indentationPadding, renderedName, quotedValue), nil
	}
}

// renderEntryName quotes the wildcard key and purely numeric keys so the
// emitted document decodes the keys back as the same strings.
func renderEntryName(entryName string) string {
	if entryName == wildcardKeyLiteralConstant {
		return quotedWildcardKeyLiteralConstant
	}
	if numericValue, parseError := strconv.Atoi(entryName); parseError == nil && strconv.Itoa(numericValue) == entryName {
		return fmt.Sprintf(quotedNumericKeyTemplateConstant, numericValue)
	}
	return entryName
}

// padLines prefixes every line of a literal block body with level padding.
func padLines(blockContents string, indentationLevel int) string {
	indentationPadding := strings.Repeat(indentAtomConstant, indentationLevel)
	trimmedContents := strings.TrimSuffix(blockContents, "\n")

	var paddedLines strings.Builder
	for _, blockLine := range strings.Split(trimmedContents, "\n") {
		paddedLines.WriteString(fmt.Sprintf(paddedLineTemplateConstant, indentationPadding, blockLine))
	}
	return paddedLines.String()
}

// quoteIfNecessary renders a scalar the way the YAML encoder would inside a
// mapping, quoting only when required, by round-tripping a one-entry probe.
func quoteIfNecessary(scalarValue any) (string, error) {
	encodedProbe, encodeError := yaml.Marshal(map[string]any{scalarProbeKeyConstant: scalarValue})
	if encodeError != nil {
		return "", fmt.Errorf(scalarEncodeErrorTemplateConstant, scalarValue, encodeError)
	}
	probeText := string(encodedProbe)
	if !strings.HasPrefix(probeText, scalarProbePrefixConstant) || !strings.HasSuffix(probeText, "\n") {
		return "", fmt.Errorf(unexpectedScalarProbeTemplateConst, scalarValue, probeText)
	}
	return strings.TrimSuffix(strings.TrimPrefix(probeText, scalarProbePrefixConstant), "\n"), nil
}

func quoteEntries(listEntries []any) ([]string, error) {
	quotedEntries := make([]string, 0, len(listEntries))
	for _, listEntry := range listEntries {
		quotedEntry, quoteError := quoteIfNecessary(listEntry)
		if quoteError != nil {
			return nil, quoteError
		}
		quotedEntries = append(quotedEntries, quotedEntry)
	}
	return quotedEntries, nil
}

func quoteStrings(stringTokens []string) ([]string, error) {
	quotedTokens := make([]string, 0, len(stringTokens))
	for _, stringToken := range stringTokens {
		quotedToken, quoteError := quoteIfNecessary(stringToken)
		if quoteError != nil {
			return nil, quoteError
		}
		quotedTokens = append(quotedTokens, quotedToken)
	}
	return quotedTokens, nil
}

func sortedKeys(mapping map[string]any) []string {
	mappingKeys := make([]string, 0, len(mapping))
	for mappingKey := range mapping {
		mappingKeys = append(mappingKeys, mappingKey)
	}
	sort.Strings(mappingKeys)
	return mappingKeys
}
