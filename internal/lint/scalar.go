package lint

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// decodeScalar parses raw key text as a YAML scalar so quoted keys compare by
// their unquoted content and numeric keys compare numerically.
func decodeScalar(rawScalarText string) (any, error) {
	var decodedValue any
	if unmarshalError := yaml.Unmarshal([]byte(rawScalarText), &decodedValue); unmarshalError != nil {
		return nil, unmarshalError
	}
	return decodedValue, nil
}

// compareScalars orders two decoded scalars. Numbers compare numerically;
// every other pairing compares by string form, which keeps the empty-string
// sentinel sorting before any real key.
func compareScalars(firstScalar any, secondScalar any) int {
	firstNumber, firstIsNumber := scalarAsFloat(firstScalar)
	secondNumber, secondIsNumber := scalarAsFloat(secondScalar)
	if firstIsNumber && secondIsNumber {
		switch {
		case firstNumber < secondNumber:
			return -1
		case firstNumber > secondNumber:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(scalarString(firstScalar), scalarString(secondScalar))
}

func scalarAsFloat(scalarValue any) (float64, bool) {
	switch typedValue := scalarValue.(type) {
	case int:
		return float64(typedValue), true
	case int64:
		return float64(typedValue), true
	case uint64:
		return float64(typedValue), true
	case float64:
		return typedValue, true
	default:
		return 0, false
	}
}

func scalarString(scalarValue any) string {
	if scalarValue == nil {
		return ""
	}
	if stringValue, isString := scalarValue.(string); isString {
		return stringValue
	}
	return fmt.Sprintf("%v", scalarValue)
}
