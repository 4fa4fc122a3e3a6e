package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// flexString accepts the loose value shapes clients actually send for text
// fields: a plain string, a list of fragments (joined with spaces), a number,
// or null. Anything else is rejected.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*f = ""
		return nil
	}

	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		*f = flexString(asString)
		return nil
	}

	var asList []any
	if err := json.Unmarshal(data, &asList); err == nil {
		parts := make([]string, 0, len(asList))
		for _, item := range asList {
			if item == nil {
				continue
			}
			if text := strings.TrimSpace(fmt.Sprint(item)); text != "" {
				parts = append(parts, text)
			}
		}
		*f = flexString(strings.Join(parts, " "))
		return nil
	}

	var asNumber json.Number
	if err := json.Unmarshal(data, &asNumber); err == nil {
		*f = flexString(asNumber.String())
		return nil
	}

	return errors.New("value must be a string or a list of strings")
}

func (f flexString) String() string {
	return strings.TrimSpace(string(f))
}
