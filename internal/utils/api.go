package utils

import (
	"fmt"
	"net/url"
)

// ParseFloatParam retrieves an optional float64 value from the provided URL
// query parameters, accepting comma decimal separators.
// If the key is absent it returns 0 and false. An invalid value is recorded in
// fieldErrors and also yields 0 and false.
func ParseFloatParam(params url.Values, key string, fieldErrors map[string][]string) (float64, bool, map[string][]string) {
	if fieldErrors == nil {
		fieldErrors = make(map[string][]string)
	}

	val := params.Get(key)
	if val == "" {
		return 0, false, fieldErrors
	}

	f, err := ParseLocaleFloat(val)
	if err != nil {
		fieldErrors[key] = append(fieldErrors[key], fmt.Sprintf("Invalid field value for field %q.", key))
		return 0, false, fieldErrors
	}
	return f, true, fieldErrors
}
