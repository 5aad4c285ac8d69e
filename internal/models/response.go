package models

// ResponseMap holds the current survey responses keyed by question id. Values
// are scalars (string or number) for single-valued questions and slices for
// multi-select and grid questions. The logic engine never mutates it.
type ResponseMap map[string]interface{}

// IsAbsent reports whether a response is missing entirely: nil or the empty
// string. Zero and false are real answers, not absence.
func IsAbsent(v interface{}) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}

// IsBlank reports whether a response counts as empty for the is_empty
// operator: absent, the empty string, numeric zero, or false.
func IsBlank(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case bool:
		return !t
	case int:
		return t == 0
	case int64:
		return t == 0
	case float64:
		return t == 0
	case float32:
		return t == 0
	}
	return false
}
