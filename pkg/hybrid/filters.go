package hybrid

import "reflect"

// JSBoolean renders v as a JavaScript boolean literal. Only a true boolean,
// or a non-nil pointer to one, yields "true".
func JSBoolean(v any) string {
	rv := reflect.ValueOf(v)
	for rv.IsValid() && rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return "false"
		}
		rv = rv.Elem()
	}
	if rv.IsValid() && rv.Kind() == reflect.Bool && rv.Bool() {
		return "true"
	}
	return "false"
}

func jsBooleanFilter(input any, _ any) (any, error) {
	return JSBoolean(input), nil
}
