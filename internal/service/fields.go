package service

// Helpers for interpreting partial-update payloads. PATCH bodies are
// decoded into map[string]any so unknown keys can be rejected by
// set-difference; JSON numbers arrive as float64.

func stringField(fields map[string]any, key string) (string, bool, bool) {
	raw, present := fields[key]
	if !present {
		return "", false, true
	}
	value, ok := raw.(string)
	return value, true, ok
}

func boolField(fields map[string]any, key string) (bool, bool, bool) {
	raw, present := fields[key]
	if !present {
		return false, false, true
	}
	value, ok := raw.(bool)
	return value, true, ok
}

func floatField(fields map[string]any, key string) (float64, bool, bool) {
	raw, present := fields[key]
	if !present {
		return 0, false, true
	}
	value, ok := raw.(float64)
	return value, true, ok
}

func intField(fields map[string]any, key string) (int, bool, bool) {
	value, present, ok := floatField(fields, key)
	if !present || !ok {
		return 0, present, ok
	}
	if value != float64(int(value)) {
		return 0, true, false
	}
	return int(value), true, true
}
