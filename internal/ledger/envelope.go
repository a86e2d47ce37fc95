package ledger

// Unwrap normalizes a simulate/invoke response envelope into its inner
// payload. The gateway may hand back the value bare, wrapped under
// "result", or doubly wrapped under "result"/"retval" depending on the
// call path; all three shapes are accepted. Unwrap never fails: when
// the expected shape is missing it degrades to the best value it has.
func Unwrap(raw any) any {
	outer, ok := raw.(map[string]any)
	if !ok {
		return raw
	}

	inner, ok := outer["result"]
	if !ok || inner == nil {
		return raw
	}

	if m, ok := inner.(map[string]any); ok {
		if retval, ok := m["retval"]; ok && retval != nil {
			return retval
		}
	}
	return inner
}
