package domain

// CoalesceStr returns the first non-empty string from vals.
func CoalesceStr(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// StrPtr returns a pointer to s, or nil when s is empty. Optional labels and
// color overrides use nil for "unset".
func StrPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// StrValue dereferences p, treating nil as "".
func StrValue(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
