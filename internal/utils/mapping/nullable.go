package mapping

// NullableString maps "" to NULL.
func NullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// StringValue maps NULL to "".
func StringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
