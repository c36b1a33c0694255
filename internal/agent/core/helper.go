package core

// extractFirstJSON returns the first balanced {...} block in s, or s itself
// when none is found. Models wrap JSON in prose often enough that lenient
// extraction beats strict decoding.
func extractFirstJSON(s string) string {
	start := -1
	depth := 0
	for i, ch := range s {
		if ch == '{' {
			if depth == 0 {
				start = i
			}
			depth++
		} else if ch == '}' {
			if depth > 0 {
				depth--
			}
			if depth == 0 && start != -1 {
				return s[start : i+1]
			}
		}
	}
	return s
}
