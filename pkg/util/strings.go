package util

// RemoveDuplicateStrings keeps the first occurrence of every string, dropping
// empty strings and anything in ignoreList.
func RemoveDuplicateStrings(strings []string, ignoreList []string) []string {
	presentStrings := make(map[string]bool)
	list := []string{}

	for _, ignoreString := range ignoreList {
		presentStrings[ignoreString] = true
	}

	for _, item := range strings {
		if _, value := presentStrings[item]; !value && item != "" {
			presentStrings[item] = true
			list = append(list, item)
		}
	}
	return list
}

// IntersectStrings returns the members of a that are also in b, in a's order.
func IntersectStrings(a []string, b []string) []string {
	present := make(map[string]bool, len(b))
	for _, item := range b {
		present[item] = true
	}

	list := []string{}
	for _, item := range a {
		if present[item] {
			list = append(list, item)
		}
	}
	return list
}

// TruncateString shortens s to length runes, replacing the tail with suffix
// when s is longer than length. The result never exceeds length runes.
func TruncateString(s string, length int, suffix string) string {
	runes := []rune(s)
	if len(runes) <= length {
		return s
	}

	keep := length - len([]rune(suffix))
	if keep < 0 {
		keep = 0
	}

	return string(runes[:keep]) + suffix
}
