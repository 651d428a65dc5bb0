package util

import "unicode/utf8"

func RemoveDuplicateStrings(strings []string, ignoreList []string) []string {
	presentStrings := make(map[string]bool)
	var list []string

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

// TrimString cuts s to at most length runes
func TrimString(s string, length int) string {
	if utf8.RuneCountInString(s) <= length {
		return s
	}

	return string([]rune(s)[:length])
}
