package util

import (
	"os"
	"strings"
)

func GetEnvironmentVariables() map[string]string {
	environmentVariables := map[string]string{}

	for _, variable := range os.Environ() {
		pair := strings.SplitN(variable, "=", 2)

		environmentVariables[pair[0]] = pair[1]
	}

	return environmentVariables
}

// SplitList splits a comma separated environment value, dropping blanks and duplicates
func SplitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		items = append(items, strings.TrimSpace(item))
	}

	return RemoveDuplicateStrings(items, nil)
}
