package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, SplitList(" a, b ,,a"))
	assert.Nil(t, SplitList(""))
}

func TestInPlaceFilter(t *testing.T) {
	modes := []string{"WALK", "BUS", "SUBWAY", "BUS"}
	InPlaceFilter(&modes, func(mode string) bool { return mode == "BUS" })

	assert.Equal(t, []string{"BUS", "BUS"}, modes)
}

func TestTrimStringKeepsRunes(t *testing.T) {
	assert.Equal(t, "신설동", TrimString("신설동역", 3))
	assert.Equal(t, "421", TrimString("421", 10))
}
