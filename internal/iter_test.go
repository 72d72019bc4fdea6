package internal

import (
	"maps"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConcat(t *testing.T) {
	assert := assert.New(t)

	seq := Concat(slices.Values([]int{1, 2}), slices.Values([]int{}), slices.Values([]int{3}))
	assert.Equal([]int{1, 2, 3}, slices.Collect(seq))

	var early []int
	for val := range seq {
		early = append(early, val)
		if val == 2 {
			break
		}
	}
	assert.Equal([]int{1, 2}, early)
}

func TestConcat2(t *testing.T) {
	assert := assert.New(t)

	seq := Concat2(maps.All(map[string]int{"a": 1}), maps.All(map[string]int{"b": 2}))
	assert.Equal(map[string]int{"a": 1, "b": 2}, maps.Collect(seq))

	count := 0
	for range seq {
		count++
		break
	}
	assert.Equal(1, count)
}
