// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package slice_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/tapledger/pkg/slice"
)

func TestMap(t *testing.T) {
	assert.Nil(t, slice.Map[int, int](nil, func(value int) int { return value }))
	assert.Equal(t, []string{"MY", "SG"}, slice.Map([]string{"my", "sg"}, strings.ToUpper))
}

func TestFilter(t *testing.T) {
	even := slice.Filter([]int{1, 2, 3, 4}, func(value int) bool { return value%2 == 0 })
	assert.Equal(t, []int{2, 4}, even)
	assert.Empty(t, slice.Filter([]int{1, 3}, func(value int) bool { return value%2 == 0 }))
}

func TestReduce(t *testing.T) {
	sum := slice.Reduce([]float64{33.3, 33.3, 33.4}, 0.0, func(total, value float64) float64 { return total + value })
	assert.InDelta(t, 100.0, sum, 1e-9)
}

func TestGroupBy(t *testing.T) {
	groups := slice.GroupBy([]string{"composer:a", "author:b", "composer:c"}, func(value string) string {
		return strings.SplitN(value, ":", 2)[0]
	})

	assert.Equal(t, []string{"composer:a", "composer:c"}, groups["composer"])
	assert.Equal(t, []string{"author:b"}, groups["author"])
}
