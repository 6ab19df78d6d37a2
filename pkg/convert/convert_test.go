// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package convert_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/tapledger/pkg/convert"
)

func TestToIntD(t *testing.T) {
	assert.Equal(t, 25, convert.ToIntD("25", 10))
	assert.Equal(t, 25, convert.ToIntD(" 25 ", 10))
	assert.Equal(t, 10, convert.ToIntD("", 10))
	assert.Equal(t, 10, convert.ToIntD("ten", 10))
	assert.Equal(t, -3, convert.ToIntD("-3", 0))
}
