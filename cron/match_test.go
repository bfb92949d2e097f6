// Copyright (c) 2019,CAO HONGJU. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cron

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchesConcreteScenario(t *testing.T) {
	p, err := Parse("* 30 14 * * *")
	assert.NoError(t, err)

	ok, err := Matches(1761229800, p) // 2025-10-23T14:30:00Z
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, err = Matches(1761229860, p) // 2025-10-23T14:31:00Z
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestMatchesNilPattern(t *testing.T) {
	_, err := Matches(0, nil)
	assert.Error(t, err)
	assert.Equal(t, ErrNullPointer, err.(*Error).Code)
}

func TestMatchesNonCronPatternIsAlwaysFalse(t *testing.T) {
	p, err := Parse("EOD:E1D")
	assert.NoError(t, err)
	ok, err := Matches(1761229800, p)
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestMatchesBatchAgreesWithMatches(t *testing.T) {
	p, err := Parse("* 0 */2 * * *")
	assert.NoError(t, err)

	ts := []int64{1761213600, 1761217200, 1761220800, 1761224400}
	out := make([]bool, len(ts))
	assert.NoError(t, MatchesBatch(ts, p, out))

	for i, tsv := range ts {
		want, err := Matches(tsv, p)
		assert.NoError(t, err)
		assert.Equal(t, want, out[i])
	}
}

func TestMatchesBatchRejectsShortOutSlice(t *testing.T) {
	p, err := Parse("* * * * * *")
	assert.NoError(t, err)
	err = MatchesBatch([]int64{1, 2, 3}, p, make([]bool, 1))
	assert.Error(t, err)
}
