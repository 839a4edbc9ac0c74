package stress

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func filled(n int) []string {
	dst := make([]string, n)
	for i := range dst {
		dst[i] = untouched
	}
	return dst
}

func TestChecker_Slice(t *testing.T) {
	chk := newChecker([]string{"a", "b"})

	assert.Empty(t, chk.slice([]string{"b", "a", "c"}))

	t.Run("len differs from cap", func(t *testing.T) {
		got := make([]string, 2, 5)
		copy(got, []string{"a", "b"})
		assert.Len(t, chk.slice(got), 1)
	})

	t.Run("duplicate", func(t *testing.T) {
		problems := chk.slice([]string{"a", "b", "a"})
		if assert.Len(t, problems, 1) {
			assert.Contains(t, problems[0], "duplicate")
		}
	})

	t.Run("empty member", func(t *testing.T) {
		problems := chk.slice([]string{"a", "", "b"})
		if assert.Len(t, problems, 1) {
			assert.Contains(t, problems[0], "empty member")
		}
	})

	t.Run("stable member missing", func(t *testing.T) {
		problems := chk.slice([]string{"a", "c"})
		if assert.Len(t, problems, 1) {
			assert.Contains(t, problems[0], "1 stable members missing")
		}
	})
}

func TestChecker_Copy(t *testing.T) {
	chk := newChecker([]string{"a"})

	t.Run("reused with sentinel", func(t *testing.T) {
		dst := filled(4)
		n := copy(dst, []string{"a", "b"})
		dst[n] = ""
		assert.Empty(t, chk.copy(dst, dst[:n]))
	})

	t.Run("exact fit", func(t *testing.T) {
		dst := filled(2)
		copy(dst, []string{"a", "b"})
		assert.Empty(t, chk.copy(dst, dst[:2]))
	})

	t.Run("missing sentinel", func(t *testing.T) {
		dst := filled(4)
		copy(dst, []string{"a", "b"})
		problems := chk.copy(dst, dst[:2])
		if assert.Len(t, problems, 1) {
			assert.Contains(t, problems[0], "sentinel")
		}
	})

	t.Run("fit but not reused", func(t *testing.T) {
		dst := filled(4)
		dst[2] = ""
		problems := chk.copy(dst, []string{"a", "b"})
		if assert.Len(t, problems, 1) {
			assert.Contains(t, problems[0], "not reused")
		}
	})

	t.Run("too small and untouched", func(t *testing.T) {
		dst := filled(1)
		assert.Empty(t, chk.copy(dst, []string{"a", "b", "c"}))
	})

	t.Run("too small and modified", func(t *testing.T) {
		dst := filled(2)
		dst[0] = "a"
		problems := chk.copy(dst, []string{"a", "b", "c"})
		if assert.Len(t, problems, 1) {
			assert.Contains(t, problems[0], "destination slot 0 modified")
		}
	})
}

func TestTally_SamplesBounded(t *testing.T) {
	var tl tally
	for range maxSamples + 5 {
		tl.violate([]string{"x"})
	}
	rep := tl.report()
	assert.EqualValues(t, maxSamples+5, rep.Violations)
	assert.Len(t, rep.Samples, maxSamples)
	assert.False(t, rep.OK())
}
