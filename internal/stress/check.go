package stress

import (
	"fmt"
)

// untouched fills a CopyInto destination before the call so that a result
// which did not fit can be checked for stray writes.
const untouched = "\x00untouched"

// checker verifies snapshots against the members loaded before the run.
type checker struct {
	stable map[string]struct{}
}

func newChecker(stable []string) *checker {
	m := make(map[string]struct{}, len(stable))
	for _, s := range stable {
		m[s] = struct{}{}
	}
	return &checker{stable: m}
}

// slice checks a ToSlice result.
func (c *checker) slice(got []string) []string {
	var problems []string
	if len(got) != cap(got) {
		problems = append(problems, fmt.Sprintf("to_slice: len %d != cap %d", len(got), cap(got)))
	}
	return append(problems, c.members("to_slice", got)...)
}

// copy checks a CopyInto result against the destination it was given.
// dst must have been filled with the untouched marker before the call.
func (c *checker) copy(dst, got []string) []string {
	var problems []string
	if len(got) <= len(dst) {
		if len(got) > 0 && &got[0] != &dst[0] {
			problems = append(problems, fmt.Sprintf("copy_into: %d elements fit a destination of %d but it was not reused", len(got), len(dst)))
		}
		if len(got) < len(dst) && dst[len(got)] != "" {
			problems = append(problems, fmt.Sprintf("copy_into: slot %d holds %q, want empty sentinel", len(got), dst[len(got)]))
		}
	} else {
		if len(got) != cap(got) {
			problems = append(problems, fmt.Sprintf("copy_into: new array len %d != cap %d", len(got), cap(got)))
		}
		for i, v := range dst {
			if v != untouched {
				problems = append(problems, fmt.Sprintf("copy_into: destination slot %d modified to %q", i, v))
				break
			}
		}
	}
	return append(problems, c.members("copy_into", got)...)
}

func (c *checker) members(op string, got []string) []string {
	var problems []string
	seen := make(map[string]struct{}, len(got))
	for i, v := range got {
		if v == "" {
			problems = append(problems, fmt.Sprintf("%s: empty member at %d", op, i))
			continue
		}
		if _, dup := seen[v]; dup {
			problems = append(problems, fmt.Sprintf("%s: duplicate member %q", op, v))
			continue
		}
		seen[v] = struct{}{}
	}
	missing := 0
	for s := range c.stable {
		if _, ok := seen[s]; !ok {
			missing++
		}
	}
	if missing > 0 {
		problems = append(problems, fmt.Sprintf("%s: %d stable members missing", op, missing))
	}
	return problems
}
