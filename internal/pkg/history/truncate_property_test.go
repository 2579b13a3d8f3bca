package history

import (
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func genEntries() gopter.Gen {
	return gen.SliceOf(gen.AlphaString()).Map(func(contents []string) []Entry {
		entries := make([]Entry, len(contents))
		for i, c := range contents {
			role := RoleUser
			if i%2 == 1 {
				role = RoleAssistant
			}
			entries[i] = Entry{Role: role, Content: c}
		}
		return entries
	})
}

// Property: the result is the newest max(N, 0) entries of H ++ E, in order.
func TestAppendAndTruncate_Property(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(42)

	properties := gopter.NewProperties(parameters)

	properties.Property("length never exceeds the limit", prop.ForAll(
		func(h, e []Entry, n int) bool {
			limit := n
			if limit < 0 {
				limit = 0
			}
			return len(AppendAndTruncate(h, e, n)) <= limit
		},
		genEntries(),
		genEntries(),
		gen.IntRange(-5, 40),
	))

	properties.Property("result is a suffix of the concatenation", prop.ForAll(
		func(h, e []Entry, n int) bool {
			all := make([]Entry, 0, len(h)+len(e))
			all = append(all, h...)
			all = append(all, e...)

			got := AppendAndTruncate(h, e, n)
			want := all[len(all)-len(got):]
			if len(got) == 0 {
				return n <= 0 || len(all) == 0
			}
			return reflect.DeepEqual(got, want)
		},
		genEntries(),
		genEntries(),
		gen.IntRange(-5, 40),
	))

	properties.Property("nothing is dropped while under the limit", prop.ForAll(
		func(h, e []Entry) bool {
			got := AppendAndTruncate(h, e, len(h)+len(e)+1)
			return len(got) == len(h)+len(e)
		},
		genEntries(),
		genEntries(),
	))

	properties.TestingRun(t)
}
