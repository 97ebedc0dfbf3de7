package resolver

import (
	"slices"
	"testing"
)

type item struct {
	Priority
	id string
}

func ids(items []item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.id
	}
	return out
}

func TestSortByPriority(t *testing.T) {
	tests := []struct {
		name  string
		items []item
		want  []string
	}{
		{
			name:  "descending",
			items: []item{{5, "a"}, {1, "b"}, {3, "c"}},
			want:  []string{"a", "c", "b"},
		},
		{
			name:  "ties keep registration order",
			items: []item{{1, "a"}, {2, "b"}, {1, "c"}, {2, "d"}},
			want:  []string{"b", "d", "a", "c"},
		},
		{
			name:  "extremes",
			items: []item{{0, "mid"}, {LowestPrecedence, "last"}, {HighestPrecedence, "first"}},
			want:  []string{"first", "mid", "last"},
		},
		{
			name:  "empty",
			items: nil,
			want:  []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := slices.Clone(tt.items)
			SortByPriority(items)
			if got := ids(items); !slices.Equal(got, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
			SortByPriority(items)
			if got := ids(items); !slices.Equal(got, tt.want) {
				t.Fatalf("second sort changed order: %v", got)
			}
		})
	}
}

func TestSortedCopyLeavesInput(t *testing.T) {
	in := []item{{1, "a"}, {2, "b"}}
	out := sortedCopy(in)
	if in[0].id != "a" || out[0].id != "b" {
		t.Fatalf("unexpected order in=%v out=%v", ids(in), ids(out))
	}
}

func TestCompare(t *testing.T) {
	if Compare(Priority(5), Priority(1)) >= 0 {
		t.Error("higher priority should sort first")
	}
	if Compare(Priority(1), Priority(1)) != 0 {
		t.Error("equal priorities should compare equal")
	}
}
