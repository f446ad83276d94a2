package main

import (
	"reflect"
	"testing"
)

func TestRewriteDirectStoryLookupArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "no args",
			in:   []string{"storyweave"},
			want: []string{"storyweave"},
		},
		{
			name: "direct story id first token",
			in:   []string{"storyweave", "7"},
			want: []string{"storyweave", "stories", "show", "7"},
		},
		{
			name: "time based id",
			in:   []string{"storyweave", "1760780000123"},
			want: []string{"storyweave", "stories", "show", "1760780000123"},
		},
		{
			name: "direct story id after value flag",
			in:   []string{"storyweave", "--dir", "./tmp-data", "7"},
			want: []string{"storyweave", "--dir", "./tmp-data", "stories", "show", "7"},
		},
		{
			name: "seed value is not mistaken for an id",
			in:   []string{"storyweave", "--seed", "42"},
			want: []string{"storyweave", "--seed", "42"},
		},
		{
			name: "direct story id after equals flag",
			in:   []string{"storyweave", "--dir=./tmp-data", "7"},
			want: []string{"storyweave", "--dir=./tmp-data", "stories", "show", "7"},
		},
		{
			name: "direct story id after bool flags",
			in:   []string{"storyweave", "--pretty", "-v", "7"},
			want: []string{"storyweave", "--pretty", "-v", "stories", "show", "7"},
		},
		{
			name: "direct story id after double dash",
			in:   []string{"storyweave", "--ephemeral", "--", "7"},
			want: []string{"storyweave", "--ephemeral", "--", "stories", "show", "7"},
		},
		{
			name: "normal subcommand not rewritten",
			in:   []string{"storyweave", "stories", "show", "7"},
			want: []string{"storyweave", "stories", "show", "7"},
		},
		{
			name: "unknown command not rewritten",
			in:   []string{"storyweave", "wat"},
			want: []string{"storyweave", "wat"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := rewriteDirectStoryLookupArgs(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("rewriteDirectStoryLookupArgs(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
