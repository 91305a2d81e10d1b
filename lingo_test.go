package lingo_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pitabwire/lingo"
)

func TestParsePriority(t *testing.T) {
	testCases := []struct {
		name    string
		value   string
		want    lingo.Priority
		wantErr bool
	}{
		{name: "cache", value: "cache", want: lingo.PriorityCache},
		{name: "network", value: "network", want: lingo.PriorityNetwork},
		{name: "cache ignoring freshness", value: "cache_ignoring_freshness", want: lingo.PriorityCacheIgnoringFreshness},
		{name: "default", value: "default", want: lingo.PriorityDefault},
		{name: "empty falls back to cache", value: "", want: lingo.PriorityCache},
		{name: "case and spacing tolerated", value: "  Network ", want: lingo.PriorityNetwork},
		{name: "unknown", value: "eventually", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := lingo.ParsePriority(tc.value)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}
