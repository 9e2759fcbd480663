package cpu

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseCPUList(t *testing.T) {
	cases := map[string][]int{
		"":          nil,
		"0":         {0},
		"0-3":       {0, 1, 2, 3},
		"0-1,4,6-7": {0, 1, 4, 6, 7},
	}
	for in, want := range cases {
		got, err := parseCPUList(in)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
}

func TestParseCPUDirName(t *testing.T) {
	cases := []struct {
		name string
		want int
		ok   bool
	}{
		{"cpu0", 0, true},
		{"cpu42", 42, true},
		{"cpufreq", 0, false},
		{"cpuidle", 0, false},
		{"modalias", 0, false},
	}
	for _, c := range cases {
		got, ok := parseCPUDirName(c.name)
		require.Equal(t, c.ok, ok, c.name)
		if ok {
			require.Equal(t, c.want, got, c.name)
		}
	}
}

func TestFallbackHasOneCoreOneNode(t *testing.T) {
	top := fallback()
	require.Len(t, top.Cores(), 1)
	require.Len(t, top.Nodes(), 1)
	require.Len(t, top.LogicalCPUs(), 1)
	require.Equal(t, 0, top.Cores()[0].PrimaryThread)
}

func TestGetGuaranteesAtLeastOneCoreAndNode(t *testing.T) {
	top := Get()
	require.NotEmpty(t, top.Cores())
	require.NotEmpty(t, top.Nodes())
	require.NotEmpty(t, top.LogicalCPUs())
}

func TestGetIsMemoized(t *testing.T) {
	require.Same(t, Get(), Get())
}

func TestDumpIncludesCounts(t *testing.T) {
	top := fallback()
	out := top.Dump()
	require.Contains(t, out, "cpus=1")
	require.Contains(t, out, "cores=1")
	require.Contains(t, out, "nodes=1")
}
