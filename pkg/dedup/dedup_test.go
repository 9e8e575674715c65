package dedup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "lowercases and trims", input: "  Fix The Bug  ", expected: "fix the bug"},
		{name: "plain prompt passes through", input: "continue", expected: "continue"},
		{name: "import statement rejected", input: "import foo from 'bar'", expected: ""},
		{name: "export statement rejected", input: "export default thing", expected: ""},
		{name: "const declaration rejected", input: "const x = 1", expected: ""},
		{name: "function declaration rejected", input: "function handle() {}", expected: ""},
		{name: "interface declaration rejected", input: "interface Props {}", expected: ""},
		{name: "line comment rejected", input: "// a comment", expected: ""},
		{name: "block comment rejected", input: "/* notes */", expected: ""},
		{name: "code fence rejected", input: "```code block```", expected: ""},
		{name: "html rejected", input: "<div>html</div>", expected: ""},
		{name: "json array rejected", input: "[1,2,3]", expected: ""},
		{name: "json object rejected", input: `{"a": 1}`, expected: ""},
		{name: "js stack frame rejected", input: "at render (app.js:42)", expected: ""},
		{name: "ts stack frame rejected", input: "at main (index.ts:7)", expected: ""},
		{name: "tsx stack frame rejected", input: "at App (app.tsx:19)", expected: ""},
		{name: "bundler chunk rejected", input: "error in chunk-X7KPQ.js", expected: ""},
		{name: "raf log line rejected", input: "requestAnimationFrame callback fired", expected: ""},
		{name: "devtools hook rejected", input: "installHook.js injected", expected: ""},
		{name: "important marker mid-string keeps prefix-only semantics", input: "please review // this part", expected: "please review // this part"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.input))
		})
	}
}

func TestNoiseSignatures_Table(t *testing.T) {
	// Every marker should reject a text built straight from the table.
	for _, sig := range NoiseSignatures {
		var sample string
		switch sig.Kind {
		case MatchPrefix:
			sample = sig.Marker + "anything after the marker"
		default:
			sample = "something before " + sig.Marker + " and after"
		}
		assert.Empty(t, Normalize(sample), "marker %q should discard", sig.Marker)
	}
}

func TestIsSimilar_Reflexive(t *testing.T) {
	for _, threshold := range []float64{0.1, 0.5, 0.8, 1.0} {
		d := New(threshold)
		assert.True(t, d.IsSimilar("continue", "continue"), "threshold %v", threshold)
		assert.True(t, d.IsSimilar("fix the login bug", "fix the login bug"), "threshold %v", threshold)
	}
}

func TestIsSimilar_NearDuplicates(t *testing.T) {
	d := Default()

	// Single-character typos comfortably clear the default threshold.
	assert.True(t, d.IsSimilar("continue", "contnue"))
	assert.True(t, d.IsSimilar("commit this", "commit that"))

	// Unrelated prompts do not.
	assert.False(t, d.IsSimilar("continue", "fix issues"))
	assert.False(t, d.IsSimilar("commit this", "run tests"))
}

func TestIsSimilar_LengthRatioShortCircuit(t *testing.T) {
	// min/max length below 0.5 is rejected regardless of threshold, even a
	// permissive one.
	d := New(0.01)
	assert.False(t, d.IsSimilar("abc", "abcdefghij"))
	assert.False(t, d.IsSimilar("go", "going somewhere else entirely"))
}

func TestIsSimilar_ThresholdBoundary(t *testing.T) {
	// "abcd" vs "abcx": distance 1 over max length 4 gives exactly 0.75.
	// Equality at the boundary counts as similar.
	assert.True(t, New(0.75).IsSimilar("abcd", "abcx"))
	assert.False(t, New(0.76).IsSimilar("abcd", "abcx"))
}

func TestIsSimilar_ThresholdMonotonicity(t *testing.T) {
	pairs := [][2]string{
		{"continue", "contnue"},
		{"commit this", "commit that"},
		{"fix it", "fix this"},
	}
	thresholds := []float64{0.9, 0.8, 0.7, 0.5, 0.3, 0.1}

	for _, pair := range pairs {
		matchedAt := -1.0
		for _, threshold := range thresholds {
			if New(threshold).IsSimilar(pair[0], pair[1]) {
				matchedAt = threshold
				break
			}
		}
		if matchedAt < 0 {
			continue
		}
		// Once similar at some threshold, every lower threshold matches too.
		for _, threshold := range thresholds {
			if threshold < matchedAt {
				assert.True(t, New(threshold).IsSimilar(pair[0], pair[1]),
					"%q vs %q matched at %v but not at lower %v", pair[0], pair[1], matchedAt, threshold)
			}
		}
	}
}

func TestNew_OutOfRangeFallsBack(t *testing.T) {
	assert.InDelta(t, DefaultThreshold, New(-0.5).Threshold(), 1e-9)
	assert.InDelta(t, DefaultThreshold, New(0).Threshold(), 1e-9)
	assert.InDelta(t, DefaultThreshold, New(1.5).Threshold(), 1e-9)
	assert.InDelta(t, 0.6, New(0.6).Threshold(), 1e-9)
}

func TestCluster_TypoVariantsAbsorbed(t *testing.T) {
	d := Default()
	prompts := []string{"continue", "continue", "cotninue", "contnue", "fix it", "fix this"}

	clusters := d.Cluster(prompts)
	require.NotEmpty(t, clusters)
	assert.GreaterOrEqual(t, len(clusters), 2)

	// "continue" has the highest raw count, so it leads and absorbs the
	// single-edit typo "contnue". The transposition "cotninue" sits at 0.75
	// similarity, below the 0.8 default, and clusters on its own.
	first := clusters[0]
	assert.Equal(t, "continue", first.Canonical)
	assert.GreaterOrEqual(t, first.Count, 3)
	assert.Contains(t, first.Variants, "continue")
	assert.Contains(t, first.Variants, "contnue")
	assert.Equal(t, "continue", first.Variants[0])
}

func TestCluster_UnrelatedPromptsStaySeparate(t *testing.T) {
	clusters := Default().Cluster([]string{"continue", "fix issues"})

	require.Len(t, clusters, 2)
	for _, cluster := range clusters {
		assert.Equal(t, 1, cluster.Count)
		assert.Len(t, cluster.Variants, 1)
	}
}

func TestCluster_AllInputFiltered(t *testing.T) {
	// Too short, noise, and empty input all degenerate to an empty result.
	clusters := Default().Cluster([]string{"ab", "import x", ""})
	assert.Empty(t, clusters)

	assert.Empty(t, Default().Cluster(nil))
}

func TestCluster_PartitionAndCountConservation(t *testing.T) {
	d := Default()
	prompts := []string{
		"continue", "continue", "continue",
		"contnue",
		"fix the login bug", "fix the login bugs",
		"run the tests", "run the tests",
		"deploy to staging",
		"deploy to staging",
		"update readme",
	}

	clusters := d.Cluster(prompts)
	require.NotEmpty(t, clusters)

	// Recompute expected per-text occurrence counts the way the engine does.
	expected := make(map[string]int)
	for _, p := range prompts {
		n := Normalize(p)
		if n == "" || len([]rune(n)) < MinPromptLength {
			continue
		}
		expected[n]++
	}

	seen := make(map[string]int)
	for _, cluster := range clusters {
		require.NotEmpty(t, cluster.Variants)
		assert.Equal(t, cluster.Canonical, cluster.Variants[0])

		variantTotal := 0
		for _, variant := range cluster.Variants {
			seen[variant]++
			variantTotal += expected[variant]
		}
		// Count conservation: cluster count equals the sum of its variants'
		// occurrence counts.
		assert.Equal(t, variantTotal, cluster.Count, "cluster %q", cluster.Canonical)
	}

	// Partition: every surviving text appears in exactly one cluster.
	assert.Len(t, seen, len(expected))
	for text, n := range seen {
		assert.Equal(t, 1, n, "text %q assigned to %d clusters", text, n)
		assert.Contains(t, expected, text)
	}
}

func TestCluster_OrderedByDescendingCount(t *testing.T) {
	prompts := []string{
		"alpha prompt", "alpha prompt", "alpha prompt",
		"beta prompt text longer", "beta prompt text longer",
		"gamma entirely different",
	}

	clusters := Default().Cluster(prompts)
	for i := 1; i < len(clusters); i++ {
		assert.GreaterOrEqual(t, clusters[i-1].Count, clusters[i].Count)
	}
}

func TestCluster_Deterministic(t *testing.T) {
	prompts := []string{
		"fix it", "fix this", "fix that",
		"continue", "continue",
		"run tests please", "run tests now",
	}

	d := Default()
	first := d.Cluster(prompts)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, d.Cluster(prompts), "clustering should be stable across runs")
	}
}

func TestCluster_SharedDeduper(t *testing.T) {
	// One Deduper across concurrent calls: each invocation's state is
	// private, so results must match the serial ones.
	d := Default()
	prompts := []string{"continue", "continue", "contnue", "fix it"}
	want := d.Cluster(prompts)

	results := make(chan []PromptCluster, 8)
	for i := 0; i < 8; i++ {
		go func() {
			results <- d.Cluster(prompts)
		}()
	}
	for i := 0; i < 8; i++ {
		assert.Equal(t, want, <-results)
	}
}
