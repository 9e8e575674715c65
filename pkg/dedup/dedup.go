// Package dedup groups near-duplicate user prompts into clusters using
// normalized Levenshtein similarity.
//
// The engine is a three-stage pipeline: prompts are normalized (lower-cased,
// trimmed, code/log noise discarded), exact duplicates are counted, and the
// distinct texts are then assigned to clusters in descending-count order. A
// text joins the first existing cluster whose canonical form it resembles;
// otherwise it starts a new cluster. First-match-wins keeps assignment linear
// in the number of clusters and deterministic given the stable ordering, at
// the cost of not always picking the best-matching cluster.
package dedup

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// DefaultThreshold is the similarity threshold used when the caller does not
// supply one. Two texts are considered near-duplicates when their normalized
// Levenshtein similarity reaches this value.
const DefaultThreshold = 0.8

// MinPromptLength is the intrinsic floor on normalized prompt length.
// Shorter texts (punctuation, "ok", "y") carry too little signal for
// edit-distance comparison and are dropped before counting. Callers that
// apply their own length filter do so on top of this floor.
const MinPromptLength = 4

// minLengthRatio is the shorter/longer length ratio below which two texts
// are rejected without computing edit distance. Texts differing in length by
// more than 2x cannot reach a useful similarity score, and the prefilter
// bounds the cost of the quadratic distance computation.
const minLengthRatio = 0.5

// MatchKind describes how a noise signature is tested against a prompt.
type MatchKind int

const (
	// MatchSubstring rejects prompts containing the marker anywhere.
	MatchSubstring MatchKind = iota
	// MatchPrefix rejects prompts starting with the marker.
	MatchPrefix
)

// NoiseSignature pairs a marker string with how it is matched.
type NoiseSignature struct {
	Marker string
	Kind   MatchKind
}

// NoiseSignatures lists markers of structural noise that shows up in prompt
// extractions: pasted code fragments, bundler chunk names, stack frames and
// markup. A prompt matching any entry is discarded during normalization.
// The table is data rather than control flow so tests can enumerate it.
var NoiseSignatures = []NoiseSignature{
	{Marker: "import ", Kind: MatchSubstring},
	{Marker: "export ", Kind: MatchSubstring},
	{Marker: "const ", Kind: MatchSubstring},
	{Marker: "function ", Kind: MatchSubstring},
	{Marker: "interface ", Kind: MatchSubstring},
	{Marker: ".js:", Kind: MatchSubstring},
	{Marker: ".ts:", Kind: MatchSubstring},
	{Marker: ".tsx:", Kind: MatchSubstring},
	{Marker: "chunk-", Kind: MatchSubstring},
	{Marker: "requestanimationframe", Kind: MatchSubstring},
	{Marker: "installhook", Kind: MatchSubstring},
	{Marker: "//", Kind: MatchPrefix},
	{Marker: "/*", Kind: MatchPrefix},
	{Marker: "```", Kind: MatchPrefix},
	{Marker: "[", Kind: MatchPrefix},
	{Marker: "{", Kind: MatchPrefix},
	{Marker: "<", Kind: MatchPrefix},
}

// PromptCluster is a group of near-duplicate normalized prompts.
type PromptCluster struct {
	// Canonical is the representative text, fixed to the first text assigned
	// to the cluster and never changed afterwards.
	Canonical string `json:"canonical"`

	// Variants holds every distinct normalized text assigned to the cluster,
	// in assignment order. The first element always equals Canonical.
	Variants []string `json:"variants"`

	// Count is the total number of raw occurrences across all variants.
	Count int `json:"count"`
}

// Deduper clusters prompts at a fixed similarity threshold. It holds no
// other state, so a single instance may be shared across concurrent Cluster
// calls.
type Deduper struct {
	threshold float64
}

// New returns a Deduper with the given similarity threshold in (0.0, 1.0].
// Out-of-range values fall back to DefaultThreshold.
func New(threshold float64) *Deduper {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultThreshold
	}
	return &Deduper{threshold: threshold}
}

// Default returns a Deduper using DefaultThreshold.
func Default() *Deduper {
	return New(DefaultThreshold)
}

// Threshold reports the similarity threshold the Deduper was built with.
func (d *Deduper) Threshold() float64 {
	return d.threshold
}

// Normalize maps a raw prompt to its canonical comparison form: trimmed and
// lower-cased. It returns the empty string when the text matches any noise
// signature, marking the prompt as discarded. No stemming, Unicode folding
// or punctuation stripping is applied; similarity scoring works best on the
// natural-language phrasing as typed.
func Normalize(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	for _, sig := range NoiseSignatures {
		switch sig.Kind {
		case MatchPrefix:
			if strings.HasPrefix(s, sig.Marker) {
				return ""
			}
		default:
			if strings.Contains(s, sig.Marker) {
				return ""
			}
		}
	}
	return s
}

// IsSimilar reports whether a and b are near-duplicates at the Deduper's
// threshold. Equal strings match immediately; strings whose lengths differ
// by more than 2x never match. Otherwise the normalized similarity
// 1 - distance/maxLen must reach the threshold, with equality counting as
// similar.
func (d *Deduper) IsSimilar(a, b string) bool {
	if a == b {
		return true
	}

	lenA := utf8.RuneCountInString(a)
	lenB := utf8.RuneCountInString(b)
	if lenA == 0 || lenB == 0 {
		return false
	}

	shorter, longer := lenA, lenB
	if shorter > longer {
		shorter, longer = longer, shorter
	}
	if float64(shorter)/float64(longer) < minLengthRatio {
		return false
	}

	distance := levenshtein.ComputeDistance(a, b)
	similarity := 1.0 - float64(distance)/float64(longer)
	return similarity >= d.threshold
}

// Cluster groups the raw prompts into clusters of near-duplicates, ordered
// by descending total count. Prompts that normalize to noise or fall below
// MinPromptLength are dropped. Every surviving distinct text lands in
// exactly one cluster, and each cluster's Count is the sum of its variants'
// occurrence counts. Pathological input (empty, all noise) yields an empty
// slice, never an error.
func (d *Deduper) Cluster(prompts []string) []PromptCluster {
	items := countOccurrences(prompts)

	clusters := make([]PromptCluster, 0, len(items))
	for _, item := range items {
		matched := false
		for i := range clusters {
			if d.IsSimilar(item.text, clusters[i].Canonical) {
				clusters[i].Variants = append(clusters[i].Variants, item.text)
				clusters[i].Count += item.count
				matched = true
				break
			}
		}
		if !matched {
			clusters = append(clusters, PromptCluster{
				Canonical: item.text,
				Variants:  []string{item.text},
				Count:     item.count,
			})
		}
	}

	sort.SliceStable(clusters, func(i, j int) bool {
		return clusters[i].Count > clusters[j].Count
	})
	return clusters
}

type occurrence struct {
	text  string
	count int
	seen  int
}

// countOccurrences aggregates the normalized prompts into (text, count)
// pairs ranked by descending count. Ties are broken by first-seen order so
// clustering is reproducible for identical input.
func countOccurrences(prompts []string) []occurrence {
	counts := make(map[string]int, len(prompts))
	firstSeen := make(map[string]int, len(prompts))

	for _, prompt := range prompts {
		normalized := Normalize(prompt)
		if normalized == "" || utf8.RuneCountInString(normalized) < MinPromptLength {
			continue
		}
		if _, ok := counts[normalized]; !ok {
			firstSeen[normalized] = len(firstSeen)
		}
		counts[normalized]++
	}

	items := make([]occurrence, 0, len(counts))
	for text, count := range counts {
		items = append(items, occurrence{text: text, count: count, seen: firstSeen[text]})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].count != items[j].count {
			return items[i].count > items[j].count
		}
		return items[i].seen < items[j].seen
	})
	return items
}
