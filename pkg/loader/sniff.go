package loader

import "slices"

// Sniffer picks the field delimiter for a sample of delimited text.
type Sniffer interface {
	Sniff(sample []byte) rune
}

// DefaultCandidates are the delimiters FrequencySniffer considers, in tie-break order.
var DefaultCandidates = []rune{',', '\t', ';', '|'}

// DefaultSampleLines is the number of non-empty lines FrequencySniffer inspects.
const DefaultSampleLines = 5

// FrequencySniffer counts candidate delimiters on each of the first lines of
// the sample. A candidate that occurs the same nonzero number of times on
// every line wins, the highest such count first. When no candidate is
// consistent, the most frequent candidate on the header line is used.
// Delimiters inside double-quoted sections are ignored. Ties resolve in
// candidate order, and a sample with no candidate at all yields the first
// candidate.
type FrequencySniffer struct {
	Candidates  []rune
	SampleLines int
}

// Sniff implements Sniffer.
func (s FrequencySniffer) Sniff(sample []byte) rune {
	candidates := s.Candidates
	if len(candidates) == 0 {
		candidates = DefaultCandidates
	}
	limit := s.SampleLines
	if limit <= 0 {
		limit = DefaultSampleLines
	}

	lines := countLines(sample, candidates, limit)
	if len(lines) == 0 {
		return candidates[0]
	}
	header := lines[0]

	best, bestN := candidates[0], 0
	for _, c := range candidates {
		n := header[c]
		if n <= bestN {
			continue
		}
		if consistent(lines, c, n) {
			best, bestN = c, n
		}
	}
	if bestN > 0 {
		return best
	}

	for _, c := range candidates {
		if header[c] > bestN {
			best, bestN = c, header[c]
		}
	}
	return best
}

// countLines returns per-line candidate counts for up to limit non-empty
// lines. A trailing line without a newline is only kept when it is the sole
// line, since the sample may have been cut mid-record.
func countLines(sample []byte, candidates []rune, limit int) []map[rune]int {
	var lines []map[rune]int
	counts := make(map[rune]int, len(candidates))
	inQuote := false
	hasContent := false

	for _, r := range string(sample) {
		switch {
		case r == '"':
			inQuote = !inQuote
			hasContent = true
		case inQuote:
			// quoted text never counts
		case r == '\n':
			if hasContent {
				lines = append(lines, counts)
				if len(lines) >= limit {
					return lines
				}
				counts = make(map[rune]int, len(candidates))
			}
			hasContent = false
		case r == '\r':
		default:
			hasContent = true
			if slices.Contains(candidates, r) {
				counts[r]++
			}
		}
	}
	if hasContent && len(lines) == 0 {
		lines = append(lines, counts)
	}
	return lines
}

func consistent(lines []map[rune]int, c rune, n int) bool {
	for _, line := range lines {
		if line[c] != n {
			return false
		}
	}
	return true
}

// Fixed is a Sniffer that always returns the same delimiter.
type Fixed rune

// Sniff implements Sniffer.
func (f Fixed) Sniff([]byte) rune {
	return rune(f)
}
