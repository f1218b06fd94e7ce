package scan

import (
	"strings"

	"github.com/githubnext/coderadar/internal/detect"
	"github.com/githubnext/coderadar/internal/model"
)

const (
	// StreamingThreshold is the file-size cutoff above which detection runs
	// chunk-by-chunk instead of over the whole text at once (spec.md §4.4).
	StreamingThreshold = 1 << 20 // 1 MiB
	chunkSize          = 256 * 1024
	chunkOverlap       = 4096 // >= 256 bytes per spec.md §4.4 step 5d
)

// detectChunked runs Detect over text in overlapping windows so no single
// call holds more than chunkSize+chunkOverlap bytes of detector working
// set at once. Overlap is wide enough that every rule's longest match
// still falls entirely within one window; duplicate matches produced in
// the overlap region are deduped by Pattern.DedupKey before being merged.
//
// The blob itself is already fully materialized by forge.Client.GetBlob
// (the REST content field is JSON-decoded in one shot, same as the
// teacher's campaign_create_project_command.go Get() calls), so this
// chunking bounds detector memory rather than network memory; see
// DESIGN.md for why true streaming network reads were not wired.
func detectChunked(text, filePath string, ctx detect.RepositoryContext) detect.Result {
	if len(text) < StreamingThreshold {
		return detect.Detect(text, filePath, ctx)
	}

	var merged detect.Result
	seen := make(map[string]bool)

	for start := 0; start < len(text); start += chunkSize {
		end := start + chunkSize + chunkOverlap
		if end > len(text) {
			end = len(text)
		}
		chunk := text[start:end]
		lineOffset := strings.Count(text[:start], "\n")

		res := detect.Detect(chunk, filePath, ctx)
		for _, p := range res.Patterns {
			p.LineStart += lineOffset
			p.LineEnd += lineOffset
			key := p.DedupKey() + "\x00" + itoaLine(p.LineStart)
			if seen[key] {
				continue
			}
			seen[key] = true
			merged.Patterns = append(merged.Patterns, p)
		}
		for _, f := range res.Security {
			if f.LineNumber > 0 {
				f.LineNumber += lineOffset
			}
			merged.Security = appendUniqueSecurity(merged.Security, f)
		}
		for _, f := range res.TypeSafety {
			if f.LineNumber > 0 {
				f.LineNumber += lineOffset
			}
			merged.TypeSafety = append(merged.TypeSafety, f)
		}
		for _, f := range res.Performance {
			if f.LineNumber > 0 {
				f.LineNumber += lineOffset
			}
			merged.Performance = appendUniquePerformance(merged.Performance, f)
		}
		if end == len(text) {
			break
		}
	}

	return merged
}

func itoaLine(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

func appendUniqueSecurity(dst []model.SecurityFinding, f model.SecurityFinding) []model.SecurityFinding {
	for _, existing := range dst {
		if existing.Type == f.Type && existing.LineNumber == f.LineNumber {
			return dst
		}
	}
	return append(dst, f)
}

func appendUniquePerformance(dst []model.PerformanceFinding, f model.PerformanceFinding) []model.PerformanceFinding {
	for _, existing := range dst {
		if existing.Type == f.Type && existing.LineNumber == f.LineNumber {
			return dst
		}
	}
	return append(dst, f)
}
