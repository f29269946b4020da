package report

import (
	"fmt"
	"path/filepath"
	"strings"

	"FinLens/internal/fetcher"
	"FinLens/internal/model"
)

// FormatAnswer formats one answer line as printed to standard output.
func FormatAnswer(n int, a model.Answer) string {
	return fmt.Sprintf("Answer to Question %d: %s", n, a.Render())
}

// FormatFetchSummary formats the outcome of a fetch for the log.
func FormatFetchSummary(res *fetcher.Result) string {
	if res == nil {
		return "fetch: no result"
	}
	if res.Empty {
		return fmt.Sprintf("fetch %s: bucket empty", res.Bucket)
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("fetch %s: %d archive(s), %d file(s) extracted", res.Bucket, len(res.Downloaded), len(res.Extracted)))
	if len(res.Extracted) > 0 {
		b.WriteString(" [")
		for i, p := range res.Extracted {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(filepath.Base(p))
		}
		b.WriteString("]")
	}
	return b.String()
}
