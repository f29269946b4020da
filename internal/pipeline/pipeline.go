package pipeline

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/google/uuid"

	"FinLens/internal/config"
	"FinLens/internal/fetcher"
	"FinLens/internal/model"
	"FinLens/internal/query"
	"FinLens/internal/report"
)

// Outcome is the answer to one configured question.
type Outcome struct {
	Number   int
	Question model.Question
	Answer   model.Answer
}

// Run fetches the bucket into the working directory, then answers every
// configured question in order and prints one line per answer to out.
// Errors are logged, never returned: a failed fetch still lets the questions
// run against whatever is already on disk. f may be nil to skip fetching.
func Run(ctx context.Context, cfg *config.Config, f *fetcher.Fetcher, out io.Writer) []Outcome {
	runID := uuid.NewString()
	log.Printf("[INFO] run %s started, work dir %s", runID, cfg.WorkDir)

	if f != nil && !cfg.Storage.SkipFetch {
		res, err := f.Fetch(ctx, cfg.Storage.Bucket, cfg.WorkDir)
		if err != nil {
			log.Printf("[ERROR] An error occurred: %v", err)
		}
		log.Printf("[INFO] run %s: %s", runID, report.FormatFetchSummary(res))
	}

	engine := query.NewEngine(cfg.WorkDir)
	var outcomes []Outcome
	for i, q := range cfg.Questions {
		n := i + 1
		if q.Skip {
			log.Printf("[INFO] question %d (%s) skipped", n, q.Kind)
			continue
		}
		if err := ctx.Err(); err != nil {
			log.Printf("[WARN] run %s cancelled before question %d: %v", runID, n, err)
			break
		}
		a := engine.Answer(q)
		if a.Err != nil {
			log.Printf("[INFO] question %d: %s: %v", n, a.Status, a.Err)
		}
		fmt.Fprintln(out, report.FormatAnswer(n, a))
		outcomes = append(outcomes, Outcome{Number: n, Question: q, Answer: a})
	}

	log.Printf("[INFO] run %s finished, %d answer(s)", runID, len(outcomes))
	return outcomes
}
