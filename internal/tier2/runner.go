// Package tier2 runs the fast, local, per-chunk statistical extraction:
// entities and keywords plus language detection. Both sub-operations are
// pluggable pure functions; the runner owns their concurrent execution
// and per-branch failure isolation.
package tier2

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Result is the tier-2 record attached to every chunk.
type Result struct {
	Entities []string `json:"entities"`
	Keywords []string `json:"keywords"`
	Language string   `json:"language"`
}

// ExtractFunc produces entities and keywords from text.
type ExtractFunc func(text string) (entities []string, keywords []string, err error)

// DetectLanguageFunc returns an ISO 639-1 language code for text.
type DetectLanguageFunc func(text string) (string, error)

type Runner struct {
	extract ExtractFunc
	detect  DetectLanguageFunc
	logger  *zap.Logger
}

// NewRunner builds a runner. Nil functions fall back to the built-in
// heuristic implementations.
func NewRunner(extract ExtractFunc, detect DetectLanguageFunc, logger *zap.Logger) *Runner {
	if extract == nil {
		extract = ExtractEntitiesAndKeywords
	}
	if detect == nil {
		detect = DetectLanguage
	}
	return &Runner{extract: extract, detect: detect, logger: logger}
}

// Run executes both sub-operations concurrently off the caller's
// goroutine and joins the results. A failing or panicking branch degrades
// only its own fields (entities/keywords to empty, language to
// "unknown"); the other branch's result is preserved. Run never fails.
func (r *Runner) Run(text string) Result {
	var (
		wg       sync.WaitGroup
		entities []string
		keywords []string
		nlpErr   error
		language string
		langErr  error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		defer recoverInto(&nlpErr)
		entities, keywords, nlpErr = r.extract(text)
	}()
	go func() {
		defer wg.Done()
		defer recoverInto(&langErr)
		language, langErr = r.detect(text)
	}()
	wg.Wait()

	result := Result{Entities: []string{}, Keywords: []string{}, Language: "unknown"}

	if nlpErr != nil {
		r.logger.Warn("tier2.nlp_failed", zap.Error(nlpErr))
	} else {
		if entities != nil {
			result.Entities = entities
		}
		if keywords != nil {
			result.Keywords = keywords
		}
	}

	if langErr != nil {
		r.logger.Warn("tier2.language_detection_failed", zap.Error(langErr))
	} else if language != "" {
		result.Language = language
	}

	r.logger.Debug("tier2.done",
		zap.Int("entities", len(result.Entities)),
		zap.Int("keywords", len(result.Keywords)),
		zap.String("language", result.Language))
	return result
}

func recoverInto(err *error) {
	if p := recover(); p != nil {
		*err = fmt.Errorf("panic: %v", p)
	}
}
