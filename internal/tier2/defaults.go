package tier2

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
)

const (
	maxEntities = 20
	maxKeywords = 10
	minWordLen  = 4
)

// stopwords per detectable language. Doubles as the language-detection
// profile set, so detection quality tracks the languages listed here.
var stopwords = map[string][]string{
	"en": {"the", "and", "for", "are", "but", "not", "you", "all", "with", "this", "that", "from", "have", "was", "were", "they", "will", "what", "when", "where", "which", "their", "there", "been", "has", "had", "can", "could", "would", "should", "into", "about", "than", "then", "them", "these", "some", "its", "also", "more", "most", "other", "such", "only", "over", "very"},
	"de": {"der", "die", "das", "und", "ist", "von", "mit", "den", "dem", "ein", "eine", "als", "auch", "auf", "aus", "bei", "nach", "wird", "sind", "nicht", "eines", "einer", "sich", "oder", "aber", "wenn", "nur", "noch", "wie", "ihre"},
	"fr": {"les", "des", "une", "est", "dans", "pour", "que", "qui", "sur", "avec", "pas", "par", "mais", "son", "ses", "aux", "ont", "cette", "comme", "tout", "nous", "vous", "ils", "elle", "sont", "plus"},
	"es": {"los", "las", "una", "del", "por", "con", "para", "que", "como", "mas", "pero", "sus", "este", "esta", "son", "entre", "cuando", "todo", "ser", "tiene", "tambien", "hasta", "desde", "nos"},
	"nl": {"het", "een", "van", "met", "aan", "ook", "als", "bij", "dan", "deze", "die", "door", "maar", "naar", "niet", "nog", "ons", "onze", "voor", "wordt", "zijn", "worden", "werd", "hebben"},
}

var allStopwords = func() map[string]bool {
	set := make(map[string]bool)
	for _, words := range stopwords {
		for _, w := range words {
			set[w] = true
		}
	}
	return set
}()

// ExtractEntitiesAndKeywords is the built-in statistical extractor:
// capitalized token runs as entity candidates, stopword-filtered
// frequency ranking for keywords. Single pass over the token stream.
func ExtractEntitiesAndKeywords(text string) ([]string, []string, error) {
	tokens := strings.Fields(text)
	if len(tokens) == 0 {
		return []string{}, []string{}, nil
	}

	entities := []string{}
	seen := make(map[string]bool)
	counts := make(map[string]int)

	var run []string
	runAtSentenceStart := false
	flush := func() {
		if len(run) == 0 {
			return
		}
		name := strings.Join(run, " ")
		run = nil
		// A lone capitalized word at a sentence start is usually just
		// capitalization, not a name.
		if runAtSentenceStart && !strings.Contains(name, " ") {
			return
		}
		if !seen[name] && len(entities) < maxEntities {
			seen[name] = true
			entities = append(entities, name)
		}
	}

	atSentenceStart := true
	for _, tok := range tokens {
		word := strings.TrimFunc(tok, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsNumber(r)
		})

		if word != "" && startsUpper(word) {
			if len(run) == 0 {
				runAtSentenceStart = atSentenceStart
			}
			run = append(run, word)
		} else {
			flush()
		}

		if word != "" {
			lower := strings.ToLower(word)
			if len(lower) >= minWordLen && !allStopwords[lower] {
				counts[lower]++
			}
		}

		atSentenceStart = endsSentence(tok)
		if atSentenceStart {
			flush()
		}
	}
	flush()

	type freq struct {
		word  string
		count int
	}
	ranked := make([]freq, 0, len(counts))
	for w, c := range counts {
		if c > 1 {
			ranked = append(ranked, freq{w, c})
		}
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].word < ranked[j].word
	})

	keywords := make([]string, 0, maxKeywords)
	for _, f := range ranked {
		if len(keywords) == maxKeywords {
			break
		}
		keywords = append(keywords, f.word)
	}

	return entities, keywords, nil
}

// DetectLanguage scores the text's words against per-language stopword
// profiles. Too little signal is an error so the caller can degrade the
// field to "unknown".
func DetectLanguage(text string) (string, error) {
	words := strings.Fields(strings.ToLower(text))
	if len(words) < 3 {
		return "", fmt.Errorf("insufficient text for language detection")
	}

	trimmed := make([]string, 0, len(words))
	for _, w := range words {
		t := strings.TrimFunc(w, func(r rune) bool { return !unicode.IsLetter(r) })
		if t != "" {
			trimmed = append(trimmed, t)
		}
	}

	best, bestScore := "", 0
	for lang, list := range stopwords {
		set := make(map[string]bool, len(list))
		for _, w := range list {
			set[w] = true
		}
		score := 0
		for _, w := range trimmed {
			if set[w] {
				score++
			}
		}
		if score > bestScore || (score == bestScore && score > 0 && lang < best) {
			best, bestScore = lang, score
		}
	}
	if bestScore == 0 {
		return "", fmt.Errorf("no language profile matched")
	}
	return best, nil
}

func startsUpper(word string) bool {
	for _, r := range word {
		return unicode.IsUpper(r)
	}
	return false
}

func endsSentence(tok string) bool {
	return strings.HasSuffix(tok, ".") || strings.HasSuffix(tok, "!") ||
		strings.HasSuffix(tok, "?") || strings.HasSuffix(tok, ":")
}
