package rag

import (
	"regexp"
	"strings"
)

var sentenceSplitter = regexp.MustCompile(`[.!?]+`)

// SplitText segments text on sentence-terminal punctuation and greedily packs
// consecutive sentences into chunks of at most maxChunkSize characters.
// Sentences are folded back with a ". " separator, so the original terminal
// punctuation is not preserved verbatim. A single sentence longer than
// maxChunkSize is still emitted as its own chunk; there is no mid-sentence
// splitting.
func SplitText(text string, maxChunkSize int) []string {
	sentences := sentenceSplitter.Split(text, -1)

	var chunks []string
	current := ""
	for _, sentence := range sentences {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}

		if len(current)+len(sentence) < maxChunkSize {
			current += sentence + ". "
		} else {
			if current != "" {
				chunks = append(chunks, strings.TrimSpace(current))
			}
			current = sentence + ". "
		}
	}

	if current != "" {
		chunks = append(chunks, strings.TrimSpace(current))
	}

	return chunks
}
