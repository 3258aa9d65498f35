package usecase

import "strings"

// DefaultSentencesPerChunk は1チャンクあたりの文の数です。
const DefaultSentencesPerChunk = 3

// ChunkText はテキストを文単位で分割し、maxSentences 文ごとにまとめます。
func ChunkText(text string, maxSentences int) []string {
	if maxSentences <= 0 {
		maxSentences = DefaultSentencesPerChunk
	}

	var (
		chunks []string
		buf    []string
	)
	flush := func() {
		if len(buf) == 0 {
			return
		}
		chunks = append(chunks, strings.Join(buf, ". ")+".")
		buf = buf[:0]
	}

	for _, s := range strings.Split(text, ".") {
		s = strings.Join(strings.Fields(s), " ")
		if s == "" {
			continue
		}
		buf = append(buf, s)
		if len(buf) >= maxSentences {
			flush()
		}
	}
	flush()
	return chunks
}
