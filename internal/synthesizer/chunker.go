package synthesizer

import "strings"

// splitChunks partitions text into ordered chunks no longer than limit,
// breaking at sentence boundaries. Greedy packing keeps the chunk count
// minimal for an in-order partition. A single sentence longer than the limit
// is split at word boundaries as a last resort.
func splitChunks(text string, limit int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if len(text) <= limit {
		return []string{text}
	}

	var chunks []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			chunks = append(chunks, current.String())
			current.Reset()
		}
	}

	for _, sentence := range splitSentences(text) {
		if len(sentence) > limit {
			// oversize sentence: pack its words instead
			flush()
			for _, piece := range splitWords(sentence, limit) {
				chunks = append(chunks, piece)
			}
			continue
		}

		if current.Len() > 0 && current.Len()+1+len(sentence) > limit {
			flush()
		}
		if current.Len() > 0 {
			current.WriteByte(' ')
		}
		current.WriteString(sentence)
	}
	flush()

	return chunks
}

// splitSentences cuts text into sentences, keeping each terminator. Paragraph
// breaks also end a sentence so chunk seams land on natural pauses.
func splitSentences(text string) []string {
	var out []string
	start := 0

	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '.', '!', '?':
			if i+1 == len(text) || text[i+1] == ' ' || text[i+1] == '\n' || text[i+1] == '\t' {
				if s := strings.TrimSpace(text[start : i+1]); s != "" {
					out = append(out, s)
				}
				start = i + 1
			}
		case '\n':
			if i+1 < len(text) && text[i+1] == '\n' {
				if s := strings.TrimSpace(text[start:i]); s != "" {
					out = append(out, s)
				}
				start = i + 1
			}
		}
	}

	if s := strings.TrimSpace(text[start:]); s != "" {
		out = append(out, s)
	}

	return out
}

// splitWords packs the words of one oversize sentence into limit-sized
// pieces. A single word longer than the limit is cut hard.
func splitWords(sentence string, limit int) []string {
	var out []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			out = append(out, current.String())
			current.Reset()
		}
	}

	for _, word := range strings.Fields(sentence) {
		for len(word) > limit {
			flush()
			out = append(out, word[:limit])
			word = word[limit:]
		}
		if word == "" {
			continue
		}

		if current.Len() > 0 && current.Len()+1+len(word) > limit {
			flush()
		}
		if current.Len() > 0 {
			current.WriteByte(' ')
		}
		current.WriteString(word)
	}
	flush()

	return out
}
