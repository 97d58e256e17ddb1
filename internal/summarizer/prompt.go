package summarizer

import (
	"fmt"
	"math"
	"time"
)

// Average speaking rate used to size summaries for a target duration.
const wordsPerMinute = 150

const summaryPrompt = `You are an expert scientific communicator tasked with creating audio-ready summaries of research papers.

TASK: Create a %d-minute spoken summary (approximately %d words) of the following scientific paper.

REQUIREMENTS:
1. **Audio-First Design**: Write for listening, not reading
   - Use clear, conversational language
   - Include natural transitions between sections
   - Avoid complex jargon without explanation

2. **Structure for Audio**:
   - Start with a compelling hook about the research significance
   - Provide clear section transitions ("Now, let's examine the methodology...")
   - End with practical implications and future directions

3. **Scientific Accuracy**:
   - Preserve key technical details and findings
   - Explain methodology in accessible terms
   - Include specific numbers and results where important

4. **Target Length**: Exactly %d words (plus or minus 50 words)

PAPER CONTENT:
%s

OUTPUT FORMAT:
Provide only the summary text, ready for text-to-speech conversion. No headers, bullet points, or formatting - just flowing, natural speech.`

// buildPrompt renders the instruction prompt for the given paper text and
// target spoken duration. Durations under a minute are rounded up.
func buildPrompt(text string, target time.Duration) string {
	minutes := targetMinutes(target)
	words := minutes * wordsPerMinute
	return fmt.Sprintf(summaryPrompt, minutes, words, words, text)
}

func targetMinutes(target time.Duration) int {
	minutes := int(math.Round(target.Minutes()))
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}
