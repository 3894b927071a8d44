package refine

import (
	"context"
	"fmt"
	"strings"

	"subtitle-workers/src/application/llm"
	"subtitle-workers/src/application/segments"

	"github.com/apex/log"
)

// contextRange is how many neighbouring segments on each side are shown
// to the model when correcting a single segment.
const contextRange = 10

const correctionSystemPrompt = "You are a transcription correction expert."

const correctionPromptHeader = "You are an expert in correcting transcription errors across multiple languages. \n" +
	"Your task is to correct transcription errors in the given segment, using the provided context from surrounding segments. \n" +
	"Errors may include misheard words, homophones, or other common transcription mistakes. \n" +
	"Only correct errors that you are 100% certain about, and do not modify content that is not erroneous. \n" +
	"Maintain the original language and do not change the language.\n\n" +
	"Here are some examples to guide you:\n\n" +
	"Example 1:\n" +
	"Previous context: I've already run a kilometer.\n" +
	"Current segment: I feel thirty.\n" +
	"Corrected text: I feel thirsty.\n\n" +
	"Example 2:\n" +
	"Previous context: 昨日、おばあさんに会いました。\n" +
	"Current segment: 彼女は私の obasan です。\n" +
	"Corrected text: 彼女は私の おばさん です。\n\n" +
	"Example 3:\n" +
	"Previous context: 我昨天买了一匹马。\n" +
	"Current segment: 我妈很喜欢它。\n" +
	"Corrected text: 我妈很喜欢它。\n\n" +
	"Example 4:\n" +
	"Previous context: 我在学习日本語。\n" +
	"Current segment: 我的 sensei はとても厳しいです。\n" +
	"Corrected text: 我的 先生 はとても厳しいです。\n\n" +
	"Example 5:\n" +
	"Previous context: We visited the Eiffel Tower in Paris.\n" +
	"Current segment: It was an amazing experience in Parry.\n" +
	"Corrected text: It was an amazing experience in Paris.\n\n" +
	"Now, correct the following segment using the provided context:\n\n"

// CorrectSegments asks the model to fix transcription mistakes in each
// segment, one at a time, with surrounding segments supplied as context.
// A failed or empty response leaves that segment's original text intact.
func CorrectSegments(ctx context.Context, client llm.Client, allSegments []segments.Segment) []segments.Segment {
	if len(allSegments) == 0 {
		return allSegments
	}

	corrected := make([]segments.Segment, 0, len(allSegments))
	for i, segment := range allSegments {
		if strings.TrimSpace(segment.Text) == "" {
			corrected = append(corrected, segment)
			continue
		}

		prompt := buildCorrectionPrompt(allSegments, i)
		correctedText, err := client.Chat(ctx, correctionSystemPrompt, prompt)
		if err != nil {
			log.WithField("segment_index", i).Warn("Correction failed, keeping original text")
			corrected = append(corrected, segment)
			continue
		}

		correctedText = strings.TrimSpace(correctedText)
		if correctedText != "" {
			segment.Text = correctedText
		}
		corrected = append(corrected, segment)
	}

	return corrected
}

func buildCorrectionPrompt(allSegments []segments.Segment, index int) string {
	contextSection := ""

	startIdx := index - contextRange
	if startIdx < 0 {
		startIdx = 0
	}
	previousContext := nonEmptyTexts(allSegments[startIdx:index])
	if len(previousContext) > 0 {
		contextSection += "Previous context: " + strings.Join(previousContext, " ") + "\n"
	}

	endIdx := index + contextRange + 1
	if endIdx > len(allSegments) {
		endIdx = len(allSegments)
	}
	nextContext := nonEmptyTexts(allSegments[index+1 : endIdx])
	if len(nextContext) > 0 {
		contextSection += "Next context: " + strings.Join(nextContext, " ") + "\n"
	}

	return correctionPromptHeader +
		fmt.Sprintf("%s\n\nCurrent segment to correct: %s\n\n", contextSection, allSegments[index].Text) +
		"Output only the corrected text of the current segment. Do not include any additional explanations, comments, or content.\n"
}

func nonEmptyTexts(segmentRange []segments.Segment) []string {
	texts := []string{}
	for _, segment := range segmentRange {
		if strings.TrimSpace(segment.Text) != "" {
			texts = append(texts, segment.Text)
		}
	}

	return texts
}
