package translate

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"subtitle-workers/src/application/llm"
	"subtitle-workers/src/application/segments"

	"github.com/apex/log"
)

// optimizeContextRange is how many neighbouring translations on each
// side are shown to the model as context for one segment.
const optimizeContextRange = 10

const (
	optimizeSystemPrompt  = "You are a transcription optimization expert."
	selectionSystemPrompt = "You are a transcription evaluation expert."
)

const optimizePromptExamples = "Here are some examples to guide you:\n" +
	"Example 1:\n" +
	"Original: The bank is closed today.\n" +
	"Context: 前文: We walked by the river yesterday. 后文: So we’ll have to withdraw money tomorrow.\n" +
	"Accurate Translation: 银行今天关门了。\n" +
	"(Reason: 'bank' refers to a financial institution, not a river bank, as clarified by the context.)\n\n" +
	"Example 2:\n" +
	"Original: She left the room in a hurry.\n" +
	"Context: 前文: The meeting is about to start. 后文: Because she forgot her files.\n" +
	"Accurate Translation: 她匆忙离开了房间。\n" +
	"(Reason: The context confirms that she left quickly due to the meeting and forgotten files.)\n\n" +
	"Example 3:\n" +
	"Original: I need to charge my phone.\n" +
	"Context: 前文: The battery is almost dead. 后文: Otherwise, I can’t contact you.\n" +
	"Accurate Translation: 我得给手机充个电。\n" +
	"(Reason: The context emphasizes the urgency, so a natural, colloquial translation is appropriate.)\n\n" +
	"Example 4:\n" +
	"Original: He’s working on a project.\n" +
	"Context: 前文: He’s been busy lately. 后文: This project is very important.\n" +
	"Accurate Translation: 他正在做一个项目。\n" +
	"(Reason: The context confirms the basic translation is accurate.)\n\n" +
	"Example 5:\n" +
	"Original: We watched Avatar last night.\n" +
	"Context: 前文: My friend recommended a movie. 后文: The effects were amazing.\n" +
	"Accurate Translation: 我们昨晚看了《阿凡达》。\n" +
	"(Reason: 'Avatar' is a proper noun for a movie, so it should be translated accordingly.)\n\n"

// OptimizeTranslations runs each machine translation past the model
// together with its surrounding translations, then asks the model to
// pick between the machine version and its own. The winning text is
// written back into basicTranslations so later segments see the refined
// context. Returns one final segment per input segment.
func OptimizeTranslations(
	ctx context.Context,
	client llm.Client,
	transcriptSegments []segments.Segment,
	basicTranslations []string,
	targetLanguage string,
) []segments.Segment {
	finalSegments := make([]segments.Segment, 0, len(transcriptSegments))

	for i, segment := range transcriptSegments {
		contextText := buildTranslationContext(basicTranslations, i)

		chosenTranslation := basicTranslations[i]
		optimizedTranslation := optimizeOne(ctx, client, segment.Text, basicTranslations[i], contextText, targetLanguage)
		if optimizedTranslation != basicTranslations[i] {
			chosenTranslation = selectBetterTranslation(ctx, client, contextText, segment.Text, basicTranslations[i], optimizedTranslation, targetLanguage)
		}
		basicTranslations[i] = chosenTranslation

		segment.Text = chosenTranslation
		finalSegments = append(finalSegments, segment)
	}

	return finalSegments
}

func buildTranslationContext(basicTranslations []string, index int) string {
	contextParts := []string{}

	if index > 0 {
		startIdx := index - optimizeContextRange
		if startIdx < 0 {
			startIdx = 0
		}
		contextParts = append(contextParts, "前文: "+strings.Join(basicTranslations[startIdx:index], "\n"))
	}

	if index < len(basicTranslations)-1 {
		endIdx := index + optimizeContextRange + 1
		if endIdx > len(basicTranslations) {
			endIdx = len(basicTranslations)
		}
		contextParts = append(contextParts, "后文: "+strings.Join(basicTranslations[index+1:endIdx], "\n"))
	}

	return strings.Join(contextParts, "\n")
}

func optimizeOne(ctx context.Context, client llm.Client, original string, basicTranslation string, contextText string, targetLanguage string) string {
	prompt := fmt.Sprintf(
		"You are an expert translator. Your task is to provide an accurate and natural \"%s language\" translation of the given original text. ",
		targetLanguage) +
		"Use the provided context to help understand the meaning of the original text, especially if there are ambiguities. " +
		"Do not add any information that is not present in the original text. Ensure that the translation is faithful to the original meaning. " +
		"Maintain consistency in proper nouns and technical terms. The basic translation is provided for reference but should not limit your translation.\n\n" +
		optimizePromptExamples +
		fmt.Sprintf("Now, provide an accurate \"%s language\" translation for the following original text:\n", targetLanguage) +
		"【Original】: " + original + "\n" +
		"【Context】: " + contextText + "\n" +
		"【Basic Translation (for reference)】: " + basicTranslation + "\n" +
		fmt.Sprintf("Output only the accurate \"%s language\" translation of the Original. Do not include any additional explanations or content.", targetLanguage)

	optimizedTranslation, err := client.Chat(ctx, optimizeSystemPrompt, prompt)
	if err != nil {
		log.Warn("Translation optimization failed, keeping the basic translation")
		return basicTranslation
	}

	optimizedTranslation = strings.TrimSpace(optimizedTranslation)
	if optimizedTranslation == "" {
		return basicTranslation
	}

	return optimizedTranslation
}

func selectBetterTranslation(
	ctx context.Context,
	client llm.Client,
	contextText string,
	original string,
	basicTranslation string,
	optimizedTranslation string,
	targetLanguage string,
) string {
	prompt := fmt.Sprintf(`
你是一位翻译专家，请根据上下文推断当前场景，
比较以下两种将原文翻译成目标语言 (%s) 的翻译结果，并选择更符合原文与上下文的版本：
【上下文】：
%s

【原文】：
%s

【翻译0】：
%s

【翻译1】：
%s

如果翻译0更好，返回数字 0；如果翻译1更好，返回数字 1。
仅返回一个数字。
`, targetLanguage, contextText, original, basicTranslation, optimizedTranslation)

	response, err := client.Chat(ctx, selectionSystemPrompt, prompt)
	if err != nil {
		log.Warn("Translation selection failed, keeping the basic translation")
		return basicTranslation
	}

	choice, err := strconv.Atoi(strings.TrimSpace(response))
	if err != nil {
		log.WithField("response", response).Warn("Translation selection returned a non numeric response")
		return basicTranslation
	}

	if choice == 0 {
		return basicTranslation
	}

	return optimizedTranslation
}
