package refine

import (
	"context"
	"fmt"
	"strings"

	"subtitle-workers/src/application/llm"
	"subtitle-workers/src/application/segments"

	"github.com/apex/log"
)

// maxMergedSpanSeconds caps how long a merged subtitle may run on
// screen. Pairs whose combined span exceeds this are never merged.
const maxMergedSpanSeconds = 4

const mergeSystemPrompt = "You are a subtitle optimization expert."

const mergePromptHeader = "You are an expert in optimizing video subtitles. Your task is to determine whether two transcription segments should be merged into one subtitle. " +
	"Merge them only if: (1) each segment alone does not express a complete meaning and could be ambiguous or unclear, and (2) merging them forms a complete and coherent sentence. " +
	"If each segment can stand alone with a clear meaning (even if not a full sentence), do not merge them. " +
	"Consider the context and semantics carefully.\n\n" +
	"Here are some examples to guide you:\n" +
	"Example 1:\n" +
	"[Segment 1] Text: '你们在干'\n" +
	"[Segment 2] Text: '什么'\n" +
	"Result: 'Merge' (Reason: '你们在干' and '什么' are incomplete alone; together they form '你们在干什么', a complete question.)\n\n" +
	"Example 2:\n" +
	"[Segment 1] Text: '小明昨天吃了人'\n" +
	"[Segment 2] Text: '参，非常补'\n" +
	"Result: 'Merge' (Reason: '小明昨天吃了人' is ambiguous and alarming alone; '参，非常补' is incomplete; together they form '小明昨天吃了人参，非常补', a clear sentence.)\n\n" +
	"Example 3:\n" +
	"[Segment 1] Text: '我刚才跑步去了'\n" +
	"[Segment 2] Text: '所以有点累'\n" +
	"Result: 'Do not merge' (Reason: '我刚才跑步去了' and '所以有点累' each express a clear meaning independently.)\n\n" +
	"Example 4:\n" +
	"[Segment 1] Text: '他在看'\n" +
	"[Segment 2] Text: '电视'\n" +
	"Result: 'Merge' (Reason: '他在看' is incomplete and unclear; '电视' alone lacks context; together they form '他在看电视', a complete sentence.)\n\n" +
	"Example 5:\n" +
	"[Segment 1] Text: '今天天气很好'\n" +
	"[Segment 2] Text: '适合出去玩'\n" +
	"Result: 'Do not merge' (Reason: Both '今天天气很好' and '适合出去玩' are clear and meaningful independently.)\n\n" +
	"Now, determine whether the following two segments should be merged:\n"

// MergeSegments walks adjacent segment pairs and lets the model decide
// whether they read as one fragmented sentence. Merged neighbours are
// re-tested against their new successor, so a three-way split can still
// collapse into one subtitle.
func MergeSegments(ctx context.Context, client llm.Client, allSegments []segments.Segment) []segments.Segment {
	if len(allSegments) == 0 {
		return allSegments
	}

	merged := append([]segments.Segment{}, allSegments...)

	i := 0
	for i < len(merged)-1 {
		first := merged[i]
		second := merged[i+1]

		if strings.TrimSpace(first.Text) == "" || strings.TrimSpace(second.Text) == "" {
			i++
			continue
		}

		if second.End-first.Start > maxMergedSpanSeconds {
			i++
			continue
		}

		if !shouldMerge(ctx, client, first, second) {
			i++
			continue
		}

		first.Text = strings.TrimSpace(first.Text) + " " + strings.TrimSpace(second.Text)
		first.End = second.End
		merged[i] = first
		merged = append(merged[:i+1], merged[i+2:]...)
	}

	return merged
}

func shouldMerge(ctx context.Context, client llm.Client, first segments.Segment, second segments.Segment) bool {
	prompt := mergePromptHeader +
		fmt.Sprintf("[Segment 1] Start time: %v seconds, End time: %v seconds, Text: '%s'\n", first.Start, first.End, first.Text) +
		fmt.Sprintf("[Segment 2] Start time: %v seconds, End time: %v seconds, Text: '%s'\n", second.Start, second.End, second.Text) +
		"Respond with only 'Merge' or 'Do not merge'."

	answer, err := client.Chat(ctx, mergeSystemPrompt, prompt)
	if err != nil {
		log.Warn("Merge decision failed, leaving segments unmerged")
		return false
	}

	if answer == "" {
		return false
	}

	if strings.Contains(strings.ToLower(answer), "not") || strings.Contains(answer, "不") {
		return false
	}

	return true
}
