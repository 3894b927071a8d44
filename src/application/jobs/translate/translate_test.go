package translate_test

import (
	"context"
	"encoding/json"
	"strings"

	"subtitle-workers/src/application/integration_test/dummy"
	"subtitle-workers/src/application/jobs/job_message"
	"subtitle-workers/src/application/jobs/save_subtitles"
	"subtitle-workers/src/application/jobs/translate"
	"subtitle-workers/src/application/llm"
	"subtitle-workers/src/application/publish/publishfakes"
	"subtitle-workers/src/application/segments"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Translate handler", func() {
	var (
		dummyNiutrans *dummy.Translator
		dummyGoogle   *dummy.Translator
		dummyClient   *dummy.LLMClient
		fakePublisher *publishfakes.FakePublisher

		handler translate.JobHandler

		videoID            string
		options            job_message.PipelineOptions
		detectedLanguage   string
		transcriptSegments []segments.Segment

		message []byte
	)

	publishedSegments := func() []segments.Segment {
		Expect(fakePublisher.PublishCallCount()).To(Equal(1))

		msg := fakePublisher.PublishArgsForCall(0)
		Expect(msg.Type).To(Equal(save_subtitles.JobType))

		var saveJob save_subtitles.JobParams
		Expect(json.Unmarshal(msg.Body, &saveJob)).To(Succeed())
		Expect(saveJob.VideoID).To(Equal(videoID))

		return saveJob.Segments
	}

	BeforeEach(func() {
		videoID = "video-ID"
		detectedLanguage = "en"

		dummyNiutrans = dummy.NewDummyTranslator()
		dummyGoogle = dummy.NewDummyTranslator()
		dummyClient = dummy.NewDummyLLMClient()
		fakePublisher = &publishfakes.FakePublisher{}

		options = job_message.PipelineOptions{
			TargetLanguage: "zh",
		}

		transcriptSegments = []segments.Segment{
			{Start: 0, End: 1, Text: "hello"},
			{Start: 1, End: 2, Text: "world"},
		}

		clientFactory := func(_ string, _ string) (llm.Client, error) {
			return dummyClient, nil
		}

		handler = translate.NewJobHandler(dummyNiutrans, dummyGoogle, clientFactory, fakePublisher)
	})

	JustBeforeEach(func() {
		job, err := translate.CreateJobMessage(videoID, options, detectedLanguage, transcriptSegments)
		Expect(err).NotTo(HaveOccurred())
		message = job.Body
	})

	Describe("Machine translation only", func() {
		It("publishes the translated segments", func() {
			err := handler.HandleMessage(message)
			Expect(err).NotTo(HaveOccurred())

			finalSegments := publishedSegments()
			Expect(finalSegments).To(HaveLen(2))
			Expect(finalSegments[0].Text).To(Equal("[zh] hello"))
			Expect(finalSegments[1].Text).To(Equal("[zh] world"))
		})

		It("preserves the segment timings", func() {
			err := handler.HandleMessage(message)
			Expect(err).NotTo(HaveOccurred())

			finalSegments := publishedSegments()
			Expect(finalSegments[0].Start).To(Equal(0.0))
			Expect(finalSegments[1].End).To(Equal(2.0))
		})

		It("uses the Google translator by default", func() {
			err := handler.HandleMessage(message)
			Expect(err).NotTo(HaveOccurred())

			Expect(dummyGoogle.Requests).To(HaveLen(2))
			Expect(dummyNiutrans.Requests).To(BeEmpty())
		})
	})

	Describe("Ollama backend", func() {
		BeforeEach(func() {
			options.LLMBackend = "ollama"
		})

		It("uses the key-based translator instead", func() {
			err := handler.HandleMessage(message)
			Expect(err).NotTo(HaveOccurred())

			Expect(dummyNiutrans.Requests).To(HaveLen(2))
			Expect(dummyGoogle.Requests).To(BeEmpty())
		})
	})

	Describe("Transcript already in the target language", func() {
		BeforeEach(func() {
			detectedLanguage = "zh-cn"
		})

		It("passes the segments through untranslated", func() {
			err := handler.HandleMessage(message)
			Expect(err).NotTo(HaveOccurred())

			finalSegments := publishedSegments()
			Expect(finalSegments).To(Equal(transcriptSegments))
			Expect(dummyGoogle.Requests).To(BeEmpty())
			Expect(dummyNiutrans.Requests).To(BeEmpty())
		})
	})

	Describe("LLM optimization enabled", func() {
		BeforeEach(func() {
			options.UseLLMTranslation = true

			dummyClient.ChatFunc = func(_ string, userPrompt string) string {
				if strings.Contains(userPrompt, "仅返回一个数字") {
					return "1"
				}
				return "optimized translation"
			}
		})

		It("publishes the model's preferred translation", func() {
			err := handler.HandleMessage(message)
			Expect(err).NotTo(HaveOccurred())

			finalSegments := publishedSegments()
			Expect(finalSegments[0].Text).To(Equal("optimized translation"))
		})
	})

	Describe("Malformed message", func() {
		It("returns an error", func() {
			err := handler.HandleMessage([]byte("not-json"))
			Expect(err).To(HaveOccurred())
		})
	})
})

var _ = Describe("OptimizeTranslations", func() {
	var (
		dummyClient        *dummy.LLMClient
		transcriptSegments []segments.Segment
		basicTranslations  []string
	)

	BeforeEach(func() {
		dummyClient = dummy.NewDummyLLMClient()

		transcriptSegments = []segments.Segment{
			{Start: 0, End: 1, Text: "hello", Speaker: "alice"},
			{Start: 1, End: 2, Text: "world"},
		}
		basicTranslations = []string{"你好", "世界"}
	})

	It("keeps the basic translation when the model returns nothing", func() {
		output := translate.OptimizeTranslations(context.Background(), dummyClient, transcriptSegments, basicTranslations, "zh")

		Expect(output).To(HaveLen(2))
		Expect(output[0].Text).To(Equal("你好"))
		Expect(output[1].Text).To(Equal("世界"))
	})

	It("keeps the basic translation when the selector prefers it", func() {
		dummyClient.ChatFunc = func(_ string, userPrompt string) string {
			if strings.Contains(userPrompt, "仅返回一个数字") {
				return "0"
			}
			return "别的"
		}

		output := translate.OptimizeTranslations(context.Background(), dummyClient, transcriptSegments, basicTranslations, "zh")
		Expect(output[0].Text).To(Equal("你好"))
	})

	It("adopts the optimized translation when the selector prefers it", func() {
		dummyClient.ChatFunc = func(_ string, userPrompt string) string {
			if strings.Contains(userPrompt, "仅返回一个数字") {
				return "1"
			}
			return "别的"
		}

		output := translate.OptimizeTranslations(context.Background(), dummyClient, transcriptSegments, basicTranslations, "zh")
		Expect(output[0].Text).To(Equal("别的"))
	})

	It("keeps the basic translation on a non numeric selector response", func() {
		dummyClient.ChatFunc = func(_ string, userPrompt string) string {
			if strings.Contains(userPrompt, "仅返回一个数字") {
				return "the first one"
			}
			return "别的"
		}

		output := translate.OptimizeTranslations(context.Background(), dummyClient, transcriptSegments, basicTranslations, "zh")
		Expect(output[0].Text).To(Equal("你好"))
	})

	It("preserves timings and speakers", func() {
		output := translate.OptimizeTranslations(context.Background(), dummyClient, transcriptSegments, basicTranslations, "zh")

		Expect(output[0].Start).To(Equal(0.0))
		Expect(output[0].End).To(Equal(1.0))
		Expect(output[0].Speaker).To(Equal("alice"))
	})

	It("feeds accepted translations into later context", func() {
		dummyClient.ChatFunc = func(_ string, userPrompt string) string {
			if strings.Contains(userPrompt, "仅返回一个数字") {
				return "1"
			}
			return "改过的"
		}

		_ = translate.OptimizeTranslations(context.Background(), dummyClient, transcriptSegments, basicTranslations, "zh")

		lastOptimizePrompt := ""
		for _, prompt := range dummyClient.Prompts {
			if strings.Contains(prompt, "【Original】: world") {
				lastOptimizePrompt = prompt
			}
		}

		Expect(lastOptimizePrompt).To(ContainSubstring("前文: 改过的"))
	})
})
