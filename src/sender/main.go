package main

import (
	"os"

	"subtitle-workers/src/application/jobs/job_message"
	"subtitle-workers/src/application/jobs/start"

	"github.com/streadway/amqp"
)

func main() {
	rabbitURL := os.Getenv("RABBITMQ_URL")
	if rabbitURL == "" {
		panic("Can't get rabbitmq url")
	}

	videoID := "ad2fca6d-8c32-4030-86c0-8b5339347253"
	if len(os.Args) > 1 {
		videoID = os.Args[1]
	}

	conn, err := amqp.Dial(rabbitURL)
	if err != nil {
		panic(err)
	}
	defer conn.Close()

	rabbitChannel, err := conn.Channel()
	if err != nil {
		panic(err)
	}
	defer rabbitChannel.Close()

	queue, err := rabbitChannel.QueueDeclare(
		"test1",
		true,
		false,
		false,
		false,
		nil,
	)

	if err != nil {
		panic(err)
	}

	job, err := start.CreateJobMessage(videoID, job_message.PipelineOptions{
		TargetLanguage:     job_message.DefaultTargetLanguage,
		ModelSize:          job_message.DefaultModelSize,
		LLMBackend:         "gpt",
		UseLLMCorrection:   true,
		UseLLMSegmentation: true,
		UseLLMTranslation:  true,
	})
	if err != nil {
		panic(err)
	}

	job.DeliveryMode = amqp.Persistent
	job.ContentType = "application/json"

	err = rabbitChannel.Publish("", queue.Name, true, false, job)

	if err != nil {
		panic(err)
	}
}
