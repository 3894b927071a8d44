package store

import (
	"context"
	"strconv"

	"subtitle-workers/src/application/videos/entity"
	"subtitle-workers/src/lib/cerr"
	"subtitle-workers/src/lib/env"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
)

var (
	tableName = "Videos"
	idField   = "video_id"
)

var _ entity.VideoStore = DynamoDBVideoStore{}

func NewDynamoDBVideoStore(environment env.Environment) DynamoDBVideoStore {
	dbSession := session.Must(session.NewSession())

	config := aws.NewConfig().WithRegion("us-east-2").WithCredentials(credentials.NewEnvCredentials())

	if environment == env.Development {
		config = config.WithEndpoint("http://localhost:8000")
	}

	client := dynamodb.New(dbSession, config)
	return DynamoDBVideoStore{
		dynamoDBClient: client,
	}
}

type DynamoDBVideoStore struct {
	dynamoDBClient *dynamodb.DynamoDB
}

func (d DynamoDBVideoStore) GetVideo(_ context.Context, videoID string) (entity.Video, error) {
	consistentRead := true
	key := makeKey(videoID)

	output, err := d.dynamoDBClient.GetItem(&dynamodb.GetItemInput{
		ConsistentRead: &consistentRead,
		Key:            key,
		TableName:      &tableName,
	})

	if err != nil {
		return entity.Video{}, cerr.Field("video_id", videoID).
			Wrap(err).Error("Failed to get video record from DynamoDB")
	}

	if output.Item == nil {
		return entity.Video{}, cerr.Field("video_id", videoID).
			Error("No video record found for this ID")
	}

	video, err := videoFromDynamoItem(output.Item)
	if err != nil {
		return entity.Video{}, cerr.Field("video_id", videoID).
			Wrap(err).Error("Failed to convert DynamoDB item to a video record")
	}

	return video, nil
}

func (d DynamoDBVideoStore) SetVideo(_ context.Context, videoID string, video entity.Video) error {
	video.VideoID = videoID

	_, err := d.dynamoDBClient.PutItem(&dynamodb.PutItemInput{
		Item:      dynamoItemFromVideo(video),
		TableName: &tableName,
	})

	if err != nil {
		return cerr.Field("video_id", videoID).
			Wrap(err).Error("Failed to write video record to DynamoDB")
	}

	return nil
}

func (d DynamoDBVideoStore) UpdateVideo(ctx context.Context, videoID string, updater func(entity.Video) (entity.Video, error)) error {
	video, err := d.GetVideo(ctx, videoID)
	if err != nil {
		return cerr.Wrap(err).Error("Failed to get video record for update")
	}

	updatedVideo, err := updater(video)
	if err != nil {
		return cerr.Wrap(err).Error("Failed to apply the update to the video record")
	}

	if err := d.SetVideo(ctx, videoID, updatedVideo); err != nil {
		return cerr.Wrap(err).Error("Failed to write back the updated video record")
	}

	return nil
}

func makeKey(videoID string) map[string]*dynamodb.AttributeValue {
	keyValue := dynamodb.AttributeValue{}
	keyValue.SetS(videoID)

	return map[string]*dynamodb.AttributeValue{
		idField: &keyValue,
	}
}

func videoFromDynamoItem(item map[string]*dynamodb.AttributeValue) (entity.Video, error) {
	videoID, err := getStringField(item, idField)
	if err != nil {
		return entity.Video{}, cerr.Wrap(err).Error("Failed to get video ID")
	}

	sourceURL, err := getStringField(item, "source_url")
	if err != nil {
		return entity.Video{}, cerr.Wrap(err).Error("Failed to get source URL")
	}

	jobStatus, err := getStringField(item, "job_status")
	if err != nil {
		return entity.Video{}, cerr.Wrap(err).Error("Failed to get job status")
	}

	video := entity.Video{
		VideoID:           videoID,
		SourceURL:         sourceURL,
		JobStatus:         entity.JobStatus(jobStatus),
		JobStatusMessage:  getOptionalStringField(item, "job_status_message"),
		JobStatusDebugLog: getOptionalStringField(item, "job_status_debug_log"),
		JobProgress:       getOptionalNumberField(item, "job_progress"),
		SubtitleURLs:      getOptionalStringMapField(item, "subtitle_urls"),
	}

	return video, nil
}

func dynamoItemFromVideo(video entity.Video) map[string]*dynamodb.AttributeValue {
	item := map[string]*dynamodb.AttributeValue{}

	setStringField(item, idField, video.VideoID)
	setStringField(item, "source_url", video.SourceURL)
	setStringField(item, "job_status", string(video.JobStatus))
	setStringField(item, "job_status_message", video.JobStatusMessage)
	setStringField(item, "job_status_debug_log", video.JobStatusDebugLog)

	progressValue := dynamodb.AttributeValue{}
	progressValue.SetN(strconv.Itoa(video.JobProgress))
	item["job_progress"] = &progressValue

	if len(video.SubtitleURLs) > 0 {
		urlsValue := dynamodb.AttributeValue{}
		urlsValue.SetM(convertToAttributeValues(video.SubtitleURLs))
		item["subtitle_urls"] = &urlsValue
	}

	return item
}

func setStringField(item map[string]*dynamodb.AttributeValue, field string, value string) {
	if value == "" {
		return
	}

	attributeValue := dynamodb.AttributeValue{}
	attributeValue.SetS(value)
	item[field] = &attributeValue
}

func getStringField(item map[string]*dynamodb.AttributeValue, field string) (string, error) {
	value, ok := item[field]
	if !ok || value.S == nil {
		return "", cerr.Field("field", field).Error("Missing string field")
	}

	return *value.S, nil
}

func getOptionalStringField(item map[string]*dynamodb.AttributeValue, field string) string {
	value, ok := item[field]
	if !ok || value.S == nil {
		return ""
	}

	return *value.S
}

func getOptionalNumberField(item map[string]*dynamodb.AttributeValue, field string) int {
	value, ok := item[field]
	if !ok || value.N == nil {
		return 0
	}

	parsed, err := strconv.Atoi(*value.N)
	if err != nil {
		return 0
	}

	return parsed
}

func getOptionalStringMapField(item map[string]*dynamodb.AttributeValue, field string) map[string]string {
	value, ok := item[field]
	if !ok || value.M == nil {
		return nil
	}

	output := map[string]string{}
	for k, v := range value.M {
		if v.S != nil {
			output[k] = *v.S
		}
	}

	return output
}

func convertToAttributeValues(m map[string]string) map[string]*dynamodb.AttributeValue {
	output := map[string]*dynamodb.AttributeValue{}

	for k, v := range m {
		attributeValue := dynamodb.AttributeValue{}
		attributeValue.SetS(v)
		output[k] = &attributeValue
	}

	return output
}
