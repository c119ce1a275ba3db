package enrich

import (
	"encoding/json"
	"fmt"
)

// 各通知类型的 details 负载结构。生产方写入什么字段这里就解什么字段，
// 缺失的字段按空值处理，不视为错误。

type commentDetails struct {
	ModelID   int64  `json:"modelId"`
	ModelName string `json:"modelName"`
	Username  string `json:"username"`
	CommentID int64  `json:"commentId"`
}

type reviewDetails struct {
	ModelID   int64  `json:"modelId"`
	ModelName string `json:"modelName"`
	Username  string `json:"username"`
	Rating    int    `json:"rating"`
}

type milestoneDetails struct {
	ModelID   int64  `json:"modelId"`
	ModelName string `json:"modelName"`
	Count     int64  `json:"count"`
}

type versionDetails struct {
	ModelID     int64  `json:"modelId"`
	ModelName   string `json:"modelName"`
	VersionName string `json:"versionName"`
}

type creatorModelDetails struct {
	ModelID   int64  `json:"modelId"`
	ModelName string `json:"modelName"`
	Username  string `json:"username"`
}

type announcementDetails struct {
	Message string `json:"message"`
	URL     string `json:"url"`
}

func modelURL(modelID int64) string {
	return fmt.Sprintf("/models/%d", modelID)
}

func init() {
	defaultRegistry.Register("new-comment", func(raw json.RawMessage) (Detail, error) {
		var d commentDetails
		if err := json.Unmarshal(raw, &d); err != nil {
			return Detail{}, err
		}
		return Detail{
			Message: fmt.Sprintf("%s commented on %s", d.Username, d.ModelName),
			URL:     fmt.Sprintf("/models/%d?commentId=%d", d.ModelID, d.CommentID),
		}, nil
	})

	defaultRegistry.Register("comment-reply", func(raw json.RawMessage) (Detail, error) {
		var d commentDetails
		if err := json.Unmarshal(raw, &d); err != nil {
			return Detail{}, err
		}
		return Detail{
			Message: fmt.Sprintf("%s replied to your comment on %s", d.Username, d.ModelName),
			URL:     fmt.Sprintf("/models/%d?commentId=%d", d.ModelID, d.CommentID),
		}, nil
	})

	defaultRegistry.Register("new-review", func(raw json.RawMessage) (Detail, error) {
		var d reviewDetails
		if err := json.Unmarshal(raw, &d); err != nil {
			return Detail{}, err
		}
		return Detail{
			Message: fmt.Sprintf("%s reviewed %s (%d/5)", d.Username, d.ModelName, d.Rating),
			URL:     modelURL(d.ModelID) + "?tab=reviews",
		}, nil
	})

	defaultRegistry.Register("download-milestone", func(raw json.RawMessage) (Detail, error) {
		var d milestoneDetails
		if err := json.Unmarshal(raw, &d); err != nil {
			return Detail{}, err
		}
		return Detail{
			Message: fmt.Sprintf("Congrats! %s reached %d downloads", d.ModelName, d.Count),
			URL:     modelURL(d.ModelID),
		}, nil
	})

	defaultRegistry.Register("favorite-milestone", func(raw json.RawMessage) (Detail, error) {
		var d milestoneDetails
		if err := json.Unmarshal(raw, &d); err != nil {
			return Detail{}, err
		}
		return Detail{
			Message: fmt.Sprintf("Congrats! %s reached %d favorites", d.ModelName, d.Count),
			URL:     modelURL(d.ModelID),
		}, nil
	})

	defaultRegistry.Register("model-version-published", func(raw json.RawMessage) (Detail, error) {
		var d versionDetails
		if err := json.Unmarshal(raw, &d); err != nil {
			return Detail{}, err
		}
		return Detail{
			Message: fmt.Sprintf("%s %s has been published", d.ModelName, d.VersionName),
			URL:     modelURL(d.ModelID),
		}, nil
	})

	defaultRegistry.Register("new-model-from-creator", func(raw json.RawMessage) (Detail, error) {
		var d creatorModelDetails
		if err := json.Unmarshal(raw, &d); err != nil {
			return Detail{}, err
		}
		return Detail{
			Message: fmt.Sprintf("%s published a new model: %s", d.Username, d.ModelName),
			URL:     modelURL(d.ModelID),
		}, nil
	})

	defaultRegistry.Register("system-announcement", func(raw json.RawMessage) (Detail, error) {
		var d announcementDetails
		if err := json.Unmarshal(raw, &d); err != nil {
			return Detail{}, err
		}
		return Detail{Message: d.Message, URL: d.URL}, nil
	})
}
