package queue

import (
	"encoding/json"
	"fmt"
)

type JobType string

const (
	// JobPrewarmRenditions generates all quality tiers ahead of the first
	// stream request.
	JobPrewarmRenditions JobType = "prewarm_renditions"
)

// TranscodeQueueKey is the redis list the server pushes to and the worker
// pops from.
const TranscodeQueueKey = "transcode_queue"

type Job struct {
	Type       JobType `json:"type"`
	CourseID   string  `json:"course_id"`
	SourcePath string  `json:"source_path"`
	Checksum   string  `json:"checksum"`
}

func SerializeJob(job Job) (string, error) {
	bytes, err := json.Marshal(job)
	if err != nil {
		return "", fmt.Errorf("failed to serialize job: %w", err)
	}
	return string(bytes), nil
}

func DeserializeJob(data string) (*Job, error) {
	var job Job
	if err := json.Unmarshal([]byte(data), &job); err != nil {
		return nil, fmt.Errorf("failed to deserialize job: %w", err)
	}
	return &job, nil
}
