package queue

import (
	"encoding/json"
	"fmt"
)

// TypeScreeningCompleted is published after a screening run finishes.
const TypeScreeningCompleted = "screening.completed"

const messageVersion = 1

// Message is the payload sent to downstream queue consumers such as the
// issue tracker integration.
type Message struct {
	Type        string  `json:"type"`
	RunID       string  `json:"runId"`
	RequestID   string  `json:"requestId,omitempty"`
	JobID       string  `json:"jobId,omitempty"`
	ResultCount int     `json:"resultCount"`
	TopScore    float64 `json:"topScore"`
	ExportKey   string  `json:"exportKey,omitempty"`
	CompletedAt string  `json:"completedAt"`
	Version     int     `json:"version"`
}

// NewScreeningCompleted builds a versioned run-completed message.
func NewScreeningCompleted(runID, requestID, jobID string, resultCount int, topScore float64, exportKey, completedAt string) Message {
	return Message{
		Type:        TypeScreeningCompleted,
		RunID:       runID,
		RequestID:   requestID,
		JobID:       jobID,
		ResultCount: resultCount,
		TopScore:    topScore,
		ExportKey:   exportKey,
		CompletedAt: completedAt,
		Version:     messageVersion,
	}
}

// EncodeMessage returns the JSON representation of a message.
func EncodeMessage(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}

// DecodeMessage parses a JSON payload into a Message.
func DecodeMessage(payload []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(payload, &msg); err != nil {
		return Message{}, err
	}
	if msg.Version > messageVersion {
		return Message{}, fmt.Errorf("unsupported message version %d", msg.Version)
	}
	return msg, nil
}
