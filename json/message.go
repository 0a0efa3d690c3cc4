package json

import (
	"fmt"
	"time"

	"github.com/fwojciec/campus"
)

// messageDTO is the JSON representation of a Message with a role discriminator.
type messageDTO struct {
	Role          string    `json:"role"`
	Content       string    `json:"content"`
	Timestamp     time.Time `json:"timestamp"`
	StopReason    *string   `json:"stop_reason,omitempty"`
	RawStopReason *string   `json:"raw_stop_reason,omitempty"`
	Usage         *usageDTO `json:"usage,omitempty"`
}

type usageDTO struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

func marshalMessage(msg campus.Message) (messageDTO, error) {
	switch m := msg.(type) {
	case campus.UserMessage:
		return messageDTO{
			Role:      string(campus.RoleUser),
			Content:   m.Content,
			Timestamp: m.Timestamp,
		}, nil
	case campus.AssistantMessage:
		sr := string(m.StopReason)
		return messageDTO{
			Role:          string(campus.RoleAssistant),
			Content:       m.Content,
			Timestamp:     m.Timestamp,
			StopReason:    &sr,
			RawStopReason: &m.RawStopReason,
			Usage:         &usageDTO{InputTokens: m.Usage.InputTokens, OutputTokens: m.Usage.OutputTokens},
		}, nil
	default:
		return messageDTO{}, fmt.Errorf("unknown message type: %T", msg)
	}
}

func unmarshalMessage(dto messageDTO) (campus.Message, error) {
	switch campus.Role(dto.Role) {
	case campus.RoleUser:
		return campus.UserMessage{Content: dto.Content, Timestamp: dto.Timestamp}, nil
	case campus.RoleAssistant:
		m := campus.AssistantMessage{Content: dto.Content, Timestamp: dto.Timestamp}
		if dto.StopReason != nil {
			m.StopReason = campus.StopReason(*dto.StopReason)
		}
		if dto.RawStopReason != nil {
			m.RawStopReason = *dto.RawStopReason
		}
		if dto.Usage != nil {
			m.Usage = campus.Usage{InputTokens: dto.Usage.InputTokens, OutputTokens: dto.Usage.OutputTokens}
		}
		return m, nil
	default:
		return nil, fmt.Errorf("unknown message role: %q", dto.Role)
	}
}

func marshalMessages(msgs []campus.Message) ([]messageDTO, error) {
	dtos := make([]messageDTO, len(msgs))
	for i, msg := range msgs {
		dto, err := marshalMessage(msg)
		if err != nil {
			return nil, fmt.Errorf("message %d: %w", i, err)
		}
		dtos[i] = dto
	}
	return dtos, nil
}
