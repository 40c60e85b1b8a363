package notify

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/kr/pretty"
	"github.com/steeple/steeple/pkg/model"
	"gopkg.in/yaml.v3"
)

// EventFixture is the YAML form of an event, with the created document inline.
type EventFixture struct {
	Type       model.EventType        `yaml:"type"`
	DocumentID string                 `yaml:"documentId"`
	ChatID     string                 `yaml:"chatId"`
	Document   map[string]interface{} `yaml:"document"`
}

func LoadEventFixture(path string) (*model.Event, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return ParseEventFixture(contents)
}

func ParseEventFixture(contents []byte) (*model.Event, error) {
	var fixture EventFixture
	if err := yaml.Unmarshal(contents, &fixture); err != nil {
		return nil, fmt.Errorf("parse event fixture: %w", err)
	}

	if fixture.Type == "" || fixture.DocumentID == "" {
		return nil, fmt.Errorf("event fixture needs a type and documentId")
	}

	var document interface{}
	if fixture.Document != nil {
		document = fixture.Document
	}

	event, err := model.NewEvent(fixture.Type, fixture.DocumentID, document)
	if err != nil {
		return nil, err
	}

	if fixture.ChatID != "" {
		event.WithChat(fixture.ChatID)
	}

	return event, nil
}

// PrintingDispatcher writes payloads instead of sending them.
type PrintingDispatcher struct {
	Out io.Writer
}

func (d *PrintingDispatcher) Dispatch(ctx context.Context, payload *model.NotificationPayload) error {
	_, err := pretty.Fprintf(d.Out, "%# v\n", payload)
	return err
}
