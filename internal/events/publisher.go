package events

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"blog-api/internal/model"
)

type Publisher interface {
	PublishPostCreated(post *model.Post) error
	PublishCommentCreated(comment *model.Comment) error
}

type NatsPublisher struct {
	conn *nats.Conn
}

func NewNatsPublisher(natsURL string) (Publisher, error) {
	nc, err := nats.Connect(natsURL)
	if err != nil {
		return nil, err
	}

	return &NatsPublisher{conn: nc}, nil
}

type PostCreatedEvent struct {
	EventType string    `json:"event_type"`
	PostID    uuid.UUID `json:"post_id"`
	AuthorID  uuid.UUID `json:"author_id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}

type CommentCreatedEvent struct {
	EventType string    `json:"event_type"`
	CommentID uuid.UUID `json:"comment_id"`
	PostID    uuid.UUID `json:"post_id"`
	AuthorID  uuid.UUID `json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (p *NatsPublisher) PublishPostCreated(post *model.Post) error {
	event := PostCreatedEvent{
		EventType: "post.created",
		PostID:    post.ID,
		AuthorID:  post.AuthorID,
		Title:     post.Title,
		Slug:      post.Slug,
		CreatedAt: post.CreatedAt,
	}

	return p.publish("post.created", event)
}

func (p *NatsPublisher) PublishCommentCreated(comment *model.Comment) error {
	event := CommentCreatedEvent{
		EventType: "comment.created",
		CommentID: comment.ID,
		PostID:    comment.PostID,
		AuthorID:  comment.AuthorID,
		CreatedAt: comment.CreatedAt,
	}

	return p.publish("comment.created", event)
}

func (p *NatsPublisher) publish(subject string, event interface{}) error {
	eventJSON, err := json.Marshal(event)
	if err != nil {
		slog.Error("Error marshalling event JSON", "subject", subject, "error", err)
		return err
	}

	if err := p.conn.Publish(subject, eventJSON); err != nil {
		slog.Error("Error publishing to NATS", "subject", subject, "error", err)
		return err
	}

	slog.Debug("Published event to NATS", "subject", subject)

	return nil
}
