package activity

import (
	"strings"
	"time"
)

// Source identifies who and where a change originated, applied to every
// event a wrapper emits.
type Source struct {
	ActorID  string
	UserID   string
	TenantID string
	Channel  string
}

// IsZero reports whether the source carries no identity at all.
func (s Source) IsZero() bool {
	return s.ActorID == "" && s.UserID == "" && s.TenantID == "" && s.Channel == ""
}

// AttributeEventInput describes the common fields for attribute change events.
type AttributeEventInput struct {
	Source     Source
	Record     string
	Key        string
	OldValue   any
	NewValue   any
	Metadata   map[string]any
	OccurredAt time.Time
}

// BuildAttributeAddedEvent constructs a normalized event for a newly created
// attribute.
func BuildAttributeAddedEvent(input AttributeEventInput) Event {
	return buildAttributeEvent("attribute.added", input)
}

// BuildAttributeUpdatedEvent constructs a normalized event for an overwritten
// attribute value.
func BuildAttributeUpdatedEvent(input AttributeEventInput) Event {
	return buildAttributeEvent("attribute.updated", input)
}

// BuildAttributeDeletedEvent constructs a normalized event for a removed
// attribute.
func BuildAttributeDeletedEvent(input AttributeEventInput) Event {
	return buildAttributeEvent("attribute.deleted", input)
}

func buildAttributeEvent(verb string, input AttributeEventInput) Event {
	metadata := cloneMap(input.Metadata)
	if input.Record != "" {
		metadata = ensureMetadata(metadata)
		metadata["record"] = input.Record
	}
	if input.Key != "" {
		metadata = ensureMetadata(metadata)
		metadata["key"] = input.Key
	}
	if input.OldValue != nil {
		metadata = ensureMetadata(metadata)
		metadata["old_value"] = input.OldValue
	}
	if input.NewValue != nil {
		metadata = ensureMetadata(metadata)
		metadata["new_value"] = input.NewValue
	}

	objectID := strings.TrimSpace(input.Key)
	if record := strings.TrimSpace(input.Record); record != "" && objectID != "" {
		objectID = record + "." + objectID
	}
	if objectID == "" {
		objectID = "attribute"
	}

	return Event{
		Verb:       verb,
		ActorID:    strings.TrimSpace(input.Source.ActorID),
		UserID:     strings.TrimSpace(input.Source.UserID),
		TenantID:   strings.TrimSpace(input.Source.TenantID),
		ObjectType: "attribute",
		ObjectID:   objectID,
		Channel:    strings.TrimSpace(input.Source.Channel),
		Metadata:   metadata,
		OccurredAt: input.OccurredAt,
	}
}

func ensureMetadata(meta map[string]any) map[string]any {
	if meta == nil {
		return map[string]any{}
	}
	return meta
}
