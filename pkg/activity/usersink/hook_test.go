package usersink

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-attrs/pkg/activity"
	usertypes "github.com/goliatone/go-users/pkg/types"
	"github.com/google/uuid"
)

type recordingSink struct {
	records []usertypes.ActivityRecord
	err     error
}

func (s *recordingSink) Log(_ context.Context, record usertypes.ActivityRecord) error {
	s.records = append(s.records, record)
	return s.err
}

func TestHookMapsEventToActivityRecord(t *testing.T) {
	sink := &recordingSink{}
	actorID := uuid.New()
	occurred := time.Now().Add(-time.Minute)

	err := Hook{Sink: sink}.Notify(context.Background(), activity.Event{
		Verb:       "attribute.updated",
		ActorID:    actorID.String(),
		ObjectType: "attribute",
		ObjectID:   "settings.volume",
		Channel:    "attributes",
		Metadata:   map[string]any{"key": "volume"},
		OccurredAt: occurred,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sink.records) != 1 {
		t.Fatalf("expected one record, got %d", len(sink.records))
	}

	record := sink.records[0]
	if record.Verb != "attribute.updated" || record.ObjectID != "settings.volume" {
		t.Fatalf("unexpected record: %+v", record)
	}
	if record.ActorID != actorID {
		t.Fatalf("expected parsed actor id, got %v", record.ActorID)
	}
	if record.UserID != uuid.Nil {
		t.Fatalf("missing user id should map to uuid.Nil, got %v", record.UserID)
	}
	if record.Data["key"] != "volume" {
		t.Fatalf("expected metadata forwarded, got %v", record.Data)
	}
	if !record.OccurredAt.Equal(occurred) {
		t.Fatalf("expected original timestamp, got %v", record.OccurredAt)
	}
}

func TestHookSkipsIncompleteEvents(t *testing.T) {
	sink := &recordingSink{}
	if err := (Hook{Sink: sink}).Notify(context.Background(), activity.Event{Verb: "attribute.added"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sink.records) != 0 {
		t.Fatalf("incomplete events must not reach the sink, got %d", len(sink.records))
	}
}

func TestHookWithoutSinkIsNoOp(t *testing.T) {
	err := Hook{}.Notify(context.Background(), activity.Event{
		Verb: "attribute.added", ObjectType: "attribute", ObjectID: "x",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestHookForwardsSinkFailure(t *testing.T) {
	boom := errors.New("sink down")
	sink := &recordingSink{err: boom}
	err := Hook{Sink: sink}.Notify(nil, activity.Event{
		Verb: "attribute.added", ObjectType: "attribute", ObjectID: "x",
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected sink failure, got %v", err)
	}
}
