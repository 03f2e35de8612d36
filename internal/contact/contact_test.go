package contact

import (
	"context"
	"encoding/csv"
	"errors"
	"strings"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

func TestSubmitStoresSubmission(t *testing.T) {
	svc := NewService(NewMemoryRepository())

	sub, err := svc.Submit(context.Background(), SubmitRequest{
		Name:    "Jordan Lee",
		Email:   "jordan@client.test",
		Message: "We need a new website.",
		Source:  "homepage",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if sub.Name != "Jordan Lee" || sub.ReadAt != nil {
		t.Fatalf("unexpected submission %+v", sub)
	}
}

func TestSubmitValidatesPayload(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	cases := []SubmitRequest{
		{Email: "a@b.test", Message: "hello"},
		{Name: "Jordan", Message: "hello"},
		{Name: "Jordan", Email: "not-an-email", Message: "hello"},
		{Name: "Jordan", Email: "a@b.test"},
	}
	for i, req := range cases {
		_, err := svc.Submit(ctx, req)
		if err == nil {
			t.Fatalf("case %d: expected validation error", i)
		}
		if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
			t.Fatalf("case %d: expected validation category, got %v", i, err)
		}
	}
}

func TestMarkReadStampsOnce(t *testing.T) {
	now := time.Date(2024, 7, 2, 8, 0, 0, 0, time.UTC)
	svc := NewService(NewMemoryRepository(), WithClock(func() time.Time { return now }))
	ctx := context.Background()

	sub, err := svc.Submit(ctx, SubmitRequest{Name: "Sam", Email: "sam@client.test", Message: "hi"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	read, err := svc.MarkRead(ctx, sub.ID)
	if err != nil {
		t.Fatalf("mark read: %v", err)
	}
	if read.ReadAt == nil || !read.ReadAt.Equal(now) {
		t.Fatalf("expected read_at %v, got %v", now, read.ReadAt)
	}

	again, err := svc.MarkRead(ctx, sub.ID)
	if err != nil {
		t.Fatalf("re-mark read: %v", err)
	}
	if !again.ReadAt.Equal(now) {
		t.Fatalf("mark read should not restamp")
	}
}

func TestExportCSVWritesHeaderAndRows(t *testing.T) {
	base := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	svc := NewService(NewMemoryRepository(), WithClock(func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}))
	ctx := context.Background()

	if _, err := svc.Submit(ctx, SubmitRequest{Name: "First", Email: "first@client.test", Message: "older"}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := svc.Submit(ctx, SubmitRequest{Name: "Second", Email: "second@client.test", Message: "newer, with a comma"}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	var buf strings.Builder
	if err := ExportCSV(ctx, svc, &buf); err != nil {
		t.Fatalf("export: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	if err != nil {
		t.Fatalf("parse export: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(records))
	}
	if records[0][0] != "id" || records[0][8] != "created_at" {
		t.Fatalf("unexpected header %v", records[0])
	}
	// newest first
	if records[1][1] != "Second" || records[2][1] != "First" {
		t.Fatalf("expected newest-first ordering, got %v / %v", records[1], records[2])
	}
	if records[1][5] != "newer, with a comma" {
		t.Fatalf("message with comma not round-tripped: %q", records[1][5])
	}
}

func TestDeleteUnknownSubmission(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	sub, err := svc.Submit(ctx, SubmitRequest{Name: "Gone", Email: "gone@client.test", Message: "bye"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if err := svc.Delete(ctx, sub.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	var notFound *NotFoundError
	if _, err := svc.Get(ctx, sub.ID); !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}
