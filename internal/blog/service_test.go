package blog_test

import (
	"context"
	"strings"
	"testing"

	"github.com/agencykit/cms/internal/blog"
	"github.com/agencykit/cms/internal/domain"
)

func TestBlogCreateRendersMarkdown(t *testing.T) {
	svc := blog.NewService(blog.NewMemoryRepository())

	post, err := svc.Create(context.Background(), blog.CreatePostRequest{
		Title:        "Launching Our New Site",
		BodyMarkdown: "# Hello\n\nSome **bold** copy.",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if !strings.Contains(post.BodyHTML, "<h1") {
		t.Fatalf("expected rendered heading, got %q", post.BodyHTML)
	}
	if !strings.Contains(post.BodyHTML, "<strong>bold</strong>") {
		t.Fatalf("expected rendered bold, got %q", post.BodyHTML)
	}
	if post.Slug != "launching-our-new-site" {
		t.Fatalf("unexpected slug %q", post.Slug)
	}
}

func TestBlogUpdateReRenders(t *testing.T) {
	svc := blog.NewService(blog.NewMemoryRepository())

	post, err := svc.Create(context.Background(), blog.CreatePostRequest{
		Title:        "Draft",
		BodyMarkdown: "one",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	body := "## Updated"
	updated, err := svc.Update(context.Background(), blog.UpdatePostRequest{ID: post.ID, BodyMarkdown: &body})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !strings.Contains(updated.BodyHTML, "<h2") {
		t.Fatalf("expected re-rendered body got %q", updated.BodyHTML)
	}
}

func TestBlogEnsureCategoryIsIdempotent(t *testing.T) {
	svc := blog.NewService(blog.NewMemoryRepository())

	first, err := svc.EnsureCategory(context.Background(), "Case Studies")
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	second, err := svc.EnsureCategory(context.Background(), "Case Studies")
	if err != nil {
		t.Fatalf("ensure again: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("expected same category, got %s and %s", first.ID, second.ID)
	}
	if first.Slug != "case-studies" {
		t.Fatalf("unexpected category slug %q", first.Slug)
	}
}

func TestBlogImportDocument(t *testing.T) {
	svc := blog.NewService(blog.NewMemoryRepository())

	document := []byte(`---
title: "Design Systems 101"
excerpt: "Why they matter"
status: published
categories:
  - Design
  - Process
---
# Design Systems

Body copy here.
`)

	post, err := svc.ImportDocument(context.Background(), document)
	if err != nil {
		t.Fatalf("import: %v", err)
	}

	if post.Title != "Design Systems 101" {
		t.Fatalf("unexpected title %q", post.Title)
	}
	if post.Status != string(domain.StatusPublished) {
		t.Fatalf("expected published got %q", post.Status)
	}
	if post.PublishedAt == nil {
		t.Fatalf("expected published_at on imported published post")
	}
	if post.Excerpt == nil || *post.Excerpt != "Why they matter" {
		t.Fatalf("unexpected excerpt %v", post.Excerpt)
	}

	categories, err := svc.Categories(context.Background(), post.ID)
	if err != nil {
		t.Fatalf("categories: %v", err)
	}
	if len(categories) != 2 {
		t.Fatalf("expected 2 categories got %d", len(categories))
	}
}
