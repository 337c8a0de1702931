package services_test

import (
	"context"
	"testing"

	"airlift/internal/services"
)

func TestStageContextRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	if _, ok := services.StageFromContext(ctx); ok {
		t.Fatal("expected no stage on fresh context")
	}

	ctx = services.WithStage(ctx, "build")
	stage, ok := services.StageFromContext(ctx)
	if !ok || stage != "build" {
		t.Fatalf("stage = %q, ok = %v", stage, ok)
	}

	// Empty values never overwrite.
	ctx = services.WithStage(ctx, "")
	stage, _ = services.StageFromContext(ctx)
	if stage != "build" {
		t.Fatalf("stage after empty set = %q", stage)
	}
}

func TestRunAndRequestIDs(t *testing.T) {
	t.Parallel()

	ctx := services.WithRunID(context.Background(), "run-1")
	ctx = services.WithRequestID(ctx, "req-1")

	if id, ok := services.RunIDFromContext(ctx); !ok || id != "run-1" {
		t.Fatalf("run id = %q, ok = %v", id, ok)
	}
	if id, ok := services.RequestIDFromContext(ctx); !ok || id != "req-1" {
		t.Fatalf("request id = %q, ok = %v", id, ok)
	}
}
