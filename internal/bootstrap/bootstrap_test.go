package bootstrap

import (
	"context"
	"errors"
	"testing"

	platformerrors "smartface-server-go/internal/platform/errors"
)

func TestInitGraphOrder(t *testing.T) {
	steps := InitGraph()
	want := []string{
		"config:load",
		"logging:init",
		"storage:open",
		"nlp:init",
		"skills:init",
		"pipeline:init",
	}
	if len(steps) != len(want) {
		t.Fatalf("unexpected step count: got %d want %d", len(steps), len(want))
	}
	for i, step := range steps {
		if step.ID != want[i] {
			t.Fatalf("step %d mismatch: got %s want %s", i, step.ID, want[i])
		}
	}
}

func TestInitGraphDependenciesResolvable(t *testing.T) {
	seen := make(map[string]struct{})
	for _, step := range InitGraph() {
		for _, dep := range step.DependsOn {
			if _, ok := seen[dep]; !ok {
				t.Fatalf("step %s depends on %s before it runs", step.ID, dep)
			}
		}
		seen[step.ID] = struct{}{}
	}
}

func TestExecuteInitStepsStopsOnFailure(t *testing.T) {
	boom := errors.New("boom")
	var ran []string
	steps := []initStep{
		{
			ID:   "first",
			Kind: platformerrors.KindBootstrap,
			Execute: func(context.Context, *appState) error {
				ran = append(ran, "first")
				return nil
			},
		},
		{
			ID:   "second",
			Kind: platformerrors.KindConfig,
			Execute: func(context.Context, *appState) error {
				return boom
			},
		},
		{
			ID:        "third",
			DependsOn: []string{"second"},
			Execute: func(context.Context, *appState) error {
				ran = append(ran, "third")
				return nil
			},
		},
	}

	err := executeInitSteps(context.Background(), steps, &appState{})
	if err == nil {
		t.Fatal("expected an error")
	}
	if !platformerrors.IsKind(err, platformerrors.KindConfig) {
		t.Fatalf("error kind = %v", err)
	}
	if !errors.Is(err, boom) {
		t.Fatalf("cause not preserved: %v", err)
	}
	if len(ran) != 1 || ran[0] != "first" {
		t.Fatalf("ran = %v", ran)
	}
}

func TestExecuteInitStepsRejectsUnmetDependency(t *testing.T) {
	steps := []initStep{
		{
			ID:        "late",
			DependsOn: []string{"missing"},
			Execute:   func(context.Context, *appState) error { return nil },
		},
	}
	if err := executeInitSteps(context.Background(), steps, &appState{}); err == nil {
		t.Fatal("expected dependency error")
	}
}
