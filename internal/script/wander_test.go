package script

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gladiators/internal/arena"
)

const biasedSrc = `
weights := func(prev) {
	out := []
	for d in directions {
		if d == prev {
			out = append(out, bias)
		} else {
			out = append(out, baseline)
		}
	}
	return out
}
`

func TestWanderScriptMatchesBiasedWander(t *testing.T) {
	ws, err := NewWanderScript([]byte(biasedSrc), 100, 1)
	if err != nil {
		t.Fatalf("NewWanderScript: %v", err)
	}
	ref := arena.BiasedWander{Bias: 100, Baseline: 1}
	for d := arena.Down; d <= arena.DownLeft; d++ {
		if got, want := ws.Weights(d), ref.Weights(d); got != want {
			t.Fatalf("Weights(%v) = %v, want %v", d, got, want)
		}
	}
}

func TestWanderScriptMapResult(t *testing.T) {
	src := `
weights := func(prev) {
	if prev == "left" {
		return {right: 1}
	}
	return {left: 2, up: 3}
}
`
	ws, err := NewWanderScript([]byte(src), 0, 0)
	if err != nil {
		t.Fatalf("NewWanderScript: %v", err)
	}
	w := ws.Weights(arena.Left)
	if w[arena.Right] != 1 || w[arena.Left] != 0 {
		t.Fatalf("unexpected weights for left: %v", w)
	}
	w = ws.Weights(arena.Down)
	if w[arena.Left] != 2 || w[arena.Up] != 3 || w[arena.Down] != 0 {
		t.Fatalf("unexpected weights for down: %v", w)
	}
}

func TestWanderScriptRejectsBadWeights(t *testing.T) {
	cases := map[string]string{
		"syntax":   `weights := func(prev) {`,
		"length":   `weights := func(prev) { return [1, 2] }`,
		"negative": `weights := func(prev) { return [1, 1, 1, 1, 1, 1, 1, -1] }`,
		"zero":     `weights := func(prev) { return [0, 0, 0, 0, 0, 0, 0, 0] }`,
		"type":     `weights := func(prev) { return "north" }`,
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := NewWanderScript([]byte(src), 100, 1); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestLoadWanderScript(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wander.tengo")
	if err := os.WriteFile(path, []byte(biasedSrc), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	ws, err := LoadWanderScript(path, 5, 2)
	if err != nil {
		t.Fatalf("LoadWanderScript: %v", err)
	}
	if ws.Path != path || ws.Weights(arena.Up)[arena.Up] != 5 {
		t.Fatalf("unexpected script %+v", ws)
	}

	_, err = LoadWanderScript(filepath.Join(dir, "missing.tengo"), 1, 1)
	if err == nil || !strings.Contains(err.Error(), "read wander script") {
		t.Fatalf("expected read error, got %v", err)
	}
}
