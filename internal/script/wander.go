package script

import (
	"fmt"
	"os"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"

	"gladiators/internal/arena"
)

const wanderDispatch = `
__out := weights(__prev)
`

// WanderScript is a wander policy defined by a tengo script. The script must
// define weights(prev) returning either an array of eight numbers in facing
// order or a map from facing name to weight. bias, baseline and directions are
// available as globals. The script is evaluated once per facing at load time.
type WanderScript struct {
	Path  string
	table [8]arena.DirectionWeights
}

// LoadWanderScript reads and evaluates the script at path.
func LoadWanderScript(path string, bias, baseline float64) (*WanderScript, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read wander script: %w", err)
	}
	ws, err := NewWanderScript(src, bias, baseline)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	ws.Path = path
	return ws, nil
}

func NewWanderScript(src []byte, bias, baseline float64) (*WanderScript, error) {
	names := make([]any, 0, 8)
	for d := arena.Down; d <= arena.DownLeft; d++ {
		names = append(names, d.String())
	}

	s := tengo.NewScript(append(append([]byte{}, src...), wanderDispatch...))
	s.SetImports(stdlib.GetModuleMap("math", "text"))
	_ = s.Add("__prev", "")
	_ = s.Add("bias", bias)
	_ = s.Add("baseline", baseline)
	_ = s.Add("directions", names)

	compiled, err := s.Compile()
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	ws := &WanderScript{}
	for d := arena.Down; d <= arena.DownLeft; d++ {
		if err := compiled.Set("__prev", d.String()); err != nil {
			return nil, err
		}
		if err := compiled.Run(); err != nil {
			return nil, fmt.Errorf("weights(%s): %w", d, err)
		}
		w, err := toWeights(compiled.Get("__out").Value())
		if err != nil {
			return nil, fmt.Errorf("weights(%s): %w", d, err)
		}
		ws.table[d] = w
	}
	return ws, nil
}

func (ws *WanderScript) Weights(prev arena.Direction) arena.DirectionWeights {
	if prev < arena.Down || prev > arena.DownLeft {
		prev = arena.Down
	}
	return ws.table[prev]
}

func toWeights(v any) (arena.DirectionWeights, error) {
	var out arena.DirectionWeights
	switch vals := v.(type) {
	case []any:
		if len(vals) != len(out) {
			return out, fmt.Errorf("expected %d weights, got %d", len(out), len(vals))
		}
		for i, raw := range vals {
			f, ok := toFloat(raw)
			if !ok {
				return out, fmt.Errorf("weight %d is %T, not a number", i, raw)
			}
			out[i] = f
		}
	case map[string]any:
		for d := arena.Down; d <= arena.DownLeft; d++ {
			raw, ok := vals[d.String()]
			if !ok {
				continue
			}
			f, ok := toFloat(raw)
			if !ok {
				return out, fmt.Errorf("weight %s is %T, not a number", d, raw)
			}
			out[d] = f
		}
	default:
		return out, fmt.Errorf("weights must return an array or map, got %T", v)
	}

	total := 0.0
	for i, f := range out {
		if f < 0 {
			return out, fmt.Errorf("weight for %s is negative", arena.Direction(i))
		}
		total += f
	}
	if total == 0 {
		return out, fmt.Errorf("all weights are zero")
	}
	return out, nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	}
	return 0, false
}
