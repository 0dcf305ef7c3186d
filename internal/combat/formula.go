package combat

import (
	"fmt"
	"math"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"gladiators/internal/config"
)

// LevelEnv is the environment leveling formulas are evaluated against.
type LevelEnv struct {
	Level int     `expr:"level"`
	XP    float64 `expr:"xp"`
}

// FormulaLeveling evaluates award and threshold expressions compiled once
// from configuration. A formula that fails at runtime falls back to the
// exponential defaults.
type FormulaLeveling struct {
	AwardSrc     string
	ThresholdSrc string

	award     *vm.Program
	threshold *vm.Program
	fallback  ExponentialLeveling
}

func NewFormulaLeveling(award, threshold string) (*FormulaLeveling, error) {
	f := &FormulaLeveling{AwardSrc: award, ThresholdSrc: threshold, fallback: DefaultLeveling()}
	var err error
	if f.award, err = compileFormula(award); err != nil {
		return nil, fmt.Errorf("award formula: %w", err)
	}
	if f.threshold, err = compileFormula(threshold); err != nil {
		return nil, fmt.Errorf("threshold formula: %w", err)
	}
	return f, nil
}

// NewLeveling builds the leveling rules named by cfg. Empty formulas use the
// defaults.
func NewLeveling(cfg config.LevelingConfig) (Leveling, error) {
	award, threshold := cfg.Award, cfg.Threshold
	if award == "" {
		award = config.DefaultAwardFormula
	}
	if threshold == "" {
		threshold = config.DefaultThresholdFormula
	}
	if award == config.DefaultAwardFormula && threshold == config.DefaultThresholdFormula {
		return DefaultLeveling(), nil
	}
	return NewFormulaLeveling(award, threshold)
}

func compileFormula(src string) (*vm.Program, error) {
	return expr.Compile(src, expr.Env(LevelEnv{}), expr.AsFloat64())
}

func (f *FormulaLeveling) Award(level int, xp float64) float64 {
	if v, ok := f.eval(f.award, level, xp); ok {
		return v
	}
	return f.fallback.Award(level, xp)
}

func (f *FormulaLeveling) Threshold(level int) float64 {
	if v, ok := f.eval(f.threshold, level, 0); ok {
		return v
	}
	return f.fallback.Threshold(level)
}

func (f *FormulaLeveling) eval(p *vm.Program, level int, xp float64) (float64, bool) {
	out, err := expr.Run(p, LevelEnv{Level: level, XP: xp})
	if err != nil {
		return 0, false
	}
	v, ok := out.(float64)
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
