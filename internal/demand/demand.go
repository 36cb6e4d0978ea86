// Package demand generates the exogenous market-demand signal for days where
// the player does not supply one.
package demand

import (
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// Shape constants for the generated curve. The year length matches the
// simulation calendar (360 days), the swings are fractions of base demand.
const (
	yearLength        = 360.0
	seasonalAmplitude = 0.25
	noiseAmplitude    = 0.30
	noiseFrequency    = 0.15 // Noise samples per day — low enough for multi-day trends.
)

// Generator produces a deterministic daily demand curve: a base level scaled
// by a seasonal sine wave and smooth simplex noise. The same seed always
// yields the same curve.
type Generator struct {
	base  float64
	noise opensimplex.Noise
}

// NewGenerator creates a generator around the given base demand level.
func NewGenerator(seed int64, base float64) *Generator {
	if base < 0 {
		base = 0
	}
	return &Generator{
		base:  base,
		noise: opensimplex.NewNormalized(seed),
	}
}

// ForDay returns the market demand for a day index. Never negative.
func (g *Generator) ForDay(day int) float64 {
	seasonal := 1 + seasonalAmplitude*math.Sin(2*math.Pi*float64(day)/yearLength)

	// Normalized noise is in [0,1]; recenter to [-1,1] before scaling.
	n := 2*g.noise.Eval2(float64(day)*noiseFrequency, 0) - 1

	d := g.base * seasonal * (1 + noiseAmplitude*n)
	return max(d, 0)
}
