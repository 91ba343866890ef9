// Package particles implements the ambient background animation: a
// drifting particle set with proximity links, independent of all game
// state.
package particles

import (
	"math"
	"math/rand"
	"strings"
)

const (
	// cellsPerParticle sizes the particle set to the surface area.
	cellsPerParticle = 28

	// linkDist is the cell distance under which two particles get a
	// connecting line.
	linkDist = 9.0

	maxSpeed = 0.45
	minSpeed = 0.08
)

// Particle is one animated point on the field.
type Particle struct {
	X, Y   float64
	VX, VY float64
	Size   float64
	Alpha  float64
}

// Field owns a set of particles on a w×h cell grid. It never reads or
// writes game state.
type Field struct {
	w, h  int
	parts []Particle
	rng   *rand.Rand
}

// NewField creates an empty field; call Resize to populate it.
func NewField(rng *rand.Rand) *Field {
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	return &Field{rng: rng}
}

// Resize sets the surface dimensions and regenerates the particle set
// wholesale, sized proportionally to the new area.
func (f *Field) Resize(w, h int) {
	f.w, f.h = w, h
	if w <= 0 || h <= 0 {
		f.parts = nil
		return
	}

	count := (w * h) / cellsPerParticle
	if count < 2 {
		count = 2
	}

	f.parts = make([]Particle, count)
	for i := range f.parts {
		speed := minSpeed + f.rng.Float64()*(maxSpeed-minSpeed)
		angle := f.rng.Float64() * 2 * math.Pi
		f.parts[i] = Particle{
			X:     f.rng.Float64() * float64(w),
			Y:     f.rng.Float64() * float64(h),
			VX:    math.Cos(angle) * speed,
			VY:    math.Sin(angle) * speed,
			Size:  0.5 + f.rng.Float64()*1.5,
			Alpha: 0.2 + f.rng.Float64()*0.8,
		}
	}
}

// Count returns the number of live particles.
func (f *Field) Count() int { return len(f.parts) }

// Particles exposes the particle set for inspection.
func (f *Field) Particles() []Particle { return f.parts }

// Step advances every particle by its velocity, reflecting off the
// field boundary.
func (f *Field) Step() {
	w, h := float64(f.w), float64(f.h)
	for i := range f.parts {
		p := &f.parts[i]
		p.X += p.VX
		p.Y += p.VY

		if p.X < 0 {
			p.X = -p.X
			p.VX = -p.VX
		} else if p.X > w {
			p.X = 2*w - p.X
			p.VX = -p.VX
		}
		if p.Y < 0 {
			p.Y = -p.Y
			p.VY = -p.VY
		} else if p.Y > h {
			p.Y = 2*h - p.Y
			p.VY = -p.VY
		}
	}
}

// Frame renders the field as h rows of w runes: links first, then the
// particles drawn over them with an alpha-picked glyph.
func (f *Field) Frame() []string {
	if f.w <= 0 || f.h <= 0 {
		return nil
	}

	grid := make([][]rune, f.h)
	for y := range grid {
		grid[y] = []rune(strings.Repeat(" ", f.w))
	}

	for i := 0; i < len(f.parts); i++ {
		for j := i + 1; j < len(f.parts); j++ {
			a, b := f.parts[i], f.parts[j]
			dist := math.Hypot(a.X-b.X, a.Y-b.Y)
			if dist >= linkDist {
				continue
			}
			f.drawLink(grid, a, b, 1-dist/linkDist)
		}
	}

	for _, p := range f.parts {
		x, y := int(p.X), int(p.Y)
		if x < 0 || x >= f.w || y < 0 || y >= f.h {
			continue
		}
		grid[y][x] = particleGlyph(p.Alpha)
	}

	rows := make([]string, f.h)
	for y := range grid {
		rows[y] = string(grid[y])
	}
	return rows
}

// drawLink walks the segment between two particles and stamps a glyph
// faded by the link intensity into empty cells.
func (f *Field) drawLink(grid [][]rune, a, b Particle, intensity float64) {
	steps := int(math.Hypot(b.X-a.X, b.Y-a.Y)) + 1
	glyph := linkGlyph(intensity)
	for s := 0; s <= steps; s++ {
		t := float64(s) / float64(steps)
		x := int(a.X + (b.X-a.X)*t)
		y := int(a.Y + (b.Y-a.Y)*t)
		if x < 0 || x >= f.w || y < 0 || y >= f.h {
			continue
		}
		if grid[y][x] == ' ' {
			grid[y][x] = glyph
		}
	}
}

func particleGlyph(alpha float64) rune {
	switch {
	case alpha < 0.45:
		return '·'
	case alpha < 0.75:
		return '•'
	default:
		return '●'
	}
}

func linkGlyph(intensity float64) rune {
	if intensity < 0.5 {
		return '·'
	}
	return ':'
}
