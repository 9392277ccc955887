package model

import (
	"math"
	"math/rand/v2"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

// PlummerConfig describes a Plummer sphere.
type PlummerConfig struct {
	// GM is the total mass times the gravitational constant. Default: 1.
	GM float64
	// Scale is the Plummer scale radius. Default: 1.
	Scale float64
	// Seed initializes the random source.
	Seed uint64
}

// Plummer samples bodies from a Plummer sphere in virial equilibrium.
type Plummer struct {
	scale  float64
	vscale float64
	unit   distuv.Uniform // [0, 1)
	sym    distuv.Uniform // [-1, 1)
	angle  distuv.Uniform // [0, 2pi)
}

// NewPlummer returns a sampler for cfg. All randomness comes from one
// source seeded here.
func NewPlummer(cfg PlummerConfig) *Plummer {
	if cfg.GM <= 0 {
		cfg.GM = 1
	}
	if cfg.Scale <= 0 {
		cfg.Scale = 1
	}
	src := rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)
	return &Plummer{
		scale:  cfg.Scale,
		vscale: math.Sqrt(cfg.GM / cfg.Scale),
		unit:   distuv.Uniform{Min: 0, Max: 1, Src: src},
		sym:    distuv.Uniform{Min: -1, Max: 1, Src: src},
		angle:  distuv.Uniform{Min: 0, Max: 2 * math.Pi, Src: src},
	}
}

// draw returns a radius and the radial and tangential speeds.
func (p *Plummer) draw() (r, vr, vt float64) {
	// radius from the cumulative mass profile
	x := math.Pow(p.unit.Rand(), 2.0/3.0)
	pot := 1 - x
	r = math.Sqrt(x / pot)

	// speed by rejection against the distribution function
	ve := math.Sqrt(2 * pot)
	f0 := math.Pow(pot, 3.5)
	var v float64
	for {
		v = ve * math.Cbrt(p.unit.Rand())
		f := math.Pow(pot-0.5*v*v, 3.5)
		if f0*p.unit.Rand() <= f {
			break
		}
	}
	r *= p.scale
	v *= p.vscale
	c := p.sym.Rand()
	return r, v * c, v * math.Sqrt(1-c*c)
}

// Sample draws one body's position and velocity.
func (p *Plummer) Sample() (pos, vel r3.Vector) {
	r, vr, vt := p.draw()

	cth := p.sym.Rand()
	sth := math.Sqrt(1 - cth*cth)
	sph, cph := math.Sincos(p.angle.Rand())
	pos = r3.Vector{X: r * sth * cph, Y: r * sth * sph, Z: r * cth}

	spsi, cpsi := math.Sincos(p.angle.Rand())
	vth, vph := vt*cpsi, vt*spsi
	vm := vr*sth + vth*cth
	vel = r3.Vector{
		X: vm*cph - vph*sph,
		Y: vm*sph + vph*cph,
		Z: vr*cth - vth*sth,
	}
	return pos, vel
}

// Positions draws n positions.
func (p *Plummer) Positions(n int) []r3.Vector {
	pos := make([]r3.Vector, n)
	for i := range pos {
		pos[i], _ = p.Sample()
	}
	return pos
}

// UniformCube returns n positions drawn uniformly from the cube [lo, hi)^3.
func UniformCube(n int, lo, hi float64, seed uint64) []r3.Vector {
	u := distuv.Uniform{Min: lo, Max: hi, Src: rand.NewPCG(seed, ^seed)}
	pos := make([]r3.Vector, n)
	for i := range pos {
		pos[i] = r3.Vector{X: u.Rand(), Y: u.Rand(), Z: u.Rand()}
	}
	return pos
}

// BoundingRadius returns the largest distance of any position from c,
// or 0 for no positions.
func BoundingRadius(pos []r3.Vector, c r3.Vector) float64 {
	if len(pos) == 0 {
		return 0
	}
	d := make([]float64, len(pos))
	for i, p := range pos {
		d[i] = p.Sub(c).Norm()
	}
	return floats.Max(d)
}
