package filter

// denormalThreshold is the magnitude below which biquad state is flushed to zero
// at the end of a block, keeping silent tails out of subnormal arithmetic.
const denormalThreshold = 1e-30

// BiquadCoefficients holds a second-order section normalized so that a0 = 1.
type BiquadCoefficients struct {
	B0, B1, B2 float64
	A1, A2     float64
}

// Numerator returns [b0, b1, b2].
func (c BiquadCoefficients) Numerator() []float64 {
	return []float64{c.B0, c.B1, c.B2}
}

// Denominator returns [1, a1, a2].
func (c BiquadCoefficients) Denominator() []float64 {
	return []float64{1, c.A1, c.A2}
}

// Biquad runs one second-order section in transposed direct form II.
// The zero value passes nothing; construct it with NewBiquad.
type Biquad struct {
	c      BiquadCoefficients
	d0, d1 float64
}

// NewBiquad returns a section with cleared state.
func NewBiquad(c BiquadCoefficients) *Biquad {
	return &Biquad{c: c}
}

// ProcessSample filters a single sample.
func (b *Biquad) ProcessSample(x float64) float64 {
	y := b.c.B0*x + b.d0
	b.d0 = b.c.B1*x - b.c.A1*y + b.d1
	b.d1 = b.c.B2*x - b.c.A2*y
	return y
}

// ProcessInPlace filters buf, overwriting it with the output.
func (b *Biquad) ProcessInPlace(buf []float64) {
	c := b.c
	d0, d1 := b.d0, b.d1

	for i, x := range buf {
		y := c.B0*x + d0
		d0 = c.B1*x - c.A1*y + d1
		d1 = c.B2*x - c.A2*y
		buf[i] = y
	}

	if d0 > -denormalThreshold && d0 < denormalThreshold {
		d0 = 0
	}
	if d1 > -denormalThreshold && d1 < denormalThreshold {
		d1 = 0
	}
	b.d0, b.d1 = d0, d1
}

// Reset clears the delay line.
func (b *Biquad) Reset() {
	b.d0, b.d1 = 0, 0
}
