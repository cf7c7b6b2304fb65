package easing

import "math"

// cubicBezier solves x(u) = t for the curve parameter u and returns y(u).
// Endpoints are fixed at (0,0) and (1,1).
func cubicBezier(x1, y1, x2, y2, t float64) float64 {
	u := t
	// Newton-Raphson converges quickly for most curves.
	for i := 0; i < 8; i++ {
		x := sampleCurve(x1, x2, u) - t
		if math.Abs(x) < 1e-7 {
			return sampleCurve(y1, y2, clampUnit(u))
		}
		dx := sampleCurveDerivative(x1, x2, u)
		if math.Abs(dx) < 1e-7 {
			break
		}
		u -= x / dx
	}

	// Bisection fallback for flat segments where the derivative vanishes.
	lo, hi := 0.0, 1.0
	u = clampUnit(u)
	for i := 0; i < 30; i++ {
		x := sampleCurve(x1, x2, u) - t
		if math.Abs(x) < 1e-7 {
			break
		}
		if x > 0 {
			hi = u
		} else {
			lo = u
		}
		u = (lo + hi) * 0.5
	}

	return sampleCurve(y1, y2, u)
}

func sampleCurve(a, b, u float64) float64 {
	inv := 1 - u
	return 3*inv*inv*u*a + 3*inv*u*u*b + u*u*u
}

func sampleCurveDerivative(a, b, u float64) float64 {
	inv := 1 - u
	return 3*inv*inv*a + 6*inv*u*(b-a) + 3*u*u*(1-b)
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
