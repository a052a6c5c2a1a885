package termsdf

import "github.com/chewxy/math32"

const pi = math32.Pi

// DtoR converts degrees to radians
func DtoR(degrees float32) float32 {
	return (pi / 180) * degrees
}

// Clamp x between a and b, assume a <= b
func Clamp(x, a, b float32) float32 {
	if x < a {
		return a
	}
	if x > b {
		return b
	}
	return x
}

// Mix does a linear interpolation from x to y, a = [0,1]
func Mix(x, y, a float32) float32 {
	return x + (a * (y - x))
}

func poly(a, b, k float32) float32 {
	h := Clamp(0.5+0.5*(b-a)/k, 0.0, 1.0)
	return Mix(b, a, h) - k*h*(1.0-h)
}

// SmoothMin is the polynomial smooth minimum of a and b with blend radius k.
// For k <= 0 it is exactly min(a, b).
func SmoothMin(a, b, k float32) float32 {
	if k <= 0 {
		return math32.Min(a, b)
	}
	return poly(a, b, k)
}

// SmoothMax is the polynomial smooth maximum of a and b with blend radius k.
// For k <= 0 it is exactly max(a, b).
func SmoothMax(a, b, k float32) float32 {
	if k <= 0 {
		return math32.Max(a, b)
	}
	return -poly(-a, -b, k)
}
