// Package optim provides scalar gradient-descent optimizers used by the
// mean-field free-energy solvers.
package optim

import "math"

// Objective is a scalar function of one variable.
type Objective func(x float64) float64

const (
	gradStep = 1e-7
	gradEps  = 1e-7
)

// Gradient approximates df/dx by central difference.
func Gradient(f Objective, x float64) float64 {
	return (f(x+gradStep) - f(x-gradStep)) / (2 * gradStep)
}

// Options controls the descent loop. Zero values fall back to the defaults.
type Options struct {
	LearningRate float64
	Momentum     float64 // alpha for the Momentum method
	MaxIters     int
}

func (o Options) withDefaults() Options {
	if o.LearningRate == 0 {
		o.LearningRate = 0.01
	}
	if o.Momentum == 0 {
		o.Momentum = 0.9
	}
	if o.MaxIters == 0 {
		o.MaxIters = 200
	}
	return o
}

// SGD runs plain gradient descent from x, stopping when the gradient
// magnitude drops below epsilon or the iteration limit is reached.
func SGD(f Objective, x float64, opts Options) float64 {
	o := opts.withDefaults()

	for i := 0; i < o.MaxIters; i++ {
		grad := Gradient(f, x)
		if math.Abs(grad) < gradEps {
			break
		}
		x -= o.LearningRate * grad
	}
	return x
}

// Momentum runs gradient descent with velocity accumulation.
func Momentum(f Objective, x float64, opts Options) float64 {
	o := opts.withDefaults()

	v := 0.0
	for i := 0; i < o.MaxIters; i++ {
		grad := Gradient(f, x)
		if math.Abs(grad) < gradEps {
			break
		}
		v = o.Momentum*v - o.LearningRate*grad
		x += v
	}
	return x
}

// AdaGrad runs gradient descent with a per-step adaptive learning rate.
func AdaGrad(f Objective, x float64, opts Options) float64 {
	o := opts.withDefaults()

	h := 0.0
	for i := 0; i < o.MaxIters; i++ {
		grad := Gradient(f, x)
		if math.Abs(grad) < gradEps {
			break
		}
		h += grad * grad
		x -= o.LearningRate * grad / (math.Sqrt(h) + gradEps)
	}
	return x
}
