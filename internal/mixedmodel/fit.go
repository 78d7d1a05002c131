package mixedmodel

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/LauraLarens/Thesis-project/internal/model"
)

const (
	// Search domain for theta = log(sigma_u^2 / sigma_e^2). The lower bound
	// is effectively a zero random-intercept variance.
	thetaMin = -20.0
	thetaMax = 15.0
	gridStep = 0.5

	goldenTolerance = 1e-9
	maxIterations   = 200
)

var goldenRatio = (math.Sqrt(5) - 1) / 2

// Coefficient is one fitted fixed effect.
type Coefficient struct {
	Name     string
	Estimate float64
	StdErr   float64
	TValue   float64
	PValue   float64
}

// RandomIntercept is the BLUP baseline offset for one participant.
type RandomIntercept struct {
	ParticipantID string
	Estimate      float64
	N             int
}

// Model is a fitted random-intercept linear mixed model. Read-only after Fit.
type Model struct {
	Spec              Spec
	Coefficients      []Coefficient
	ResidualVariance  float64
	InterceptVariance float64
	RandomIntercepts  []RandomIntercept
	// Residuals are conditional residuals, one per row that entered the fit.
	Residuals  []float64
	Rows       int
	Groups     int
	REML       float64
	Iterations int
}

// sufficient statistics that make each profile evaluation O(groups * p^2).
type suffStats struct {
	n   int
	p   int
	xtx []float64 // p*p, row-major
	xty []float64
	yty float64
	ng  []int       // rows per group
	sx  [][]float64 // per-group column sums of X
	sy  []float64   // per-group sums of y
}

type profileResult struct {
	criterion float64
	beta      *mat.VecDense
	chol      *mat.Cholesky
	sigmaE2   float64
}

// Fit estimates rt ~ 1 + predictors + (1 | participant) by REML, profiling
// the variance ratio and solving the generalized-least-squares system with
// per-group closed forms for the compound-symmetric covariance blocks.
func Fit(records []model.CombinedRecord, spec Spec) (*Model, error) {
	d, err := buildDesign(records, spec)
	if err != nil {
		return nil, err
	}
	if len(d.groupIDs) < 2 {
		return nil, &model.InsufficientDataError{
			Reason: fmt.Sprintf("%d participant group(s), need at least 2", len(d.groupIDs)),
		}
	}
	if len(d.y) <= d.p {
		return nil, &model.InsufficientDataError{
			Reason: fmt.Sprintf("%d usable row(s) for %d coefficient(s)", len(d.y), d.p),
		}
	}

	ss := accumulate(d)

	// Coarse grid to bracket the optimum, golden-section to refine.
	bestTheta := math.NaN()
	bestCrit := math.Inf(-1)
	for theta := thetaMin; theta <= thetaMax; theta += gridStep {
		res := profile(ss, math.Exp(theta))
		if res.criterion > bestCrit {
			bestCrit = res.criterion
			bestTheta = theta
		}
	}
	if math.IsInf(bestCrit, -1) || math.IsNaN(bestTheta) {
		return nil, &model.ConvergenceError{
			Reason:     "REML criterion undefined over the whole variance-ratio grid",
			Iterations: int((thetaMax - thetaMin) / gridStep),
		}
	}

	lo := math.Max(thetaMin, bestTheta-gridStep)
	hi := math.Min(thetaMax, bestTheta+gridStep)
	theta, iterations, err := goldenMax(func(t float64) float64 {
		return profile(ss, math.Exp(t)).criterion
	}, lo, hi)
	if err != nil {
		return nil, err
	}

	lambda := math.Exp(theta)
	res := profile(ss, lambda)
	if math.IsInf(res.criterion, -1) {
		return nil, &model.ConvergenceError{
			Reason:     "REML criterion undefined at the selected variance ratio",
			Iterations: iterations,
		}
	}

	return assemble(d, ss, spec, lambda, res, iterations)
}

func accumulate(d *design) *suffStats {
	p := d.p
	groups := len(d.groupIDs)
	ss := &suffStats{
		n:   len(d.y),
		p:   p,
		xtx: make([]float64, p*p),
		xty: make([]float64, p),
		ng:  make([]int, groups),
		sx:  make([][]float64, groups),
		sy:  make([]float64, groups),
	}
	for g := range ss.sx {
		ss.sx[g] = make([]float64, p)
	}
	for i, x := range d.x {
		y := d.y[i]
		g := d.group[i]
		ss.ng[g]++
		ss.sy[g] += y
		ss.yty += y * y
		for a := 0; a < p; a++ {
			ss.xty[a] += x[a] * y
			ss.sx[g][a] += x[a]
			for b := a; b < p; b++ {
				ss.xtx[a*p+b] += x[a] * x[b]
			}
		}
	}
	// Mirror the upper triangle.
	for a := 0; a < p; a++ {
		for b := 0; b < a; b++ {
			ss.xtx[a*p+b] = ss.xtx[b*p+a]
		}
	}
	return ss
}

// profile evaluates the REML criterion at a fixed variance ratio
// lambda = sigma_u^2 / sigma_e^2. With a single random intercept the
// whitened covariance V* = I + lambda*J is block diagonal, so
// V*^{-1} = I - (lambda / (1 + lambda*n_g)) * J per group.
func profile(ss *suffStats, lambda float64) profileResult {
	invalid := profileResult{criterion: math.Inf(-1)}
	p := ss.p

	a := mat.NewSymDense(p, nil)
	b := mat.NewVecDense(p, nil)
	for i := 0; i < p; i++ {
		b.SetVec(i, ss.xty[i])
		for j := i; j < p; j++ {
			a.SetSym(i, j, ss.xtx[i*p+j])
		}
	}
	yVy := ss.yty
	logDetV := 0.0
	for g, ng := range ss.ng {
		shrink := lambda / (1 + lambda*float64(ng))
		logDetV += math.Log(1 + lambda*float64(ng))
		yVy -= shrink * ss.sy[g] * ss.sy[g]
		for i := 0; i < p; i++ {
			b.SetVec(i, b.AtVec(i)-shrink*ss.sx[g][i]*ss.sy[g])
			for j := i; j < p; j++ {
				a.SetSym(i, j, a.At(i, j)-shrink*ss.sx[g][i]*ss.sx[g][j])
			}
		}
	}

	var chol mat.Cholesky
	if ok := chol.Factorize(a); !ok {
		return invalid
	}
	beta := mat.NewVecDense(p, nil)
	if err := chol.SolveVecTo(beta, b); err != nil {
		return invalid
	}
	rVr := yVy - mat.Dot(beta, b)
	if rVr <= 0 || math.IsNaN(rVr) {
		return invalid
	}
	df := float64(ss.n - ss.p)
	sigmaE2 := rVr / df
	criterion := -0.5 * (logDetV + chol.LogDet() + df*(1+math.Log(2*math.Pi*sigmaE2)))
	if math.IsNaN(criterion) {
		return invalid
	}
	return profileResult{
		criterion: criterion,
		beta:      beta,
		chol:      &chol,
		sigmaE2:   sigmaE2,
	}
}

// goldenMax maximizes a unimodal function on [lo, hi] by golden-section
// search. Failure to shrink the bracket within the iteration budget is a
// convergence error.
func goldenMax(f func(float64) float64, lo, hi float64) (float64, int, error) {
	x1 := hi - goldenRatio*(hi-lo)
	x2 := lo + goldenRatio*(hi-lo)
	f1 := f(x1)
	f2 := f(x2)
	for i := 1; i <= maxIterations; i++ {
		if hi-lo < goldenTolerance {
			return (lo + hi) / 2, i, nil
		}
		if f1 < f2 {
			lo = x1
			x1, f1 = x2, f2
			x2 = lo + goldenRatio*(hi-lo)
			f2 = f(x2)
		} else {
			hi = x2
			x2, f2 = x1, f1
			x1 = hi - goldenRatio*(hi-lo)
			f1 = f(x1)
		}
	}
	return 0, maxIterations, &model.ConvergenceError{
		Reason:     "golden-section search did not settle",
		Iterations: maxIterations,
	}
}

func assemble(d *design, ss *suffStats, spec Spec, lambda float64, res profileResult, iterations int) (*Model, error) {
	p := ss.p
	stdNormal := distuv.Normal{Mu: 0, Sigma: 1}

	var cov mat.SymDense
	if err := res.chol.InverseTo(&cov); err != nil {
		return nil, &model.ConvergenceError{
			Reason:     fmt.Sprintf("covariance of fixed effects is singular: %v", err),
			Iterations: iterations,
		}
	}

	names := make([]string, p)
	names[0] = "(intercept)"
	for i, pred := range spec.Predictors {
		names[i+1] = string(pred)
	}
	coefficients := make([]Coefficient, p)
	for i := 0; i < p; i++ {
		estimate := res.beta.AtVec(i)
		se := math.Sqrt(res.sigmaE2 * cov.At(i, i))
		t := 0.0
		if se > 0 {
			t = estimate / se
		}
		coefficients[i] = Coefficient{
			Name:     names[i],
			Estimate: estimate,
			StdErr:   se,
			TValue:   t,
			PValue:   2 * stdNormal.CDF(-math.Abs(t)),
		}
	}

	// BLUPs: u_g = lambda * sum(marginal residuals in g) / (1 + lambda*n_g).
	groups := len(d.groupIDs)
	u := make([]float64, groups)
	for g := 0; g < groups; g++ {
		residualSum := ss.sy[g]
		for i := 0; i < p; i++ {
			residualSum -= ss.sx[g][i] * res.beta.AtVec(i)
		}
		u[g] = lambda * residualSum / (1 + lambda*float64(ss.ng[g]))
	}
	intercepts := make([]RandomIntercept, groups)
	for g, id := range d.groupIDs {
		intercepts[g] = RandomIntercept{ParticipantID: id, Estimate: u[g], N: ss.ng[g]}
	}

	residuals := make([]float64, len(d.y))
	for i, x := range d.x {
		fitted := u[d.group[i]]
		for j := 0; j < p; j++ {
			fitted += x[j] * res.beta.AtVec(j)
		}
		residuals[i] = d.y[i] - fitted
	}

	return &Model{
		Spec:              spec,
		Coefficients:      coefficients,
		ResidualVariance:  res.sigmaE2,
		InterceptVariance: lambda * res.sigmaE2,
		RandomIntercepts:  intercepts,
		Residuals:         residuals,
		Rows:              ss.n,
		Groups:            groups,
		REML:              res.criterion,
		Iterations:        iterations,
	}, nil
}
