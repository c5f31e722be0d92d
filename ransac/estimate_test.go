package ransac_test

import (
	"bytes"
	"log/slog"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/YuminosukeSato/robustgo/line"
	"github.com/YuminosukeSato/robustgo/pkg/errors"
	"github.com/YuminosukeSato/robustgo/pkg/log"
	"github.com/YuminosukeSato/robustgo/ransac"
	"github.com/YuminosukeSato/robustgo/synthetic"
	"gonum.org/v1/gonum/mat"
)

// lineFittingTest generates a contaminated line dataset and runs the
// full estimation, mirroring the classic acceptance experiment: the
// threshold is 0.3 for noiseless data and 3 sigma otherwise.
func lineFittingTest(t *testing.T, rng *rand.Rand, numPoints int, outlierRatio, noiseSigma float64, truth line.Line) (line.Line, []int) {
	t.Helper()

	xy, _, err := synthetic.GenerateLine(rng, numPoints, outlierRatio, noiseSigma, truth)
	if err != nil {
		t.Fatalf("failed to generate dataset: %v", err)
	}

	threshold := 0.3
	if noiseSigma > 0 {
		threshold = 3 * noiseSigma
	}

	kernel, err := line.NewKernel(xy)
	if err != nil {
		t.Fatalf("failed to build kernel: %v", err)
	}

	model, inliers, err := ransac.Estimate(rng, kernel, ransac.NewScoreEvaluator[line.Line](threshold))
	if err != nil {
		t.Fatalf("estimation failed: %v", err)
	}

	if os.Getenv("ROBUSTGO_PLOT") != "" {
		path := filepath.Join(t.TempDir(), "line_fit.svg")
		if plotErr := synthetic.PlotLineFit(path, xy, truth, model, inliers); plotErr != nil {
			t.Logf("plot export failed: %v", plotErr)
		}
	}
	return model, inliers
}

func TestEstimate_IdealLine(t *testing.T) {
	const (
		numPoints    = 300
		outlierRatio = 0.3
		numTrials    = 10
	)
	truth := line.Line{Slope: -2.0, Intercept: 6.3}
	expectedInliers := numPoints - int(float64(numPoints)*outlierRatio)

	rng := rand.New(rand.NewPCG(42, 42))
	for trial := 0; trial < numTrials; trial++ {
		model, inliers := lineFittingTest(t, rng, numPoints, outlierRatio, 0, truth)

		if len(inliers) != expectedInliers {
			t.Errorf("trial %d: got %d inliers, want %d", trial, len(inliers), expectedInliers)
		}
		if math.Abs(model.Slope-truth.Slope) > 1e-2 {
			t.Errorf("trial %d: slope = %v, want %v within 1e-2", trial, model.Slope, truth.Slope)
		}
		if math.Abs(model.Intercept-truth.Intercept) > 1e-2 {
			t.Errorf("trial %d: intercept = %v, want %v within 1e-2", trial, model.Intercept, truth.Intercept)
		}
	}
}

func TestEstimate_NoisyLine(t *testing.T) {
	const (
		numPoints    = 300
		outlierRatio = 0.3
		noiseSigma   = 0.01
		numTrials    = 10
	)
	truth := line.Line{Slope: -2.0, Intercept: 0.3}
	expectedInliers := numPoints - int(float64(numPoints)*outlierRatio)

	rng := rand.New(rand.NewPCG(42, 42))
	for trial := 0; trial < numTrials; trial++ {
		model, inliers := lineFittingTest(t, rng, numPoints, outlierRatio, noiseSigma, truth)

		if len(inliers) != expectedInliers {
			t.Errorf("trial %d: got %d inliers, want %d", trial, len(inliers), expectedInliers)
		}
		// Parameter error bounded proportionally to the noise level.
		if math.Abs(model.Slope-truth.Slope) > 10*noiseSigma {
			t.Errorf("trial %d: slope = %v, want %v within %v", trial, model.Slope, truth.Slope, 10*noiseSigma)
		}
		if math.Abs(model.Intercept-truth.Intercept) > 10*noiseSigma {
			t.Errorf("trial %d: intercept = %v, want %v within %v", trial, model.Intercept, truth.Intercept, 10*noiseSigma)
		}
	}
}

func TestEstimate_Determinism(t *testing.T) {
	truth := line.Line{Slope: 1.5, Intercept: -4}
	dataRng := rand.New(rand.NewPCG(7, 7))
	xy, _, err := synthetic.GenerateLine(dataRng, 200, 0.4, 0.01, truth)
	if err != nil {
		t.Fatalf("failed to generate dataset: %v", err)
	}
	kernel, err := line.NewKernel(xy)
	if err != nil {
		t.Fatalf("failed to build kernel: %v", err)
	}
	evaluator := ransac.NewScoreEvaluator[line.Line](0.03)

	run := func() (line.Line, []int) {
		rng := rand.New(rand.NewPCG(99, 99))
		model, inliers, runErr := ransac.Estimate(rng, kernel, evaluator)
		if runErr != nil {
			t.Fatalf("estimation failed: %v", runErr)
		}
		return model, inliers
	}

	model1, inliers1 := run()
	model2, inliers2 := run()

	if model1 != model2 {
		t.Errorf("models differ across identically seeded runs: %+v vs %+v", model1, model2)
	}
	if !reflect.DeepEqual(inliers1, inliers2) {
		t.Errorf("inlier sets differ across identically seeded runs")
	}
}

func TestEstimate_MonotonicBestScore(t *testing.T) {
	truth := line.Line{Slope: 0.5, Intercept: 2}
	rng := rand.New(rand.NewPCG(3, 3))
	xy, _, err := synthetic.GenerateLine(rng, 150, 0.5, 0, truth)
	if err != nil {
		t.Fatalf("failed to generate dataset: %v", err)
	}
	kernel, err := line.NewKernel(xy)
	if err != nil {
		t.Fatalf("failed to build kernel: %v", err)
	}

	var scores []float64
	_, _, err = ransac.Estimate(rng, kernel, ransac.NewScoreEvaluator[line.Line](0.3),
		ransac.WithTrialObserver(func(trial ransac.Trial) {
			scores = append(scores, trial.BestScore)
		}))
	if err != nil {
		t.Fatalf("estimation failed: %v", err)
	}
	if len(scores) == 0 {
		t.Fatal("observer was never invoked")
	}
	for i := 1; i < len(scores); i++ {
		if scores[i] < scores[i-1] {
			t.Fatalf("best score decreased at trial %d: %v -> %v", i, scores[i-1], scores[i])
		}
	}
}

func TestEstimate_DegenerateSamples(t *testing.T) {
	// Most minimal samples drawn from this dataset are coincident point
	// pairs. The call must still terminate within the iteration cap and
	// return a valid model.
	const n = 30
	data := make([]float64, 0, 2*n)
	xs := make([]float64, 0, n)
	ys := make([]float64, 0, n)
	for i := 0; i < 25; i++ {
		xs = append(xs, 1)
		ys = append(ys, 1)
	}
	for i := 0; i < 5; i++ {
		x := float64(i)
		xs = append(xs, x)
		ys = append(ys, 2*x+1)
	}
	data = append(data, xs...)
	data = append(data, ys...)
	xy := mat.NewDense(2, n, data)

	kernel, err := line.NewKernel(xy)
	if err != nil {
		t.Fatalf("failed to build kernel: %v", err)
	}

	trials := 0
	rng := rand.New(rand.NewPCG(11, 11))
	_, inliers, err := ransac.Estimate(rng, kernel, ransac.NewScoreEvaluator[line.Line](0.1),
		ransac.WithMaxIterations(64),
		ransac.WithTrialObserver(func(ransac.Trial) { trials++ }))
	if err != nil {
		t.Fatalf("estimation failed on degenerate-heavy data: %v", err)
	}
	if trials > 64 {
		t.Errorf("ran %d trials, cap was 64", trials)
	}
	if inliers == nil {
		t.Error("expected a non-nil inlier set")
	}
}

func TestEstimate_NoInlierStructure(t *testing.T) {
	// Outlier ratio -> 1: pure scatter. The run exhausts the iteration
	// cap, emits a convergence warning, and still returns the best model
	// it saw without error.
	var warned error
	errors.SetWarningHandler(func(w error) { warned = w })
	defer errors.SetWarningHandler(func(error) {})

	const n = 100
	rng := rand.New(rand.NewPCG(5, 5))
	data := make([]float64, 2*n)
	for i := 0; i < n; i++ {
		data[i] = rng.Float64()*10 - 5
		data[n+i] = rng.Float64()*100 - 50
	}
	xy := mat.NewDense(2, n, data)

	kernel, err := line.NewKernel(xy)
	if err != nil {
		t.Fatalf("failed to build kernel: %v", err)
	}

	trials := 0
	_, inliers, err := ransac.Estimate(rng, kernel, ransac.NewScoreEvaluator[line.Line](0.05),
		ransac.WithMaxIterations(50),
		ransac.WithMinInlierRatio(0.5),
		ransac.WithTrialObserver(func(ransac.Trial) { trials++ }))
	if err != nil {
		t.Fatalf("estimation failed on structureless data: %v", err)
	}
	if trials != 50 {
		t.Errorf("expected the full 50-trial budget, ran %d", trials)
	}
	if len(inliers) >= n/2 {
		t.Errorf("unexpectedly large consensus on structureless data: %d inliers", len(inliers))
	}
	if warned == nil {
		t.Error("expected a warning on a structureless dataset")
	}
}

func TestEstimate_DegenerateSampleLogging(t *testing.T) {
	// Every minimal sample from an all-coincident dataset is degenerate;
	// with debug logging configured through the package logger setup,
	// each rejection is reported with the offending error attached.
	prev := slog.Default()
	defer slog.SetDefault(prev)
	var buf bytes.Buffer
	log.SetupLoggerTo("debug", &buf)

	const n = 8
	data := make([]float64, 2*n)
	for i := 0; i < n; i++ {
		data[i] = 1
		data[n+i] = 1
	}
	kernel, err := line.NewKernel(mat.NewDense(2, n, data))
	if err != nil {
		t.Fatalf("failed to build kernel: %v", err)
	}

	rng := rand.New(rand.NewPCG(17, 17))
	_, _, err = ransac.Estimate(rng, kernel, ransac.NewScoreEvaluator[line.Line](0.3),
		ransac.WithMaxIterations(16))
	if err != nil {
		t.Fatalf("estimation failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "degenerate minimal sample") {
		t.Error("expected degenerate-sample rejections in the debug log")
	}
	if !strings.Contains(out, log.ErrAttrKey) {
		t.Errorf("expected an %q attribute in the debug log", log.ErrAttrKey)
	}
}

func TestEstimate_InsufficientData(t *testing.T) {
	xy := mat.NewDense(2, 1, []float64{1, 2})
	kernel, err := line.NewKernel(xy)
	if err != nil {
		t.Fatalf("failed to build kernel: %v", err)
	}

	rng := rand.New(rand.NewPCG(1, 1))
	_, _, err = ransac.Estimate(rng, kernel, ransac.NewScoreEvaluator[line.Line](0.3))
	if err == nil {
		t.Fatal("expected an error for a one-point dataset")
	}
	var target *errors.InsufficientDataError
	if !errors.As(err, &target) {
		t.Errorf("expected *InsufficientDataError, got %T: %v", err, err)
	}
}
