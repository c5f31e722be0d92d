// Package errors はプロジェクト全体のエラーハンドリングと警告システムを提供します。
// ロバスト推定では「良いモデルが見つからない」ことは正常な結果の一つであるため、
// 致命的エラーと、制御フローで吸収される警告・回復可能エラーを明確に区別します。
package errors

import (
	"fmt"
	"log"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	グローバル警告ハンドリング
//
// ===========================================================================
var (
	warningMutex   sync.Mutex
	warningHandler = func(w error) {
		// デフォルトのハンドラは標準エラー出力にログを出す
		log.Printf("robustgo-Warning: %v\n", w)
	}
	// zerologロガー（循環importを避けるため遅延初期化）
	zerologWarnFunc func(warning error)
)

// SetWarningHandler はライブラリ全体の警告ハンドラを設定します。
// NoConsensusWarningなどのカスタム警告の処理方法を制御できます。
//
// 例:
//
//	errors.SetWarningHandler(func(w error) {
//	    // 警告を無視する
//	})
func SetWarningHandler(handler func(w error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	warningHandler = handler
}

// SetZerologWarnFunc はzerolog警告関数を設定します（循環importを避けるため）。
func SetZerologWarnFunc(warnFunc func(warning error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	zerologWarnFunc = warnFunc
}

// Warn は警告を発生させます。
// zerologが利用可能な場合は構造化ログとして出力し、そうでなければ従来のハンドラを使用します。
func Warn(w error) {
	warningMutex.Lock()
	defer warningMutex.Unlock()

	// zerologが設定されている場合は優先的に使用
	if zerologWarnFunc != nil {
		zerologWarnFunc(w)
		return
	}

	// フォールバック: 従来のハンドラ
	if warningHandler != nil {
		warningHandler(w)
	}
}

// ===========================================================================
//
//	推定ループで吸収される警告型
//
// ===========================================================================

// NoConsensusWarning は推定終了時点の最良インライア比が
// 呼び出し側の指定した最小値に届かなかった場合の警告です。
// モデル自体は返されるため、エラーではなく警告として扱います。
type NoConsensusWarning struct {
	InlierCount int
	NumSamples  int
	MinRatio    float64
}

func (w *NoConsensusWarning) Error() string {
	ratio := 0.0
	if w.NumSamples > 0 {
		ratio = float64(w.InlierCount) / float64(w.NumSamples)
	}
	return fmt.Sprintf("no consensus reached: best inlier ratio %.4f (%d/%d) below minimum %.4f",
		ratio, w.InlierCount, w.NumSamples, w.MinRatio)
}

// MarshalZerologObject はzerologのイベントに構造化された警告情報を追加します。
func (w *NoConsensusWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Int("inlier_count", w.InlierCount).
		Int("num_samples", w.NumSamples).
		Float64("min_ratio", w.MinRatio).
		Str("type", "NoConsensusWarning")
}

// NewNoConsensusWarning は新しいNoConsensusWarningを作成します。
func NewNoConsensusWarning(inlierCount, numSamples int, minRatio float64) *NoConsensusWarning {
	return &NoConsensusWarning{InlierCount: inlierCount, NumSamples: numSamples, MinRatio: minRatio}
}

// ConvergenceWarning は適応的試行回数の基準を満たす前に
// 試行回数の上限に到達した場合に発生する警告です。
type ConvergenceWarning struct {
	Algorithm  string
	Iterations int
	Message    string
}

func (w *ConvergenceWarning) Error() string {
	if w.Message != "" {
		return fmt.Sprintf("%s reached the iteration cap after %d iterations: %s", w.Algorithm, w.Iterations, w.Message)
	}
	return fmt.Sprintf("%s reached the iteration cap after %d iterations. Consider increasing maxIterations or relaxing the threshold.", w.Algorithm, w.Iterations)
}

// MarshalZerologObject はzerologのイベントに構造化された警告情報を追加します。
func (w *ConvergenceWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("algorithm", w.Algorithm).
		Int("iterations", w.Iterations).
		Str("message", w.Message).
		Str("type", "ConvergenceWarning")
}

// NewConvergenceWarning は新しいConvergenceWarningを作成します。
func NewConvergenceWarning(algorithm string, iterations int, message string) *ConvergenceWarning {
	return &ConvergenceWarning{Algorithm: algorithm, Iterations: iterations, Message: message}
}

// ===========================================================================
//
//	構造化されたエラー型
//
// ===========================================================================

// InsufficientDataError はデータセットが最小サンプル数より小さい場合のエラーです。
// 事前条件違反であり、試行ループの開始前に即座に返されます。
type InsufficientDataError struct {
	Op       string
	Required int
	Got      int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("robustgo: %s: insufficient data: need at least %d samples, got %d", e.Op, e.Required, e.Got)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *InsufficientDataError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("required", e.Required).
		Int("got", e.Got).
		Str("type", "InsufficientDataError")
}

// NewInsufficientDataError は新しいInsufficientDataErrorを作成し、スタックトレースを付与します。
func NewInsufficientDataError(op string, required, got int) error {
	err := &InsufficientDataError{Op: op, Required: required, Got: got}
	return errors.WithStack(err)
}

// DegenerateSampleError は抽出した最小サンプルからモデルを決定できない場合のエラーです。
// 例えば直線フィットにおける同一点のペアなど。
// ドライバはこのエラーを吸収して新しいサンプルを引き直します。
type DegenerateSampleError struct {
	Kernel string
	Sample []int
	Reason string
}

func (e *DegenerateSampleError) Error() string {
	return fmt.Sprintf("robustgo: %s: degenerate sample %v: %s", e.Kernel, e.Sample, e.Reason)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *DegenerateSampleError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("kernel", e.Kernel).
		Ints("sample", e.Sample).
		Str("reason", e.Reason).
		Str("type", "DegenerateSampleError")
}

// NewDegenerateSampleError は新しいDegenerateSampleErrorを作成します。
// 試行ごとのホットパスで発生しうるため、スタックトレースは付与しません。
func NewDegenerateSampleError(kernel string, sample []int, reason string) error {
	return &DegenerateSampleError{Kernel: kernel, Sample: sample, Reason: reason}
}

// IsDegenerateSample はエラーがDegenerateSampleErrorかどうかを判定します。
func IsDegenerateSample(err error) bool {
	var target *DegenerateSampleError
	return errors.As(err, &target)
}

// RefitError は重み付き最小二乗の再フィットが悪条件（ランク落ちなど）で
// 失敗した場合のエラーです。局所最適化ループはこのエラーを吸収し、
// 再フィット前の候補モデルを保持します。
type RefitError struct {
	Kernel     string
	SampleSize int
	Err        error
}

func (e *RefitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("robustgo: %s: weighted refit failed on %d samples: %v", e.Kernel, e.SampleSize, e.Err)
	}
	return fmt.Sprintf("robustgo: %s: weighted refit failed on %d samples", e.Kernel, e.SampleSize)
}

func (e *RefitError) Unwrap() error {
	return e.Err
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *RefitError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("kernel", e.Kernel).
		Int("sample_size", e.SampleSize).
		Str("type", "RefitError")
}

// NewRefitError は新しいRefitErrorを作成します。
func NewRefitError(kernel string, sampleSize int, err error) error {
	return &RefitError{Kernel: kernel, SampleSize: sampleSize, Err: err}
}

// IsRefitFailure はエラーがRefitErrorかどうかを判定します。
func IsRefitFailure(err error) bool {
	var target *RefitError
	return errors.As(err, &target)
}

// NotFittedError はモデルが未学習の状態で `Predict` や `Score` を呼び出した場合のエラーです。
type NotFittedError struct {
	ModelName string
	Method    string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("robustgo: %s: this model is not fitted yet. Call Fit() before using %s()", e.ModelName, e.Method)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *NotFittedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("model_name", e.ModelName).
		Str("method", e.Method).
		Str("type", "NotFittedError")
}

// NewNotFittedError は新しいNotFittedErrorを作成し、スタックトレースを付与します。
func NewNotFittedError(modelName, method string) error {
	err := &NotFittedError{ModelName: modelName, Method: method}
	return errors.WithStack(err)
}

// DimensionError は入力データの次元が期待値と異なる場合のエラーです。
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int // 0 for rows, 1 for columns/observations
}

func (e *DimensionError) Error() string {
	axisName := "columns"
	if e.Axis == 0 {
		axisName = "rows"
	}
	return fmt.Sprintf("robustgo: %s: dimension mismatch on axis %d (%s). Expected %d, got %d", e.Op, e.Axis, axisName, e.Expected, e.Got)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *DimensionError) MarshalZerologObject(event *zerolog.Event) {
	axisName := "columns"
	if e.Axis == 0 {
		axisName = "rows"
	}
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Int("axis", e.Axis).
		Str("axis_name", axisName).
		Str("type", "DimensionError")
}

// NewDimensionError は新しいDimensionErrorを作成し、スタックトレースを付与します。
func NewDimensionError(op string, expected, got, axis int) error {
	err := &DimensionError{Op: op, Expected: expected, Got: got, Axis: axis}
	return errors.WithStack(err)
}

// ValidationError は入力パラメータの検証に失敗した場合のエラーです。
type ValidationError struct {
	ParamName string
	Reason    string
	Value     interface{}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("robustgo: validation failed for parameter '%s': %s (got: %v)", e.ParamName, e.Reason, e.Value)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *ValidationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("param_name", e.ParamName).
		Str("reason", e.Reason).
		Interface("value", e.Value).
		Str("type", "ValidationError")
}

// NewValidationError は新しいValidationErrorを作成し、スタックトレースを付与します。
func NewValidationError(param, reason string, value interface{}) error {
	err := &ValidationError{ParamName: param, Reason: reason, Value: value}
	return errors.WithStack(err)
}

// ValueError は引数の値が不適切または不正な場合に発生するエラーです。
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("robustgo: %s: %s", e.Op, e.Message)
}

// NewValueError は新しいValueErrorを作成し、スタックトレースを付与します。
func NewValueError(op, message string) error {
	err := &ValueError{Op: op, Message: message}
	return errors.WithStack(err)
}

// ===========================================================================
//
//	cockroachdb/errors ラッパー関数
//
// ===========================================================================

// Is はエラーが特定のターゲットエラーかどうかを判定します。
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As はエラーが特定の型にキャスト可能かどうかを判定します。
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap は既存のエラーをメッセージ付きでラップします。
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf は既存のエラーをフォーマット文字列でラップします。
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New は新しいエラーを作成します。
func New(message string) error {
	return errors.New(message)
}

// Newf は新しいフォーマット済みエラーを作成します。
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack はエラーにスタックトレースを付与します。
func WithStack(err error) error {
	return errors.WithStack(err)
}

// ===========================================================================
//
//	共通エラー変数
//
// ===========================================================================

var (
	// ErrEmptyData は空のデータが渡された場合のエラーです。
	ErrEmptyData = New("empty data")

	// ErrSingularMatrix は特異行列の場合のエラーです。
	ErrSingularMatrix = New("singular matrix")
)
