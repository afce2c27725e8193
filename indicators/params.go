package indicators

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rustyeddy/pipengine/market"
)

// EMAParams configures an Exponential Moving Average.
type EMAParams struct {
	Period int          `yaml:"period" validate:"gt=0"`
	Source market.Field `yaml:"source" validate:"source"`
	// Offset shifts the line forward by that many bars, or back when
	// negative. Positions with no source value are undefined.
	Offset int `yaml:"offset,omitempty"`
}

func DefaultEMAParams() EMAParams {
	return EMAParams{Period: 9, Source: market.FieldClose}
}

// DEMAParams configures a Double Exponential Moving Average.
type DEMAParams struct {
	Period int          `yaml:"period" validate:"gt=0"`
	Source market.Field `yaml:"source" validate:"source"`
}

func DefaultDEMAParams() DEMAParams {
	return DEMAParams{Period: 9, Source: market.FieldClose}
}

// ATRParams configures an Average True Range.
type ATRParams struct {
	Period int    `yaml:"period" validate:"gt=0"`
	Method MAType `yaml:"method" validate:"matype"`
}

func DefaultATRParams() ATRParams {
	return ATRParams{Period: 14, Method: MethodRMA}
}

// ImpulseMACDParams configures LazyBear's Impulse MACD.
type ImpulseMACDParams struct {
	LengthMA     int `yaml:"length_ma" validate:"gt=0"`
	LengthSignal int `yaml:"length_signal" validate:"gt=0"`
}

func DefaultImpulseMACDParams() ImpulseMACDParams {
	return ImpulseMACDParams{LengthMA: 34, LengthSignal: 9}
}

// Signal line algorithms for the zero-lag MACD.
const (
	SignalZeroLag = "zerolag" // zero-lag EMA of the MACD line
	SignalLegacy  = "legacy"  // simple average of the MACD line
)

// ZeroLagMACDParams configures the Enhanced Zero-Lag MACD.
type ZeroLagMACDParams struct {
	Fast          int          `yaml:"fast" validate:"gt=0,ltfield=Slow"`
	Slow          int          `yaml:"slow" validate:"gt=0"`
	Signal        int          `yaml:"signal" validate:"gt=0"`
	MACDEMALength int          `yaml:"macd_ema_length" validate:"gt=0"`
	Smoothing     MAType       `yaml:"smoothing" validate:"zlsmoothing"`
	SignalAlgo    string       `yaml:"signal_algo" validate:"oneof=zerolag legacy"`
	Source        market.Field `yaml:"source" validate:"source"`
}

func DefaultZeroLagMACDParams() ZeroLagMACDParams {
	return ZeroLagMACDParams{
		Fast:          12,
		Slow:          26,
		Signal:        9,
		MACDEMALength: 9,
		Smoothing:     MethodEMA,
		SignalAlgo:    SignalZeroLag,
		Source:        market.FieldClose,
	}
}

// Flip sources for the fractal trailing stops.
const (
	FlipOnClose = "close" // closing price must cross the stop
	FlipOnWick  = "wick"  // the bar's low (long) or high (short) may cross the stop
)

// FractalStopsParams configures the Williams Fractal Trailing Stops.
type FractalStopsParams struct {
	Left          int     `yaml:"left_range" validate:"gt=0"`
	Right         int     `yaml:"right_range" validate:"gt=0"`
	BufferPercent float64 `yaml:"buffer_percent" validate:"gte=0,lt=100"`
	FlipOn        string  `yaml:"flip_on" validate:"oneof=close wick"`
}

func DefaultFractalStopsParams() FractalStopsParams {
	return FractalStopsParams{Left: 2, Right: 2, FlipOn: FlipOnClose}
}

// SupertrendParams configures the Supertrend bands.
type SupertrendParams struct {
	ATRPeriod  int          `yaml:"atr_period" validate:"gt=0"`
	Multiplier float64      `yaml:"multiplier" validate:"gt=0"`
	ATRMethod  MAType       `yaml:"atr_method" validate:"matype"`
	Source     market.Field `yaml:"source" validate:"source"`
}

func DefaultSupertrendParams() SupertrendParams {
	return SupertrendParams{ATRPeriod: 10, Multiplier: 3, ATRMethod: MethodRMA, Source: market.FieldHL2}
}

// PSARParams configures the Parabolic SAR acceleration factor.
type PSARParams struct {
	Start     float64 `yaml:"start" validate:"gt=0"`
	Increment float64 `yaml:"increment" validate:"gt=0"`
	Maximum   float64 `yaml:"maximum" validate:"gt=0,gtefield=Start"`
}

func DefaultPSARParams() PSARParams {
	return PSARParams{Start: 0.02, Increment: 0.02, Maximum: 0.2}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report parameters by their config names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	// Empty means the default (close / RMA).
	_ = v.RegisterValidation("source", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "" || market.Field(s).Valid()
	})
	_ = v.RegisterValidation("matype", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if s == "" {
			return true
		}
		_, ok := ParseMAType(s)
		return ok
	})
	// Zero-lag legs only de-lag an EMA or an SMA. Empty means EMA.
	_ = v.RegisterValidation("zlsmoothing", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if s == "" {
			return true
		}
		m, ok := ParseMAType(s)
		return ok && (m == MethodEMA || m == MethodSMA)
	})
	return v
}

// ValidateParams checks the validate tags of a parameter struct and reports
// the first violation as an InvalidParameterError.
func ValidateParams(indicator string, params any) error {
	err := validate.Struct(params)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &InvalidParameterError{
			Indicator: indicator,
			Param:     fe.Field(),
			Value:     fe.Value(),
			Reason:    describe(fe),
		}
	}
	return &InvalidParameterError{Indicator: indicator, Param: "params", Value: params, Reason: err.Error()}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	case "lt":
		return "must be less than " + fe.Param()
	case "ltfield":
		return "must be less than " + strings.ToLower(fe.Param())
	case "gtefield":
		return "must be at least " + strings.ToLower(fe.Param())
	case "oneof":
		return "must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "source":
		return "unsupported source field"
	case "matype":
		return "unsupported smoothing method (want one of RMA, SMA, EMA, WMA)"
	case "zlsmoothing":
		return "unsupported smoothing method (want one of EMA, SMA)"
	default:
		return "failed " + fe.Tag() + " check"
	}
}

func sourceOrClose(f market.Field) market.Field {
	if f == "" {
		return market.FieldClose
	}
	return f
}

// resolveSmoothing maps an empty zero-lag smoothing to EMA and normalises
// the case of validated names.
func resolveSmoothing(m MAType) MAType {
	if resolved, ok := ParseMAType(string(m)); ok {
		return resolved
	}
	return MethodEMA
}

// resolveMethod maps an empty method to RMA and rejects unknown names.
func resolveMethod(indicator, param string, m MAType) (MAType, error) {
	if m == "" {
		return MethodRMA, nil
	}
	resolved, ok := ParseMAType(string(m))
	if !ok {
		return "", unsupportedMethod(indicator, param, m)
	}
	return resolved, nil
}
