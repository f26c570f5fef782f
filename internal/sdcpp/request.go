package sdcpp

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Common holds the parameters shared by txt2img and img2img.
type Common struct {
	Model           string  `json:"model" validate:"required"`
	VAE             string  `json:"vae"`
	TAESD           string  `json:"taesd"`
	Upscaler        string  `json:"upscaler"`
	UpscaleRepeats  int     `json:"upscale_repeats" validate:"min=1,max=5"`
	ControlNet      string  `json:"controlnet"`
	ControlImage    string  `json:"control_image"`
	ControlStrength float64 `json:"control_strength" validate:"min=0,max=1"`

	Positive string `json:"positive"`
	Negative string `json:"negative"`

	Sampler    string  `json:"sampler" validate:"sampler"`
	Steps      int     `json:"steps" validate:"min=1,max=99"`
	Schedule   string  `json:"schedule" validate:"schedule"`
	Width      int     `json:"width" validate:"min=64,max=2048"`
	Height     int     `json:"height" validate:"min=64,max=2048"`
	BatchCount int     `json:"batch_count" validate:"min=1,max=99"`
	CFGScale   float64 `json:"cfg_scale" validate:"min=1,max=30"`
	Seed       int64   `json:"seed" validate:"min=-1,max=4294967296"`
	ClipSkip   int     `json:"clip_skip" validate:"min=0,max=12"`
	Threads    int     `json:"threads" validate:"min=0"`

	VAETiling     bool   `json:"vae_tiling"`
	VAEOnCPU      bool   `json:"vae_cpu"`
	ControlNetCPU bool   `json:"cnnet_cpu"`
	RNG           string `json:"rng" validate:"rng"`
	Predict       string `json:"predict" validate:"predict"`
	Output        string `json:"output"`
	Color         bool   `json:"color"`
	Verbose       bool   `json:"verbose"`
}

// Txt2ImgRequest is one click on the txt2img Generate button.
type Txt2ImgRequest struct {
	Common
}

// Img2ImgRequest is one click on the img2img Generate button.
type Img2ImgRequest struct {
	Common
	InitImage    string  `json:"init_image" validate:"required"`
	Strength     float64 `json:"strength" validate:"min=0,max=1"`
	StyleRatio   float64 `json:"style_ratio" validate:"min=0,max=100"`
	StyleRatioOn bool    `json:"style_ratio_enabled"`
	Canny        bool    `json:"canny"`
}

// ConvertRequest converts and quantizes a checkpoint to gguf.
type ConvertRequest struct {
	Model   string `json:"model" validate:"required"`
	Type    string `json:"type" validate:"quant"`
	Output  string `json:"output"`
	Verbose bool   `json:"verbose"`
}

// NewCommon returns the form defaults of the original UI.
func NewCommon() Common {
	return Common{
		UpscaleRepeats:  1,
		ControlStrength: 0.9,
		Sampler:         "euler_a",
		Steps:           20,
		Schedule:        "discrete",
		Width:           512,
		Height:          512,
		BatchCount:      1,
		CFGScale:        7.0,
		Seed:            -1,
		RNG:             "cuda",
		Predict:         PredictDefault,
		Color:           true,
	}
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func oneOf(list []string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		v := fl.Field().String()
		for _, s := range list {
			if s == v {
				return true
			}
		}
		return false
	}
}

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		_ = v.RegisterValidation("sampler", oneOf(Samplers))
		_ = v.RegisterValidation("schedule", oneOf(Schedulers))
		_ = v.RegisterValidation("rng", oneOf(RNGs))
		_ = v.RegisterValidation("predict", oneOf(Predictions))
		_ = v.RegisterValidation("quant", oneOf(QuantTypes))
		validate = v
	})
	return validate
}

// Validate checks a request struct and flattens validator errors into one
// readable message.
func Validate(req any) error {
	err := getValidator().Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "sampler":
		return fmt.Sprintf("unknown sampler %q", fe.Value())
	case "schedule":
		return fmt.Sprintf("unknown schedule %q", fe.Value())
	case "rng":
		return fmt.Sprintf("unknown rng %q", fe.Value())
	case "predict":
		return fmt.Sprintf("unknown prediction %q", fe.Value())
	case "quant":
		return fmt.Sprintf("unknown quantization type %q", fe.Value())
	}
	return fmt.Sprintf("%s is invalid (%s)", field, fe.Tag())
}
