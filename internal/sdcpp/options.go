// Package sdcpp drives the stable-diffusion.cpp command line tool: it turns
// form values into argument lists, runs the binary and reports the images
// it wrote.
package sdcpp

// Choices offered by the forms. Values are passed to sd verbatim.
var (
	Samplers   = []string{"euler", "euler_a", "heun", "dpm2", "dpm++2s_a", "dpm++2m", "dpm++2mv2", "lcm"}
	Schedulers = []string{"discrete", "karras", "ays"}
	RNGs       = []string{"std_default", "cuda"}
	QuantTypes = []string{"f32", "f16", "q8_0", "q5_1", "q5_0", "q4_1", "q4_0"}

	// PredictDefault leaves the prediction type to sd.
	Predictions = []string{PredictDefault, "eps", "v", "flow"}
)

const PredictDefault = "default"

// Mode is the sd -M value.
type Mode string

const (
	ModeTxt2Img Mode = "txt2img"
	ModeImg2Img Mode = "img2img"
	ModeConvert Mode = "convert"
)
