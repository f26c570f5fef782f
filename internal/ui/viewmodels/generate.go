// internal/ui/viewmodels/generate.go

package viewmodels

import "github.com/petervdpas/sdcpp-webui/internal/sdcpp"

// Choices fills the dropdowns of the generation and options forms.
type Choices struct {
	Models      []string
	VAEs        []string
	TAESDs      []string
	Upscalers   []string
	ControlNets []string
	Samplers    []string
	Schedulers  []string
	RNGs        []string
	Predictions []string
}

type GenerateVM struct {
	BaseVM
	Mode string // txt2img | img2img
	Form sdcpp.Common

	// img2img only
	Strength   float64
	StyleRatio float64

	Choices Choices
	Prompts []string
}

func (vm GenerateVM) IsImg2Img() bool { return vm.Mode == string(sdcpp.ModeImg2Img) }
