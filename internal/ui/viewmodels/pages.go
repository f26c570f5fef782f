// internal/ui/viewmodels/pages.go

package viewmodels

import (
	"github.com/petervdpas/sdcpp-webui/internal/config"
	"github.com/petervdpas/sdcpp-webui/internal/docs"
)

type ConvertVM struct {
	BaseVM
	HFModels    []string
	QuantTypes  []string
	DefaultType string
	HubEnabled  bool
}

type OptionsVM struct {
	BaseVM
	CfgPath  string
	Defaults config.Defaults
	Choices  Choices
}

type LogsVM struct {
	BaseVM
	Tags []string
}

// LogTags are the component prefixes offered by the Logs tab filter.
var LogTags = []string{"SDCPP", "GALLERY", "CONFIG", "PROMPTS", "MODELS", "VIEWER", "ASSETS", "TRACE"}

type HelpVM struct {
	BaseVM
	Pages []docs.Page
	Page  docs.Page
}
