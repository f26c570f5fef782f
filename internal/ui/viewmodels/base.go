// internal/ui/viewmodels/base.go

package viewmodels

type BaseVM struct {
	Title       string
	Active      string
	ContentTmpl string
	BaseURL     string
	Version     string
	Tabs        []Tab
}

// Tab is one entry of the top navigation.
type Tab struct {
	Key   string
	Label string
	Href  string
}

// Tabs in display order.
var Tabs = []Tab{
	{Key: "txt2img", Label: "txt2img", Href: "/txt2img"},
	{Key: "img2img", Label: "img2img", Href: "/img2img"},
	{Key: "gallery", Label: "Gallery", Href: "/gallery"},
	{Key: "convert", Label: "Checkpoint Converter", Href: "/convert"},
	{Key: "options", Label: "Options", Href: "/options"},
	{Key: "logs", Label: "Logs", Href: "/logs"},
	{Key: "help", Label: "Help", Href: "/help"},
}
