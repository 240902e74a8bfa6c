package media

// QualityPreset is one entry of the fixed conversion ladder.
type QualityPreset struct {
	Name         string
	Width        int
	Height       int
	VideoBitrate string
}

// All conversions share one audio bitrate regardless of preset.
const qualityAudioBitrate = "128k"

var qualityPresets = map[string]QualityPreset{
	"144p":  {Name: "144p", Width: 256, Height: 144, VideoBitrate: "200k"},
	"360p":  {Name: "360p", Width: 640, Height: 360, VideoBitrate: "800k"},
	"480p":  {Name: "480p", Width: 854, Height: 480, VideoBitrate: "1500k"},
	"720p":  {Name: "720p", Width: 1280, Height: 720, VideoBitrate: "3000k"},
	"1080p": {Name: "1080p", Width: 1920, Height: 1080, VideoBitrate: "5000k"},
}

// LookupPreset resolves a preset name. Unknown names must be rejected at
// the submission boundary, before any job row or dispatch exists.
func LookupPreset(name string) (QualityPreset, bool) {
	p, ok := qualityPresets[name]
	return p, ok
}
