package models

// Mode restricts which content kinds participate in the playlist.
type Mode string

// Content mode constants. The on-disk settings file stores these literal
// strings.
const (
	ModeBoth         Mode = "both"
	ModeVideo        Mode = "video"
	ModePresentation Mode = "presentation"
)

// ParseMode maps a raw settings value onto a known mode. Anything
// unrecognized degrades to ModeBoth so a typo in the settings file can never
// blank every display on the network.
func ParseMode(raw string) Mode {
	switch Mode(raw) {
	case ModeVideo:
		return ModeVideo
	case ModePresentation:
		return ModePresentation
	default:
		return ModeBoth
	}
}

// AllowsVideo reports whether video entries may appear under this mode.
func (m Mode) AllowsVideo() bool {
	return m == ModeBoth || m == ModeVideo
}

// AllowsPresentation reports whether slide entries may appear under this mode.
func (m Mode) AllowsPresentation() bool {
	return m == ModeBoth || m == ModePresentation
}
