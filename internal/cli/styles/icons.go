package styles

// Nerd Font icons (requires a Nerd Font to display correctly)
const (
	IconVideo   = "\uf03d" // video camera
	IconGlobe   = "\uf0ac" // web
	IconCheck   = "\uf00c" // check
	IconX       = "\uf00d" // x
	IconInfo    = "\uf05a" // info
	IconConfig  = "\ue615" // config
	IconCursor  = "\uf054" // chevron-right
	IconPlay    = "\uf04b" // play (running)
	IconStop    = "\uf04d" // stop
	IconMoon    = "\uf186" // moon
	IconSun     = "\uf185" // sun
	IconVersion = "\uf02b" // tag
)
