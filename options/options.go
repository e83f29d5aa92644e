package options

// Options holds the command-line configuration. Fields are pointers so they
// can bind directly to flag declarations.
type Options struct {
	Manifest    *string
	Mode        *string
	OutDir      *string
	OutputFile  *string
	Duration    *float64
	FPS         *int
	TimeUniform *string
	Codec       *string
	FFMPEGPath  *string
	Headless    *bool
	WebGL       *bool
	MaxUnits    *int
}
