package core

// InterfaceVersion is the plugin binary-interface version.  A module whose
// exported version marker does not equal this constant is never trusted.
const InterfaceVersion = 3

// Format identifies an image codec by name ("jpeg") or by file extension
// ("jpg").  All registry keys are lowercase; compare with NormalizeToken.
type Format string

const (
	FormatJPEG    Format = "jpeg"
	FormatPNG     Format = "png"
	FormatWebP    Format = "webp"
	FormatUnknown Format = "unknown"
)

// ColorSpace represents the image colour model.
type ColorSpace string

const (
	ColorSpaceRGB  ColorSpace = "rgb"
	ColorSpaceRGBA ColorSpace = "rgba"
	ColorSpaceCMYK ColorSpace = "cmyk"
	ColorSpaceGray ColorSpace = "gray"
)

// Descriptor is the capability record a module hands back through its
// well-known entry point.  Either factory may be nil; a module exposing
// neither is discarded.  Extension lists name the extra tokens the
// corresponding handle also answers to, on top of FormatName itself.
type Descriptor struct {
	FormatName       Format
	InputFactory     InputFactory
	InputExtensions  []string
	OutputFactory    OutputFactory
	OutputExtensions []string
}

// Candidate is one (format token, file path) pair yielded by a directory
// scan.  The token is the filename with the module suffix stripped, not yet
// normalized.
type Candidate struct {
	Token string
	Path  string
}

// LoadResult is what a ModuleLoader returns for a loadable, version-valid
// module.  The Descriptor may be zero-valued when the module exports no
// entry point; usefulness is judged by the registry, not the loader.
type LoadResult struct {
	Module     Module
	Descriptor Descriptor
}

// PluginRecord describes one successfully registered module.  Records are
// immutable after creation and live for the life of the registry.
type PluginRecord struct {
	FormatName     Format
	Path           string
	SupportsInput  bool
	SupportsOutput bool
}

// BuiltinPath is the pseudo-path recorded for statically registered modules.
const BuiltinPath = "<builtin>"

// Metadata holds image information extracted during decode.
type Metadata struct {
	Width       int
	Height      int
	Format      Format
	ColorSpace  ColorSpace
	HasAlpha    bool
	SizeBytes   int64
	EXIF        map[string]string // nil when stripped or absent
	HasEXIF     bool
	Orientation int // EXIF orientation tag (1-8)
}

// ImageData is the in-memory representation exchanged with codec handles.
// Data holds encoded bytes; Image holds the decoded pixel buffer.
type ImageData struct {
	// Encoded bytes — non-nil when the image has been encoded or is raw input.
	Data   []byte
	Format Format

	// Decoded pixel buffer.  Using interface{} keeps the core CGO-free;
	// stdlib codecs store image.Image, the vips backend stores its own ref.
	Image interface{}

	// Metadata extracted during decode.
	Meta Metadata

	// Size of the original raw input.
	OriginalSize int64
}

// EncodeOptions carries format-specific encoding parameters.
type EncodeOptions struct {
	Quality    int  // 1-100; 0 = use encoder default
	Lossless   bool // WebP / PNG lossless mode
	StripEXIF  bool
	Interlaced bool // progressive JPEG / interlaced PNG
}
