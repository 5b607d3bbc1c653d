package codec

import "github.com/Skryldev/imageio/core"

// Extension claims of the builtin codecs, on top of the format name itself.
// All lowercase; the registry ignores a claim when another module already
// owns the extension.
var (
	jpegExtensions = []string{"jpg", "jpe", "jfif", "jfi"}
	webpExtensions = []string{"webp"}
)

// Descriptors returns the capability descriptors of the builtin jpeg, png,
// and webp codecs, shaped exactly like the ones dynamic modules return from
// their entry point.  defaultQuality seeds the lossy writer handles.
func Descriptors(defaultQuality int) []core.Descriptor {
	return []core.Descriptor{
		{
			FormatName:       core.FormatJPEG,
			InputFactory:     func() core.ImageInput { return NewJPEGInput() },
			InputExtensions:  jpegExtensions,
			OutputFactory:    func() core.ImageOutput { return NewJPEGOutput(defaultQuality) },
			OutputExtensions: jpegExtensions,
		},
		{
			FormatName:    core.FormatPNG,
			InputFactory:  func() core.ImageInput { return NewPNGInput() },
			OutputFactory: func() core.ImageOutput { return NewPNGOutput() },
		},
		{
			FormatName:       core.FormatWebP,
			InputFactory:     func() core.ImageInput { return NewWebPInput() },
			InputExtensions:  webpExtensions,
			OutputFactory:    func() core.ImageOutput { return NewWebPOutput(defaultQuality) },
			OutputExtensions: webpExtensions,
		},
	}
}
