package images

// ImageFormat represents supported image and raw frame formats.
type ImageFormat string

const (
	// FormatNV21 is the Android camera YUV 4:2:0 layout: a full resolution
	// Y plane followed by one interleaved V/U plane at quarter resolution.
	FormatNV21 ImageFormat = "nv21"
	// FormatI420 is planar YUV 4:2:0 with separate U and V planes.
	FormatI420 ImageFormat = "i420"
	// FormatRGBA is packed 8-bit red, green, blue, alpha.
	FormatRGBA ImageFormat = "rgba"
	// FormatGray is a single 8-bit channel.
	FormatGray ImageFormat = "gray"
	// FormatJPEG is the JPEG image format.
	FormatJPEG ImageFormat = "jpeg"
	// FormatPNG is the PNG image format.
	FormatPNG ImageFormat = "png"
)

// Raw reports whether the format is an uncompressed pixel layout whose size
// is fully determined by its dimensions.
func (f ImageFormat) Raw() bool {
	switch f {
	case FormatNV21, FormatI420, FormatRGBA, FormatGray:
		return true
	default:
		return false
	}
}
