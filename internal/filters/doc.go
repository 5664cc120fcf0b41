// Package filters decodes PDF stream data.
//
// [Decode] applies the filter chain named by a stream dictionary:
//
//	data, err := filters.Decode(stream.Dict, stream.Data)
//
// Supported filters are FlateDecode (with TIFF and PNG predictors),
// ASCIIHexDecode, ASCII85Decode, RunLengthDecode and CCITTFaxDecode.
// Other filters, such as DCTDecode for JPEG images, return an error
// wrapping [ErrUnsupportedFilter].
package filters
