package legacy

import (
	"bytes"
	"encoding/base64"
	"strings"
)

// Image signatures recognized in legacy icon data.
var (
	sigJPEG = []byte{0xFF, 0xD8}
	sigPNG  = []byte{0x89, 0x50}
	sigBMP  = []byte{0x42, 0x4D}

	// a stricter JPEG marker used when scanning inside an OLE wrapper,
	// where a bare FF D8 is too easy to hit by accident
	sigJPEGFull = []byte{0xFF, 0xD8, 0xFF}
)

// oleScanLimit bounds how deep into the buffer an embedded image signature
// is searched for; OLE headers are small.
const oleScanLimit = 512

// StripOleWrapper recovers raw image bytes from legacy icon data.
//
// The input is base64 as exported by Access. Icons authored through the OLE
// object control are wrapped in a container header; this strips the header
// and re-encodes the image payload. Returns the (possibly unchanged) base64,
// whether a recognizable image was found, and a non-nil error only when the
// input is not valid base64.
func StripOleWrapper(b64 string) (string, bool, error) {
	data, err := base64.StdEncoding.DecodeString(normalizeBase64(b64))
	if err != nil {
		return "", false, err
	}

	// already a bare image: leave it untouched
	if bytes.HasPrefix(data, sigJPEG) || bytes.HasPrefix(data, sigPNG) || bytes.HasPrefix(data, sigBMP) {
		return b64, true, nil
	}

	// look for a BMP payload behind the OLE header, then a JPEG one
	if off := scanFor(data, sigBMP); off > 0 {
		return base64.StdEncoding.EncodeToString(data[off:]), true, nil
	}
	if off := scanFor(data, sigJPEGFull); off > 0 {
		return base64.StdEncoding.EncodeToString(data[off:]), true, nil
	}

	// nothing recognizable within the scan window: keep the original bytes
	return b64, false, nil
}

func scanFor(data, sig []byte) int {
	max := len(data) - len(sig)
	if max > oleScanLimit {
		max = oleScanLimit
	}
	for i := 1; i <= max; i++ {
		if bytes.Equal(data[i:i+len(sig)], sig) {
			return i
		}
	}
	return 0
}

// normalizeBase64 drops the whitespace XML exporters wrap long values with.
func normalizeBase64(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\r', '\n':
			return -1
		}
		return r
	}, s)
}
