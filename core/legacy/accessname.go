package legacy

import (
	"regexp"
	"strconv"
)

// Access escapes characters that are invalid in XML element names as _xHHHH_
// sequences, e.g. "Short_x0020_School" for the "Short School" column.
var accessNameEscape = regexp.MustCompile(`_x([0-9A-Fa-f]{4})_`)

// decodeAccessName decodes an Access-exported element name back to the
// original column name. Unrecognized sequences are left untouched.
func decodeAccessName(name string) string {
	return accessNameEscape.ReplaceAllStringFunc(name, func(m string) string {
		code, err := strconv.ParseUint(m[2:6], 16, 32)
		if err != nil {
			return m
		}
		return string(rune(code))
	})
}
