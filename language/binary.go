package language

import "unicode/utf8"

const sniffSize = 512

// IsBinaryContent reports whether data looks like something other than
// editable text: a NUL byte or invalid UTF-8 within the first 512 bytes.
func IsBinaryContent(data []byte) bool {
	sample := data
	if len(sample) > sniffSize {
		sample = sample[:sniffSize]
		// A rune cut at the boundary is not an encoding error.
		for i := 0; i < utf8.UTFMax-1 && !utf8.Valid(sample); i++ {
			sample = sample[:len(sample)-1]
		}
	}

	for _, b := range sample {
		if b == 0 {
			return true
		}
	}
	return !utf8.Valid(sample)
}
