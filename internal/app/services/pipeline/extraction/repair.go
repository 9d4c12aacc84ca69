package extraction

import "bytes"

// Repair applies the two safe fixes for malformed collaborator payloads:
// stripping control characters and stripping trailing separators before a
// closing brace or bracket. Anything beyond that is treated as unusable
// rather than guessed at.
func Repair(raw []byte) []byte {
	cleaned := stripControlCharacters(raw)
	cleaned = stripTrailingSeparators(cleaned)
	return cleaned
}

func stripControlCharacters(raw []byte) []byte {
	var out bytes.Buffer
	out.Grow(len(raw))
	for _, b := range raw {
		if b < 0x20 && b != '\n' && b != '\r' && b != '\t' {
			continue
		}
		out.WriteByte(b)
	}
	return out.Bytes()
}

func stripTrailingSeparators(raw []byte) []byte {
	var out bytes.Buffer
	out.Grow(len(raw))
	for i := 0; i < len(raw); i++ {
		b := raw[i]
		if b == ',' || b == ';' {
			next := nextNonSpace(raw, i+1)
			if next == -1 || raw[next] == '}' || raw[next] == ']' {
				continue
			}
			if b == ';' {
				// a separator the contract never allows
				out.WriteByte(',')
				continue
			}
		}
		out.WriteByte(b)
	}
	return bytes.TrimRight(out.Bytes(), " \t\n\r")
}

func nextNonSpace(raw []byte, from int) int {
	for i := from; i < len(raw); i++ {
		switch raw[i] {
		case ' ', '\t', '\n', '\r':
			continue
		default:
			return i
		}
	}
	return -1
}
