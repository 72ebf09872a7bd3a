package sourcemap

import "fmt"

const base64Chars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

var base64Index = func() [128]int8 {
	var t [128]int8
	for i := range t {
		t[i] = -1
	}
	for i, c := range base64Chars {
		t[c] = int8(i)
	}
	return t
}()

// decodeVLQ decodes one base64 VLQ value starting at s[i], returning the
// value and the index just past it
func decodeVLQ(s string, i int) (int, int, error) {
	shift := uint(0)
	result := 0
	for {
		if i >= len(s) {
			return 0, 0, fmt.Errorf("truncated vlq at offset %d", i)
		}
		c := s[i]
		if c >= 128 || base64Index[c] < 0 {
			return 0, 0, fmt.Errorf("invalid vlq character %q at offset %d", c, i)
		}
		d := int(base64Index[c])
		i++
		result |= (d & 0x1f) << shift
		if d&0x20 == 0 {
			break
		}
		shift += 5
	}
	// Sign lives in the least significant bit
	if result&1 != 0 {
		result = -(result >> 1)
	} else {
		result >>= 1
	}
	return result, i, nil
}

// decodeMappings decodes a v3 mappings string into absolute entries.
// Segments with fewer than four fields carry no original position and are
// skipped; so are segments whose source index falls outside the sources
// list. Original lines are exposed 1-based.
func decodeMappings(mappings string, numSources int) ([]entry, error) {
	var entries []entry
	genLine := 1
	genCol, srcIdx, srcLine, srcCol := 0, 0, 0, 0

	i := 0
	for i < len(mappings) {
		switch mappings[i] {
		case ';':
			genLine++
			genCol = 0
			i++
		case ',':
			i++
		default:
			var fields [5]int
			n := 0
			for n < 5 {
				v, next, err := decodeVLQ(mappings, i)
				if err != nil {
					return nil, err
				}
				fields[n] = v
				n++
				i = next
				if i >= len(mappings) || mappings[i] == ',' || mappings[i] == ';' {
					break
				}
			}
			genCol += fields[0]
			if n >= 4 {
				srcIdx += fields[1]
				srcLine += fields[2]
				srcCol += fields[3]
				if srcIdx >= 0 && srcIdx < numSources {
					entries = append(entries, entry{
						genLine: genLine,
						genCol:  genCol,
						srcIdx:  srcIdx,
						srcLine: srcLine + 1,
						srcCol:  srcCol,
					})
				}
			}
		}
	}
	return entries, nil
}
