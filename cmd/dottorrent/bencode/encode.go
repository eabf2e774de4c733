package bencode

import (
	"slices"
	"strconv"
)

// Encode renders v as canonical bencode: dictionary keys are always
// emitted in ascending byte order.
func Encode(v Value) []byte {
	return Append(nil, v)
}

// Append appends the canonical encoding of v to dst.
// It panics if the tree contains a Value with no Kind.
func Append(dst []byte, v Value) []byte {
	switch v.Kind {
	case KindInteger:
		dst = append(dst, 'i')
		dst = strconv.AppendInt(dst, v.Int, 10)
		return append(dst, 'e')
	case KindString:
		return appendString(dst, v.Bytes)
	case KindList:
		dst = append(dst, 'l')
		for _, item := range v.List {
			dst = Append(dst, item)
		}
		return append(dst, 'e')
	case KindDict:
		keys := make([]string, 0, len(v.Dict))
		for k := range v.Dict {
			keys = append(keys, k)
		}
		slices.Sort(keys)

		dst = append(dst, 'd')
		for _, k := range keys {
			dst = appendString(dst, []byte(k))
			dst = Append(dst, v.Dict[k])
		}
		return append(dst, 'e')
	default:
		panic("bencode: cannot encode " + v.Kind.String())
	}
}

func appendString(dst []byte, str []byte) []byte {
	dst = strconv.AppendInt(dst, int64(len(str)), 10)
	dst = append(dst, ':')
	return append(dst, str...)
}
