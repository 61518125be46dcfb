package kb

// search binary searches the index positions [lo, hi) and returns the
// position whose entry cmp reports as equal, or -1. cmp returns the order of
// the entry relative to the key being searched.
func (t *table) search(lo, hi int, cmp func(entry []byte) int) int {
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		switch c := cmp(t.entry(mid)); {
		case c < 0:
			lo = mid + 1
		case c > 0:
			hi = mid
		default:
			return mid
		}
	}
	return -1
}

// compareKey compares the zero-terminated string at the start of entry with
// the concatenation of a and b, byte by byte.
func compareKey(entry []byte, a, b string) int {
	n := len(a) + len(b)
	for i := 0; ; i++ {
		var e byte
		if i < len(entry) {
			e = entry[i]
		}
		if i == n {
			if e == 0 {
				return 0
			}
			return 1
		}
		if e == 0 {
			return -1
		}
		var k byte
		if i < len(a) {
			k = a[i]
		} else {
			k = b[i-len(a)]
		}
		if e != k {
			if e < k {
				return -1
			}
			return 1
		}
	}
}

// cstring returns the bytes before the first zero byte of b.
func cstring(b []byte) []byte {
	for i, c := range b {
		if c == 0 {
			return b[:i]
		}
	}
	return b
}
