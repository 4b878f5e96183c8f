package respond

import (
	"strconv"
	"strings"
)

type mediaRange struct {
	typ     string
	subtype string
	q       float64
}

// parseAccept splits an Accept header into media ranges. Malformed entries are skipped.
func parseAccept(header string) []mediaRange {
	var ranges []mediaRange
	for part := range strings.SplitSeq(header, ",") {
		params := strings.Split(part, ";")
		mt := strings.ToLower(strings.TrimSpace(params[0]))
		if mt == "" {
			continue
		}
		typ, subtype, ok := strings.Cut(mt, "/")
		if !ok || typ == "" || subtype == "" {
			continue
		}
		q := 1.0
		valid := true
		for _, p := range params[1:] {
			key, value, _ := strings.Cut(strings.TrimSpace(p), "=")
			if strings.ToLower(strings.TrimSpace(key)) != "q" {
				continue
			}
			parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
			if err != nil || parsed < 0 || parsed > 1 {
				valid = false
				break
			}
			q = parsed
		}
		if valid {
			ranges = append(ranges, mediaRange{typ: typ, subtype: subtype, q: q})
		}
	}
	return ranges
}

// specificity ranks how closely r matches application/<subtype> or
// application/<suffix-base>+<suffix>. Zero means no match.
func (r mediaRange) specificity(subtype, suffix string) int {
	switch {
	case r.typ == "*" && r.subtype == "*":
		return 1
	case r.typ != "application":
		return 0
	case r.subtype == "*":
		return 2
	case r.subtype == "*+"+suffix:
		return 3
	case r.subtype == subtype || r.subtype == "problem+"+suffix:
		return 4
	default:
		return 0
	}
}

// quality returns the q-value of the most specific range matching the format.
func quality(ranges []mediaRange, subtype, suffix string) float64 {
	best, q := 0, 0.0
	for _, r := range ranges {
		if s := r.specificity(subtype, suffix); s > best {
			best, q = s, r.q
		} else if s == best && s > 0 && r.q > q {
			q = r.q
		}
	}
	return q
}

// selectFormat reports whether the client prefers CBOR over JSON.
// JSON wins ties and is the default when Accept is empty or unsatisfiable.
func selectFormat(accept string) bool {
	ranges := parseAccept(accept)
	if len(ranges) == 0 {
		return false
	}
	qCBOR := quality(ranges, "cbor", "cbor")
	qJSON := quality(ranges, "json", "json")
	return qCBOR > 0 && qCBOR > qJSON
}
