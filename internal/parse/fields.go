package parse

import (
	"strconv"
	"strings"

	"ln-sim-viz/internal/domain"
)

// nullSentinel marks an absent value in nullable string fields.
const nullSentinel = "NULL"

// listSeparator joins list-valued fields inside a single column. A
// non-comma separator avoids clashing with the tabular delimiter.
const listSeparator = "-"

// parseInt decodes a base-10 integer field. Malformed fields decode to 0.
func parseInt(s string) int64 {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// parseIntStrict decodes a base-10 integer and reports malformation to the
// caller, for sites that substitute a non-zero default.
func parseIntStrict(s string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(s), 10, 64)
}

// parseID decodes an id-reference field. Malformed fields decode to
// domain.NoID so they fall under the unresolvable-reference policy instead
// of aliasing id 0.
func parseID(s string) int64 {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return domain.NoID
	}
	return v
}

// parseBool decodes a boolean-coded field. "1" is the only true sentinel.
func parseBool(s string) bool {
	return strings.TrimSpace(s) == "1"
}

// parseNullableInt decodes a nullable integer field. The NULL sentinel and
// malformed values map to nil.
func parseNullableInt(s string) *int64 {
	s = strings.TrimSpace(s)
	if s == "" || s == nullSentinel {
		return nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil
	}
	return &v
}

// parseIDList decodes a separator-joined integer list. Non-numeric tokens
// are filtered out; empty and NULL fields decode to an empty list.
func parseIDList(s string) []int64 {
	s = strings.TrimSpace(s)
	if s == "" || s == nullSentinel {
		return nil
	}
	var ids []int64
	for _, tok := range strings.Split(s, listSeparator) {
		v, err := strconv.ParseInt(strings.TrimSpace(tok), 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, v)
	}
	return ids
}

// JoinIDList renders an id list in the dump's separator-joined form.
// Round-trips with parseIDList for lists of valid ids.
func JoinIDList(ids []int64) string {
	toks := make([]string, len(ids))
	for i, id := range ids {
		toks[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(toks, listSeparator)
}
