package orders

import "regexp"

// lineNumberPattern matches stored line numbers of the form <base>-<sequence>
// where base is the 5-16 character alphanumeric order number and sequence is
// a 1-3 digit positional suffix including its leading dash.
var lineNumberPattern = regexp.MustCompile(`^([A-Za-z0-9]{5,16})(-[0-9]{1,3})$`)

// orderNumberPattern matches a bare order number
var orderNumberPattern = regexp.MustCompile(`^[A-Za-z0-9]{5,16}$`)

// IsValidNumber reports whether s is a well-formed order number
func IsValidNumber(s string) bool {
	return orderNumberPattern.MatchString(s)
}

// RebaseLineNumber moves a line number onto a new order number, reusing the
// existing sequence suffix. The second return value reports whether the
// current number matched the expected pattern; when it does not, the number
// is returned unchanged and the caller should surface a warning rather than
// fail the operation.
func RebaseLineNumber(current, orderNumber string) (string, bool) {
	m := lineNumberPattern.FindStringSubmatch(current)
	if m == nil {
		return current, false
	}
	return orderNumber + m[2], true
}
