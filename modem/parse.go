package modem

import "strconv"

// splitPair splits s on the first occurrence of sep into two substrings.
// ok is false if sep does not appear in s. Grounded on
// original_source/src/common.h's Common::splitByDelimiter, translated from
// the original's out-param style into Go's multi-return convention.
func splitPair(s string, sep byte) (first, second string, ok bool) {
	for i := 0; i < len(s); i++ {
		if s[i] == sep {
			return s[:i], s[i+1:], true
		}
	}
	return "", "", false
}

// parseCSQ parses a "+CSQ: <rssi>,<ber>" trailing line (already stripped of
// the "+CSQ:" prefix) into the rssi value. Any parse error yields 99
// ("unknown"), matching spec's retrieve_signal contract.
func parseCSQ(line string) int {
	rssiStr, _, ok := splitPair(line, ',')
	if !ok {
		return 99
	}
	rssi, err := strconv.Atoi(rssiStr)
	if err != nil {
		return 99
	}
	return rssi
}

// registrationStatusOK reports whether a "<n>,<stat>" registration line
// (already stripped of its +CREG:/+CGREG:/+CEREG: prefix) indicates
// registered (home or roaming), per spec's n∈{0,1}, stat∈{1,5} table. <n>
// only echoes the URC mode this driver itself set with +CREG=0 etc., so it
// is not re-validated here.
func registrationStatusOK(line string) bool {
	_, statStr, ok := splitPair(line, ',')
	if !ok {
		return false
	}
	stat, err := strconv.Atoi(statStr)
	if err != nil {
		return false
	}
	return stat == 1 || stat == 5
}

// httpActionResult is the parsed form of a "+HTTPACTION: <method>,<code>,<len>"
// URC line.
type httpActionResult struct {
	method   int
	code     int
	bodyLen  int
	parseErr bool
}

// parseHTTPAction parses a "<method>,<code>,<len>" line (already stripped
// of its "+HTTPACTION:" prefix).
func parseHTTPAction(line string) httpActionResult {
	methodStr, rest, ok := splitPair(line, ',')
	if !ok {
		return httpActionResult{parseErr: true}
	}
	codeStr, lenStr, ok := splitPair(rest, ',')
	if !ok {
		return httpActionResult{parseErr: true}
	}
	method, err1 := strconv.Atoi(methodStr)
	code, err2 := strconv.Atoi(codeStr)
	bodyLen, err3 := strconv.Atoi(lenStr)
	if err1 != nil || err2 != nil || err3 != nil {
		return httpActionResult{parseErr: true}
	}
	return httpActionResult{method: method, code: code, bodyLen: bodyLen}
}

// isModemHTTPErrorCode reports whether code is in the [700,720] modem-error
// range rather than a genuine HTTP status.
func isModemHTTPErrorCode(code int) bool {
	return code >= 700 && code <= 720
}
