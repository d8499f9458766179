package analyzer

import "strings"

// Normalize repairs the O-for-0 misread in codes that start with N: when the
// second-to-last character of such a token is the letter O it becomes the
// digit 0. Every other token is returned unchanged.
func Normalize(token string) string {
	n := len(token)
	if n < 3 || !strings.HasPrefix(token, "N") || token[n-2] != 'O' {
		return token
	}
	return token[:n-2] + "0" + token[n-1:]
}
