package recipe

import (
	"fmt"
	"strings"
)

// ExtractFragment 取出第一個 startTag 到其後第一個 endTag 的子字串，包含兩端標籤
func ExtractFragment(raw, startTag, endTag string) (string, error) {
	start := strings.Index(raw, startTag)
	if start < 0 {
		return "", fmt.Errorf("%w: %s", ErrFragmentNotFound, startTag)
	}
	rest := raw[start+len(startTag):]
	end := strings.Index(rest, endTag)
	if end < 0 {
		return "", fmt.Errorf("%w: %s after %s", ErrFragmentNotFound, endTag, startTag)
	}
	return raw[start : start+len(startTag)+end+len(endTag)], nil
}
