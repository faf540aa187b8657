package vanilla

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	tokenPolicyOnce sync.Once
	tokenPolicy     *bluemonday.Policy
)

func tokenSanitizer() *bluemonday.Policy {
	tokenPolicyOnce.Do(func() {
		tokenPolicy = bluemonday.StrictPolicy()
	})
	return tokenPolicy
}

// cssValue vets a theme token before it is written unescaped into the page
// <style> block. Values that carry markup, or characters that would close the
// declaration, are refused.
func cssValue(raw string) (string, bool) {
	value := strings.TrimSpace(raw)
	if value == "" || strings.ContainsAny(value, ";{}") {
		return "", false
	}
	if tokenSanitizer().Sanitize(value) != value {
		return "", false
	}
	return value, true
}
