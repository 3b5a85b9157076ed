package momo

import (
	"fmt"
	"sort"
	"strings"
)

// Canonicalize builds the string the provider signs: the signature field and empty or
// null values are dropped, keys are sorted byte-wise and joined as key=value pairs with "&".
// Values are written literally, without URL encoding.
func Canonicalize(fields map[string]interface{}) string {
	keys := make([]string, 0, len(fields))
	values := make(map[string]string, len(fields))

	for key, value := range fields {
		if key == FieldSignature || value == nil {
			continue
		}
		str, ok := value.(string)
		if !ok {
			str = fmt.Sprint(value)
		}
		if str == "" {
			continue
		}
		keys = append(keys, key)
		values[key] = str
	}

	sort.Strings(keys)

	var b strings.Builder
	for i, key := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(key)
		b.WriteByte('=')
		b.WriteString(values[key])
	}
	return b.String()
}
