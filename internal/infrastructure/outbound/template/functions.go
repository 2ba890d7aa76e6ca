package template

import (
	"encoding/json"
	"fmt"

	"github.com/PaesslerAG/jsonpath"
)

func toJSONString(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}

// ExtractJSONPath evaluates a JSONPath expression against a JSON document
// and returns the result as a string. Any failure yields "".
func ExtractJSONPath(data []byte, expression string) string {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return ""
	}
	result, err := jsonpath.Get(expression, doc)
	if err != nil {
		return ""
	}
	switch v := result.(type) {
	case string:
		return v
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(b)
	}
}
