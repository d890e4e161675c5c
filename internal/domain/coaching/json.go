package coaching

import (
	"encoding/json"

	"gorm.io/datatypes"
)

// Strings encodes a string list for a JSON column. nil encodes as [].
func Strings(items []string) datatypes.JSON {
	if items == nil {
		items = []string{}
	}
	b, _ := json.Marshal(items)
	return datatypes.JSON(b)
}

// StringList decodes a JSON column written by Strings. Malformed data yields nil.
func StringList(raw datatypes.JSON) []string {
	if len(raw) == 0 {
		return nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}
