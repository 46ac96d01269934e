package api

import "strings"

// ID aceita identificadores que os backends devolvem ora como string,
// ora como número.
type ID string

func (i *ID) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" {
		s = ""
	}
	*i = ID(s)
	return nil
}

func (i ID) String() string { return string(i) }
