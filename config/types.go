package config

import "fmt"

type SourceKind int

const (
	SourceStatic SourceKind = iota
	SourceEODHD
	SourceSQL
)

var sourceKindNames = map[SourceKind]string{
	SourceStatic: "static",
	SourceEODHD:  "eodhd",
	SourceSQL:    "sql",
}

var sourceKindValues = map[string]SourceKind{
	"static": SourceStatic,
	"eodhd":  SourceEODHD,
	"sql":    SourceSQL,
}

func (k SourceKind) String() string {
	if name, ok := sourceKindNames[k]; ok {
		return name
	}
	return "unknown"
}

func ParseSourceKind(s string) (SourceKind, bool) {
	k, ok := sourceKindValues[s]
	return k, ok
}

func (k SourceKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *SourceKind) UnmarshalText(text []byte) error {
	parsed, ok := ParseSourceKind(string(text))
	if !ok {
		return fmt.Errorf("unknown source kind %q", string(text))
	}
	*k = parsed
	return nil
}

// RequiresNetwork reports whether the source calls a remote provider and so needs credentials.
func (k SourceKind) RequiresNetwork() bool {
	return k == SourceEODHD
}
