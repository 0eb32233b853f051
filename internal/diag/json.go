package diag

import (
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// FormatJSON renders diagnostics as a JSON array, built incrementally with
// sjson rather than a struct+encoding/json round-trip. Each element has the
// shape `{phase, severity, file, line, column, message}`.
func FormatJSON(diags []Diagnostic) (string, error) {
	doc := "[]"
	var err error
	for i, d := range diags {
		base := func(path, value string) {
			if err != nil {
				return
			}
			doc, err = sjson.Set(doc, path, value)
		}
		baseInt := func(path string, value int) {
			if err != nil {
				return
			}
			doc, err = sjson.Set(doc, path, value)
		}

		prefix := itoaPath(i)
		base(prefix+".phase", string(d.Phase))
		base(prefix+".severity", d.Severity.String())
		base(prefix+".file", d.Pos.File)
		baseInt(prefix+".line", d.Pos.Line)
		baseInt(prefix+".column", d.Pos.Column)
		base(prefix+".message", d.Message)
		if err != nil {
			return "", err
		}
	}
	return doc, nil
}

func itoaPath(i int) string {
	// sjson array paths are written as "0", "1", ... appended to the root.
	return sjsonIndex(i)
}

func sjsonIndex(i int) string {
	if i == 0 {
		return "0"
	}
	digits := []byte{}
	for i > 0 {
		digits = append([]byte{byte('0' + i%10)}, digits...)
		i /= 10
	}
	return string(digits)
}

// SetSymbolEntry appends one `{name, type, mut}` entry at index i of doc,
// used by `ctrc symbols --json` to build its output with the same
// sjson-incremental style as FormatJSON rather than a struct round-trip.
func SetSymbolEntry(doc string, i int, name, typ string, mut bool) (string, error) {
	prefix := itoaPath(i)
	doc, err := sjson.Set(doc, prefix+".name", name)
	if err != nil {
		return "", err
	}
	doc, err = sjson.Set(doc, prefix+".type", typ)
	if err != nil {
		return "", err
	}
	doc, err = sjson.Set(doc, prefix+".mut", mut)
	if err != nil {
		return "", err
	}
	return doc, nil
}

// CountBySeverity queries a previously rendered diagnostic document (as
// produced by FormatJSON) for how many entries carry the given severity,
// without decoding it back into Go structs. Used by tests that want to
// assert on the wire format directly; the CLI does not call it.
func CountBySeverity(jsonDoc, severity string) int {
	result := gjson.Get(jsonDoc, "#(severity==\""+severity+"\")#")
	if !result.Exists() {
		return 0
	}
	return len(result.Array())
}
