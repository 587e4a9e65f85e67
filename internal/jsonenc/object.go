package jsonenc

import (
	"bytes"
	"encoding/json"
)

// objectWriter appends members to a JSON object. Comma placement follows the
// number of members actually written.
type objectWriter struct {
	buf     *bytes.Buffer
	written int
}

func newObjectWriter(buf *bytes.Buffer) *objectWriter {
	buf.WriteByte('{')
	return &objectWriter{buf: buf}
}

// member writes "name":value. value is quoted when quoted is true and copied
// verbatim otherwise.
func (w *objectWriter) member(name, value string, quoted bool) {
	if w.written > 0 {
		w.buf.WriteByte(',')
	}
	appendQuoted(w.buf, name)
	w.buf.WriteByte(':')
	if quoted {
		appendQuoted(w.buf, value)
	} else {
		w.buf.WriteString(value)
	}
	w.written++
}

func (w *objectWriter) close() {
	w.buf.WriteByte('}')
}

// appendQuoted writes s as a JSON string literal. Quote, backslash, control
// characters and U+2028/U+2029 are escaped; invalid UTF-8 becomes \ufffd.
func appendQuoted(buf *bytes.Buffer, s string) {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	// Writes to a bytes.Buffer cannot fail.
	_ = enc.Encode(s)
	// json.Encoder adds a trailing newline.
	buf.Truncate(buf.Len() - 1)
}

// Quote returns s as a JSON string literal.
func Quote(s string) string {
	var buf bytes.Buffer
	appendQuoted(&buf, s)
	return buf.String()
}
