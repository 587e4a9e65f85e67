// Package keycodec converts between short ASCII metadata identifiers and
// their fixed 32-byte form.
//
// Encoding right-pads with zero bytes. Decoding stops at the first zero byte,
// so an identifier containing an embedded NUL is truncated at that byte on
// the way back. That truncation is part of the format and is preserved.
package keycodec
