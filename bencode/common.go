// This package decodes bencode, the format used by torrent metainfo files and DHT messages, into a tree of
// typed values. Decoding never reads past the end of the input and never panics on malformed data: a buffer is
// either fully decoded or rejected with a *DecodeError describing what went wrong and where.
package bencode

const (
	numberStart    = 0x69
	dictStart      = 0x64
	listStart      = 0x6c
	bencodeEnd     = 0x65
	bytesLengthSep = 0x3a
	minusSign      = 0x2d
)

func isDigit(c byte) bool {
	return c >= 0x30 && c <= 0x39
}
