package bencode

import (
	"strconv"
	"unicode/utf8"
)

type reader struct {
	buf        []byte
	pos        int
	depth      int
	maxDepth   int
	binaryKeys bool
}

func newReader(buf []byte, maxDepth int, binaryKeys bool) reader {
	return reader{
		buf:        buf,
		pos:        0,
		maxDepth:   maxDepth,
		binaryKeys: binaryKeys,
	}
}

func (r *reader) isAtEnd() bool {
	return r.pos >= len(r.buf)
}

func (r *reader) peek() (byte, bool) {
	if r.isAtEnd() {
		return 0, false
	}
	return r.buf[r.pos], true
}

func (r *reader) expectByte(b byte) error {
	c, ok := r.peek()
	if !ok {
		return newDecodeError(KindTruncated, r.pos, "expected 0x%x at pos %d, but no more bytes left", b, r.pos)
	}
	if c != b {
		return newDecodeError(KindUnexpectedByte, r.pos, "expected 0x%x got 0x%x at pos %d", b, c, r.pos)
	}
	r.pos++
	return nil
}

// digits consumes a maximal run of ASCII digits and returns it.
func (r *reader) digits() []byte {
	start := r.pos
	for r.pos < len(r.buf) && isDigit(r.buf[r.pos]) {
		r.pos++
	}
	return r.buf[start:r.pos]
}

// readDocument reads one or more items, stopping at the end of the buffer or at the first byte that
// cannot start an item. Failures inside an item that has started are returned as is.
func (r *reader) readDocument() (Document, error) {
	var doc Document
	for {
		v, err := r.readValue()
		if err != nil {
			return nil, err
		}
		doc = append(doc, v)
		c, ok := r.peek()
		if !ok || !startsValue(c) {
			return doc, nil
		}
	}
}

func startsValue(c byte) bool {
	return c == numberStart || c == listStart || c == dictStart || isDigit(c)
}

func (r *reader) readValue() (Value, error) {
	c, ok := r.peek()
	if !ok {
		return nil, newDecodeError(KindTruncated, r.pos, "expected a value at pos %d, but no more bytes left", r.pos)
	}
	switch {
	case c == numberStart:
		return r.readInteger()
	case c == listStart:
		return r.readList()
	case c == dictStart:
		return r.readDictionary()
	case isDigit(c):
		b, err := r.readBytes()
		if err != nil {
			return nil, err
		}
		return Bytes(append([]byte{}, b...)), nil
	default:
		return nil, newDecodeError(KindUnexpectedByte, r.pos, "0x%x at pos %d does not start a value", c, r.pos)
	}
}

func (r *reader) readInteger() (Integer, error) {
	start := r.pos
	if err := r.expectByte(numberStart); err != nil {
		return 0, err
	}
	neg := false
	if c, ok := r.peek(); ok && c == minusSign {
		neg = true
		r.pos++
	}
	num := r.digits()
	c, ok := r.peek()
	if !ok {
		return 0, newDecodeError(KindTruncated, r.pos, "unterminated integer starting at pos %d", start)
	}
	if c != bencodeEnd {
		return 0, newDecodeError(KindMalformedInteger, r.pos, "unexpected 0x%x in integer at pos %d", c, r.pos)
	}
	if len(num) == 0 {
		return 0, newDecodeError(KindMalformedInteger, r.pos, "expected numbers at pos %d", r.pos)
	}
	s := string(num)
	if neg {
		s = "-" + s
	}
	val, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, newDecodeError(KindMalformedInteger, start, "integer %s at pos %d out of range", s, start)
	}
	if val == 0 && neg {
		return 0, newDecodeError(KindMalformedInteger, start, "negative 0 not allowed at pos %d", start)
	}
	r.pos++
	return Integer(val), nil
}

// readBytes returns the payload of a byte string as a slice of the input buffer.
func (r *reader) readBytes() ([]byte, error) {
	start := r.pos
	num := r.digits()
	if len(num) == 0 {
		c, _ := r.peek()
		return nil, newDecodeError(KindMalformedLength, r.pos, "expected 1 or more numbers at pos %d, got 0x%x", r.pos, c)
	}
	c, ok := r.peek()
	if !ok {
		return nil, newDecodeError(KindTruncated, r.pos, "expected 0x%x at pos %d, but no more bytes left", bytesLengthSep, r.pos)
	}
	if c != bytesLengthSep {
		return nil, newDecodeError(KindMalformedLength, r.pos, "expected 0x%x got 0x%x at pos %d", bytesLengthSep, c, r.pos)
	}
	l, err := strconv.Atoi(string(num))
	if err != nil {
		return nil, newDecodeError(KindMalformedLength, start, "length %s at pos %d out of range", num, start)
	}
	r.pos++
	if len(r.buf)-r.pos < l {
		return nil, newDecodeError(KindTruncated, r.pos, "expected %d bytes at pos %d, only %d left", l, r.pos, len(r.buf)-r.pos)
	}
	b := r.buf[r.pos : r.pos+l]
	r.pos += l
	return b, nil
}

func (r *reader) enter() error {
	r.depth++
	if r.depth > r.maxDepth {
		return newDecodeError(KindDepthExceeded, r.pos, "nesting deeper than %d at pos %d", r.maxDepth, r.pos)
	}
	return nil
}

func (r *reader) leave() {
	r.depth--
}

func (r *reader) readList() (List, error) {
	if err := r.enter(); err != nil {
		return nil, err
	}
	defer r.leave()
	if err := r.expectByte(listStart); err != nil {
		return nil, err
	}
	l := List{}
	for {
		c, ok := r.peek()
		if !ok {
			return nil, newDecodeError(KindTruncated, r.pos, "unterminated list at pos %d", r.pos)
		}
		if c == bencodeEnd {
			break
		}
		v, err := r.readValue()
		if err != nil {
			return nil, err
		}
		l = append(l, v)
	}
	r.pos++
	return l, nil
}

func (r *reader) readDictionary() (*Dictionary, error) {
	if err := r.enter(); err != nil {
		return nil, err
	}
	defer r.leave()
	if err := r.expectByte(dictStart); err != nil {
		return nil, err
	}
	d := NewDictionary()
	for {
		c, ok := r.peek()
		if !ok {
			return nil, newDecodeError(KindTruncated, r.pos, "unterminated dictionary at pos %d", r.pos)
		}
		if c == bencodeEnd {
			break
		}
		if !isDigit(c) {
			return nil, newDecodeError(KindMalformedKey, r.pos, "expected byte string key at pos %d, got 0x%x", r.pos, c)
		}
		keyPos := r.pos
		key, err := r.readBytes()
		if err != nil {
			return nil, err
		}
		if !r.binaryKeys && !utf8.Valid(key) {
			return nil, newDecodeError(KindMalformedKey, keyPos, "key at pos %d is not valid utf-8", keyPos)
		}
		v, err := r.readValue()
		if err != nil {
			return nil, err
		}
		d.Set(string(key), v)
	}
	r.pos++
	return d, nil
}
