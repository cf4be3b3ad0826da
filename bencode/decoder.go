package bencode

import (
	"errors"
	"os"

	"github.com/meow-io/go-bencode/config"
	"go.uber.org/zap"
)

// Decoder holds decoding settings. It keeps no per-call state and is safe for concurrent use.
type Decoder struct {
	maxDepth   int
	binaryKeys bool
	log        *zap.SugaredLogger
}

var defaultDecoder = &Decoder{
	maxDepth: config.DefaultMaxDepth,
	log:      zap.NewNop().Sugar(),
}

func NewDecoder(c *config.Config) *Decoder {
	maxDepth := c.MaxDepth
	if maxDepth < 1 {
		maxDepth = config.DefaultMaxDepth
	}
	return &Decoder{
		maxDepth:   maxDepth,
		binaryKeys: c.BinaryKeys,
		log:        c.Logger("decoder"),
	}
}

// DecodePrefix decodes one or more values from the start of buf and returns the bytes following them.
func (d *Decoder) DecodePrefix(buf []byte) (Document, []byte, error) {
	r := newReader(buf, d.maxDepth, d.binaryKeys)
	doc, err := r.readDocument()
	if err != nil {
		d.logFailure(err)
		return nil, nil, err
	}
	return doc, buf[r.pos:], nil
}

// Decode decodes buf as one or more concatenated values. All of buf must be consumed.
func (d *Decoder) Decode(buf []byte) (Document, error) {
	doc, rest, err := d.DecodePrefix(buf)
	if err != nil {
		return nil, err
	}
	if len(rest) != 0 {
		pos := len(buf) - len(rest)
		err := newDecodeError(KindTrailingData, pos, "%d unexpected bytes at pos %d", len(rest), pos)
		d.logFailure(err)
		return nil, err
	}
	return doc, nil
}

// DecodeString decodes the bytes of s without any charset conversion.
func (d *Decoder) DecodeString(s string) (Document, error) {
	return d.Decode([]byte(s))
}

// DecodeFile reads the whole file at path and decodes it.
func (d *Decoder) DecodeFile(path string) (Document, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		d.log.Debugf("unable to read %s: %s", path, err)
		return nil, newIOError(path, err)
	}
	d.log.Debugf("read %s len=%d", path, len(buf))
	return d.Decode(buf)
}

// DecodeValue decodes buf as exactly one value.
func (d *Decoder) DecodeValue(buf []byte) (Value, error) {
	r := newReader(buf, d.maxDepth, d.binaryKeys)
	v, err := r.readValue()
	if err == nil && !r.isAtEnd() {
		err = newDecodeError(KindTrailingData, r.pos, "%d unexpected bytes at pos %d", len(buf)-r.pos, r.pos)
	}
	if err != nil {
		d.logFailure(err)
		return nil, err
	}
	return v, nil
}

func (d *Decoder) logFailure(err error) {
	var de *DecodeError
	if errors.As(err, &de) {
		d.log.Debugf("decode failed kind=%s offset=%d: %s", de.Kind, de.Offset, de)
		return
	}
	d.log.Debugf("decode failed: %s", err)
}

// Decode decodes buf as one or more concatenated values using default settings.
func Decode(buf []byte) (Document, error) {
	return defaultDecoder.Decode(buf)
}

func DecodeString(s string) (Document, error) {
	return defaultDecoder.DecodeString(s)
}

func DecodeFile(path string) (Document, error) {
	return defaultDecoder.DecodeFile(path)
}

func DecodePrefix(buf []byte) (Document, []byte, error) {
	return defaultDecoder.DecodePrefix(buf)
}

func DecodeValue(buf []byte) (Value, error) {
	return defaultDecoder.DecodeValue(buf)
}
