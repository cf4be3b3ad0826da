package bencode

import (
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func requireKind(t *testing.T, err error, kind ErrorKind, offset int) {
	t.Helper()
	var de *DecodeError
	require.True(t, errors.As(err, &de), "expected *DecodeError, got %#v", err)
	require.Equal(t, kind, de.Kind, de.Error())
	require.Equal(t, offset, de.Offset, de.Error())
}

func TestDecodeBytes(t *testing.T) {
	require := require.New(t)

	doc, err := Decode([]byte("4:spam"))
	require.Nil(err)
	require.Equal(Document{Bytes("spam")}, doc)

	doc, err = Decode([]byte("5:sp am"))
	require.Nil(err)
	require.Equal(Document{Bytes("sp am")}, doc)

	doc, err = Decode([]byte("0:"))
	require.Nil(err)
	require.Equal(Document{Bytes{}}, doc)
}

func TestDecodeBytesExactLength(t *testing.T) {
	require := require.New(t)

	for l := 0; l != 300; l++ {
		payload := strings.Repeat("\x00\xff", l)[:l]
		buf := []byte(strconv.Itoa(l) + ":" + payload)
		v, err := DecodeValue(buf)
		require.Nil(err, "length %d", l)
		require.Equal(Bytes(payload), v)

		if l > 0 {
			_, err = DecodeValue(buf[:len(buf)-1])
			require.ErrorIs(err, ErrTruncated, "length %d", l)
		}
	}
}

func TestDecodeBytesCopiesPayload(t *testing.T) {
	require := require.New(t)

	buf := []byte("4:spam")
	v, err := DecodeValue(buf)
	require.Nil(err)
	buf[2] = 'x'
	require.Equal(Bytes("spam"), v)
}

func TestDecodeBytesTruncated(t *testing.T) {
	_, err := Decode([]byte("10:aa"))
	requireKind(t, err, KindTruncated, 3)

	_, err = Decode([]byte("10"))
	requireKind(t, err, KindTruncated, 2)
}

func TestDecodeBytesMalformedLength(t *testing.T) {
	_, err := Decode([]byte("4spam"))
	requireKind(t, err, KindMalformedLength, 1)

	_, err = Decode([]byte("99999999999999999999:a"))
	requireKind(t, err, KindMalformedLength, 0)
}

func TestDecodeInteger(t *testing.T) {
	require := require.New(t)

	cases := map[string]Integer{
		"i0e":                   0,
		"i10e":                  10,
		"i42e":                  42,
		"i007e":                 7,
		"i-1e":                  -1,
		"i-123e":                -123,
		"i9223372036854775807e": 9223372036854775807,
	}
	for in, expected := range cases {
		v, err := DecodeValue([]byte(in))
		require.Nil(err, in)
		require.Equal(expected, v, in)
	}
}

func TestDecodeMalformedInteger(t *testing.T) {
	cases := map[string]int{
		"ie":                     1,
		"i-e":                    2,
		"i-0e":                   0,
		"i1x2e":                  2,
		"i+1e":                   1,
		"i1.5e":                  2,
		"i9223372036854775808e":  0,
		"i-9223372036854775809e": 0,
	}
	for in, offset := range cases {
		_, err := Decode([]byte(in))
		requireKind(t, err, KindMalformedInteger, offset)
		require.ErrorIs(t, err, ErrMalformedInteger, in)
	}
}

func TestDecodeIntegerTruncated(t *testing.T) {
	for _, in := range []string{"i", "i12", "i-"} {
		_, err := Decode([]byte(in))
		require.ErrorIs(t, err, ErrTruncated, in)
	}
}

func TestDecodeList(t *testing.T) {
	require := require.New(t)

	v, err := DecodeValue([]byte("l4:spami10ee"))
	require.Nil(err)
	require.Equal(List{Bytes("spam"), Integer(10)}, v)

	v, err = DecodeValue([]byte("l4:spam4:eggse"))
	require.Nil(err)
	require.Equal(List{Bytes("spam"), Bytes("eggs")}, v)

	v, err = DecodeValue([]byte("le"))
	require.Nil(err)
	require.Equal(List{}, v)

	v, err = DecodeValue([]byte("lli1eelee"))
	require.Nil(err)
	require.Equal(List{List{Integer(1)}, List{}}, v)
}

func TestDecodeListUnterminated(t *testing.T) {
	_, err := Decode([]byte("l4:spam"))
	requireKind(t, err, KindTruncated, 7)

	_, err = Decode([]byte("l"))
	requireKind(t, err, KindTruncated, 1)
}

func TestDecodeDictionary(t *testing.T) {
	require := require.New(t)

	v, err := DecodeValue([]byte("d3:cow3:moo4:spam4:eggse"))
	require.Nil(err)
	d, ok := v.(*Dictionary)
	require.True(ok)
	require.Equal(2, d.Len())
	require.Equal(map[string]Value{"cow": Bytes("moo"), "spam": Bytes("eggs")}, d.Map())

	v, err = DecodeValue([]byte("d4:spaml1:a1:bee"))
	require.Nil(err)
	d = v.(*Dictionary)
	spam, ok := d.Get("spam")
	require.True(ok)
	require.Equal(List{Bytes("a"), Bytes("b")}, spam)

	v, err = DecodeValue([]byte("de"))
	require.Nil(err)
	require.Equal(0, v.(*Dictionary).Len())
}

func TestDecodeNestedDictionary(t *testing.T) {
	require := require.New(t)

	v, err := DecodeValue([]byte("d4:infod6:lengthi20eee"))
	require.Nil(err)

	expected := NewDictionary()
	info := NewDictionary()
	info.Set("length", Integer(20))
	expected.Set("info", info)
	require.True(Equal(expected, v))
}

func TestDecodeDictionaryKeepsParseOrder(t *testing.T) {
	require := require.New(t)

	v, err := DecodeValue([]byte("d1:z0:1:a0:1:mi1ee"))
	require.Nil(err)
	d := v.(*Dictionary)
	require.Equal([]string{"z", "a", "m"}, d.Keys())
	require.Equal([]string{"a", "m", "z"}, d.SortedKeys())
}

func TestDecodeDictionaryDuplicateKey(t *testing.T) {
	require := require.New(t)

	v, err := DecodeValue([]byte("d1:ai1e1:bi2e1:ai3ee"))
	require.Nil(err)
	d := v.(*Dictionary)
	require.Equal([]string{"a", "b"}, d.Keys())
	a, _ := d.Get("a")
	require.Equal(Integer(3), a)
}

func TestDecodeDictionaryMalformedKey(t *testing.T) {
	_, err := Decode([]byte("di1ei2ee"))
	requireKind(t, err, KindMalformedKey, 1)

	_, err = Decode([]byte("dle1:ae"))
	requireKind(t, err, KindMalformedKey, 1)

	_, err = Decode([]byte("d2:\xff\xfei1ee"))
	requireKind(t, err, KindMalformedKey, 1)
	require.ErrorIs(t, err, ErrMalformedKey)
}

func TestDecodeDictionaryTruncated(t *testing.T) {
	_, err := Decode([]byte("d3:cow"))
	requireKind(t, err, KindTruncated, 6)

	_, err = Decode([]byte("d3:cow3:moo"))
	requireKind(t, err, KindTruncated, 11)
}

func TestDecodeEmpty(t *testing.T) {
	_, err := Decode([]byte(""))
	requireKind(t, err, KindTruncated, 0)

	_, err = Decode(nil)
	require.ErrorIs(t, err, ErrTruncated)
}

func TestDecodeUnexpectedByte(t *testing.T) {
	_, err := Decode([]byte("x"))
	requireKind(t, err, KindUnexpectedByte, 0)

	_, err = Decode([]byte("lxe"))
	requireKind(t, err, KindUnexpectedByte, 1)

	_, err = Decode([]byte(" i1e"))
	requireKind(t, err, KindUnexpectedByte, 0)
}

func TestDecodeConcatenated(t *testing.T) {
	require := require.New(t)

	doc, err := Decode([]byte("i1e4:spamle"))
	require.Nil(err)
	require.Equal(Document{Integer(1), Bytes("spam"), List{}}, doc)
}

func TestDecodeTrailingData(t *testing.T) {
	_, err := Decode([]byte("i1exyz"))
	requireKind(t, err, KindTrailingData, 3)
	require.ErrorIs(t, err, ErrTrailingData)

	_, err = DecodeValue([]byte("i1ei2e"))
	requireKind(t, err, KindTrailingData, 3)
}

func TestDecodeSecondItemFails(t *testing.T) {
	_, err := Decode([]byte("i1e4:ab"))
	requireKind(t, err, KindTruncated, 5)
}

func TestDecodePrefix(t *testing.T) {
	require := require.New(t)

	doc, rest, err := DecodePrefix([]byte("i1e3:abc\n\n"))
	require.Nil(err)
	require.Equal(Document{Integer(1), Bytes("abc")}, doc)
	require.Equal([]byte("\n\n"), rest)

	doc, rest, err = DecodePrefix([]byte("le"))
	require.Nil(err)
	require.Equal(Document{List{}}, doc)
	require.Empty(rest)
}

func TestDecodeString(t *testing.T) {
	require := require.New(t)

	doc, err := DecodeString("d3:cow3:mooe")
	require.Nil(err)
	require.Len(doc, 1)
	moo, ok := doc[0].(*Dictionary).Get("cow")
	require.True(ok)
	require.Equal(Bytes("moo"), moo)

	doc, err = DecodeString("2:\xc3\x28")
	require.Nil(err)
	require.Equal(Document{Bytes{0xc3, 0x28}}, doc)
}

func TestDecodeDepthLimit(t *testing.T) {
	require := require.New(t)

	deep := strings.Repeat("l", 10000) + strings.Repeat("e", 10000)
	_, err := Decode([]byte(deep))
	requireKind(t, err, KindDepthExceeded, 512)

	ok := strings.Repeat("l", 512) + strings.Repeat("e", 512)
	_, err = Decode([]byte(ok))
	require.Nil(err)

	_, err = Decode([]byte(strings.Repeat("d1:a", 600)))
	require.ErrorIs(err, ErrDepthExceeded)
}
