package itemdata

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
)

// blob builds wire-format buffers for tests
type blob struct {
	buf bytes.Buffer
}

func newBlob() *blob {
	return &blob{}
}

func (b *blob) raw(p ...byte) *blob {
	b.buf.Write(p)
	return b
}

func (b *blob) u8(v byte) *blob {
	b.buf.WriteByte(v)
	return b
}

func (b *blob) i32(v int32) *blob {
	_ = binary.Write(&b.buf, binary.LittleEndian, v)
	return b
}

func (b *blob) i64(v int64) *blob {
	_ = binary.Write(&b.buf, binary.LittleEndian, v)
	return b
}

func (b *blob) f32(v float32) *blob {
	_ = binary.Write(&b.buf, binary.LittleEndian, v)
	return b
}

func (b *blob) str(s string) *blob {
	b.buf.WriteByte(byte(len(s)))
	b.buf.WriteString(s)
	return b
}

func (b *blob) header(version, count int32) *blob {
	return b.i32(version).i32(count)
}

func (b *blob) item(it Item) *blob {
	var equipped byte
	if it.Equipped {
		equipped = 1
	}
	return b.str(it.Name).
		i32(it.Stack).
		f32(it.Durability).
		i32(it.PosX).
		i32(it.PosY).
		u8(equipped).
		i32(it.Quality).
		i32(it.Variant).
		i64(it.CrafterID).
		str(it.CrafterName)
}

func (b *blob) bytes() []byte {
	return b.buf.Bytes()
}

func (b *blob) base64() string {
	return base64.StdEncoding.EncodeToString(b.buf.Bytes())
}
