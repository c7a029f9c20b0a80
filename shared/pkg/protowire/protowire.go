// Package protowire é um encoder/decoder protobuf minimalista, campo a campo,
// sobre google.golang.org/protobuf/encoding/protowire.
// Usado pelas mensagens de rede de malhas e pelo cache em SQLite.
package protowire

import (
	"errors"
	"fmt"
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

// WireType constantes do protobuf
const (
	WireVarint          = int(protowire.VarintType)
	Wire64Bit           = int(protowire.Fixed64Type)
	WireLengthDelimited = int(protowire.BytesType)
	Wire32Bit           = int(protowire.Fixed32Type)
)

// ---------- ENCODER ----------

// Encoder acumula bytes no formato protobuf.
type Encoder struct {
	buf []byte
}

// NewEncoder cria um encoder vazio.
func NewEncoder() *Encoder {
	return &Encoder{buf: make([]byte, 0, 256)}
}

// Bytes retorna o buffer serializado.
func (e *Encoder) Bytes() []byte {
	return e.buf
}

// Reset limpa o buffer.
func (e *Encoder) Reset() {
	e.buf = e.buf[:0]
}

func (e *Encoder) tag(fieldNum int, typ protowire.Type) {
	e.buf = protowire.AppendTag(e.buf, protowire.Number(fieldNum), typ)
}

// EncodeVarint codifica um campo varint (int32, int64, enum).
func (e *Encoder) EncodeVarint(fieldNum int, v int64) {
	if v == 0 {
		return // proto3: zero é valor default, não serializa
	}
	e.tag(fieldNum, protowire.VarintType)
	e.buf = protowire.AppendVarint(e.buf, uint64(v))
}

// EncodeBool codifica um boolean.
func (e *Encoder) EncodeBool(fieldNum int, v bool) {
	if !v {
		return
	}
	e.tag(fieldNum, protowire.VarintType)
	e.buf = protowire.AppendVarint(e.buf, protowire.EncodeBool(v))
}

// EncodeBytes codifica bytes raw (length-delimited).
func (e *Encoder) EncodeBytes(fieldNum int, v []byte) {
	if len(v) == 0 {
		return
	}
	e.tag(fieldNum, protowire.BytesType)
	e.buf = protowire.AppendBytes(e.buf, v)
}

// EncodeString codifica uma string.
func (e *Encoder) EncodeString(fieldNum int, v string) {
	if v == "" {
		return
	}
	e.tag(fieldNum, protowire.BytesType)
	e.buf = protowire.AppendString(e.buf, v)
}

// EncodeSubmessage codifica uma submensagem (length-delimited).
// Submensagens vazias também são escritas: num campo repetido elas contam.
func (e *Encoder) EncodeSubmessage(fieldNum int, sub []byte) {
	e.tag(fieldNum, protowire.BytesType)
	e.buf = protowire.AppendBytes(e.buf, sub)
}

// EncodeFixed32 codifica um float32 como fixed32.
func (e *Encoder) EncodeFixed32(fieldNum int, v float32) {
	e.tag(fieldNum, protowire.Fixed32Type)
	e.buf = protowire.AppendFixed32(e.buf, math.Float32bits(v))
}

// EncodePackedFloat32 codifica um repeated float como packed fixed32.
func (e *Encoder) EncodePackedFloat32(fieldNum int, values []float32) {
	if len(values) == 0 {
		return
	}
	sub := make([]byte, 0, len(values)*4)
	for _, v := range values {
		sub = protowire.AppendFixed32(sub, math.Float32bits(v))
	}
	e.EncodeBytes(fieldNum, sub)
}

// EncodePackedUvarint codifica um repeated uint32 como packed varint.
func (e *Encoder) EncodePackedUvarint(fieldNum int, values []uint32) {
	if len(values) == 0 {
		return
	}
	sub := make([]byte, 0, len(values)*2)
	for _, v := range values {
		sub = protowire.AppendVarint(sub, uint64(v))
	}
	e.EncodeBytes(fieldNum, sub)
}

// ---------- DECODER ----------

// Decoder lê campos protobuf de um buffer.
type Decoder struct {
	buf []byte
	pos int
}

// NewDecoder cria um decoder sobre um buffer.
func NewDecoder(buf []byte) *Decoder {
	return &Decoder{buf: buf, pos: 0}
}

// Done retorna true se não há mais bytes.
func (d *Decoder) Done() bool {
	return d.pos >= len(d.buf)
}

// Remaining retorna os bytes restantes.
func (d *Decoder) Remaining() int {
	return len(d.buf) - d.pos
}

func (d *Decoder) advance(n int) error {
	if n < 0 {
		return fmt.Errorf("protowire: %w", protowire.ParseError(n))
	}
	d.pos += n
	return nil
}

// ReadTag lê o número do campo e o tipo de wire do próximo campo.
func (d *Decoder) ReadTag() (fieldNum int, wireType int, err error) {
	num, typ, n := protowire.ConsumeTag(d.buf[d.pos:])
	if err := d.advance(n); err != nil {
		return 0, 0, err
	}
	return int(num), int(typ), nil
}

// ReadVarint lê um valor varint (após o tag já ter sido lido).
func (d *Decoder) ReadVarint() (int64, error) {
	v, n := protowire.ConsumeVarint(d.buf[d.pos:])
	if err := d.advance(n); err != nil {
		return 0, err
	}
	return int64(v), nil
}

// ReadBool lê um boolean.
func (d *Decoder) ReadBool() (bool, error) {
	v, n := protowire.ConsumeVarint(d.buf[d.pos:])
	if err := d.advance(n); err != nil {
		return false, err
	}
	return protowire.DecodeBool(v), nil
}

// ReadBytes lê um campo length-delimited. O slice aponta para o buffer original.
func (d *Decoder) ReadBytes() ([]byte, error) {
	b, n := protowire.ConsumeBytes(d.buf[d.pos:])
	if err := d.advance(n); err != nil {
		return nil, err
	}
	return b, nil
}

// ReadString lê uma string.
func (d *Decoder) ReadString() (string, error) {
	b, err := d.ReadBytes()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ReadFixed32 lê um float32 / fixed32.
func (d *Decoder) ReadFixed32() (float32, error) {
	v, n := protowire.ConsumeFixed32(d.buf[d.pos:])
	if err := d.advance(n); err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

// SkipField pula um campo baseado no wire type.
func (d *Decoder) SkipField(fieldNum, wireType int) error {
	n := protowire.ConsumeFieldValue(protowire.Number(fieldNum), protowire.Type(wireType), d.buf[d.pos:])
	return d.advance(n)
}

// ReadPackedFloat32 lê um packed repeated float.
func (d *Decoder) ReadPackedFloat32() ([]float32, error) {
	data, err := d.ReadBytes()
	if err != nil {
		return nil, err
	}
	if len(data)%4 != 0 {
		return nil, errors.New("protowire: packed float com tamanho inválido")
	}
	out := make([]float32, 0, len(data)/4)
	for len(data) > 0 {
		v, n := protowire.ConsumeFixed32(data)
		if n < 0 {
			return out, protowire.ParseError(n)
		}
		out = append(out, math.Float32frombits(v))
		data = data[n:]
	}
	return out, nil
}

// ReadPackedUvarint lê um packed repeated uint32.
func (d *Decoder) ReadPackedUvarint() ([]uint32, error) {
	data, err := d.ReadBytes()
	if err != nil {
		return nil, err
	}
	var out []uint32
	for len(data) > 0 {
		v, n := protowire.ConsumeVarint(data)
		if n < 0 {
			return out, protowire.ParseError(n)
		}
		out = append(out, uint32(v))
		data = data[n:]
	}
	return out, nil
}
