package protowire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeFields(t *testing.T) {
	enc := NewEncoder()
	enc.EncodeString(1, "minecraft:stone")
	enc.EncodeVarint(2, 300)
	enc.EncodeBool(3, true)
	enc.EncodeFixed32(4, 1.5)
	enc.EncodePackedFloat32(5, []float32{0.25, -0.5})
	enc.EncodePackedUvarint(6, []uint32{0, 1, 70000})
	enc.EncodeVarint(7, 0) // Não serializa

	dec := NewDecoder(enc.Bytes())
	seen := map[int]bool{}
	for !dec.Done() {
		field, wt, err := dec.ReadTag()
		require.NoError(t, err)
		seen[field] = true
		switch field {
		case 1:
			s, err := dec.ReadString()
			require.NoError(t, err)
			assert.Equal(t, "minecraft:stone", s)
		case 2:
			v, err := dec.ReadVarint()
			require.NoError(t, err)
			assert.Equal(t, int64(300), v)
		case 3:
			v, err := dec.ReadBool()
			require.NoError(t, err)
			assert.True(t, v)
		case 4:
			v, err := dec.ReadFixed32()
			require.NoError(t, err)
			assert.Equal(t, float32(1.5), v)
		case 5:
			v, err := dec.ReadPackedFloat32()
			require.NoError(t, err)
			assert.Equal(t, []float32{0.25, -0.5}, v)
		case 6:
			v, err := dec.ReadPackedUvarint()
			require.NoError(t, err)
			assert.Equal(t, []uint32{0, 1, 70000}, v)
		default:
			require.NoError(t, dec.SkipField(field, wt))
		}
	}
	assert.False(t, seen[7])
	assert.Len(t, seen, 6)
}

func TestSkipUnknownField(t *testing.T) {
	enc := NewEncoder()
	enc.EncodeString(9, "desconhecido")
	enc.EncodeVarint(1, 7)

	dec := NewDecoder(enc.Bytes())
	field, wt, err := dec.ReadTag()
	require.NoError(t, err)
	assert.Equal(t, 9, field)
	require.NoError(t, dec.SkipField(field, wt))

	field, _, err = dec.ReadTag()
	require.NoError(t, err)
	assert.Equal(t, 1, field)
	v, err := dec.ReadVarint()
	require.NoError(t, err)
	assert.Equal(t, int64(7), v)
	assert.True(t, dec.Done())
}

func TestTruncated(t *testing.T) {
	enc := NewEncoder()
	enc.EncodeString(1, "abcdef")
	data := enc.Bytes()

	dec := NewDecoder(data[:len(data)-2])
	_, _, err := dec.ReadTag()
	require.NoError(t, err)
	_, err = dec.ReadString()
	assert.Error(t, err)
}
