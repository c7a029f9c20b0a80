// Package meshnet define as mensagens trocadas entre o servidor de malhas
// e o cliente, no formato wire do protobuf.
package meshnet

import (
	"BlockVision/internal/meshing"
	"BlockVision/shared/pkg/protowire"
)

// MeshRequest pede a malha de um bloco num bioma.
type MeshRequest struct {
	ID    uint32
	Block string
	Biome string
}

// MeshReply devolve a malha pedida, ou o erro.
type MeshReply struct {
	ID    uint32
	Block string
	Biome string
	Node  *meshing.Node
	Error string
}

func (m *MeshRequest) Marshal() []byte {
	e := protowire.NewEncoder()
	e.EncodeVarint(1, int64(m.ID))
	e.EncodeString(2, m.Block)
	e.EncodeString(3, m.Biome)
	return e.Bytes()
}

func (m *MeshRequest) Unmarshal(data []byte) error {
	d := protowire.NewDecoder(data)
	for !d.Done() {
		fieldNum, wireType, err := d.ReadTag()
		if err != nil {
			return err
		}
		switch fieldNum {
		case 1:
			v, err := d.ReadVarint()
			if err != nil {
				return err
			}
			m.ID = uint32(v)
		case 2:
			if m.Block, err = d.ReadString(); err != nil {
				return err
			}
		case 3:
			if m.Biome, err = d.ReadString(); err != nil {
				return err
			}
		default:
			if err := d.SkipField(fieldNum, wireType); err != nil {
				return err
			}
		}
	}
	return nil
}

func (m *MeshReply) Marshal() []byte {
	e := protowire.NewEncoder()
	e.EncodeVarint(1, int64(m.ID))
	e.EncodeString(2, m.Block)
	e.EncodeString(3, m.Biome)
	if m.Node != nil {
		e.EncodeSubmessage(4, EncodeNode(m.Node))
	}
	e.EncodeString(5, m.Error)
	return e.Bytes()
}

func (m *MeshReply) Unmarshal(data []byte) error {
	d := protowire.NewDecoder(data)
	for !d.Done() {
		fieldNum, wireType, err := d.ReadTag()
		if err != nil {
			return err
		}
		switch fieldNum {
		case 1:
			v, err := d.ReadVarint()
			if err != nil {
				return err
			}
			m.ID = uint32(v)
		case 2:
			if m.Block, err = d.ReadString(); err != nil {
				return err
			}
		case 3:
			if m.Biome, err = d.ReadString(); err != nil {
				return err
			}
		case 4:
			sub, err := d.ReadBytes()
			if err != nil {
				return err
			}
			if m.Node, err = DecodeNode(sub); err != nil {
				return err
			}
		case 5:
			if m.Error, err = d.ReadString(); err != nil {
				return err
			}
		default:
			if err := d.SkipField(fieldNum, wireType); err != nil {
				return err
			}
		}
	}
	return nil
}
