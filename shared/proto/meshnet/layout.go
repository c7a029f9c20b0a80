package meshnet

import (
	"BlockVision/internal/atlas"
	"BlockVision/shared/pkg/protowire"
)

// EncodeLayout serializa o layout do atlas (sem a imagem).
func EncodeLayout(l *atlas.Layout) []byte {
	e := protowire.NewEncoder()
	e.EncodeVarint(1, int64(l.Size))
	e.EncodeString(2, l.Strategy)
	for _, p := range l.Placed() {
		pe := protowire.NewEncoder()
		pe.EncodeString(1, p.Path)
		pe.EncodeVarint(2, int64(p.Width))
		pe.EncodeVarint(3, int64(p.Height))
		pe.EncodeVarint(4, int64(p.X))
		pe.EncodeVarint(5, int64(p.Y))
		e.EncodeSubmessage(3, pe.Bytes())
	}
	for _, path := range l.Dropped {
		e.EncodeString(4, path)
	}
	return e.Bytes()
}

// DecodeLayout lê um layout gravado por EncodeLayout.
func DecodeLayout(data []byte) (*atlas.Layout, error) {
	var (
		size     int
		strategy string
		placed   []atlas.PackedTexture
		dropped  []string
	)
	d := protowire.NewDecoder(data)
	for !d.Done() {
		fieldNum, wireType, err := d.ReadTag()
		if err != nil {
			return nil, err
		}
		switch fieldNum {
		case 1:
			v, err := d.ReadVarint()
			if err != nil {
				return nil, err
			}
			size = int(v)
		case 2:
			if strategy, err = d.ReadString(); err != nil {
				return nil, err
			}
		case 3:
			sub, err := d.ReadBytes()
			if err != nil {
				return nil, err
			}
			p, err := decodePlacement(sub)
			if err != nil {
				return nil, err
			}
			placed = append(placed, p)
		case 4:
			s, err := d.ReadString()
			if err != nil {
				return nil, err
			}
			dropped = append(dropped, s)
		default:
			if err := d.SkipField(fieldNum, wireType); err != nil {
				return nil, err
			}
		}
	}
	return atlas.NewLayout(size, strategy, placed, dropped), nil
}

func decodePlacement(data []byte) (atlas.PackedTexture, error) {
	var p atlas.PackedTexture
	d := protowire.NewDecoder(data)
	for !d.Done() {
		fieldNum, wireType, err := d.ReadTag()
		if err != nil {
			return p, err
		}
		if fieldNum == 1 {
			if p.Path, err = d.ReadString(); err != nil {
				return p, err
			}
			continue
		}
		if fieldNum < 2 || fieldNum > 5 {
			if err := d.SkipField(fieldNum, wireType); err != nil {
				return p, err
			}
			continue
		}
		v, err := d.ReadVarint()
		if err != nil {
			return p, err
		}
		switch fieldNum {
		case 2:
			p.Width = int(v)
		case 3:
			p.Height = int(v)
		case 4:
			p.X = int(v)
		case 5:
			p.Y = int(v)
		}
	}
	return p, nil
}
