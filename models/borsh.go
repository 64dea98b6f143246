package models

import (
	"bytes"
	"encoding/binary"

	bin "github.com/gagliardetto/binary"
)

func writeString(encoder *bin.Encoder, s string) error {
	return writeByteVec(encoder, []byte(s))
}

func writeByteVec(encoder *bin.Encoder, b []byte) error {
	if err := encoder.WriteUint32(uint32(len(b)), binary.LittleEndian); err != nil {
		return err
	}
	return encoder.WriteBytes(b, false)
}

// borshMarshaler is satisfied by every wire type in this package
type borshMarshaler interface {
	MarshalWithEncoder(encoder *bin.Encoder) error
}

func serialize(v borshMarshaler) ([]byte, error) {
	var buf bytes.Buffer
	if err := v.MarshalWithEncoder(bin.NewBorshEncoder(&buf)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
