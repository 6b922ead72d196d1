package verify

import (
	"github.com/fxamacker/cbor/v2"
)

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	if encMode, err = cbor.CoreDetEncOptions().EncMode(); err != nil {
		panic(err)
	}
	decOpts := cbor.DecOptions{
		DupMapKey: cbor.DupMapKeyEnforcedAPF,
	}
	if decMode, err = decOpts.DecMode(); err != nil {
		panic(err)
	}
}

// EncodeReport encodes r as deterministic CBOR.
func EncodeReport(r Report) ([]byte, error) {
	return encMode.Marshal(r)
}

func DecodeReport(data []byte) (Report, error) {
	var r Report
	if err := decMode.Unmarshal(data, &r); err != nil {
		return Report{}, err
	}
	return r, nil
}
