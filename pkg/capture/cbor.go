package capture

import (
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
)

// Events are written one CBOR map after another with no framing. The
// encoding is canonical and definite-length; the decoder refuses anything
// else, since capture files are only produced by EncodeEvent.
var (
	encMode = mustEncMode()
	decMode = mustDecMode()
)

func mustEncMode() cbor.EncMode {
	em, err := cbor.EncOptions{
		Sort:        cbor.SortCanonical,
		IndefLength: cbor.IndefLengthForbidden,
		Time:        cbor.TimeRFC3339Nano,
	}.EncMode()
	if err != nil {
		panic(fmt.Sprintf("capture: cbor encoder mode: %v", err))
	}
	return em
}

func mustDecMode() cbor.DecMode {
	dm, err := cbor.DecOptions{
		IndefLength: cbor.IndefLengthForbidden,
		DupMapKey:   cbor.DupMapKeyEnforcedAPF,
	}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("capture: cbor decoder mode: %v", err))
	}
	return dm
}

// EncodeEvent returns the capture file encoding of one event.
func EncodeEvent(event Event) ([]byte, error) {
	return encMode.Marshal(event)
}

func newDecoder(r io.Reader) *cbor.Decoder {
	return decMode.NewDecoder(r)
}
