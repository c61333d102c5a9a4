package wmi

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// Codec executes firmware method calls and decodes the returned register
// word. It never swallows an error; decode-level mismatches surface as
// ErrNoData rather than a defaulted value.
type Codec struct {
	transport Transport
}

// NewCodec returns a codec on top of the given transport.
func NewCodec(transport Transport) (*Codec, error) {
	if transport == nil {
		return nil, errors.New("wmi: nil transport is invalid")
	}
	return &Codec{
		transport: transport,
	}, nil
}

// Execute performs one firmware method call and decodes the result into a
// register word. The result buffer is released on every exit path.
func (c *Codec) Execute(method Method, input Word) (Word, error) {
	if !c.transport.Present() {
		return 0, ErrInterfaceAbsent
	}

	result, err := c.transport.Evaluate(method, uint64(input))
	if result != nil {
		defer result.Release()
	}
	if err != nil {
		return 0, errors.Wrapf(ErrCallFailed, "%s on register 0x%02x: %s", method, input.Index(), err)
	}

	switch {
	case result == nil:
		return 0, ErrNoData
	case result.Integer != nil:
		return Word(*result.Integer), nil
	case len(result.Buffer) >= 8:
		return Word(binary.LittleEndian.Uint64(result.Buffer[:8])), nil
	default:
		return 0, ErrNoData
	}
}

func (c *Codec) Close() error {
	return c.transport.Close()
}
