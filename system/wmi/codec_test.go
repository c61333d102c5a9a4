package wmi

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeTransport struct {
	absent    bool
	result    *Result
	err       error
	evaluated bool
	released  bool

	lastMethod Method
	lastInput  uint64
}

var _ Transport = &fakeTransport{}

func (f *fakeTransport) Present() bool {
	return !f.absent
}

func (f *fakeTransport) Evaluate(method Method, input uint64) (*Result, error) {
	f.evaluated = true
	f.lastMethod = method
	f.lastInput = input
	if f.result != nil {
		f.result.release = func() {
			f.released = true
		}
	}
	return f.result, f.err
}

func (f *fakeTransport) Close() error {
	return nil
}

func TestCodecInterfaceAbsent(t *testing.T) {
	transport := &fakeTransport{absent: true}
	codec, err := NewCodec(transport)
	require.NoError(t, err)

	_, err = codec.Execute(MethodGet, NewGetWord(RegPlatformProfile))
	require.ErrorIs(t, err, ErrInterfaceAbsent)
	require.False(t, transport.evaluated, "no call may be attempted when the interface is absent")
}

func TestCodecCallFailed(t *testing.T) {
	transport := &fakeTransport{err: errors.New("device busy")}
	codec, err := NewCodec(transport)
	require.NoError(t, err)

	_, err = codec.Execute(MethodSet, NewSetWord(RegPlatformProfile, 0x05))
	require.ErrorIs(t, err, ErrCallFailed)
}

func TestCodecCallFailedReleasesResult(t *testing.T) {
	transport := &fakeTransport{
		result: &Result{Buffer: make([]byte, 8)},
		err:    errors.New("device busy"),
	}
	codec, err := NewCodec(transport)
	require.NoError(t, err)

	_, err = codec.Execute(MethodGet, NewGetWord(RegPlatformProfile))
	require.ErrorIs(t, err, ErrCallFailed)
	require.True(t, transport.released)
}

func TestCodecNoData(t *testing.T) {
	for name, result := range map[string]*Result{
		"absent":      nil,
		"empty":       {},
		"shortBuffer": {Buffer: make([]byte, 4)},
	} {
		t.Run(name, func(t *testing.T) {
			transport := &fakeTransport{result: result}
			codec, err := NewCodec(transport)
			require.NoError(t, err)

			_, err = codec.Execute(MethodGet, NewGetWord(RegPlatformProfile))
			require.ErrorIs(t, err, ErrNoData)
			if result != nil {
				require.True(t, transport.released)
			}
		})
	}
}

func TestCodecDecodesInteger(t *testing.T) {
	out := uint64(0x0B) | uint64(0x05)<<8
	transport := &fakeTransport{result: &Result{Integer: &out}}
	codec, err := NewCodec(transport)
	require.NoError(t, err)

	word, err := codec.Execute(MethodGet, NewGetWord(RegPlatformProfile))
	require.NoError(t, err)
	require.Equal(t, uint8(0x05), word.Value())
	require.True(t, transport.released)
}

func TestCodecDecodesBufferLittleEndian(t *testing.T) {
	buf := make([]byte, 12)
	binary.LittleEndian.PutUint64(buf, uint64(0x0E)|uint64(0x01)<<8)
	transport := &fakeTransport{result: &Result{Buffer: buf}}
	codec, err := NewCodec(transport)
	require.NoError(t, err)

	word, err := codec.Execute(MethodGet, NewGetWord(RegFanBoost))
	require.NoError(t, err)
	require.Equal(t, uint8(0x0E), word.Index())
	require.Equal(t, uint8(0x01), word.Value())
	require.Zero(t, word.Status())
	require.True(t, transport.released)
}

func TestCodecPassesInputThrough(t *testing.T) {
	out := uint64(0)
	transport := &fakeTransport{result: &Result{Integer: &out}}
	codec, err := NewCodec(transport)
	require.NoError(t, err)

	// an index outside the enumerated registers must round-trip unchanged
	input := NewSetWord(Register(0x42), 0x99)
	_, err = codec.Execute(MethodSet, input)
	require.NoError(t, err)
	require.Equal(t, MethodSet, transport.lastMethod)
	require.Equal(t, uint64(input), transport.lastInput)
}

func TestNewCodecValidation(t *testing.T) {
	_, err := NewCodec(nil)
	require.Error(t, err)
}

func TestResultReleaseIdempotent(t *testing.T) {
	count := 0
	r := &Result{release: func() { count++ }}
	r.Release()
	r.Release()
	require.Equal(t, 1, count)

	var nilResult *Result
	nilResult.Release()
}

func TestDryRunRoundTrip(t *testing.T) {
	dry := NewDryRun()
	codec, err := NewCodec(dry)
	require.NoError(t, err)

	_, err = codec.Execute(MethodSet, NewSetWord(RegFanBoost, 0x01))
	require.NoError(t, err)

	word, err := codec.Execute(MethodGet, NewGetWord(RegFanBoost))
	require.NoError(t, err)
	require.Equal(t, uint8(0x01), word.Value())
	require.Zero(t, word.Status())
}
