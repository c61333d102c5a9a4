package wmi

import (
	"encoding/binary"
	"os"
	"sync"
	"unsafe"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// GUID identifies the vendor gaming WMI interface this bridge talks to.
const GUID = "7A4DDFE7-5B5D-40B4-8595-4408E0CC7F56"

// Method is a method identifier of the gaming WMI interface.
type Method uint32

const (
	// MethodSet writes a misc-setting register.
	MethodSet Method = 22
	// MethodGet reads a misc-setting register.
	MethodGet Method = 23
)

func (m Method) String() string {
	switch m {
	case MethodSet:
		return "SET"
	case MethodGet:
		return "GET"
	default:
		return "UNKNOWN"
	}
}

// Result is the opaque object a firmware call returns. Firmware may hand
// back an integer, a raw buffer, or nothing at all; the codec decodes it
// and must call Release on every exit path.
type Result struct {
	Integer *uint64
	Buffer  []byte

	release func()
}

// Release frees the underlying result buffer. Safe to call more than once.
func (r *Result) Release() {
	if r == nil || r.release == nil {
		return
	}
	r.release()
	r.release = nil
}

// Transport performs one blocking firmware method call per invocation.
// Callers must serialize overlapping GET/SET pairs against the same register
// externally; firmware state is mutated as a side effect.
type Transport interface {
	// Present reports whether the gaming interface exists on this machine.
	Present() bool
	// Evaluate invokes the method with a 64-bit input word.
	Evaluate(method Method, input uint64) (*Result, error)
	Close() error
}

const (
	// DefaultDevicePath is the shim driver's character device.
	DefaultDevicePath = "/dev/acer-gaming-wmi"

	guidPath = "/sys/bus/wmi/devices/" + GUID

	// IOCTL_GWMI_EVALUATE, _IOWR('G', 0, struct gwmi_evaluate)
	evaluateControlCode = 0xC0104700
)

// evaluateRequest mirrors the shim driver's ioctl argument layout.
type evaluateRequest struct {
	Method uint32
	_      uint32
	Input  uint64
	Output uint64
}

var resultBuffers = sync.Pool{
	New: func() interface{} {
		b := make([]byte, 8)
		return &b
	},
}

// Device evaluates gaming WMI methods through the shim driver's character
// device.
type Device struct {
	f    *os.File
	path string
}

var _ Transport = &Device{}

// NewDevice opens the default shim device.
func NewDevice() (*Device, error) {
	return NewDeviceWithPath(DefaultDevicePath)
}

// NewDeviceWithPath opens the shim device at the given path.
func NewDeviceWithPath(path string) (*Device, error) {
	if len(path) == 0 {
		return nil, errors.New("wmi: device path cannot be empty")
	}
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, errors.Wrap(err, "wmi: cannot open gaming wmi device")
	}
	return &Device{
		f:    f,
		path: path,
	}, nil
}

// Present checks for the gaming interface GUID on the WMI bus.
func (d *Device) Present() bool {
	_, err := os.Stat(guidPath)
	return err == nil
}

// Evaluate performs one blocking method call through the shim driver.
func (d *Device) Evaluate(method Method, input uint64) (*Result, error) {
	req := evaluateRequest{
		Method: uint32(method),
		Input:  input,
	}
	if _, _, errno := unix.Syscall(
		unix.SYS_IOCTL,
		d.f.Fd(),
		uintptr(evaluateControlCode),
		uintptr(unsafe.Pointer(&req)),
	); errno != 0 {
		return nil, errors.Wrapf(errno, "wmi: ioctl on %s", d.path)
	}

	bp := resultBuffers.Get().(*[]byte)
	binary.LittleEndian.PutUint64(*bp, req.Output)

	return &Result{
		Buffer: *bp,
		release: func() {
			resultBuffers.Put(bp)
		},
	}, nil
}

func (d *Device) Close() error {
	return d.f.Close()
}
