package wmi

import (
	"log"
	"sync"

	"github.com/pkg/errors"
)

// DryRun emulates the firmware registers without any actual IOs.
type DryRun struct {
	mu        sync.Mutex
	registers map[uint8]uint8
}

var _ Transport = &DryRun{}

// NewDryRun returns a Transport backed by in-memory registers, seeded with
// the factory defaults.
func NewDryRun() *DryRun {
	return &DryRun{
		registers: map[uint8]uint8{
			uint8(RegPlatformProfile): 0x01,
			uint8(RegFanBoost):        0x00,
		},
	}
}

func (d *DryRun) Present() bool {
	return true
}

func (d *DryRun) Evaluate(method Method, input uint64) (*Result, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	w := Word(input)
	log.Printf("[dry run] wmi: %s register 0x%02x value 0x%02x\n", method, w.Index(), w.Value())

	switch method {
	case MethodSet:
		d.registers[w.Index()] = w.Value()
		out := uint64(0)
		return &Result{Integer: &out}, nil
	case MethodGet:
		out := uint64(w.Index()) | uint64(d.registers[w.Index()])<<8
		return &Result{Integer: &out}, nil
	default:
		return nil, errors.Errorf("wmi: unknown method %d", method)
	}
}

func (d *DryRun) Close() error {
	return nil
}
