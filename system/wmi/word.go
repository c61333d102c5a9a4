package wmi

// Register is a misc-setting register index addressable through the gaming
// WMI interface. Other indices round-trip through the codec unchanged; this
// layer does not validate them.
type Register uint8

const (
	// RegPlatformProfile selects the active thermal profile.
	RegPlatformProfile Register = 0x0B
	// RegFanBoost toggles maximum fan behavior independent of the profile.
	RegFanBoost Register = 0x0E
)

const (
	indexMask  = 0x00000000000000FF
	valueMask  = 0x000000000000FF00
	statusMask = 0x00000000FFFF0000
)

// Word is the 64-bit register word exchanged with firmware. Bits 0-7 carry
// the register index, bits 8-15 the value, and bits 16-31 the status field
// firmware fills in on a GET. A nonzero status always means failure, no
// matter what the value field holds.
type Word uint64

// NewSetWord packs a register index and value for a SET call. Status bits
// are always zero on input.
func NewSetWord(reg Register, value uint8) Word {
	return Word(uint64(reg) | uint64(value)<<8)
}

// NewGetWord packs a register index for a GET call.
func NewGetWord(reg Register) Word {
	return Word(uint64(reg))
}

// Index extracts the register index sub-field.
func (w Word) Index() uint8 {
	return uint8(w & indexMask)
}

// Value extracts the value sub-field.
func (w Word) Value() uint8 {
	return uint8((w & valueMask) >> 8)
}

// Status extracts the status sub-field.
func (w Word) Status() uint16 {
	return uint16((w & statusMask) >> 16)
}
