package wmi

import "github.com/pkg/errors"

var (
	// ErrInterfaceAbsent means the gaming WMI GUID is not present on this
	// machine. No firmware call is attempted, and retrying within this
	// session will not help.
	ErrInterfaceAbsent = errors.New("wmi: gaming interface is not present")

	// ErrCallFailed means the firmware call itself reported a failure
	// (device busy, unsupported method). Callers decide whether to retry.
	ErrCallFailed = errors.New("wmi: firmware method call failed")

	// ErrNoData means a GET expected a value but firmware returned nothing
	// decodable. Distinct from a firmware-reported status failure.
	ErrNoData = errors.New("wmi: firmware returned no decodable data")
)
