package util

import "strings"

// ArrayFlags collects a repeatable string flag.
type ArrayFlags []string

func (r *ArrayFlags) String() string {
	return strings.Join(*r, ",")
}

func (r *ArrayFlags) Set(value string) error {
	*r = append(*r, value)
	return nil
}
