package app

import (
	"fmt"
)

const (
	OutputNone = "none"
	OutputText = "text"
	OutputJSON = "json"
)

// outputValue implements pflag.Value to provide a custom type name in help text
// and validation for report formats.
type outputValue string

func (o *outputValue) String() string {
	return string(*o)
}

func (o *outputValue) Set(v string) error {
	switch v {
	case OutputNone, OutputText, OutputJSON:
		*o = outputValue(v)
		return nil
	default:
		return fmt.Errorf("must be '%s', '%s' or '%s'", OutputNone, OutputText, OutputJSON)
	}
}

func (o *outputValue) Type() string {
	return "<format>"
}
