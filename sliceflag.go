package main

import "strings"

// sliceFlag collects the values of a command line option that can be
// given more than once. If sep is set, each value is additionally split
// at sep, so that "-param a:int,b:int" works as well.
type sliceFlag struct {
	values *[]string
	sep    string
}

func newSliceFlag(values *[]string, sep string) *sliceFlag {
	return &sliceFlag{values, sep}
}

func (s *sliceFlag) String() string {
	if s.values == nil {
		return ""
	}
	return strings.Join(*s.values, ", ")
}

func (s *sliceFlag) Set(str string) error {
	if s.sep == "" {
		*s.values = append(*s.values, str)
		return nil
	}
	for _, part := range strings.Split(str, s.sep) {
		if part = strings.TrimSpace(part); part != "" {
			*s.values = append(*s.values, part)
		}
	}
	return nil
}
