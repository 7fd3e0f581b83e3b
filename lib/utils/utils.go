package utils

import (
	"strings"
)

// BytesEquals check whether the given bytes is equal
func BytesEquals(a, b []byte) bool {
	if (a == nil && b != nil) || (a != nil && b == nil) {
		return false
	}
	if len(a) != len(b) {
		return false
	}
	size := len(a)
	for i := 0; i < size; i++ {
		av := a[i]
		bv := b[i]
		if av != bv {
			return false
		}
	}
	return true
}

// ToCmdLine convert strings to [][]byte
func ToCmdLine(cmd ...string) [][]byte {
	args := make([][]byte, len(cmd))
	for i, s := range cmd {
		args[i] = []byte(s)
	}
	return args
}

// FormatCmdLine joins a command line into one loggable string
func FormatCmdLine(cmdLine [][]byte) string {
	sArr := make([]string, 0, len(cmdLine))
	for _, cmd := range cmdLine {
		sArr = append(sArr, string(cmd))
	}
	return strings.Join(sArr, " ")
}
