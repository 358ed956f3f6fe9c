//go:build !unix && !windows

package executor

func isCrossDevice(err error) bool {
	return false
}
