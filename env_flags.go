// env_flags.go - cached environment-variable feature switches.
//
// Read once via sync.Once (matching the teacher's features.go pattern of
// caching boolean flags rather than calling os.Getenv on every hot-path
// check) and consulted from the CPU cores' logging call sites.
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package main

import (
	"os"
	"sync"
)

var (
	logUnknownOpsOnce sync.Once
	logUnknownOps     bool

	logBRKOnce sync.Once
	logBRK     bool

	debugCMPSBOnce sync.Once
	debugCMPSB     bool
)

func envTruthy(name string) bool {
	switch os.Getenv(name) {
	case "1", "true", "TRUE":
		return true
	}
	return false
}

// shouldLogUnknownOps reports whether EMU_LOG_UNKNOWN_OPS is set.
func shouldLogUnknownOps() bool {
	logUnknownOpsOnce.Do(func() {
		logUnknownOps = envTruthy("EMU_LOG_UNKNOWN_OPS")
	})
	return logUnknownOps
}

// shouldLogBRK reports whether EMU_LOG_BRK is set.
func shouldLogBRK() bool {
	logBRKOnce.Do(func() {
		logBRK = envTruthy("EMU_LOG_BRK")
	})
	return logBRK
}

// shouldDebugCMPSB reports whether EMU_DEBUG_CMPSB is set.
func shouldDebugCMPSB() bool {
	debugCMPSBOnce.Do(func() {
		debugCMPSB = envTruthy("EMU_DEBUG_CMPSB")
	})
	return debugCMPSB
}
