package modem

// CSQToDBm converts a raw CSQ value (0..31, or 99 for unknown) into a dBm
// estimate, grounded on original_source's CellularModule::csqToDbm. It is
// a total function: every int32-range input maps to a defined result, 0
// meaning "unknown/invalid".
func CSQToDBm(csq int) int {
	switch {
	case csq == 99:
		return 0
	case csq == 0:
		return -113
	case csq == 1:
		return -111
	case csq >= 2 && csq <= 30:
		return -109 + 2*(csq-2)
	case csq == 31:
		return -51
	default:
		return 0
	}
}

// ValidSignal reports whether csq falls in the CSQ convention's valid
// range [1, 31]; 99 and any out-of-range value are "unknown".
func ValidSignal(csq int) bool {
	return csq >= 1 && csq <= 31
}
