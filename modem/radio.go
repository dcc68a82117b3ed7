package modem

// RadioTech is the closed set of radio technologies the registration FSM
// can target. Only Auto, TwoG and Lte are implementable on the supported
// modem; LteM and LteNbIot are accepted by the type system (so callers can
// express intent) but are rejected with Error at the AT boundary per
// spec's mode-mapping table.
type RadioTech int

const (
	Auto RadioTech = iota
	TwoG
	LteM
	LteNbIot
	Lte
)

func (ct RadioTech) String() string {
	switch ct {
	case Auto:
		return "Auto"
	case TwoG:
		return "TwoG"
	case LteM:
		return "LteM"
	case LteNbIot:
		return "LteNbIot"
	case Lte:
		return "Lte"
	default:
		return "Unknown"
	}
}

// cnmpMode returns the AT+CNMP mode code for ct, and false if ct has no
// mapping (LteM, LteNbIot, or anything out of range).
func cnmpMode(ct RadioTech) (int, bool) {
	switch ct {
	case Auto:
		return 2, true
	case TwoG:
		return 13, true
	case Lte:
		return 38, true
	default:
		return 0, false
	}
}

// registrationCommand returns the AT registration-status command family
// (without the leading '+' or trailing '?') for ct, and false if ct has no
// mapping.
func registrationCommand(ct RadioTech) (string, bool) {
	switch ct {
	case Auto:
		return "CREG", true
	case TwoG:
		return "CGREG", true
	case Lte:
		return "CEREG", true
	default:
		return "", false
	}
}
