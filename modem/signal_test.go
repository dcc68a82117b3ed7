package modem

import "testing"

func TestCSQToDBmTotality(t *testing.T) {
	// Every representative input in and around the documented CSQ range
	// must map to a defined dBm value, never panic, matching P6.
	cases := []struct {
		csq  int
		want int
	}{
		{0, -113},
		{1, -111},
		{2, -109},
		{15, -109 + 2*13},
		{30, -109 + 2*28},
		{31, -51},
		{99, 0},
		{-5, 0},
		{1000, 0},
	}
	for _, tc := range cases {
		if got := CSQToDBm(tc.csq); got != tc.want {
			t.Errorf("CSQToDBm(%d) = %d, want %d", tc.csq, got, tc.want)
		}
	}
}

func TestValidSignalRange(t *testing.T) {
	for csq := 1; csq <= 31; csq++ {
		if !ValidSignal(csq) {
			t.Errorf("ValidSignal(%d) = false, want true", csq)
		}
	}
	for _, csq := range []int{0, 32, 99, -1} {
		if ValidSignal(csq) {
			t.Errorf("ValidSignal(%d) = true, want false", csq)
		}
	}
}

func TestParseCSQUnparseable(t *testing.T) {
	if got := parseCSQ("not,a,number"); got != 99 {
		t.Errorf("parseCSQ(garbage) = %d, want 99", got)
	}
	if got := parseCSQ("15,99"); got != 15 {
		t.Errorf("parseCSQ(\"15,99\") = %d, want 15", got)
	}
}

func TestRegistrationStatusOK(t *testing.T) {
	for _, line := range []string{"0,1", "0,5", "1,1"} {
		if !registrationStatusOK(line) {
			t.Errorf("registrationStatusOK(%q) = false, want true", line)
		}
	}
	for _, line := range []string{"0,0", "0,2", "0,3", "garbage"} {
		if registrationStatusOK(line) {
			t.Errorf("registrationStatusOK(%q) = true, want false", line)
		}
	}
}

func TestParseHTTPAction(t *testing.T) {
	got := parseHTTPAction("0,200,1234")
	if got.parseErr || got.method != 0 || got.code != 200 || got.bodyLen != 1234 {
		t.Errorf("parseHTTPAction = %+v", got)
	}
	if !parseHTTPAction("garbage").parseErr {
		t.Errorf("parseHTTPAction(garbage) should report parseErr")
	}
}

func TestIsModemHTTPErrorCode(t *testing.T) {
	if !isModemHTTPErrorCode(700) || !isModemHTTPErrorCode(720) {
		t.Error("700 and 720 are in the modem error range")
	}
	if isModemHTTPErrorCode(200) || isModemHTTPErrorCode(699) || isModemHTTPErrorCode(721) {
		t.Error("200/699/721 are not modem error codes")
	}
}
