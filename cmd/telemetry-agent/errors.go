package main

import (
	"fmt"

	"github.com/airgradienthq/cellmodem/modem"
)

func errNetworkRegistration(status modem.ModemReturn) error {
	return fmt.Errorf("network registration did not complete: %s", status)
}

func errMQTTConnect(status modem.ModemReturn) error {
	return fmt.Errorf("mqtt connect failed: %s", status)
}
