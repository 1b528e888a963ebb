package sensors

import (
	"context"
	"strings"
)

// readBluetooth queries the adapter power state with `bluetoothctl show`,
// then the connected-device list when powered.
func (r *Reader) readBluetooth(ctx context.Context) (Reading, error) {
	show, err := r.probeOutput(ctx, Bluetooth, "bluetoothctl", "show")
	if err != nil {
		return Reading{}, err
	}

	if !strings.Contains(show, "Powered: yes") {
		return Reading{Kind: Bluetooth, Text: r.icons.BluetoothOff + " Off"}, nil
	}

	devices, err := r.probeOutput(ctx, Bluetooth, "bluetoothctl", "devices", "Connected")
	if err != nil {
		return Reading{}, err
	}

	if strings.TrimSpace(devices) != "" {
		return Reading{Kind: Bluetooth, Text: r.icons.BluetoothOn + " Connected"}, nil
	}
	return Reading{Kind: Bluetooth, Text: r.icons.BluetoothOn + " On"}, nil
}
