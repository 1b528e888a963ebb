package sensors

import "github.com/muesli/termenv"

// Icons groups the glyphs used in sensor status strings. The Unicode set
// matches the reference bar; the ASCII set keeps dumb terminals readable.
type Icons struct {
	Wireless     string // wl* interface
	Wired        string // en* interface
	Link         string // other interface with an IP
	BluetoothOn  string
	BluetoothOff string
	Mute         string
	VolLow       string // volume < 33
	VolMid       string // volume < 66
	VolHigh      string
	Clock        string
}

// UnicodeIcons returns the emoji glyph set.
func UnicodeIcons() Icons {
	return Icons{
		Wireless:     "📡",
		Wired:        "🌐",
		Link:         "🔗",
		BluetoothOn:  "🔵",
		BluetoothOff: "⚫",
		Mute:         "🔇",
		VolLow:       "🔈",
		VolMid:       "🔉",
		VolHigh:      "🔊",
		Clock:        "🕒",
	}
}

// ASCIIIcons returns a plain-text glyph set for terminals without emoji
// support.
func ASCIIIcons() Icons {
	return Icons{
		Wireless:     "wifi",
		Wired:        "eth",
		Link:         "net",
		BluetoothOn:  "bt",
		BluetoothOff: "bt!",
		Mute:         "vol!",
		VolLow:       "vol",
		VolMid:       "vol",
		VolHigh:      "vol",
		Clock:        "@",
	}
}

// DefaultIcons picks a glyph set from the terminal's termenv profile. A
// terminal that cannot even do ANSI color is assumed unable to render emoji.
func DefaultIcons() Icons {
	if termenv.ColorProfile() == termenv.Ascii {
		return ASCIIIcons()
	}
	return UnicodeIcons()
}
