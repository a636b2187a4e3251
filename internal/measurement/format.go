package measurement

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Formatter renders measurement values for display. Values are rounded to one
// decimal place only here; Result keeps full precision.
type Formatter struct {
	printer       *message.Printer
	unit          string
	unitsPerPixel float64
}

// NewFormatter creates a formatter for a locale. unitsPerPixel converts image
// pixels into the display unit; values <= 0 mean one unit per pixel.
func NewFormatter(locale string, unit string, unitsPerPixel float64) *Formatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	if unitsPerPixel <= 0 {
		unitsPerPixel = 1
	}
	return &Formatter{
		printer:       message.NewPrinter(tag),
		unit:          unit,
		unitsPerPixel: unitsPerPixel,
	}
}

// Distance formats the distance, or the zero placeholder without a measurement
func (f *Formatter) Distance(r Result) string {
	if !r.Valid {
		return f.printer.Sprintf("0 %s", f.unit)
	}
	return f.printer.Sprintf("%.1f %s", r.Distance*f.unitsPerPixel, f.unit)
}

// Azimuth formats the azimuth together with its scaled value
func (f *Formatter) Azimuth(r Result) string {
	if !r.Valid {
		return "0°"
	}
	return f.printer.Sprintf("%.1f° = %.1f", r.Azimuth, r.AzimuthScaled)
}
