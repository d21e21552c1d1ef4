package classifier

import (
	"strings"

	"golang.org/x/text/width"

	"chemtrack/model"
)

// Class is the interpretation of a scanned code.
type Class int

const (
	// ChemicalTypeCode identifies a chemical type (product barcode / CAS-like code).
	ChemicalTypeCode Class = iota
	// BottleTrackingID identifies one physical bottle.
	BottleTrackingID
)

func (c Class) String() string {
	if c == BottleTrackingID {
		return "bottle_tracking_id"
	}
	return "chemical_type_code"
}

// Tracking IDs are fixed 8 characters and always contain a non-digit, so they
// never collide with an all-digit product barcode.
const TrackingIDLength = 8

// Normalize prepares a raw scan for classification: folds full-width
// characters to their narrow forms (keyboard-wedge scanners under an IME emit
// full-width digits) and trims surrounding whitespace.
func Normalize(code string) string {
	return strings.TrimSpace(width.Narrow.String(code))
}

// Classify decides what a scanned code refers to. It is a pure function of
// its inputs.
//
// In checkout mode every scan is a bottle tracking ID. Otherwise a code is a
// tracking ID only when it is exactly 8 characters with at least one
// non-digit. An 8-character all-digit code therefore classifies as a chemical
// type code even though it shares the tracking-ID length; generated tracking
// IDs carry a non-digit prefix, so only a foreign label could collide.
func Classify(code string, mode model.OperatingMode) Class {
	if mode == model.ModeCheckout {
		return BottleTrackingID
	}
	if len(code) == TrackingIDLength && containsNonDigit(code) {
		return BottleTrackingID
	}
	return ChemicalTypeCode
}

func containsNonDigit(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return true
		}
	}
	return false
}
