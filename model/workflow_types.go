package model

// OperatingMode selects how a scanned code is interpreted. In inventory mode
// the classifier decides between a type code and a tracking ID; in checkout
// mode every scan is a bottle tracking ID.
type OperatingMode string

const (
	ModeInventory OperatingMode = "inventory"
	ModeCheckout  OperatingMode = "checkout"
)
