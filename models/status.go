package models

// Canonical order statuses. The admin flow vocabulary is canonical; the driver
// app historically used "ready"/"picked_up" for the same two stages, so those
// spellings are accepted at every API boundary and normalized here.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusPreparing = "preparing"
	StatusOnWay     = "on_way"
	StatusDelivered = "delivered"
	StatusCancelled = "cancelled"
)

// StatusAliases maps legacy spellings to canonical statuses.
var StatusAliases = map[string]string{
	"ready":     StatusPreparing,
	"picked_up": StatusOnWay,
}

// CanonicalStatus normalizes an incoming status string. Unknown values are
// returned unchanged so the caller can reject them.
func CanonicalStatus(status string) string {
	if canonical, ok := StatusAliases[status]; ok {
		return canonical
	}
	return status
}

// IsValidStatus reports whether status is canonical or a known alias.
func IsValidStatus(status string) bool {
	switch CanonicalStatus(status) {
	case StatusPending, StatusConfirmed, StatusPreparing, StatusOnWay, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// IsTerminalStatus reports whether no further transition is allowed.
func IsTerminalStatus(status string) bool {
	s := CanonicalStatus(status)
	return s == StatusDelivered || s == StatusCancelled
}

// Payment methods and statuses recorded on orders.
const (
	PaymentCash    = "cash"
	PaymentWallet  = "wallet"
	PaymentDigital = "digital"
	PaymentCard    = "card"

	PaymentStatusPaid   = "paid"
	PaymentStatusUnpaid = "unpaid"
)
