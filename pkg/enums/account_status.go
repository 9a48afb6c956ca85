package enums

import "fmt"

// AccountStatus is the admin-facing view of an identity's active/blocked flags.
type AccountStatus string

const (
	AccountStatusActive   AccountStatus = "active"
	AccountStatusBlocked  AccountStatus = "blocked"
	AccountStatusInactive AccountStatus = "inactive"
)

var validAccountStatuses = []AccountStatus{
	AccountStatusActive,
	AccountStatusBlocked,
	AccountStatusInactive,
}

// String implements fmt.Stringer.
func (s AccountStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known AccountStatus.
func (s AccountStatus) IsValid() bool {
	for _, candidate := range validAccountStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// AccountStatusOf derives the status from the raw flags. Blocked wins over inactive.
func AccountStatusOf(active, blocked bool) AccountStatus {
	switch {
	case blocked:
		return AccountStatusBlocked
	case !active:
		return AccountStatusInactive
	default:
		return AccountStatusActive
	}
}

// ParseAccountStatus converts raw input into an AccountStatus.
func ParseAccountStatus(value string) (AccountStatus, error) {
	for _, candidate := range validAccountStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid account status %q", value)
}
