package models

import (
	"fmt"
	"strconv"
)

// Default id prefixes for generated entities
const (
	DefaultSitePrefix       = "glo-cel-"
	DefaultSubscriberPrefix = "glo-sub-"
	DefaultRecordPrefix     = "glo-txn-"
)

// IDWidth returns the zero padding needed to print ids up to total, never less than min
func IDWidth(total, min int) int {
	if w := len(strconv.Itoa(total)); w > min {
		return w
	}
	return min
}

// SequentialID formats n with the prefix and zero padding, e.g. ("glo-cel-", 7, 3) -> "glo-cel-007"
func SequentialID(prefix string, n, width int) string {
	return fmt.Sprintf("%s%0*d", prefix, width, n)
}
