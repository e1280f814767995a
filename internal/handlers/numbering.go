package handlers

import (
	"fmt"
	"strconv"
	"time"

	"gorm.io/gorm"
)

// Order numbers look like PROD-DDMMYYYY#### where #### is a zero-padded
// per-day sequence. The suffix grows past four digits, so the latest number
// for a prefix is found by length first and lexicographic order second; a
// plain string sort would rank "9999" above "10000".

func orderNumberPrefix(t time.Time) string {
	return fmt.Sprintf("PROD-%02d%02d%d", t.Day(), int(t.Month()), t.Year())
}

// nextOrderNumber derives the next number for a day given the latest
// persisted number for that prefix ("" when the day has no orders yet).
// Padding guarantees a minimum of four digits; past 9999 the sequence just
// grows wider.
func nextOrderNumber(prefix, last string) string {
	sequence := 1
	if len(last) > len(prefix) {
		if n, err := strconv.Atoi(last[len(prefix):]); err == nil {
			sequence = n + 1
		}
	}
	return fmt.Sprintf("%s%04d", prefix, sequence)
}

// generateOrderNumber reads the latest order number for today inside the
// caller's transaction. Two concurrent creators can still compute the same
// number; the unique index on order_number plus the caller's retry loop
// close that race.
func generateOrderNumber(tx *gorm.DB, now time.Time) (string, error) {
	prefix := orderNumberPrefix(now)

	var last struct {
		OrderNumber string
	}
	err := tx.Table("orders").
		Select("order_number").
		Where("order_number LIKE ?", prefix+"%").
		Order("LENGTH(order_number) DESC, order_number DESC").
		Limit(1).
		Scan(&last).Error
	if err != nil {
		return "", err
	}

	return nextOrderNumber(prefix, last.OrderNumber), nil
}
