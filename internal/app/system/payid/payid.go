// internal/app/system/payid/payid.go

// Package payid generates the Razorpay-style payment and order references
// used by the simulated payment gateway.
//
// References look like pay_1756500000000_a1b2c3d4e5f6: a prefix, the
// millisecond timestamp, and a random hex suffix. Uniqueness is enforced by
// sparse unique indexes on the donations collection; the random suffix makes
// collisions within the same millisecond vanishingly unlikely.
package payid

import (
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	paymentPrefix = "pay"
	orderPrefix   = "order"
	suffixLen     = 12
)

func generate(prefix string) string {
	id := uuid.New()
	suffix := hex.EncodeToString(id[:])[:suffixLen]
	return fmt.Sprintf("%s_%d_%s", prefix, time.Now().UnixMilli(), suffix)
}

// Payment returns a fresh payment reference (pay_<millis>_<hex>).
func Payment() string { return generate(paymentPrefix) }

// Order returns a fresh order reference (order_<millis>_<hex>).
func Order() string { return generate(orderPrefix) }
