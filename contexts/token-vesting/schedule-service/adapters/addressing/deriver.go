package addressing

import (
	"crypto/sha256"
	"encoding/hex"
)

// Deriver produces the canonical deterministic addresses for a schedule's
// persistent records and for each recipient's receiving account. Every
// consumer that derives from the same namespace and seeds lands on the same
// address, which is what lets the core validate caller-supplied destinations
// by re-derivation instead of lookup.
type Deriver struct {
	Namespace string
}

func NewDeriver(namespace string) Deriver {
	if namespace == "" {
		namespace = "tranche"
	}
	return Deriver{Namespace: namespace}
}

func (d Deriver) ScheduleAddress(scheduleID string) string {
	return d.derive("schedule_state", scheduleID)
}

func (d Deriver) VaultAddress(scheduleID string) string {
	return d.derive("vault", scheduleID)
}

func (d Deriver) RegistryAddress(scheduleID string) string {
	return d.derive("recipients", scheduleID)
}

func (d Deriver) ReceivingAddress(mint string, wallet string) string {
	return d.derive("receiving", mint, wallet)
}

func (d Deriver) derive(seeds ...string) string {
	h := sha256.New()
	h.Write([]byte(d.Namespace))
	for _, seed := range seeds {
		// Length-prefix each seed so ("ab","c") never collides with ("a","bc").
		h.Write([]byte{byte(len(seed))})
		h.Write([]byte(seed))
	}
	return hex.EncodeToString(h.Sum(nil))
}
