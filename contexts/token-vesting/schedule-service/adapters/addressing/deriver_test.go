package addressing

import "testing"

func TestDerivedAddressesAreDeterministic(t *testing.T) {
	a := NewDeriver("")
	b := NewDeriver("")

	if a.VaultAddress("sched-1") != b.VaultAddress("sched-1") {
		t.Fatal("same namespace and seeds must derive the same address")
	}
	if a.ReceivingAddress("mint-1", "wallet-1") != b.ReceivingAddress("mint-1", "wallet-1") {
		t.Fatal("receiving derivation is not deterministic")
	}
}

func TestDerivedAddressesAreDistinctPerKind(t *testing.T) {
	d := NewDeriver("")
	seen := map[string]string{}
	for kind, address := range map[string]string{
		"schedule":  d.ScheduleAddress("sched-1"),
		"vault":     d.VaultAddress("sched-1"),
		"registry":  d.RegistryAddress("sched-1"),
		"receiving": d.ReceivingAddress("mint-1", "sched-1"),
	} {
		if len(address) != 64 {
			t.Fatalf("%s address %q is not 64 hex chars", kind, address)
		}
		if prev, dup := seen[address]; dup {
			t.Fatalf("%s and %s derive the same address", kind, prev)
		}
		seen[address] = kind
	}
}

func TestNamespaceChangesDerivation(t *testing.T) {
	if NewDeriver("mainnet").VaultAddress("sched-1") == NewDeriver("testnet").VaultAddress("sched-1") {
		t.Fatal("namespace must partition the address space")
	}
}

func TestSeedBoundariesDoNotCollide(t *testing.T) {
	d := NewDeriver("")
	if d.ReceivingAddress("ab", "c") == d.ReceivingAddress("a", "bc") {
		t.Fatal("adjacent seeds must not collide across boundaries")
	}
}
