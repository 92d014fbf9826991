package garage

import "testing"

func TestStoreCreatesUserOnce(t *testing.T) {
	store := NewStore()

	first := store.User("alpha")
	if first.Username != "alpha" {
		t.Errorf("Expected username alpha, got %q", first.Username)
	}
	if first.Equipment.Hull == nil || first.Equipment.Weapon == nil || first.Equipment.Coloring == nil {
		t.Fatal("Expected full default equipment")
	}

	second := store.User("alpha")
	if first != second {
		t.Error("Expected the same user object on repeated lookup")
	}

	other := store.User("bravo")
	if other == first {
		t.Error("Different usernames must get different users")
	}
}

func TestDefaultEquipment(t *testing.T) {
	eq := DefaultEquipment()

	if eq.Weapon.Archetype != "railgun" {
		t.Errorf("Expected railgun starter weapon, got %q", eq.Weapon.Archetype)
	}
	if eq.Hull.MountName != "hunter_m0" {
		t.Errorf("Expected hunter starter hull, got %q", eq.Hull.MountName)
	}
	if eq.Hull.Physics.Speed <= 0 || eq.Weapon.Physics.TurretRotationSpeed <= 0 {
		t.Error("Expected positive physics values")
	}
}
