package maps

import "testing"

func TestRegistryBuiltins(t *testing.T) {
	r := NewRegistry()

	sandbox, err := r.Map("sandbox")
	if err != nil {
		t.Fatalf("sandbox: %v", err)
	}
	if sandbox.Id == 0 {
		t.Error("Expected resource id for sandbox")
	}
	if len(sandbox.SkyboxResources) != 6 {
		t.Errorf("Expected 6 skybox sides, got %d", len(sandbox.SkyboxResources))
	}

	island, err := r.Map("island")
	if err != nil {
		t.Fatalf("island: %v", err)
	}
	if len(island.SpawnPoints) == 0 {
		t.Error("Expected spawn points on island")
	}
}

func TestRegistryUnknownMap(t *testing.T) {
	if _, err := NewRegistry().Map("moon_base"); err == nil {
		t.Error("Expected error for unknown map")
	}
}
