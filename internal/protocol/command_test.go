package protocol

import "testing"

func TestPackUnpackRoundtrip(t *testing.T) {
	cmd := New(Move, ToJson(MoveData{
		PhysTime: 42,
		Position: Vector3Data{X: 1.5, Y: -2, Z: 3},
	}))

	data, err := Pack(cmd)
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}

	got, err := Unpack(data)
	if err != nil {
		t.Fatalf("Unpack: %v", err)
	}

	if got.Name != Move {
		t.Errorf("Expected name %q, got %q", Move, got.Name)
	}
	if len(got.Args) != 1 || got.Args[0] != cmd.Args[0] {
		t.Errorf("Args mismatch: %v", got.Args)
	}
}

func TestUnpackRejectsGarbage(t *testing.T) {
	if _, err := Unpack([]byte("not json")); err == nil {
		t.Error("Expected error for malformed frame")
	}

	if _, err := Unpack([]byte(`{"args":["x"]}`)); err == nil {
		t.Error("Expected error for empty command name")
	}
}

func TestNewWithoutArgs(t *testing.T) {
	cmd := New(Pong)
	if cmd.Name != Pong {
		t.Errorf("Expected pong, got %q", cmd.Name)
	}
	if len(cmd.Args) != 0 {
		t.Errorf("Expected no args, got %v", cmd.Args)
	}
}

func TestValidate(t *testing.T) {
	if err := (LoginData{}).Validate(); err == nil {
		t.Error("Expected error for empty username")
	}
	if err := (LoginData{Username: "alpha"}).Validate(); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}

	if err := (JoinBattleData{}).Validate(); err == nil {
		t.Error("Expected error for empty battleId")
	}
	if err := (FireTargetData{}).Validate(); err == nil {
		t.Error("Expected error for empty target")
	}
}
