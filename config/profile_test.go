package config

import (
	"testing"

	"github.com/RegiByte/emergent-boids-sub003/components"
)

func TestLoad_EmbeddedDefaultsParse(t *testing.T) {
	p, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") should parse the embedded defaults cleanly, got error: %v", err)
	}
	if len(p.Species) == 0 {
		t.Errorf("expected the embedded defaults to define at least one species")
	}
	if p.World.Width <= 0 || p.World.Height <= 0 {
		t.Errorf("expected positive world dimensions from defaults, got %+v", p.World)
	}
}

func TestLoad_MissingFileReturnsError(t *testing.T) {
	_, err := Load("/nonexistent/path/to/a/profile.yaml")
	if err == nil {
		t.Errorf("expected an error loading a nonexistent profile file")
	}
}

func TestValidate_RejectsZeroSpecies(t *testing.T) {
	p := &Profile{World: World{Width: 100, Height: 100}}
	if err := Validate(p); err == nil {
		t.Errorf("expected Validate to reject a profile with no species")
	}
}

func TestValidate_RejectsNonPositiveWorldDimensions(t *testing.T) {
	p := &Profile{
		World:   World{Width: 0, Height: 100},
		Species: map[string]Species{"prey": {Movement: Movement{MaxSpeed: 1, TrailLength: 1}, Lifecycle: Lifecycle{MaxEnergy: 1}}},
	}
	if err := Validate(p); err == nil {
		t.Errorf("expected Validate to reject a non-positive world width")
	}
}

func TestValidate_RejectsNonPositiveMaxSpeed(t *testing.T) {
	p := &Profile{
		World:   World{Width: 100, Height: 100},
		Species: map[string]Species{"prey": {Movement: Movement{MaxSpeed: 0, TrailLength: 1}, Lifecycle: Lifecycle{MaxEnergy: 1}}},
	}
	if err := Validate(p); err == nil {
		t.Errorf("expected Validate to reject a species with non-positive max speed")
	}
}

func TestSpeciesByRole_ReturnsSortedIDs(t *testing.T) {
	p := &Profile{
		Species: map[string]Species{
			"zebrafish": {Role: components.RolePrey},
			"anchovy":   {Role: components.RolePrey},
			"shark":     {Role: components.RolePredator},
		},
	}
	prey := p.SpeciesByRole(components.RolePrey)
	if len(prey) != 2 || prey[0] != "anchovy" || prey[1] != "zebrafish" {
		t.Errorf("expected sorted prey ids [anchovy zebrafish], got %v", prey)
	}
	predators := p.SpeciesByRole(components.RolePredator)
	if len(predators) != 1 || predators[0] != "shark" {
		t.Errorf("expected predator ids [shark], got %v", predators)
	}
}

func TestLoad_ResolvesRoleFromRoleName(t *testing.T) {
	p, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") failed: %v", err)
	}
	for id, sp := range p.Species {
		if sp.RoleName == "predator" && sp.Role != components.RolePredator {
			t.Errorf("species %q has role_name=predator but resolved Role=%v", id, sp.Role)
		}
		if sp.RoleName != "predator" && sp.Role != components.RolePrey {
			t.Errorf("species %q has role_name=%q but resolved Role=%v, want RolePrey", id, sp.RoleName, sp.Role)
		}
	}
}
