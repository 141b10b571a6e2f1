package mesh

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

// Part colors for the helicopter and terrain.
var (
	TerrainColor   = [4]float32{1.0, 1.0, 1.0, 1.0}
	BodyColor      = [4]float32{0.3, 0.3, 0.3, 1.0}
	DoorColor      = [4]float32{0.1, 0.1, 0.3, 1.0}
	MainRotorColor = [4]float32{0.3, 0.1, 0.1, 1.0}
	TailRotorColor = [4]float32{0.1, 0.3, 0.1, 1.0}
)

// Helicopter is the four-part helicopter model.
type Helicopter struct {
	Body      Mesh
	Door      Mesh
	MainRotor Mesh
	TailRotor Mesh
}

// Parts returns the parts in load order.
func (h *Helicopter) Parts() []*Mesh {
	return []*Mesh{&h.Body, &h.Door, &h.MainRotor, &h.TailRotor}
}

// LoadTerrain loads a model and merges all of its groups into one white mesh.
func LoadTerrain(path string) (Mesh, error) {
	meshes, err := Load(path)
	if err != nil {
		return Mesh{}, fmt.Errorf("load terrain: %w", err)
	}
	m := Merge("terrain", meshes...)
	m.SetColor(TerrainColor)
	return m, nil
}

// LoadHelicopter loads the helicopter model. Parts are matched by group name
// where the file names them, otherwise taken in file order: body, door,
// main rotor, tail rotor.
func LoadHelicopter(path string) (Helicopter, error) {
	meshes, err := Load(path)
	if err != nil {
		return Helicopter{}, fmt.Errorf("load helicopter: %w", err)
	}
	return assembleHelicopter(meshes)
}

func assembleHelicopter(meshes []Mesh) (Helicopter, error) {
	if len(meshes) < 4 {
		return Helicopter{}, fmt.Errorf("helicopter needs 4 parts, got %d", len(meshes))
	}

	var h Helicopter
	slots := h.Parts()
	byName := []string{"body", "door", "main", "tail"}
	assigned := make([]bool, len(meshes))
	matched := 0
	fold := cases.Fold()
	names := make([]string, len(meshes))
	for i := range meshes {
		names[i] = fold.String(meshes[i].Name)
	}
	for slot, key := range byName {
		for i := range meshes {
			if !assigned[i] && strings.Contains(names[i], key) {
				*slots[slot] = meshes[i]
				assigned[i] = true
				matched++
				break
			}
		}
	}
	if matched != len(slots) {
		for slot := range slots {
			*slots[slot] = meshes[slot]
		}
	}

	h.Body.SetColor(BodyColor)
	h.Door.SetColor(DoorColor)
	h.MainRotor.SetColor(MainRotorColor)
	h.TailRotor.SetColor(TailRotorColor)
	return h, nil
}
