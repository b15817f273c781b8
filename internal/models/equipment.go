package models

// MachineType represents the kind of cooking machine
type MachineType string

const (
	// Machine types
	MachineTypeFountain   MachineType = "fountain"
	MachineTypeFryer      MachineType = "fryer"
	MachineTypeGrillPress MachineType = "grillPress"
	MachineTypeOven       MachineType = "oven"
)

// MachineTypes lists every machine type in a stable order
var MachineTypes = []MachineType{
	MachineTypeFryer,
	MachineTypeOven,
	MachineTypeGrillPress,
	MachineTypeFountain,
}

// String returns the display name used in the event trace
func (t MachineType) String() string {
	switch t {
	case MachineTypeFountain:
		return "Fountain"
	case MachineTypeFryer:
		return "Fryer"
	case MachineTypeGrillPress:
		return "Grill Press"
	case MachineTypeOven:
		return "Oven"
	default:
		return "INVALID MACHINE"
	}
}

// MachineFor returns the machine type that produces food. Every food on the
// menu is bound to exactly one machine type.
func MachineFor(food Food) (MachineType, bool) {
	switch food.Name {
	case Soda.Name:
		return MachineTypeFountain, true
	case Wings.Name:
		return MachineTypeFryer, true
	case Sub.Name:
		return MachineTypeGrillPress, true
	case Pizza.Name:
		return MachineTypeOven, true
	default:
		return "", false
	}
}

// FoodFor is the inverse of MachineFor
func FoodFor(t MachineType) (Food, bool) {
	switch t {
	case MachineTypeFountain:
		return Soda, true
	case MachineTypeFryer:
		return Wings, true
	case MachineTypeGrillPress:
		return Sub, true
	case MachineTypeOven:
		return Pizza, true
	default:
		return Food{}, false
	}
}
