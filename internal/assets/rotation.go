package assets

import "math/rand"

// Rotation selects how the scheduler advances to the next asset.
type Rotation string

const (
	RotationSequential Rotation = "SEQUENTIAL"
	RotationRandom     Rotation = "RANDOM"
	RotationNone       Rotation = "NONE"
)

// ParseRotation maps a config string to a Rotation, defaulting to sequential.
func ParseRotation(s string) Rotation {
	switch Rotation(s) {
	case RotationRandom:
		return RotationRandom
	case RotationNone:
		return RotationNone
	default:
		return RotationSequential
	}
}

// Next picks the index that follows current under the given rotation policy.
// Random picks retry up to 3 times to avoid repeating the same index.
func Next(rot Rotation, current int, rng *rand.Rand) int {
	switch rot {
	case RotationRandom:
		next := current
		for attempts := 0; next == current && attempts < 3; attempts++ {
			next = rng.Intn(len(table))
		}
		return next
	case RotationNone:
		return current
	default:
		return (current + 1) % len(table)
	}
}
