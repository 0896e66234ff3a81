package assets

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNext_SequentialWrapsAround(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	assert.Equal(t, 1, Next(RotationSequential, 0, rng))
	assert.Equal(t, 0, Next(RotationSequential, Count()-1, rng))
}

func TestNext_NoneStaysPut(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	assert.Equal(t, 5, Next(RotationNone, 5, rng))
}

func TestNext_RandomMostlyAvoidsRepeats(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	repeats := 0
	for i := 0; i < 200; i++ {
		if Next(RotationRandom, 3, rng) == 3 {
			repeats++
		}
	}
	// Three retry attempts make a repeat very unlikely but not impossible.
	assert.Less(t, repeats, 5)
}

func TestParseRotation_DefaultsToSequential(t *testing.T) {
	assert.Equal(t, RotationRandom, ParseRotation("RANDOM"))
	assert.Equal(t, RotationNone, ParseRotation("NONE"))
	assert.Equal(t, RotationSequential, ParseRotation(""))
	assert.Equal(t, RotationSequential, ParseRotation("bogus"))
}
