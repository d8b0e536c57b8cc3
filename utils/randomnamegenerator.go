package utils

import (
	"fmt"
	"math/rand"

	"github.com/Pallinder/go-randomdata"
)

// RandomNameGenerator hands out unique silly names, deterministic for a given seed.
type RandomNameGenerator struct {
	used map[string]struct{}
}

func NewRandomNameGenerator(seed int64) *RandomNameGenerator {
	randomdata.CustomRand(rand.New(rand.NewSource(seed)))
	return &RandomNameGenerator{used: make(map[string]struct{})}
}

func (rng *RandomNameGenerator) RandomName() string {
	for {
		name := randomdata.SillyName()
		if _, exists := rng.used[name]; !exists {
			rng.used[name] = struct{}{}
			return name
		}
	}
}

// RandomPrefixedName avoids collisions by appending a counter when needed.
func (rng *RandomNameGenerator) RandomPrefixedName(prefix string) string {
	base := prefix + randomdata.SillyName()
	name := base
	for i := 1; ; i++ {
		if _, exists := rng.used[name]; !exists {
			rng.used[name] = struct{}{}
			return name
		}
		name = fmt.Sprintf("%s%d", base, i)
	}
}
