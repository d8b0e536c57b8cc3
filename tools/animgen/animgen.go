package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"

	"github.com/mogaika/skinpack/anim"
	"github.com/mogaika/skinpack/utils"
)

// Generates synthetic animation streams for testing the pipeline.

type skeletonBone struct {
	Name   string    `yaml:"name"`
	Parent string    `yaml:"parent,omitempty"`
	Bind   []float32 `yaml:"bind,flow"`
}

func main() {
	var out, skeletonOut string
	var animations, bones, frames int
	var seed int64
	flag.StringVar(&out, "out", "generated.anim", "Output animation stream")
	flag.StringVar(&skeletonOut, "skeleton", "", "Also write the matching skeleton (yaml)")
	flag.IntVar(&animations, "animations", 3, "Animations count")
	flag.IntVar(&bones, "bones", 8, "Bones count")
	flag.IntVar(&frames, "frames", 60, "Keyframes per channel, sampled at 60 fps")
	flag.Int64Var(&seed, "seed", 1, "Random seed")
	flag.Parse()

	if animations <= 0 || bones <= 0 || frames <= 0 {
		log.Fatal("-animations, -bones and -frames must be positive")
	}

	names := utils.NewRandomNameGenerator(seed)
	rnd := rand.New(rand.NewSource(seed))

	skeleton := make([]skeletonBone, bones)
	binds := make([]mgl32.Mat4, bones)
	for i := range skeleton {
		skeleton[i].Name = names.RandomPrefixedName("Bone_")
		if i > 0 {
			skeleton[i].Parent = skeleton[rnd.Intn(i)].Name
		}
		binds[i] = mgl32.Translate3D(0, 0.5+rnd.Float32(), 0)
		bind := anim.RowMajor(binds[i])
		skeleton[i].Bind = bind[:]
	}

	set := anim.NewSet()
	for i := 0; i < animations; i++ {
		a := &anim.Animation{Name: names.RandomName()}
		for b := range skeleton {
			axis := mgl32.Vec3{rnd.Float32(), rnd.Float32(), rnd.Float32()}.Add(mgl32.Vec3{0.01, 0, 0}).Normalize()
			speed := rnd.Float32()*4 - 2
			c := &anim.Channel{Bone: skeleton[b].Name, Keyframes: make([]anim.Keyframe, frames)}
			for f := range c.Keyframes {
				angle := speed * float32(f) / 60
				c.Keyframes[f] = anim.Keyframe{
					Transform: binds[b].Mul4(mgl32.HomogRotate3D(angle, axis)),
					Time:      int64(f) * anim.TICKS_PER_60FPS,
				}
			}
			a.Channels = append(a.Channels, c)
		}
		set.Add(a)
	}

	f, err := os.Create(out)
	if err != nil {
		log.Fatal(err)
	}
	if err := anim.Encode(f, set); err != nil {
		log.Fatal(err)
	}
	f.Close()
	fmt.Printf("Written %q: %d animations %v\n", out, set.Len(), set.Names())

	if skeletonOut != "" {
		data, err := yaml.Marshal(skeleton)
		if err != nil {
			log.Fatal(err)
		}
		if err := os.WriteFile(skeletonOut, data, 0666); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("Written %q: %d bones\n", skeletonOut, len(skeleton))
	}
}
