package main

import (
	"flag"
	"fmt"
	"io/ioutil"
	"log"
	"os"

	"github.com/mogaika/skinpack/config"
	"github.com/mogaika/skinpack/shader"
)

func main() {
	var out, check, configPath string
	var size int
	flag.IntVar(&size, "size", 0, "Palette size (default from config)")
	flag.StringVar(&out, "out", "", "Write the effect here instead of stdout")
	flag.StringVar(&check, "check", "", "Verify that an existing effect declares the palette size")
	flag.StringVar(&configPath, "config", "", "Pipeline config (yaml)")
	flag.Parse()

	p := config.DefaultPipeline()
	if configPath != "" {
		var err error
		if p, err = config.LoadPipeline(configPath); err != nil {
			log.Fatal(err)
		}
	}
	if size == 0 {
		size = p.PaletteSize
	}

	if check != "" {
		data, err := ioutil.ReadFile(check)
		if err != nil {
			log.Fatal(err)
		}
		decl, err := shader.Inspect(data)
		if err != nil {
			log.Fatalf("%q: %v", check, err)
		}
		if decl.PaletteSize != size {
			log.Fatalf("%q declares palette of %d matrices, expected %d", check, decl.PaletteSize, size)
		}
		log.Printf("%q: palette %d, techniques %v", check, decl.PaletteSize, decl.Techniques)
		return
	}

	source, err := shader.Generate(size)
	if err != nil {
		log.Fatal(err)
	}
	if out == "" {
		fmt.Print(source)
		return
	}
	if err := ioutil.WriteFile(out, []byte(source), 0666); err != nil {
		log.Fatal(err)
	}
	fmt.Fprintf(os.Stderr, "Written %q with palette of %d matrices\n", out, size)
}
