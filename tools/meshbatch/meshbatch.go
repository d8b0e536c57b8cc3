package main

import (
	"flag"
	"log"
	"os"
	"strings"

	"github.com/mogaika/skinpack/batch"
	"github.com/mogaika/skinpack/config"
	"github.com/mogaika/skinpack/scene"
	"github.com/mogaika/skinpack/utils"
)

func loadPipeline(path string) *config.Pipeline {
	if path == "" {
		return config.DefaultPipeline()
	}
	p, err := config.LoadPipeline(path)
	if err != nil {
		log.Fatal(err)
	}
	return p
}

func main() {
	var in, out, configPath, marker string
	var verbose, dump, colorOnly bool
	flag.StringVar(&in, "in", "", "Scene description (yaml)")
	flag.StringVar(&out, "out", "", "Output file, .glb or .yaml (default: input name with .glb)")
	flag.StringVar(&configPath, "config", "", "Pipeline config (yaml)")
	flag.StringVar(&marker, "marker", "", "Collapse meshes whose name contains this (overrides config)")
	flag.BoolVar(&verbose, "v", false, "Verbose output")
	flag.BoolVar(&dump, "dump", false, "Dump the processed scene graph")
	flag.BoolVar(&colorOnly, "coloronly", false, "Only write material index colors, keep parts separate")
	flag.Parse()

	if in == "" {
		flag.PrintDefaults()
		return
	}

	p := loadPipeline(configPath)
	if marker != "" {
		p.CollapseMarker = marker
	}
	var logger *utils.Logger
	if verbose {
		logger = utils.NewLogger(os.Stderr, "[meshbatch] ")
	}

	f, err := os.Open(in)
	if err != nil {
		log.Fatal(err)
	}
	root, err := scene.LoadYAML(f)
	f.Close()
	if err != nil {
		log.Fatalf("Failed to load %q: %v", in, err)
	}

	if colorOnly {
		for _, m := range root.Meshes() {
			if strings.Contains(m.Name, p.CollapseMarker) {
				if err := batch.ColorMaterials(m); err != nil {
					log.Fatal(err)
				}
				logger.Printf("mesh %q: colored %d parts", m.Name, len(m.Parts))
			}
		}
	} else {
		collapsed, err := batch.PreProcess(root, p.CollapseMarker, logger)
		if err != nil {
			log.Fatal(err)
		}
		if !collapsed {
			log.Printf("No mesh name contains %q, nothing collapsed", p.CollapseMarker)
		}
	}
	if p.EnsureVertexColors {
		logger.Printf("added Color0 to %d parts", batch.EnsureVertexColors(root))
	}
	if p.TagParts {
		batch.TagParts(root, p.DropMaterials)
	}
	if dump {
		utils.LogDump(root)
	}

	if out == "" {
		out = strings.TrimSuffix(in, ".yaml") + ".glb"
	}
	fout, err := os.Create(out)
	if err != nil {
		log.Fatal(err)
	}
	if strings.HasSuffix(out, ".yaml") || strings.HasSuffix(out, ".yml") {
		err = scene.EncodeYAML(fout, root)
	} else {
		err = scene.WriteGLB(fout, root, logger)
	}
	if cerr := fout.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		log.Fatalf("Failed to write %q: %v", out, err)
	}
	log.Printf("Written %q", out)
}
