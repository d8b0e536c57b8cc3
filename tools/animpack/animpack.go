package main

import (
	"bytes"
	"flag"
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"strings"

	"github.com/mogaika/skinpack/anim"
	"github.com/mogaika/skinpack/config"
	"github.com/mogaika/skinpack/store"
	"github.com/mogaika/skinpack/utils"
)

func main() {
	var in, res, tag, extract, out, configPath, skeletonPath, animName string
	var at int64
	var verbose, dump, noValidate, encodings bool
	flag.StringVar(&in, "in", "", "Animation stream to read")
	flag.StringVar(&res, "res", "", "Resource file to store animations in, or to extract from")
	flag.StringVar(&tag, "tag", "", "Group stored animations under this tag")
	flag.StringVar(&extract, "extract", "", "Comma separated animation names to extract from -res into -out")
	flag.StringVar(&out, "out", "", "Output stream for -extract")
	flag.StringVar(&configPath, "config", "", "Pipeline config (yaml)")
	flag.StringVar(&skeletonPath, "skeleton", "", "Skeleton (yaml) to build a matrix palette for")
	flag.StringVar(&animName, "anim", "", "Animation to sample with -skeleton")
	flag.Int64Var(&at, "at", 0, "Time in ticks to sample with -skeleton")
	flag.BoolVar(&verbose, "v", false, "Verbose output")
	flag.BoolVar(&dump, "dump", false, "Dump decoded data")
	flag.BoolVar(&noValidate, "novalidate", false, "Do not check keyframe order")
	flag.BoolVar(&encodings, "encodings", false, "List name encodings accepted by the pipeline config")
	flag.Parse()

	if encodings {
		for _, name := range config.ListEncodings() {
			fmt.Println(name)
		}
		return
	}

	p := config.DefaultPipeline()
	if configPath != "" {
		var err error
		if p, err = config.LoadPipeline(configPath); err != nil {
			log.Fatal(err)
		}
	}
	if err := p.Validate(); err != nil {
		log.Fatal(err)
	}
	var logger *utils.Logger
	if verbose {
		logger = utils.NewLogger(os.Stderr, "[animpack] ")
	}

	var set *anim.Set
	switch {
	case in != "":
		d, err := anim.NewDecoder(p, logger)
		if err != nil {
			log.Fatal(err)
		}
		set = decodeFile(in, d, !noValidate)
	case res != "" && extract != "":
		set = extractFromStore(res, strings.Split(extract, ","))
		if out == "" {
			log.Fatal("-extract requires -out")
		}
		writeStream(out, set, p)
		return
	default:
		flag.PrintDefaults()
		return
	}

	if dump {
		utils.LogDump(set)
	}

	summary, err := set.MarshalSummaryYAML()
	if err != nil {
		log.Fatal(err)
	}
	os.Stdout.Write(summary)

	if res != "" {
		st, err := store.Open(res)
		if err != nil {
			log.Fatal(err)
		}
		defer st.Close()
		if err := st.PutSet(set); err != nil {
			log.Fatal(err)
		}
		if tag != "" {
			if err := st.PutTag(tag, set.Names()); err != nil {
				log.Fatal(err)
			}
		}
		log.Printf("Stored %d animations into %q", set.Len(), res)
	}

	if skeletonPath != "" {
		samplePalette(set, skeletonPath, animName, at, p.PaletteSize)
	}
}

func decodeFile(path string, d *anim.Decoder, validate bool) *anim.Set {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		log.Fatal(err)
	}
	var set *anim.Set
	if validate {
		set, err = d.DecodeValidated(bytes.NewReader(data))
	} else {
		set, err = d.Decode(bytes.NewReader(data))
	}
	if err != nil {
		log.Fatalf("Failed to decode %q: %v", path, err)
	}
	return set
}

func extractFromStore(res string, names []string) *anim.Set {
	st, err := store.Open(res)
	if err != nil {
		log.Fatal(err)
	}
	defer st.Close()

	set := anim.NewSet()
	for _, name := range names {
		a, err := st.Animation(strings.TrimSpace(name))
		if err != nil {
			log.Fatal(err)
		}
		set.Add(a)
	}
	return set
}

func writeStream(path string, set *anim.Set, p *config.Pipeline) {
	e, err := anim.NewEncoder(p)
	if err != nil {
		log.Fatal(err)
	}
	f, err := os.Create(path)
	if err != nil {
		log.Fatal(err)
	}
	if err := e.Encode(f, set); err != nil {
		f.Close()
		log.Fatal(err)
	}
	if err := f.Close(); err != nil {
		log.Fatal(err)
	}
	log.Printf("Written %d animations to %q", set.Len(), path)
}

func samplePalette(set *anim.Set, skeletonPath, name string, at int64, paletteSize int) {
	data, err := ioutil.ReadFile(skeletonPath)
	if err != nil {
		log.Fatal(err)
	}
	skeleton, err := anim.ParseSkeleton(data)
	if err != nil {
		log.Fatal(err)
	}

	a, ok := set.Get(name)
	if !ok {
		log.Fatalf("Animation %q not found, have %v", name, set.Names())
	}
	c := anim.NewController(a)
	c.Blend = true
	if err := c.SetElapsed(at); err != nil {
		log.Fatal(err)
	}

	palette, err := anim.BuildPalette(skeleton, skeleton.LocalPose(c), paletteSize)
	if err != nil {
		log.Fatal(err)
	}
	for i, b := range skeleton.Bones {
		log.Printf("%2d %-24s %v", i, b.Name, anim.RowMajor(palette[i]))
	}
}
