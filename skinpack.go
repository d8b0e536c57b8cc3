package main

import (
	"flag"
	"log"
	"os"

	"github.com/mogaika/skinpack/config"
	"github.com/mogaika/skinpack/status"
	"github.com/mogaika/skinpack/store"
	"github.com/mogaika/skinpack/utils"
	"github.com/mogaika/skinpack/web"
)

func main() {
	var addr, configPath, res string
	var verbose bool
	flag.StringVar(&addr, "i", ":8000", "Address of server")
	flag.StringVar(&configPath, "config", "", "Pipeline config (yaml)")
	flag.StringVar(&res, "res", "", "Animation resource file to serve and fill")
	flag.BoolVar(&verbose, "v", false, "Verbose processing log")
	flag.Parse()

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

	s := &web.Server{Pipeline: p, Status: status.NewHub()}
	if verbose {
		s.Log = utils.NewLogger(os.Stderr, "[skinpack] ")
	}
	if res != "" {
		st, err := store.Open(res)
		if err != nil {
			log.Fatal(err)
		}
		defer st.Close()
		s.Store = st
	}

	if err := web.StartServer(addr, s); err != nil {
		log.Fatal(err)
	}
}
