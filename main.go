package main

import (
	"log"

	"github.com/alecthomas/kong"

	"github.com/PhilippXXY/audiblelight-dataset-generator/audiofile"
	"github.com/PhilippXXY/audiblelight-dataset-generator/generate"
	"github.com/PhilippXXY/audiblelight-dataset-generator/scene/config"
)

var CLI struct {
	Generate  GenerateCmd  `cmd:"" help:"Generate a synthetic acoustic scene dataset"`
	Transform TransformCmd `cmd:"" help:"Resample foreground audio to mono at a target rate"`
}

type GenerateCmd struct {
	Config  string `arg:"" name:"config" help:"path to the YAML run configuration"`
	Preview bool   `name:"preview" help:"write a top-down layout PNG per scene"`
}

func (c GenerateCmd) Run() error {
	cfg, warnings, err := config.Load(c.Config)
	for _, w := range warnings {
		log.Printf("warning: %s", w)
	}
	if err != nil {
		return err
	}

	results, err := generate.Run(cfg, generate.Options{Preview: c.Preview})
	if err != nil {
		return err
	}

	for _, res := range results {
		if res.MicsPlaced < cfg.Runtime.NumMicsPerScene || res.EventsPlaced < cfg.Events.EventsPerScene {
			log.Printf("scene %05d degraded: %d microphones, %d events placed",
				res.Index, res.MicsPlaced, res.EventsPlaced)
		}
	}
	return nil
}

type TransformCmd struct {
	Input      string `arg:"" name:"input" help:"directory of WAV files to process"`
	Output     string `arg:"" name:"output" help:"directory processed files are written to"`
	SampleRate int    `name:"sample-rate" default:"24000" help:"target sample rate in Hz"`
}

func (c TransformCmd) Run() error {
	n, err := audiofile.ProcessDir(c.Input, c.Output, c.SampleRate)
	if err != nil {
		return err
	}
	log.Printf("processed %d audio files into %s", n, c.Output)
	return nil
}

func main() {
	ctx := kong.Parse(&CLI)
	err := ctx.Run()
	if err != nil {
		log.Fatal(err)
	}
}
