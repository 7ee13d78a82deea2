package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vsariola/pianoroll"
	"github.com/vsariola/pianoroll/gomidi"
	"github.com/vsariola/pianoroll/host"
	"github.com/vsariola/pianoroll/version"
)

func main() {
	outPath := flag.String("o", "", "Output .mid file. By default the input file name with the extension changed, in the working directory.")
	bpm := flag.Float64("bpm", host.DefaultBPM, "Tempo written to the file, in beats per minute.")
	safe := flag.Bool("n", false, "Never overwrite files.")
	versionFlag := flag.Bool("v", false, "Print version.")
	flag.Usage = printUsage
	flag.Parse()
	if *versionFlag {
		fmt.Println(version.VersionOrHash)
		os.Exit(0)
	}
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(0)
	}
	if *outPath != "" && flag.NArg() > 1 {
		fmt.Fprintln(os.Stderr, "-o can only be used with a single input file")
		os.Exit(1)
	}
	retval := 0
	for _, filename := range flag.Args() {
		out := *outPath
		if out == "" {
			_, name := filepath.Split(filename)
			out = strings.TrimSuffix(name, filepath.Ext(name)) + ".mid"
		}
		if err := process(filename, out, *bpm, *safe); err != nil {
			fmt.Fprintf(os.Stderr, "could not process file %v: %v\n", filename, err)
			retval = 1
		}
	}
	os.Exit(retval)
}

func process(filename, out string, bpm float64, safe bool) error {
	inputBytes, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("could not read file %v: %v", filename, err)
	}
	roll := pianoroll.DefaultRoll()
	if errJSON := json.Unmarshal(inputBytes, &roll); errJSON != nil {
		var errYaml error
		if roll, errYaml = host.UnmarshalRoll(inputBytes); errYaml != nil {
			return fmt.Errorf("roll could not be unmarshaled as a .json (%v) or .yml (%v)", errJSON, errYaml)
		}
	} else if err := roll.Validate(); err != nil {
		return err
	}
	if safe {
		if _, err := os.Stat(out); err == nil {
			return fmt.Errorf("file %v would be overwritten", out)
		}
	}
	if dir := filepath.Dir(out); dir != "." {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return fmt.Errorf("could not create output directory %v: %v", dir, err)
		}
	}
	return gomidi.ExportFile(out, roll, bpm)
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Piano roll exporter. Input .yml or .json rolls, outputs Standard MIDI Files.\nUsage: %s [flags] [path ...]\n", os.Args[0])
	flag.PrintDefaults()
}
