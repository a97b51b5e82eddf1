package main

import (
	"fmt"
	"log"
	"os"
	"sort"
)

type command struct {
	usage string
	run   func(args []string) error
}

var commands = map[string]command{
	"csv2json":     {"csv2json --in coords.csv --out seq_0.json", runCSV2JSON},
	"encode":       {"encode --in seq_0.json [--schema joints_jta] --out seq_0.xml [--boxes seq_0_boxes.json]", runEncode},
	"decode":       {"decode --in seq_0.xml --out seq_0_boxes.json", runDecode},
	"visualize":    {"visualize --video seq_0.mp4 --annotations seq_0.json|seq_0.xml --out res_seq_0_pose.mp4 [--bbox]", runVisualize},
	"frames2video": {"frames2video --dir seq_0 [--out seq_0/seq_0.mp4]", runFramesToVideo},
	"batch":        {"batch --root dataset [--video]", runBatch},
}

func usage() {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintf(os.Stderr, "Usage: %s <command> [flags]\n\nCommands:\n", os.Args[0])
	for _, name := range names {
		fmt.Fprintf(os.Stderr, "  %s\n", commands[name].usage)
	}
	fmt.Fprintln(os.Stderr, "\nEvery command accepts --config <file>, default: ./config.yaml when present.")
}

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cmd, ok := commands[os.Args[1]]
	if !ok {
		usage()
		os.Exit(2)
	}

	if err := cmd.run(os.Args[2:]); err != nil {
		log.Fatalf("Error: %s failed, got '%v'", os.Args[1], err)
	}
}
