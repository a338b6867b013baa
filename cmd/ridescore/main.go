// Command ridescore validates an assignment file against a world file and
// prints its score. A rejected assignment prints the reason instead.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"ridefleet/internal/input"
	"ridefleet/internal/score"
)

func main() {
	log.SetFlags(0)
	verbose := flag.Bool("v", false, "print the score breakdown")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: ridescore [-v] <world-file> <assignment-file>\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(2)
	}

	recs, err := input.ReadFile(flag.Arg(0))
	if err != nil {
		log.Fatalf("ridescore: %v", err)
	}
	world, err := input.BuildWorld(recs)
	if err != nil {
		log.Fatalf("ridescore: %s: %v", flag.Arg(0), err)
	}
	lines, err := input.ReadFile(flag.Arg(1))
	if err != nil {
		log.Fatalf("ridescore: %v", err)
	}

	rep, err := score.Evaluate(world, lines)
	if errors.Is(err, score.ErrValidation) {
		fmt.Println(err)
		return
	}
	if err != nil {
		log.Fatalf("ridescore: %v", err)
	}
	fmt.Println(rep.Total)
	if *verbose {
		fmt.Printf("distance %d\nbonus %d\ntaken %d\nlate %d\non time %d\nwait %d\nunassigned %d\n",
			rep.DistanceScore, rep.BonusScore, rep.Taken, rep.Late, rep.OnTime, rep.WaitTime, rep.Unassigned)
	}
}
