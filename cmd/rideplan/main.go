// Command rideplan builds a ride assignment for a world file and prints it in
// assignment format, one line per vehicle.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"ridefleet/internal/input"
	"ridefleet/internal/opt"
	"ridefleet/internal/score"
)

func main() {
	log.SetFlags(0)
	withScore := flag.Bool("score", false, "print the plan's score to stderr")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: rideplan [-score] <world-file>\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	recs, err := input.ReadFile(flag.Arg(0))
	if err != nil {
		log.Fatalf("rideplan: %v", err)
	}
	world, err := input.BuildWorld(recs)
	if err != nil {
		log.Fatalf("rideplan: %s: %v", flag.Arg(0), err)
	}

	plan := opt.Schedule(world, nil)
	if err := input.WriteAssignment(os.Stdout, plan.Assignment()); err != nil {
		log.Fatalf("rideplan: %v", err)
	}
	if *withScore {
		rep, err := score.Replay(world, plan.Assignment())
		if err != nil {
			log.Fatalf("rideplan: %v", err)
		}
		fmt.Fprintf(os.Stderr, "score %d (committed %d, pruned %d, steps %d)\n", rep.Total, len(plan.Committed), len(plan.Pruned), plan.Steps)
	}
}
