package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"gonum.org/v1/gonum/optimize"

	"github.com/kferrin/cellforge/content"
)

func main() {
	bundlePath := flag.String("bundle", "", "compiled Bundle JSON path")
	elementKey := flag.String("element", "", "qualified pack:name element key to tune")
	width := flag.Int("width", 20, "preview basin width")
	height := flag.Int("height", 20, "preview basin height")
	targetTicks := flag.Float64("target-ticks", 200, "target settle tick count")
	maxTicks := flag.Int("max-ticks", 2000, "tick cap per evaluation run")
	maxEvals := flag.Int("max-evals", 80, "maximum optimizer evaluations")
	seeds := flag.Int("seeds", 3, "number of seeded pool placements per evaluation")
	outputDir := flag.String("output", "", "output directory for the tuning log and best bundle")
	flag.Parse()

	if *bundlePath == "" || *elementKey == "" || *outputDir == "" {
		log.Fatal("-bundle, -element, and -output are required")
	}

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("create output directory: %v", err)
	}

	data, err := os.ReadFile(*bundlePath)
	if err != nil {
		log.Fatalf("read bundle: %v", err)
	}
	bundle := &content.Bundle{}
	if err := bundle.UnmarshalJSON(data); err != nil {
		log.Fatalf("parse bundle: %v", err)
	}
	id, ok := bundle.ElementKeyToID[*elementKey]
	if !ok {
		log.Fatalf("element %q not found in bundle", *elementKey)
	}
	elementIdx := -1
	for i, e := range bundle.Elements {
		if e.ID == id {
			elementIdx = i
			break
		}
	}
	if elementIdx < 0 {
		log.Fatalf("element id %d not present in element list", id)
	}

	evalSeeds := make([]int64, *seeds)
	for i := range evalSeeds {
		evalSeeds[i] = int64(i)
	}

	params := newParamVector()
	evaluator := newFitnessEvaluator(bundle, elementIdx, params, *width, *height, *maxTicks, *targetTicks, evalSeeds)

	initX := params.defaultVector(bundle.Elements[elementIdx])

	problem := optimize.Problem{
		Func: evaluator.Evaluate,
	}

	logPath := filepath.Join(*outputDir, "tune_log.csv")
	logFile, err := os.Create(logPath)
	if err != nil {
		log.Fatalf("create log file: %v", err)
	}
	defer logFile.Close()

	logWriter := csv.NewWriter(logFile)
	defer logWriter.Flush()
	logWriter.Write([]string{"eval", "fitness", "dispersion", "heat_conductivity"})

	evalCount := 0
	originalFunc := problem.Func
	problem.Func = func(x []float64) float64 {
		fitness := originalFunc(x)
		evalCount++

		clamped := params.clamp(x)
		row := []string{strconv.Itoa(evalCount), fmt.Sprintf("%.2f", fitness)}
		for _, v := range clamped {
			row = append(row, fmt.Sprintf("%.2f", v))
		}
		logWriter.Write(row)
		logWriter.Flush()

		fmt.Printf("eval %d/%d: fitness=%.2f dispersion=%.0f heat_conductivity=%.0f\n",
			evalCount, *maxEvals, fitness, clamped[0], clamped[1])
		return fitness
	}

	settings := &optimize.Settings{FuncEvaluations: *maxEvals}
	method := &optimize.NelderMead{}

	result, err := optimize.Minimize(problem, initX, settings, method)
	if err != nil {
		log.Printf("optimization ended: %v", err)
	}

	best := params.clamp(result.X)
	fmt.Printf("\nbest fitness: %.2f\n", evaluator.BestFitness())
	fmt.Printf("dispersion: %.0f\nheat_conductivity: %.0f\n", best[0], best[1])

	params.apply(&bundle.Elements[elementIdx], best)
	bestJSON, err := bundle.MarshalJSON()
	if err != nil {
		log.Fatalf("marshal best bundle: %v", err)
	}
	bestPath := filepath.Join(*outputDir, "best_bundle.json")
	if err := os.WriteFile(bestPath, bestJSON, 0644); err != nil {
		log.Fatalf("write best bundle: %v", err)
	}
	fmt.Printf("\nbest bundle saved to: %s\n", bestPath)
}
