// Command assoc-bench benchmarks the association pipeline on synthetic
// scenes with known ground truth. Each run generates a random rigid
// scene with outliers, recovers the inlier correspondences, and reports
// precision/recall; results can be persisted to SQLite for later
// comparison across parameter sweeps.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/banshee-data/dataassoc/assoc"
	"github.com/banshee-data/dataassoc/assoc/graph"
	"github.com/banshee-data/dataassoc/assoc/invariants"
	"github.com/banshee-data/dataassoc/assoc/solver"
	"github.com/banshee-data/dataassoc/internal/config"
	"github.com/banshee-data/dataassoc/internal/storage/sqlite"
	"github.com/banshee-data/dataassoc/internal/synth"
	"github.com/banshee-data/dataassoc/internal/version"
)

func main() {
	points := flag.Int("points", 10, "true points per scene")
	outliers := flag.Int("outliers", 5, "outlier points appended to the second set")
	noise := flag.Float64("noise", 0.002, "measurement noise sigma")
	sigma := flag.Float64("sigma", 0.01, "invariant kernel width")
	epsilon := flag.Float64("epsilon", 0.06, "invariant consistency bound")
	runs := flag.Int("runs", 10, "number of scenes")
	seed := flag.Int64("seed", 1, "base random seed")
	useSparse := flag.Bool("sparse", false, "use the sparse graph and solver")
	dbPath := flag.String("db", "", "optional SQLite path to record runs")
	configPath := flag.String("config", "", "optional JSON tuning file overriding solver and invariant params")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("assoc-bench %s (%s, built %s)\n", version.Version, version.GitSHA, version.BuildTime)
		os.Exit(0)
	}

	tuning := config.EmptyTuningConfig()
	if *configPath != "" {
		var err error
		tuning, err = config.LoadTuningConfig(*configPath)
		if err != nil {
			log.Fatalf("load tuning config: %v", err)
		}
	}

	var store *sqlite.RunStore
	if *dbPath != "" {
		db, err := sqlite.Open(*dbPath)
		if err != nil {
			log.Fatalf("open run database: %v", err)
		}
		defer db.Close()
		store = sqlite.NewRunStore(db)
	}

	inv := invariants.NewEuclideanDistance()
	inv.Sigma = *sigma
	inv.Epsilon = *epsilon
	tuning.ApplyEuclidean(inv)
	params := solver.DefaultParams()
	tuning.ApplySolver(&params)
	paramsJSON, _ := json.Marshal(params)

	var sumPrecision, sumRecall float64
	for i := 0; i < *runs; i++ {
		sceneParams := synth.SceneParams{
			Points:     *points,
			Outliers:   *outliers,
			NoiseSigma: *noise,
			Spread:     5.0,
			Seed:       *seed + int64(i),
		}
		scene, err := synth.GenerateRigidScene(sceneParams)
		if err != nil {
			log.Fatalf("generate scene: %v", err)
		}

		_, n1 := scene.D1.Dims()
		_, n2 := scene.D2.Dims()
		candidates, err := assoc.CreateAllToAll(n1, n2)
		if err != nil {
			log.Fatalf("create candidates: %v", err)
		}

		start := time.Now()
		soln, err := solve(inv, scene, candidates, params, *useSparse)
		if err != nil {
			log.Fatalf("solve scene %d: %v", i, err)
		}
		elapsed := time.Since(start)

		inliersFound, err := solver.SelectInlierAssociations(soln, candidates)
		if err != nil {
			log.Fatalf("select inliers: %v", err)
		}

		precision, recall := synth.PrecisionRecall(inliersFound, scene.Truth)
		sumPrecision += precision
		sumRecall += recall

		log.Printf("scene %2d: candidates=%d inliers=%d score=%.2f ifinal=%d precision=%.3f recall=%.3f (%s)",
			i, len(candidates), len(inliersFound), soln.Score, soln.IFinal, precision, recall, elapsed.Round(time.Microsecond))

		if store != nil {
			run := &sqlite.Run{
				Invariant:  invariantName(*useSparse),
				N1:         n1,
				N2:         n2,
				Candidates: len(candidates),
				Inliers:    len(inliersFound),
				OuterIters: soln.T,
				IFinal:     soln.IFinal,
				Score:      soln.Score,
				Precision:  precision,
				Recall:     recall,
				ElapsedUs:  elapsed.Microseconds(),
				ParamsJSON: paramsJSON,
			}
			if err := store.Insert(run); err != nil {
				log.Fatalf("record run: %v", err)
			}
		}
	}

	n := float64(*runs)
	fmt.Printf("\nmean precision %.3f, mean recall %.3f over %d scenes\n", sumPrecision/n, sumRecall/n, *runs)
}

func solve(inv invariants.PairwiseInvariant, scene *synth.Scene, candidates assoc.Association, params solver.Params, sparse bool) (solver.Solution, error) {
	if sparse {
		g, err := graph.ScoreSparsePairwiseConsistency(inv, scene.D1, scene.D2, candidates)
		if err != nil {
			return solver.Solution{}, err
		}
		return solver.FindDenseClusterOfSparseGraph(g, params)
	}

	g, err := graph.ScorePairwiseConsistency(inv, scene.D1, scene.D2, candidates)
	if err != nil {
		return solver.Solution{}, err
	}
	return solver.FindDenseCluster(g.M, g.C, params)
}

func invariantName(sparse bool) string {
	if sparse {
		return "euclidean-sparse"
	}
	return "euclidean"
}
