package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/agentlift/agentlift/internal/analysis"
	"github.com/agentlift/agentlift/internal/catalog"
	"github.com/agentlift/agentlift/internal/domain"
)

var (
	green  = color.New(color.FgGreen, color.Bold)
	red    = color.New(color.FgRed, color.Bold)
	yellow = color.New(color.FgYellow, color.Bold)
	cyan   = color.New(color.FgCyan, color.Bold)
	bold   = color.New(color.Bold)
	dim    = color.New(color.Faint)
)

func main() {
	godotenv.Load()

	jsonOut := flag.String("json", "", "Write the full analysis result to a JSON file (single file only)")
	verbose := flag.Bool("verbose", false, "Verbose output")

	flag.Parse()

	files := flag.Args()
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: analyze [flags] <bot-export-file> [more files...]")
		flag.PrintDefaults()
		os.Exit(2)
	}
	if *jsonOut != "" && len(files) > 1 {
		fmt.Fprintln(os.Stderr, "analyze: -json is only valid with a single input file")
		os.Exit(2)
	}

	var logger *zap.Logger
	if *verbose {
		logger, _ = zap.NewDevelopment()
	} else {
		logger = zap.NewNop()
	}
	defer logger.Sync()

	printBanner()

	cat, err := catalog.Load()
	if err != nil {
		red.Printf("✗ Cannot load opportunity catalog: %v\n", err)
		os.Exit(1)
	}
	engine := analysis.NewEngine(cat, analysis.Defaults(), logger)

	if len(files) == 1 {
		if !analyzeOne(engine, files[0], *jsonOut) {
			os.Exit(1)
		}
		return
	}

	if !analyzeBatch(engine, files) {
		os.Exit(1)
	}
}

// analyzeOne analyzes a single export and prints the full report.
func analyzeOne(engine *analysis.Engine, file, jsonOut string) bool {
	raw, err := os.ReadFile(file)
	if err != nil {
		red.Printf("✗ Cannot read %s: %v\n", file, err)
		return false
	}

	fmt.Printf("Source: %s (%d bytes)\n\n", file, len(raw))

	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetDescription("   Analyzing..."),
		progressbar.OptionSpinnerType(14),
	)

	done := make(chan bool)
	go func() {
		for {
			select {
			case <-done:
				return
			default:
				bar.Add(1)
				time.Sleep(50 * time.Millisecond)
			}
		}
	}()

	_, result, warnings, err := engine.AnalyzeSource(raw, filepath.Base(file))

	close(done)
	bar.Finish()
	fmt.Println()

	if err != nil {
		red.Printf("✗ Analysis failed: %v\n", err)
		return false
	}

	printReport(result, warnings)

	if jsonOut != "" {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			red.Printf("✗ Cannot encode result: %v\n", err)
			return false
		}
		if err := os.WriteFile(jsonOut, data, 0644); err != nil {
			red.Printf("✗ Cannot write %s: %v\n", jsonOut, err)
			return false
		}
		fmt.Println()
		green.Printf("✓ Full result written to %s\n", jsonOut)
	}
	return true
}

// analyzeBatch analyzes several exports with a determinate progress bar,
// then prints a one-line summary per bot and the combined ROI.
func analyzeBatch(engine *analysis.Engine, files []string) bool {
	type batchResult struct {
		file     string
		result   *domain.DeltaAnalysisResult
		warnings []string
		err      error
	}

	fmt.Printf("Analyzing %d exports\n\n", len(files))

	bar := progressbar.NewOptions(len(files),
		progressbar.OptionSetDescription("   Analyzing..."),
		progressbar.OptionShowCount(),
	)

	results := make([]batchResult, 0, len(files))
	for _, file := range files {
		br := batchResult{file: file}
		raw, err := os.ReadFile(file)
		if err != nil {
			br.err = err
		} else {
			_, br.result, br.warnings, br.err = engine.AnalyzeSource(raw, filepath.Base(file))
		}
		results = append(results, br)
		bar.Add(1)
	}
	bar.Finish()
	fmt.Println()
	fmt.Println()

	var (
		totalROI float64
		failed   int
	)
	for _, br := range results {
		name := filepath.Base(br.file)
		if br.err != nil {
			failed++
			red.Printf("   ✗ %s", name)
			fmt.Printf(": %v\n", br.err)
			continue
		}
		s := br.result.BotSummary
		green.Printf("   ✓ %s", name)
		fmt.Printf(": %s/%s, %d opportunities, $%.0f/yr",
			s.Platform, s.Domain,
			len(br.result.DeltaOpportunities),
			br.result.TotalPotentialROI,
		)
		if len(br.warnings) > 0 {
			yellow.Printf("  (%d warnings)", len(br.warnings))
		}
		fmt.Println()
		totalROI += br.result.TotalPotentialROI
	}
	fmt.Println()

	bold.Printf("%d/%d analyzed", len(results)-failed, len(results))
	fmt.Print("   ")
	green.Printf("Combined potential ROI: $%.0f / year\n", totalROI)

	if failed > 0 {
		fmt.Println()
		red.Printf("✗ %d export(s) failed\n", failed)
		return false
	}
	return true
}

func printBanner() {
	cyan.Println(`
╔══════════════════════════════════════════════════════════╗
║                      A G E N T L I F T                   ║
║        Legacy Bot → AI Agent Delta Analysis              ║
╚══════════════════════════════════════════════════════════╝`)
	fmt.Println()
}

func printReport(result *domain.DeltaAnalysisResult, warnings []string) {
	s := result.BotSummary

	bold.Println("Bot Summary")
	fmt.Printf("   Name:        %s\n", s.Name)
	fmt.Printf("   Platform:    %s\n", s.Platform)
	fmt.Printf("   Domain:      %s\n", s.Domain)
	fmt.Printf("   Intents:     %d   Entities: %d\n", s.IntentCount, s.EntityCount)
	fmt.Printf("   Complexity:  %s   Quality: %.1f/10\n", s.Complexity, s.QualityScore)
	fmt.Println()

	if len(warnings) > 0 {
		yellow.Printf("⚠ %d warning(s)\n", len(warnings))
		for _, w := range warnings {
			dim.Printf("   %s\n", w)
		}
		fmt.Println()
	}

	bold.Printf("Detected Patterns (%d)\n", len(result.DetectedPatterns))
	for _, p := range result.DetectedPatterns {
		marker := dim
		if p.Impact == domain.ImpactHigh {
			marker = red
		}
		marker.Printf("   [%s] ", p.Impact)
		fmt.Printf("%s x%d: %s\n", p.Type, p.Frequency, p.Pattern)
	}
	fmt.Println()

	bold.Printf("Delta Opportunities (%d)\n", len(result.DeltaOpportunities))
	for _, opp := range result.DeltaOpportunities {
		cyan.Printf("   %s", opp.Name)
		fmt.Printf("  [%s complexity, %d%% confidence]\n", opp.ImplementationComplexity, opp.Confidence)
		fmt.Printf("      %s\n", opp.AITransformation.Description)
		fmt.Printf("      Annual ROI: $%.0f  (%.0f min saved × %d interactions/mo)\n",
			opp.BusinessImpact.AnnualROI,
			opp.BusinessImpact.TimeSavingsPerInteraction,
			opp.BusinessImpact.InteractionsPerMonth,
		)
	}
	fmt.Println()

	recs := result.PrioritizedRecommendations
	bold.Println("Recommendations")
	printBucket("Quick wins", recs.QuickWins)
	printBucket("High impact", recs.HighImpact)
	printBucket("Strategic initiatives", recs.StrategicInitiatives)
	fmt.Println()

	bold.Println("Roadmap")
	printPhase("Phase 1", result.ImplementationRoadmap.Phase1)
	printPhase("Phase 2", result.ImplementationRoadmap.Phase2)
	printPhase("Phase 3", result.ImplementationRoadmap.Phase3)
	fmt.Println()

	green.Printf("Total potential ROI: $%.0f / year\n", result.TotalPotentialROI)
}

func printBucket(label string, opps []domain.DeltaOpportunity) {
	if len(opps) == 0 {
		dim.Printf("   %s: none\n", label)
		return
	}
	fmt.Printf("   %s:\n", label)
	for _, opp := range opps {
		fmt.Printf("      • %s ($%.0f/yr)\n", opp.Name, opp.BusinessImpact.AnnualROI)
	}
}

func printPhase(label string, opps []domain.DeltaOpportunity) {
	names := make([]string, len(opps))
	for i, opp := range opps {
		names[i] = opp.Name
	}
	if len(names) == 0 {
		dim.Printf("   %s: none scheduled\n", label)
		return
	}
	fmt.Printf("   %s: ", label)
	for i, n := range names {
		if i > 0 {
			fmt.Print(", ")
		}
		fmt.Print(n)
	}
	fmt.Println()
}
