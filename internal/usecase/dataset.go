package usecase

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"supportbot/internal/domain"
)

// intentFiles are the raw dataset files, one per intent category.
var intentFiles = []string{"complaints.json", "faqs.json", "troubleshooting.json"}

type intentEntry struct {
	Query  string `json:"query"`
	Intent string `json:"intent"`
}

// DatasetBuilder prepares the intent-training dataset: it cleans raw
// labelled queries and writes a stratified train/test split as CSV.
type DatasetBuilder struct {
	testSize float64
	seed     int64
	logger   *slog.Logger
}

func NewDatasetBuilder(testSize float64, seed int64, logger *slog.Logger) *DatasetBuilder {
	if testSize <= 0 || testSize >= 1 {
		testSize = 0.2
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &DatasetBuilder{testSize: testSize, seed: seed, logger: logger}
}

// Build loads the raw files under dir, cleans them, splits them and writes
// train.csv / test.csv into outDir. Unreadable source files are logged and
// skipped.
func (b *DatasetBuilder) Build(dir, outDir string) (train, test int, err error) {
	samples := b.load(dir)
	if len(samples) == 0 {
		return 0, 0, fmt.Errorf("no intent samples found in %s", dir)
	}

	trainSet, testSet := StratifiedSplit(samples, b.testSize, b.seed)

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return 0, 0, fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := writeSamplesCSV(filepath.Join(outDir, "train.csv"), trainSet); err != nil {
		return 0, 0, err
	}
	if err := writeSamplesCSV(filepath.Join(outDir, "test.csv"), testSet); err != nil {
		return 0, 0, err
	}

	return len(trainSet), len(testSet), nil
}

// load reads every intent file, tolerating missing or malformed ones.
func (b *DatasetBuilder) load(dir string) []domain.IntentSample {
	var samples []domain.IntentSample

	for _, file := range intentFiles {
		path := filepath.Join(dir, file)

		data, err := os.ReadFile(path)
		if err != nil {
			b.logger.Warn("skipping intent file", "file", file, "error", err)
			continue
		}

		// Each file wraps its entries in a single top-level key.
		var wrapper map[string][]intentEntry
		if err := json.Unmarshal(data, &wrapper); err != nil {
			b.logger.Warn("skipping malformed intent file", "file", file, "error", err)
			continue
		}

		for _, entries := range wrapper {
			for _, e := range entries {
				samples = append(samples, domain.IntentSample{
					Text:   CleanText(e.Query),
					Intent: e.Intent,
				})
			}
		}
	}

	return samples
}

var (
	punctRe = regexp.MustCompile(`[^\w\s]`)
	spaceRe = regexp.MustCompile(`\s+`)
)

// CleanText strips punctuation, collapses whitespace and lowercases.
func CleanText(text string) string {
	text = punctRe.ReplaceAllString(text, "")
	text = spaceRe.ReplaceAllString(text, " ")
	return strings.ToLower(strings.TrimSpace(text))
}

// StratifiedSplit splits samples into train and test sets preserving the
// per-intent label proportions. The shuffle is seeded so splits are
// reproducible.
func StratifiedSplit(samples []domain.IntentSample, testSize float64, seed int64) (train, test []domain.IntentSample) {
	byIntent := make(map[string][]domain.IntentSample)
	for _, s := range samples {
		byIntent[s.Intent] = append(byIntent[s.Intent], s)
	}

	// Deterministic iteration order so the same seed gives the same split.
	intents := make([]string, 0, len(byIntent))
	for intent := range byIntent {
		intents = append(intents, intent)
	}
	sort.Strings(intents)

	rng := rand.New(rand.NewSource(seed))
	for _, intent := range intents {
		group := byIntent[intent]
		rng.Shuffle(len(group), func(i, j int) {
			group[i], group[j] = group[j], group[i]
		})

		nTest := int(float64(len(group)) * testSize)
		test = append(test, group[:nTest]...)
		train = append(train, group[nTest:]...)
	}

	return train, test
}

// writeSamplesCSV writes samples with a text,intent header.
func writeSamplesCSV(path string, samples []domain.IntentSample) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"text", "intent"}); err != nil {
		return err
	}
	for _, s := range samples {
		if err := w.Write([]string{s.Text, s.Intent}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
