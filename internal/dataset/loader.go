package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

var (
	truckFilePattern  = regexp.MustCompile(`^(?:TruckAndPallets_|TP)(\d+)\.csv$`)
	palletFilePattern = regexp.MustCompile(`^(?:Pallets_|P)(\d+)\.csv$`)
)

// Source locates the two files of one dataset.
type Source struct {
	Name       string
	TruckPath  string
	PalletPath string
}

// Loader reads datasets from disk.
type Loader struct {
	logger *zap.Logger
}

// NewLoader creates a Loader that reports suspicious files through logger.
func NewLoader(logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{logger: logger}
}

// Load reads a truck file and its pallet file into a Dataset named name.
func (l *Loader) Load(name, truckPath, palletPath string) (Dataset, error) {
	truckFile, err := os.Open(truckPath)
	if err != nil {
		return Dataset{}, fmt.Errorf("open truck file: %w", err)
	}
	defer truckFile.Close()

	truck, err := ReadTruck(truckFile)
	if err != nil {
		return Dataset{}, fmt.Errorf("read %s: %w", truckPath, err)
	}

	palletFile, err := os.Open(palletPath)
	if err != nil {
		return Dataset{}, fmt.Errorf("open pallet file: %w", err)
	}
	defer palletFile.Close()

	pallets, err := ReadPallets(palletFile)
	if err != nil {
		return Dataset{}, fmt.Errorf("read %s: %w", palletPath, err)
	}

	if truck.Pallets != len(pallets) {
		l.logger.Warn("declared pallet count differs from pallet file",
			zap.String("dataset", name),
			zap.Int("declared", truck.Pallets),
			zap.Int("read", len(pallets)),
		)
	}

	return Dataset{Name: name, Capacity: truck.Capacity, Pallets: pallets}, nil
}

// LoadSource is Load for a discovered Source.
func (l *Loader) LoadSource(src Source) (Dataset, error) {
	return l.Load(src.Name, src.TruckPath, src.PalletPath)
}

// LoadDir loads every complete dataset found in dir. Files that fail to parse
// are logged and skipped.
func (l *Loader) LoadDir(dir string) ([]Dataset, error) {
	sources, err := l.Discover(dir)
	if err != nil {
		return nil, err
	}

	datasets := make([]Dataset, 0, len(sources))
	for _, src := range sources {
		ds, err := l.LoadSource(src)
		if err != nil {
			l.logger.Warn("skipping dataset", zap.String("dataset", src.Name), zap.Error(err))
			continue
		}
		datasets = append(datasets, ds)
	}
	return datasets, nil
}

// Discover pairs truck and pallet files in dir by their number. Datasets are
// named with the number padded to two digits and returned in numeric order.
func (l *Loader) Discover(dir string) ([]Source, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dataset directory: %w", err)
	}

	trucks := make(map[int]string)
	pallets := make(map[int]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if n, ok := matchNumber(truckFilePattern, entry.Name()); ok {
			trucks[n] = filepath.Join(dir, entry.Name())
		} else if n, ok := matchNumber(palletFilePattern, entry.Name()); ok {
			pallets[n] = filepath.Join(dir, entry.Name())
		}
	}

	numbers := make([]int, 0, len(trucks))
	for n := range trucks {
		if _, ok := pallets[n]; !ok {
			l.logger.Warn("truck file has no pallet file", zap.String("path", trucks[n]))
			continue
		}
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)

	sources := make([]Source, 0, len(numbers))
	for _, n := range numbers {
		sources = append(sources, Source{
			Name:       numberedName(n),
			TruckPath:  trucks[n],
			PalletPath: pallets[n],
		})
	}
	return sources, nil
}

// NameFor names the dataset read from truckPath the way Discover does, so a
// truck file loaded by hand matches its preloaded copy. Files outside the
// numbered naming scheme are named after their base name.
func NameFor(truckPath string) string {
	base := filepath.Base(truckPath)
	if n, ok := matchNumber(truckFilePattern, base); ok {
		return numberedName(n)
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func numberedName(n int) string {
	return fmt.Sprintf("%02d", n)
}

func matchNumber(pattern *regexp.Regexp, name string) (int, bool) {
	m := pattern.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}
