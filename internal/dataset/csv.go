package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/eugenenazirov/truck-loader/internal/knapsack"
)

var (
	truckHeader  = []string{"Capacity", "Pallets"}
	palletHeader = []string{"Pallet", "Weight", "Profit"}
)

// Truck is the content of a truck file.
type Truck struct {
	Capacity int
	Pallets  int
}

// ReadTruck parses a truck file: a header followed by "capacity,pallets".
func ReadTruck(r io.Reader) (Truck, error) {
	records, err := readRecords(r, len(truckHeader))
	if err != nil {
		return Truck{}, err
	}
	if len(records) < 2 {
		return Truck{}, fmt.Errorf("%w: truck file has no data row", ErrMalformed)
	}

	values, err := atoiAll(records[1], 2)
	if err != nil {
		return Truck{}, err
	}
	truck := Truck{Capacity: values[0], Pallets: values[1]}
	if truck.Capacity < 0 {
		return Truck{}, fmt.Errorf("%w: capacity %d", ErrNegativeValue, truck.Capacity)
	}
	return truck, nil
}

// ReadPallets parses a pallet file: a header followed by "id,weight,profit" rows.
func ReadPallets(r io.Reader) ([]knapsack.Pallet, error) {
	records, err := readRecords(r, len(palletHeader))
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: pallet file is empty", ErrMalformed)
	}

	pallets := make([]knapsack.Pallet, 0, len(records)-1)
	for _, record := range records[1:] {
		values, err := atoiAll(record, 3)
		if err != nil {
			return nil, err
		}
		pallets = append(pallets, knapsack.Pallet{ID: values[0], Weight: values[1], Profit: values[2]})
	}

	if err := ValidatePallets(pallets); err != nil {
		return nil, err
	}
	return pallets, nil
}

// WriteTruck writes a truck file readable by ReadTruck.
func WriteTruck(w io.Writer, truck Truck) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(truckHeader); err != nil {
		return err
	}
	if err := cw.Write([]string{strconv.Itoa(truck.Capacity), strconv.Itoa(truck.Pallets)}); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

// WritePallets writes a pallet file readable by ReadPallets.
func WritePallets(w io.Writer, pallets []knapsack.Pallet) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(palletHeader); err != nil {
		return err
	}
	for _, p := range pallets {
		row := []string{strconv.Itoa(p.ID), strconv.Itoa(p.Weight), strconv.Itoa(p.Profit)}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func readRecords(r io.Reader, fields int) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var records [][]string
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		if isBlank(record) {
			continue
		}
		if len(record) < fields {
			line, _ := cr.FieldPos(0)
			return nil, fmt.Errorf("%w: line %d has %d fields, want %d", ErrMalformed, line, len(record), fields)
		}
		records = append(records, record)
	}
	return records, nil
}

func atoiAll(record []string, n int) ([]int, error) {
	values := make([]int, n)
	for i := 0; i < n; i++ {
		v, err := strconv.Atoi(strings.TrimSpace(record[i]))
		if err != nil {
			return nil, fmt.Errorf("%w: invalid integer %q", ErrMalformed, record[i])
		}
		values[i] = v
	}
	return values, nil
}

func isBlank(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}
