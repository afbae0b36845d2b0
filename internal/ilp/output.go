package ilp

import (
	"bufio"
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Output is the parsed report of a solver run.
type Output struct {
	Status   string
	Profit   int
	Weight   int
	Selected []int

	hasProfit bool
	hasWeight bool
}

// ParseOutput reads the solver report. Unknown lines are ignored.
func ParseOutput(data []byte) (Output, error) {
	var out Output
	hasSelected := false

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		key, value, ok := strings.Cut(scanner.Text(), ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)

		switch strings.TrimSpace(key) {
		case "Status":
			out.Status = value
		case "Total Profit":
			v, err := parseNumber(value)
			if err != nil {
				return Output{}, fmt.Errorf("%w: total profit %q", ErrMalformedOutput, value)
			}
			out.Profit, out.hasProfit = v, true
		case "Total Weight":
			v, err := parseNumber(value)
			if err != nil {
				return Output{}, fmt.Errorf("%w: total weight %q", ErrMalformedOutput, value)
			}
			out.Weight, out.hasWeight = v, true
		case "Selected Pallets":
			ids, err := parseIDs(value)
			if err != nil {
				return Output{}, err
			}
			out.Selected, hasSelected = ids, true
		}
	}
	if err := scanner.Err(); err != nil {
		return Output{}, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}

	if !out.hasProfit || !hasSelected {
		return Output{}, fmt.Errorf("%w: missing total profit or selected pallets", ErrMalformedOutput)
	}
	if out.Status != "" && !strings.EqualFold(out.Status, "Optimal") {
		return Output{}, fmt.Errorf("%w: status %s", ErrNotOptimal, out.Status)
	}
	return out, nil
}

// parseNumber accepts integers and integral floats such as "220.0".
func parseNumber(raw string) (int, error) {
	if v, err := strconv.Atoi(raw); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f != float64(int(f)) {
		return 0, fmt.Errorf("not an integer: %q", raw)
	}
	return int(f), nil
}

func parseIDs(raw string) ([]int, error) {
	trimmed := strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(raw, "["), "]"))
	ids := []int{}
	if trimmed == "" {
		return ids, nil
	}
	for _, part := range strings.FieldsFunc(trimmed, func(r rune) bool { return r == ',' || r == ' ' }) {
		id, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("%w: selected pallet %q", ErrMalformedOutput, part)
		}
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids, nil
}
