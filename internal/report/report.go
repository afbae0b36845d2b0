// Package report renders solver results for terminals.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/eugenenazirov/truck-loader/internal/knapsack"
	"github.com/eugenenazirov/truck-loader/internal/results"
)

// Write prints the profit and the selected ids in the order the algorithm reported them:
//
//	[Dynamic Programming] Max Profit: 220
//	Selected Pallets: 2 3
func Write(w io.Writer, alg knapsack.Algorithm, sol knapsack.Solution) error {
	ids := joinIDs(sol.Pallets)
	if ids != "" {
		ids = " " + ids
	}
	_, err := fmt.Fprintf(w, "[%s] Max Profit: %d\nSelected Pallets:%s\n", alg.Label(), sol.Profit, ids)
	return err
}

// WriteRecord prints a run as Write does, followed by its weight and execution time.
func WriteRecord(w io.Writer, rec results.Record) error {
	sol := knapsack.Solution{Profit: rec.Profit, Weight: rec.Weight, Pallets: rec.Selected}
	if err := Write(w, rec.Algorithm, sol); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Total Weight: %d/%d\nExecution Time: %s ms\n", rec.Weight, rec.Capacity, millis(rec))
	return err
}

// WriteComparison prints one table row per run.
func WriteComparison(w io.Writer, records []results.Record) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ALGORITHM\tPROFIT\tWEIGHT\tTIME(ms)\tPALLETS")
	for _, rec := range records {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\t%s\n", rec.Algorithm.Label(), rec.Profit, rec.Weight, millis(rec), joinIDs(rec.Selected))
	}
	return tw.Flush()
}

// WriteAccuracy prints the accuracy summary as percentages of the optimum.
func WriteAccuracy(w io.Writer, summary results.Summary) error {
	if len(summary.Algorithms) == 0 {
		_, err := fmt.Fprintln(w, "No runs with an exact reference profit.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ALGORITHM\tRUNS\tMEAN%\tMIN%\tMAX%")
	for _, acc := range summary.Algorithms {
		fmt.Fprintf(tw, "%s\t%d\t%.2f\t%.2f\t%.2f\n", acc.Algorithm.Label(), acc.Runs, acc.Mean, acc.Min, acc.Max)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if worst := summary.WorstGreedy; worst != nil {
		_, err := fmt.Fprintf(w, "\nWorst Greedy Performance: dataset %s, %d pallets, capacity %d, profit %d of %d (%.2f%%)\n",
			worst.Dataset, worst.Pallets, worst.Capacity, worst.Profit, worst.Optimal, worst.Accuracy)
		return err
	}
	return nil
}

func joinIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, " ")
}

func millis(rec results.Record) string {
	return strconv.FormatFloat(float64(rec.Elapsed)/float64(time.Millisecond), 'f', 3, 64)
}
