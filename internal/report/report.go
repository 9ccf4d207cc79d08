package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/contactkeval/option-pricer/internal/batch"
)

func WriteJSON(res *batch.Result, outdir string) error {
	b, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(outdir, "results.json"), b, 0644)
}

func WriteCSV(results []batch.ScenarioResult, outdir string) error {
	f, err := os.Create(filepath.Join(outdir, "results.csv"))
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	defer w.Flush()
	headers := []string{"name", "method", "price", "std_error", "error"}
	if err := w.Write(headers); err != nil {
		return err
	}
	for _, r := range results {
		stderr := ""
		if r.StdError != nil {
			stderr = fmt.Sprintf("%.6f", *r.StdError)
		}
		row := []string{r.Name, r.Method, fmt.Sprintf("%.6f", r.Price), stderr, r.Error}
		_ = w.Write(row)
	}
	return nil
}
