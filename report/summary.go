package report

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/YuminosukeSato/moldesc/pipeline"
	"github.com/YuminosukeSato/moldesc/pkg/errors"
	"github.com/YuminosukeSato/moldesc/preprocessing"
)

// Output formats accepted by Write.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Summary describes one end-to-end run.
type Summary struct {
	Source        string                     `json:"source"`
	Target        string                     `json:"target"`
	Molecules     int                        `json:"molecules"`
	ParseFailures int                        `json:"parse_failures"`
	Descriptors   int                        `json:"descriptors"`
	Cleaning      *preprocessing.CleanReport `json:"cleaning,omitempty"`
	Evaluation    *pipeline.Report           `json:"evaluation,omitempty"`
	ModelPath     string                     `json:"model_path,omitempty"`
	Plots         []string                   `json:"plots,omitempty"`
}

// Write renders s in the given format.
func Write(w io.Writer, format string, s *Summary) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, s)
	case FormatText, "":
		return WriteText(w, s)
	}
	return errors.NewValidationError("format", "must be text or json", format)
}

// WriteJSON writes s as indented JSON.
func WriteJSON(w io.Writer, s *Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(s), "encode summary")
}

// WriteText writes s as an aligned plain-text table.
func WriteText(w io.Writer, s *Summary) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "source\t%s\n", s.Source)
	fmt.Fprintf(tw, "target\t%s\n", s.Target)
	fmt.Fprintf(tw, "molecules\t%d (%d failed to parse)\n", s.Molecules, s.ParseFailures)
	fmt.Fprintf(tw, "descriptors\t%d computed", s.Descriptors)
	if c := s.Cleaning; c != nil {
		fmt.Fprintf(tw, ", %d kept (dropped %d identical, %d missing, %d constant)",
			c.Kept, len(c.Identical), len(c.Missing), len(c.Constant))
	}
	fmt.Fprintln(tw)
	if s.ModelPath != "" {
		fmt.Fprintf(tw, "model\t%s\n", s.ModelPath)
	}
	for _, p := range s.Plots {
		fmt.Fprintf(tw, "plot\t%s\n", p)
	}

	if ev := s.Evaluation; ev != nil {
		fmt.Fprintf(tw, "\nsplit\t%d train / %d test\n\n", len(ev.TrainIDs), len(ev.TestIDs))
		fmt.Fprintln(tw, "components\tmodel\tR2\tMAE\tRMSE\tmax error\talpha\tnon-zero\texplained var")
		for _, r := range ev.Results {
			modelName := r.Model
			if r.Components == 0 {
				modelName = "mean"
			}
			fmt.Fprintf(tw, "%d\t%s\t%.4f\t%.4f\t%.4f\t%.4f\t%.3g\t%d\t%.3f\n",
				r.Components, modelName, r.R2, r.MAE, r.RMSE, r.MaxError, r.Alpha, r.NonZero, r.ExplainedVariance)
		}
	}
	return errors.Wrap(tw.Flush(), "write summary")
}
