package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/moldesc/pkg/errors"
	"github.com/YuminosukeSato/moldesc/report"
	"github.com/YuminosukeSato/moldesc/workflow"
)

// predictionRow is the printed form of a workflow.Prediction.
type predictionRow struct {
	ID        string   `json:"id"`
	Structure string   `json:"structure"`
	Value     *float64 `json:"value"`
	Error     string   `json:"error,omitempty"`
}

func newPredictCmd() *cobra.Command {
	var (
		modelPath string
		input     string
		workers   int
	)
	cmd := &cobra.Command{
		Use:   "predict [SMILES...]",
		Short: "Predict the target for structures with a saved pipeline",
		Long: "predict loads a pipeline saved by `moldesc run --model-out` and predicts each\n" +
			"structure given as an argument or, with --input, one per line as \"SMILES [id]\".",
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			cfg := cliCtx.Config
			if modelPath == "" {
				modelPath = cfg.Output.ModelPath
			}
			if modelPath == "" {
				return errors.NewValidationError("model", "is required (--model or output.model_path)", modelPath)
			}

			ids := make([]string, len(args))
			for i := range args {
				ids[i] = strconv.Itoa(i)
			}
			structures := append([]string(nil), args...)
			if input != "" {
				fileIDs, fileStructures, err := readStructures(input)
				if err != nil {
					return err
				}
				ids = append(ids, fileIDs...)
				structures = append(structures, fileStructures...)
			}
			if len(structures) == 0 {
				return errors.NewValueError("predict", "no structures given")
			}
			if !cmd.Flags().Changed("workers") {
				workers = cfg.Descriptors.Workers
			}

			c, closeCache, err := openCache(cfg)
			if err != nil {
				return err
			}
			defer closeCache()

			preds, err := workflow.Predict(cmd.Context(), modelPath, ids, structures,
				workflow.PredictOptions{Workers: workers, Cache: c})
			if err != nil {
				return err
			}
			return writePredictions(cmd.OutOrStdout(), cfg.Output.Format, preds)
		},
	}
	fs := cmd.Flags()
	fs.StringVarP(&modelPath, "model", "m", "", "saved pipeline (.json or .json.gz)")
	fs.StringVar(&input, "input", "", "file with one structure per line, optionally followed by an id")
	fs.IntVar(&workers, "workers", 0, "descriptor workers (0 = one per CPU)")
	return cmd
}

// readStructures reads "SMILES [id]" lines. Blank lines and lines starting with
// '#' are skipped; a missing id becomes the line number.
func readStructures(path string) (ids, structures []string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		id := "line" + strconv.Itoa(line)
		if len(fields) > 1 {
			id = fields[1]
		}
		ids = append(ids, id)
		structures = append(structures, fields[0])
	}
	if err := sc.Err(); err != nil {
		return nil, nil, errors.Wrapf(err, "read %s", path)
	}
	return ids, structures, nil
}

func writePredictions(w io.Writer, format string, preds []workflow.Prediction) error {
	rows := make([]predictionRow, len(preds))
	for i, p := range preds {
		rows[i] = predictionRow{ID: p.ID, Structure: p.Structure}
		if p.Err != nil {
			rows[i].Error = p.Err.Error()
		} else {
			v := p.Value
			rows[i].Value = &v
		}
	}

	switch format {
	case report.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(rows), "encode predictions")
	case report.FormatText, "":
	default:
		return errors.NewValidationError("format", "must be text or json", format)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "id\tstructure\tprediction")
	for _, r := range rows {
		value := "error: " + r.Error
		if r.Value != nil {
			value = strconv.FormatFloat(*r.Value, 'f', 6, 64)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.ID, r.Structure, value)
	}
	return errors.Wrap(tw.Flush(), "write predictions")
}
