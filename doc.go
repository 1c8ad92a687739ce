// Package moldesc predicts molecular properties from descriptors computed on
// SMILES structure strings.
//
// A run loads a compressed JSON-lines file of molecules, parses each structure into
// a molecular graph, computes a fixed vocabulary of numeric descriptors, removes
// uninformative columns, standardises the rest, projects them onto a few principal
// components and fits a cross-validated LASSO model. Each configured number of
// components is scored on the same held-out split.
//
// # Quick Start
//
//	moldesc run --data qm9.jsonl.gz --components 16,8,0 --model-out model.json.gz
//	moldesc predict --model model.json.gz "c1ccccc1O" "CCO"
//
// The same steps are available as a library:
//
//	opts := workflow.Options{
//	    DataPath: "qm9.jsonl.gz",
//	    Load:     dataset.DefaultLoadOptions(),
//	    Eval:     pipeline.DefaultEvalConfig(),
//	}
//	summary, _, err := workflow.Run(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	report.WriteText(os.Stdout, summary)
//
// # Packages
//
//   - dataset: JSON-lines loading (gzip, zstd, bzip2), sampling, descriptor tables
//   - chem/smiles: SMILES parser producing molecular graphs
//   - chem/descriptor: descriptor engine with optional row cache
//   - cache: SQLite-backed descriptor cache
//   - preprocessing: column cleaning and standard scaling
//   - decomposition: principal component analysis
//   - linear_model: Lasso, LassoCV, LinearRegression and a mean baseline
//   - model_selection: train/test split and k-fold cross-validation
//   - metrics: regression metrics
//   - pipeline: scaler → PCA → regressor, hold-out evaluation and persistence
//   - report: text/JSON summaries and PNG plots
//   - workflow: end-to-end runs used by the command line
//   - core/model, core/parallel: estimator interfaces, state and worker pools
//   - pkg/errors, pkg/log: structured errors and logging
//
// # License
//
// moldesc is released under the MIT License.
package moldesc
