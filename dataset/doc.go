// Package dataset loads molecule records from compressed JSON-lines files and holds
// the raw descriptor tables computed from them.
//
// A record is one JSON object per line:
//
//	{"mol_id": "qm9_000001", "smiles": "CC(=O)O", "gap": 0.2756}
//
// Field names are configurable through LoadOptions and may be gjson paths such as
// "props.gap".
package dataset
