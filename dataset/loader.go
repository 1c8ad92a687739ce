package dataset

import (
	"bufio"
	"context"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/YuminosukeSato/moldesc/pkg/errors"
	"github.com/YuminosukeSato/moldesc/pkg/log"
)

const maxLineBytes = 4 << 20

// Record is one molecule: an identifier, its structure string and target values.
// Records are not modified after loading.
type Record struct {
	ID        string
	Structure string
	Targets   map[string]float64
	// Line is the 1-based line number in the source file.
	Line int
}

// LoadOptions names the JSON fields that hold each part of a record.
type LoadOptions struct {
	StructureField string
	IDField        string
	TargetFields   []string
}

// DefaultLoadOptions returns the QM9-style field names.
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{
		StructureField: "smiles",
		IDField:        "mol_id",
		TargetFields:   []string{"gap"},
	}
}

func (o LoadOptions) withDefaults() LoadOptions {
	def := DefaultLoadOptions()
	if o.StructureField == "" {
		o.StructureField = def.StructureField
	}
	if o.IDField == "" {
		o.IDField = def.IDField
	}
	if len(o.TargetFields) == 0 {
		o.TargetFields = def.TargetFields
	}
	return o
}

// Dataset is an ordered collection of records.
type Dataset struct {
	Source  string
	Records []Record
}

// Len returns the number of records.
func (d *Dataset) Len() int { return len(d.Records) }

// Load reads a JSON-lines file that is plain, gzip, zstd or bzip2 compressed.
// A malformed line aborts the load with a *errors.FormatError naming the line.
func Load(ctx context.Context, path string, opts LoadOptions) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open dataset %s", path)
	}
	defer f.Close()

	r, kind, closeFn, err := Decompress(f)
	if err != nil {
		return nil, errors.NewFormatError(path, 0, err.Error())
	}
	defer closeFn()

	logger := log.GetLoggerWithName("dataset")
	logger.Debug("opening dataset", log.PathKey, path, "compression", string(kind))

	ds, err := read(ctx, r, path, opts)
	if err != nil {
		return nil, err
	}
	logger.Info("dataset loaded",
		log.OperationKey, log.OperationLoad,
		log.PathKey, path,
		log.SamplesKey, ds.Len(),
	)
	return ds, nil
}

// LoadReader is Load for an already opened stream. source is used in error messages.
func LoadReader(ctx context.Context, r io.Reader, source string, opts LoadOptions) (*Dataset, error) {
	dr, _, closeFn, err := Decompress(r)
	if err != nil {
		return nil, errors.NewFormatError(source, 0, err.Error())
	}
	defer closeFn()
	return read(ctx, dr, source, opts)
}

func read(ctx context.Context, r io.Reader, source string, opts LoadOptions) (*Dataset, error) {
	opts = opts.withDefaults()

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLineBytes)

	ds := &Dataset{Source: source}
	lineNo := 0
	for sc.Scan() {
		lineNo++
		if lineNo%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		rec, err := parseRecord(line, lineNo, opts)
		if err != nil {
			return nil, errors.NewFormatError(source, lineNo, err.Error())
		}
		ds.Records = append(ds.Records, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.NewFormatError(source, lineNo+1, err.Error())
	}
	if len(ds.Records) == 0 {
		return nil, errors.Wrapf(errors.ErrEmptyData, "dataset %s has no records", source)
	}
	return ds, nil
}

func parseRecord(line string, lineNo int, opts LoadOptions) (Record, error) {
	if !gjson.Valid(line) {
		return Record{}, errors.New("line is not valid JSON")
	}
	doc := gjson.Parse(line)
	if !doc.IsObject() {
		return Record{}, errors.New("line is not a JSON object")
	}

	structure := doc.Get(opts.StructureField)
	if !structure.Exists() || structure.Type != gjson.String || structure.Str == "" {
		return Record{}, errors.Newf("missing structure field %q", opts.StructureField)
	}

	rec := Record{
		Structure: structure.Str,
		Targets:   make(map[string]float64, len(opts.TargetFields)),
		Line:      lineNo,
	}

	if id := doc.Get(opts.IDField); id.Exists() && id.String() != "" {
		rec.ID = id.String()
	} else {
		rec.ID = strconv.Itoa(lineNo - 1)
	}

	for _, field := range opts.TargetFields {
		v := doc.Get(field)
		switch {
		case !v.Exists() || v.Type == gjson.Null:
			return Record{}, errors.Newf("missing target field %q", field)
		case v.Type == gjson.Number:
			rec.Targets[field] = v.Num
		case v.Type == gjson.String:
			f, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64)
			if err != nil {
				return Record{}, errors.Newf("target field %q is not numeric: %q", field, v.Str)
			}
			rec.Targets[field] = f
		default:
			return Record{}, errors.Newf("target field %q is not numeric", field)
		}
	}
	return rec, nil
}
