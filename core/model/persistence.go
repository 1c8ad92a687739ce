package model

import (
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/YuminosukeSato/moldesc/pkg/errors"
)

// SaveModel はモデルを JSON としてファイルに保存する。
// ファイル名が ".gz" で終わる場合は gzip 圧縮する。
//
// 使用例:
//
//	err := model.SaveModel(pipe.State(), "model.json.gz")
func SaveModel(model interface{}, filename string) (err error) {
	file, err := os.Create(filename)
	if err != nil {
		return errors.Wrapf(err, "create %s", filename)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = errors.Wrapf(cerr, "close %s", filename)
		}
	}()

	if !strings.HasSuffix(filename, ".gz") {
		return SaveModelToWriter(model, file)
	}
	zw := gzip.NewWriter(file)
	if err := SaveModelToWriter(model, zw); err != nil {
		return err
	}
	return errors.Wrap(zw.Close(), "flush gzip stream")
}

// LoadModel はファイルからモデルを読み込む。".gz" は gzip として展開する。
func LoadModel(model interface{}, filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return errors.Wrapf(err, "open %s", filename)
	}
	defer file.Close()

	var r io.Reader = file
	if strings.HasSuffix(filename, ".gz") {
		zr, err := gzip.NewReader(file)
		if err != nil {
			return errors.Wrapf(err, "open gzip stream %s", filename)
		}
		defer zr.Close()
		r = zr
	}
	return LoadModelFromReader(model, r)
}

// SaveModelToWriter はモデルを io.Writer に JSON で書き出す
func SaveModelToWriter(model interface{}, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(model); err != nil {
		return errors.Wrap(err, "encode model")
	}
	return nil
}

// LoadModelFromReader は io.Reader から JSON のモデルを読み込む
func LoadModelFromReader(model interface{}, r io.Reader) error {
	if err := json.NewDecoder(r).Decode(model); err != nil {
		return errors.Wrap(err, "decode model")
	}
	return nil
}
