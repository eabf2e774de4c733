package main

import (
	"fmt"
	"io"
	"slices"

	"github.com/dottorrent/dottorrent/cmd/dottorrent/torrent"
	"github.com/dustin/go-humanize"
	"github.com/go-viper/mapstructure/v2"
	"go.uber.org/zap"
)

type report struct {
	Path      string `mapstructure:"path"`
	Name      string `mapstructure:"name"`
	Files     int    `mapstructure:"files"`
	Pieces    int    `mapstructure:"pieces"`
	Size      string `mapstructure:"size"`
	HumanSize string `mapstructure:"human_size"`
	SHA1      string `mapstructure:"sha1"`
	MD5       string `mapstructure:"md5"`
}

// reportLines is the layout of one info block; keys name report fields.
var reportLines = []struct {
	format string
	keys   []string
}{
	{"\tName: %v\n", []string{"name"}},
	{"\tNumber of files: %v\n", []string{"files"}},
	{"\tSize: %v B (%v)\n", []string{"size", "human_size"}},
	{"\tMD5: %v\n", []string{"md5"}},
	{"\tSHA1: %v\n", []string{"sha1"}},
}

func newReport(path string, t *torrent.Torrent) report {
	size := t.TotalSize()
	return report{
		Path:      path,
		Name:      t.Info.Name,
		Files:     t.FilesCount(),
		Pieces:    t.PiecesCount(),
		Size:      size.String(),
		HumanSize: humanize.BigIBytes(size.Big()),
		SHA1:      t.InfoHashSHA1(),
		MD5:       t.InfoHashMD5(),
	}
}

// flatten turns the report into a map keyed by its mapstructure tags. Both
// the printed block and the log line are rendered from it.
func (r report) flatten() (map[string]any, error) {
	values := make(map[string]any)
	if err := mapstructure.Decode(r, &values); err != nil {
		return nil, fmt.Errorf("failed to flatten report: %w", err)
	}
	return values, nil
}

func renderReport(w io.Writer, values map[string]any) {
	for _, line := range reportLines {
		args := make([]any, 0, len(line.keys))
		for _, key := range line.keys {
			args = append(args, values[key])
		}
		fmt.Fprintf(w, line.format, args...)
	}
}

// reportFields converts the flattened report into zap fields sorted by key.
func reportFields(values map[string]any) []zap.Field {
	fields := make([]zap.Field, 0, len(values))
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	for _, key := range keys {
		fields = append(fields, zap.Any(key, values[key]))
	}
	return fields
}
